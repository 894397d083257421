package middleware

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

var errBodyTooLarge = echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")

// BodyLimit caps the request body size. Evaluation requests and profile
// payloads are small JSON documents, so the cap mainly guards against
// malformed or abusive uploads.
//
// The limit is a human-readable string: "1M", "512K", "2G". A bare
// number means bytes. Oversized requests get a 413.
func BodyLimit(limit string) echo.MiddlewareFunc {
	maxBytes := parseLimit(limit)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.Body == http.NoBody {
				return next(c)
			}

			// A declared length over the limit is rejected before
			// anything is read.
			if req.ContentLength > maxBytes {
				return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{
					"error": fmt.Sprintf("request body exceeds maximum allowed size of %d bytes", maxBytes),
				})
			}

			// Otherwise the cap is enforced while the handler reads, which
			// covers chunked requests and lying Content-Length headers.
			req.Body = &cappedBody{ReadCloser: req.Body, remaining: maxBytes}
			return next(c)
		}
	}
}

// cappedBody fails reads past the configured limit.
type cappedBody struct {
	io.ReadCloser
	remaining int64
	tripped   bool
}

func (b *cappedBody) Read(p []byte) (int, error) {
	if b.tripped {
		return 0, errBodyTooLarge
	}

	// Read at most one byte past the limit so overflow is detectable.
	if allowed := b.remaining + 1; int64(len(p)) > allowed {
		p = p[:allowed]
	}

	n, err := b.ReadCloser.Read(p)
	b.remaining -= int64(n)
	if b.remaining < 0 {
		b.tripped = true
		return 0, errBodyTooLarge
	}
	return n, err
}

// parseLimit converts a human-readable size ("1M", "512K", "2G") to
// bytes. Bare numbers are bytes. Anything unparseable falls back to 1MB
// rather than failing startup over a config typo.
func parseLimit(s string) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 1 << 20
	}

	multiplier := int64(1)
	for _, suffix := range []struct {
		text  string
		bytes int64
	}{
		{"GB", 1 << 30}, {"G", 1 << 30},
		{"MB", 1 << 20}, {"M", 1 << 20},
		{"KB", 1 << 10}, {"K", 1 << 10},
	} {
		if rest, ok := strings.CutSuffix(s, suffix.text); ok {
			s, multiplier = rest, suffix.bytes
			break
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 1 << 20
	}
	return n * multiplier
}
