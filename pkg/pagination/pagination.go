// Package pagination reads limit/offset windows from list requests and
// wraps list results in a common response envelope.
package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Window bounds shared by every list endpoint.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is the window a list request asked for, already clamped to
// sane bounds.
type Params struct {
	Limit  int
	Offset int
}

// FromContext reads the limit and offset query parameters. Absent or
// malformed values fall back to the defaults, and the limit is capped
// at MaxLimit so a single request cannot drag in the whole table.
func FromContext(c echo.Context) Params {
	limit := queryInt(c, "limit")
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Params{
		Limit:  min(limit, MaxLimit),
		Offset: max(queryInt(c, "offset"), 0),
	}
}

// queryInt parses an integer query parameter, returning 0 when the
// value is absent or not a number.
func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}

// Response is the envelope for paginated list bodies.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
}

// NewResponse wraps one page of results. HasMore reports whether rows
// exist past the end of this window.
func NewResponse(data interface{}, total, limit, offset int) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}
