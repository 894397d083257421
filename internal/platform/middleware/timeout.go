package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestTimeout puts a deadline on the request context and answers 504
// when the handler overruns it. Handlers observe the cancellation
// through the usual context plumbing, so database queries stop doing
// work for a response nobody will read.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			// The handler runs on its own goroutine so the select below
			// can give up on it at the deadline.
			done := make(chan error, 1)
			go func() { done <- next(c) }()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return timeoutResponse(c)
				}
				// Client went away; nothing sensible left to write.
				return ctx.Err()
			}
		}
	}
}

// timeoutResponse writes the 504 unless the handler already committed
// output, in which case the connection is beyond saving.
func timeoutResponse(c echo.Context) error {
	if c.Response().Committed {
		return nil
	}
	return c.JSON(http.StatusGatewayTimeout, map[string]string{
		"error": "request processing exceeded the allowed time limit",
	})
}
