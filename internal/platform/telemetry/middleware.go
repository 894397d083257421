package telemetry

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// TracingMiddleware records a span per request, subject to the sample
// rate. Spans carry the matched route template rather than the raw URL
// so high-cardinality path parameters do not fan out span names.
func (tp *TelemetryProvider) TracingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if tp.cfg.TracingDisabled || tp.stopped.Load() || !tp.sampled() {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			end := time.Now()

			req := c.Request()
			route, status := routeAndStatus(c, err)
			span := &Span{
				TraceID:  randHex(16),
				SpanID:   randHex(8),
				Name:     req.Method + " " + route,
				Start:    start,
				End:      end,
				Duration: end.Sub(start),
				Status:   StatusOK,
				Attributes: map[string]string{
					"http.method":      req.Method,
					"http.route":       route,
					"http.status_code": strconv.Itoa(status),
					"http.url":         req.URL.String(),
				},
			}
			if status >= http.StatusInternalServerError {
				span.Status = StatusError
			}
			if key := c.Param("key"); key != "" {
				span.Attributes["formula.key"] = key
			}
			tp.spans.add(span)
			return err
		}
	}
}

// MetricsMiddleware measures in-flight requests, latency per route and
// request and response body sizes.
func (tp *TelemetryProvider) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if tp.cfg.MetricsDisabled || tp.stopped.Load() {
				return next(c)
			}

			tp.active.Add(1)
			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)
			tp.active.Add(-1)

			route, status := routeAndStatus(c, err)
			tp.observeRequest(requestSample{
				method:   c.Request().Method,
				route:    route,
				status:   status,
				elapsed:  elapsed,
				received: c.Request().ContentLength,
				sent:     c.Response().Size,
			})
			return err
		}
	}
}

// routeAndStatus resolves the route template and the status code the
// client will see. An error bubbling up from the chain has not reached
// the error handler yet, so its status is derived here.
func routeAndStatus(c echo.Context, err error) (string, int) {
	route := c.Path()
	if route == "" {
		route = c.Request().URL.Path
	}
	status := c.Response().Status
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
		} else {
			status = http.StatusInternalServerError
		}
	}
	return route, status
}
