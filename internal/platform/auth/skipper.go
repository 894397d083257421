package auth

import "github.com/labstack/echo/v4"

// Endpoints that must answer without credentials: liveness and
// readiness probes would fail closed behind auth, and the metrics
// scraper never carries a token.
var publicPaths = map[string]struct{}{
	"/health":    {},
	"/health/db": {},
	"/metrics":   {},
}

// AuthSkipper is the Skipper wired into JWTMiddleware and
// DevAuthMiddleware. It matches on the routed path, so parameterized
// routes cannot collide with the fixed public set.
func AuthSkipper(c echo.Context) bool {
	return IsPublicPath(c.Path())
}

// IsPublicPath reports whether path belongs to the unauthenticated
// infrastructure surface.
func IsPublicPath(path string) bool {
	_, ok := publicPaths[path]
	return ok
}
