package auth

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
)

// adminRole short-circuits every role check.
const adminRole = "admin"

// RequireRole returns middleware that rejects callers holding none of
// the listed roles with 403 Forbidden. Admins pass every check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			held := RolesFromContext(c.Request().Context())
			if slices.Contains(held, adminRole) || holdsAnyOf(held, roles) {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusForbidden,
				"requires one of the roles: "+strings.Join(roles, ", "))
		}
	}
}

func holdsAnyOf(held, wanted []string) bool {
	for _, role := range wanted {
		if slices.Contains(held, role) {
			return true
		}
	}
	return false
}
