package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
)

// RequirePanel gates a route on the caller's role being allowed the given
// dashboard panel, per the role→panel table in the domain.
func RequirePanel(panel domain.Panel) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleStr, _ := c.Get("role").(string)
			role, err := domain.ParseRole(roleStr)
			if err != nil || !role.Allowed(panel) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
