package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanbong/field-booking/internal/model"
)

// RequireRole rejects requests whose authenticated role is not in the
// allowed set.  It must run after JWTAuth, which stores the role claim
// under "role".
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"message": "forbidden",
				})
			}
			return next(c)
		}
	}
}
