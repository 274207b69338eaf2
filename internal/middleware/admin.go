package middleware

import (
	"net/http"

	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/models"
	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// AdminOnly restricts a route group to users with the admin role. It
// must run after JWTAuthMiddleware.
func AdminOnly(userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get("userID").(uint)
			if userID == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			user, err := userRepo.GetUserByID(userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not found")
			}
			if user.Role != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden: admin access required")
			}

			c.Set("user", user)
			return next(c)
		}
	}
}
