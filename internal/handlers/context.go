package handlers

import "github.com/labstack/echo/v4"

// userIDFromContext returns the authenticated user's ID stored by the
// JWT middleware, or 0 when the request is unauthenticated.
func userIDFromContext(c echo.Context) uint {
	id, _ := c.Get("userID").(uint)
	return id
}
