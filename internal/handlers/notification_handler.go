package handlers

import (
	"net/http"

	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// recentNotificationLimit caps how many notifications a listing returns.
const recentNotificationLimit = 20

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.POST("/notifications/read", h.MarkAllAsRead)
}

// GetNotifications returns the user's most recent notifications, newest
// first, plus the unread count.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifications, err := h.notificationRepository.GetRecentByRecipient(userID, recentNotificationLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	unreadCount, err := h.notificationRepository.GetUnreadCount(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"notifications": notifications,
		"unreadCount":   unreadCount,
	})
}

// MarkAllAsRead marks every unread notification for the user as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAllAsRead(userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notifications marked as read"})
}
