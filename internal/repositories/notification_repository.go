package repositories

import (
	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetRecentByRecipient(recipientID uint, limit int) ([]models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAllAsRead(recipientID uint) error
	DeleteByRelatedID(relatedID string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// GetRecentByRecipient returns the newest notifications for a user,
// newest first, capped at limit.
func (r *postgresNotificationRepository) GetRecentByRecipient(recipientID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, err
}

// MarkAllAsRead flips every unread notification for the user in a single
// update statement.
func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Update("is_read", true).Error
}

// DeleteByRelatedID removes all notifications referencing the given
// entity. Used by the question deletion cascade.
func (r *postgresNotificationRepository) DeleteByRelatedID(relatedID string) error {
	return r.db.Where("related_id = ?", relatedID).Delete(&models.Notification{}).Error
}
