package models

import "time"

// Notification types
const (
	NotificationTypeAnswer  = "answer"
	NotificationTypeComment = "comment"
	NotificationTypeMention = "mention"
)

// RelatedKind values discriminate what RelatedID points at.
const (
	RelatedKindQuestion = "question"
	RelatedKindAnswer   = "answer"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	Type        string    `json:"type" gorm:"size:20;index"`
	Content     string    `json:"content"`
	RelatedID   string    `json:"related_id" gorm:"index"` // question or answer ObjectID hex, see RelatedKind
	RelatedKind string    `json:"related_kind" gorm:"size:10"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
