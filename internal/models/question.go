package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question status values
const (
	QuestionStatusPending  = "pending"
	QuestionStatusAnswered = "answered"
)

// Question represents a forum question stored in MongoDB
type Question struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      uint               `json:"user_id" bson:"user_id"` // ID of the user who asked the question
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"` // rich text, may embed uploaded image URLs
	Tags        []string           `json:"tags" bson:"tags"`
	Status      string             `json:"status" bson:"status"`
	Views       int                `json:"views" bson:"views"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// AskQuestionRequest defines the request body for posting a new question
type AskQuestionRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"required,min=1"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=30"`
}

// UpdateQuestionRequest defines the request body for updating an existing question
type UpdateQuestionRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description string   `json:"description,omitempty" validate:"omitempty,min=1"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=30"`
}
