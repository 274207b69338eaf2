package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vote types
const (
	VoteUpvote   = "upvote"
	VoteDownvote = "downvote"
)

// VoteRecord is a single user's vote embedded in an answer. At most one
// record exists per (answer, user) pair.
type VoteRecord struct {
	UserID uint   `json:"user_id" bson:"user_id"`
	Type   string `json:"type" bson:"type"`
}

// Answer represents an answer to a question stored in MongoDB
type Answer struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	QuestionID primitive.ObjectID `json:"question_id" bson:"question_id"`
	UserID     uint               `json:"user_id" bson:"user_id"` // ID of the user who wrote the answer
	Content    string             `json:"content" bson:"content"`
	Accepted   bool               `json:"accepted" bson:"accepted"`
	Upvotes    int                `json:"upvotes" bson:"upvotes"`
	Downvotes  int                `json:"downvotes" bson:"downvotes"`
	Votes      []VoteRecord       `json:"votes" bson:"votes"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// VoteBy returns the vote record for the given user, or nil if the user
// has not voted on this answer.
func (a *Answer) VoteBy(userID uint) *VoteRecord {
	for i := range a.Votes {
		if a.Votes[i].UserID == userID {
			return &a.Votes[i]
		}
	}
	return nil
}

// SubmitAnswerRequest defines the request body for answering a question
type SubmitAnswerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Content    string `json:"content" validate:"required,min=1"`
}

// VoteRequest defines the request body for voting on an answer
type VoteRequest struct {
	AnswerID string `json:"answerId" validate:"required"`
	VoteType string `json:"voteType" validate:"required,oneof=upvote downvote"`
}

// AcceptAnswerRequest defines the request body for accepting an answer
type AcceptAnswerRequest struct {
	AnswerID string `json:"answerId" validate:"required"`
}
