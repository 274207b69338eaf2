package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AnswerRepository defines the interface for answer data operations.
//
// The vote operations are conditional single-document updates: their
// filters re-check the vote list state so that two racing requests from
// the same voter cannot both commit. A request whose precondition no
// longer holds gets ErrDuplicateVote (add) or ErrVoteConflict (remove).
type AnswerRepository interface {
	CreateAnswer(ctx context.Context, answer *models.Answer) error
	GetAnswerByID(ctx context.Context, id string) (*models.Answer, error)
	GetAnswersByQuestionID(ctx context.Context, questionID string) ([]models.Answer, error)
	RemoveVote(ctx context.Context, answerID string, voterID uint, voteType string) error
	AddVote(ctx context.Context, answerID string, voterID uint, voteType string) error
	ClearAccepted(ctx context.Context, questionID primitive.ObjectID) error
	SetAccepted(ctx context.Context, answerID string, accepted bool) error
}

// MongoAnswerRepository implements AnswerRepository for MongoDB
type MongoAnswerRepository struct {
	collection *mongo.Collection
}

// NewMongoAnswerRepository creates a new MongoAnswerRepository
func NewMongoAnswerRepository(db *mongo.Database) *MongoAnswerRepository {
	return &MongoAnswerRepository{collection: db.Collection("answers")}
}

func counterField(voteType string) string {
	if voteType == models.VoteUpvote {
		return "upvotes"
	}
	return "downvotes"
}

// CreateAnswer creates a new answer in MongoDB
func (r *MongoAnswerRepository) CreateAnswer(ctx context.Context, answer *models.Answer) error {
	answer.ID = primitive.NewObjectID()
	if answer.Votes == nil {
		answer.Votes = []models.VoteRecord{}
	}
	answer.CreatedAt = time.Now()
	answer.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, answer)
	return err
}

// GetAnswerByID retrieves an answer by ID from MongoDB
func (r *MongoAnswerRepository) GetAnswerByID(ctx context.Context, id string) (*models.Answer, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid answer ID format: %w", ErrNotFound)
	}

	var answer models.Answer
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&answer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &answer, nil
}

// GetAnswersByQuestionID retrieves all answers for a question, oldest first
func (r *MongoAnswerRepository) GetAnswersByQuestionID(ctx context.Context, questionID string) ([]models.Answer, error) {
	objID, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return nil, fmt.Errorf("invalid question ID format: %w", ErrNotFound)
	}

	var answers []models.Answer
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"question_id": objID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// RemoveVote removes the voter's existing vote of the given type and
// decrements the matching counter. The $elemMatch filter makes the pull
// conditional on the record still being present.
func (r *MongoAnswerRepository) RemoveVote(ctx context.Context, answerID string, voterID uint, voteType string) error {
	objID, err := primitive.ObjectIDFromHex(answerID)
	if err != nil {
		return fmt.Errorf("invalid answer ID format: %w", ErrNotFound)
	}

	filter := bson.M{
		"_id":   objID,
		"votes": bson.M{"$elemMatch": bson.M{"user_id": voterID, "type": voteType}},
	}
	update := bson.M{
		"$pull": bson.M{"votes": bson.M{"user_id": voterID}},
		"$inc":  bson.M{counterField(voteType): -1},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrVoteConflict
	}
	return nil
}

// AddVote appends a vote record and increments the matching counter. The
// filter rejects the write if any record for the voter already exists,
// so a duplicate cannot slip in between a read and this update.
func (r *MongoAnswerRepository) AddVote(ctx context.Context, answerID string, voterID uint, voteType string) error {
	objID, err := primitive.ObjectIDFromHex(answerID)
	if err != nil {
		return fmt.Errorf("invalid answer ID format: %w", ErrNotFound)
	}

	filter := bson.M{
		"_id":           objID,
		"votes.user_id": bson.M{"$ne": voterID},
	}
	update := bson.M{
		"$push": bson.M{"votes": models.VoteRecord{UserID: voterID, Type: voteType}},
		"$inc":  bson.M{counterField(voteType): 1},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrDuplicateVote
	}
	return nil
}

// ClearAccepted clears the accepted flag on every accepted answer of the
// question. Idempotent when no accepted answer exists.
func (r *MongoAnswerRepository) ClearAccepted(ctx context.Context, questionID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"question_id": questionID, "accepted": true},
		bson.M{"$set": bson.M{"accepted": false}},
	)
	return err
}

// SetAccepted sets the accepted flag on an answer
func (r *MongoAnswerRepository) SetAccepted(ctx context.Context, answerID string, accepted bool) error {
	objID, err := primitive.ObjectIDFromHex(answerID)
	if err != nil {
		return fmt.Errorf("invalid answer ID format: %w", ErrNotFound)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"accepted": accepted}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
