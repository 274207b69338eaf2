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

// QuestionListOptions controls sorting and filtering of question listings
type QuestionListOptions struct {
	SortBy         string // "createdAt" (default) or "views"
	UnansweredOnly bool
}

// QuestionRepository defines the interface for question data operations
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, question *models.Question) error
	GetQuestionByID(ctx context.Context, id string) (*models.Question, error)
	ListQuestions(ctx context.Context, opts QuestionListOptions) ([]models.Question, error)
	UpdateQuestion(ctx context.Context, id string, question *models.Question) error
	DeleteQuestion(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) error
}

// MongoQuestionRepository implements QuestionRepository for MongoDB
type MongoQuestionRepository struct {
	collection *mongo.Collection
}

// NewMongoQuestionRepository creates a new MongoQuestionRepository
func NewMongoQuestionRepository(db *mongo.Database) *MongoQuestionRepository {
	return &MongoQuestionRepository{collection: db.Collection("questions")}
}

// CreateQuestion creates a new question in MongoDB
func (r *MongoQuestionRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	question.ID = primitive.NewObjectID()
	question.CreatedAt = time.Now()
	question.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, question)
	return err
}

// GetQuestionByID retrieves a question by ID from MongoDB
func (r *MongoQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid question ID format: %w", ErrNotFound)
	}

	var question models.Question
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// ListQuestions retrieves questions from MongoDB, newest first by default
func (r *MongoQuestionRepository) ListQuestions(ctx context.Context, opts QuestionListOptions) ([]models.Question, error) {
	filter := bson.M{}
	if opts.UnansweredOnly {
		filter["status"] = models.QuestionStatusPending
	}

	sort := bson.D{{Key: "created_at", Value: -1}}
	if opts.SortBy == "views" {
		sort = bson.D{{Key: "views", Value: -1}}
	}

	var questions []models.Question
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// UpdateQuestion updates the mutable fields of an existing question
func (r *MongoQuestionRepository) UpdateQuestion(ctx context.Context, id string, question *models.Question) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid question ID format: %w", ErrNotFound)
	}

	question.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":       question.Title,
			"description": question.Description,
			"tags":        question.Tags,
			"updated_at":  question.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteQuestion deletes a question by ID from MongoDB
func (r *MongoQuestionRepository) DeleteQuestion(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid question ID format: %w", ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews increments the view counter of a question
func (r *MongoQuestionRepository) IncrementViews(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid question ID format: %w", ErrNotFound)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

// SetStatus updates the status of a question
func (r *MongoQuestionRepository) SetStatus(ctx context.Context, id, status string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid question ID format: %w", ErrNotFound)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"status": status}})
	return err
}
