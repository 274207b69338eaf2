package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/models"
	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/repositories"
	"github.com/Tejas2005SG/odoo-hackathon/backend/pkg/storage"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// QuestionHandler handles HTTP requests related to questions
type QuestionHandler struct {
	questionRepository     repositories.QuestionRepository
	answerRepository       repositories.AnswerRepository
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
	images                 *storage.ImageStore // nil when image storage is not configured
}

// NewQuestionHandler creates a new QuestionHandler
func NewQuestionHandler(
	questionRepo repositories.QuestionRepository,
	answerRepo repositories.AnswerRepository,
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	images *storage.ImageStore,
) *QuestionHandler {
	return &QuestionHandler{
		questionRepository:     questionRepo,
		answerRepository:       answerRepo,
		notificationRepository: notifRepo,
		userRepository:         userRepo,
		images:                 images,
	}
}

// RegisterPublicRoutes registers question routes that do not require authentication
func (h *QuestionHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/questions", h.ListQuestions)
	g.GET("/questions/:id", h.GetQuestion)
	g.GET("/questions/:id/answers", h.GetAnswers)
}

// RegisterQuestionRoutes registers question routes that require authentication
func (h *QuestionHandler) RegisterQuestionRoutes(g *echo.Group) {
	g.POST("/questions/ask", h.AskQuestion)
	g.PUT("/questions/update/:id", h.UpdateQuestion)
	g.DELETE("/questions/delete/:id", h.DeleteQuestion)
	g.POST("/questions/upload-image", h.UploadImage)
}

// ListQuestions returns questions, optionally filtered to unanswered ones
// and sorted by creation time (default) or views.
func (h *QuestionHandler) ListQuestions(c echo.Context) error {
	opts := repositories.QuestionListOptions{
		SortBy:         c.QueryParam("sort"),
		UnansweredOnly: c.QueryParam("unanswered") == "true",
	}

	questions, err := h.questionRepository.ListQuestions(c.Request().Context(), opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, questions)
}

// GetQuestion returns a single question and bumps its view counter
func (h *QuestionHandler) GetQuestion(c echo.Context) error {
	id := c.Param("id")

	question, err := h.questionRepository.GetQuestionByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Question not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go func() {
		if err := h.questionRepository.IncrementViews(context.Background(), id); err != nil {
			log.Printf("Failed to increment views for question %s: %v", id, err)
		}
	}()

	return c.JSON(http.StatusOK, question)
}

// GetAnswers returns all answers for a question
func (h *QuestionHandler) GetAnswers(c echo.Context) error {
	id := c.Param("id")

	if _, err := h.questionRepository.GetQuestionByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Question not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	answers, err := h.answerRepository.GetAnswersByQuestionID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, answers)
}

// AskQuestion creates a new question owned by the authenticated user
func (h *QuestionHandler) AskQuestion(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.AskQuestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	question := &models.Question{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Status:      models.QuestionStatusPending,
		Views:       0,
	}
	if question.Tags == nil {
		question.Tags = []string{}
	}

	if err := h.questionRepository.CreateQuestion(c.Request().Context(), question); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Question submitted successfully",
		"question": question,
	})
}

// UpdateQuestion updates a question. Only the owner may update it. Stored
// images dropped from the description are removed from the object store.
func (h *QuestionHandler) UpdateQuestion(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")

	var req models.UpdateQuestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	question, err := h.questionRepository.GetQuestionByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Question not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if question.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden: You can only update your own questions")
	}

	if h.images != nil && req.Description != "" {
		oldKeys := h.images.ExtractObjectKeys(question.Description)
		newKeys := h.images.ExtractObjectKeys(req.Description)
		h.removeImages(c.Request().Context(), diffKeys(oldKeys, newKeys))
	}

	if req.Title != "" {
		question.Title = req.Title
	}
	if req.Description != "" {
		question.Description = req.Description
	}
	if req.Tags != nil {
		question.Tags = req.Tags
	}

	if err := h.questionRepository.UpdateQuestion(c.Request().Context(), id, question); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Question updated",
		"question": question,
	})
}

// DeleteQuestion deletes a question owned by the authenticated user,
// removes its stored images and cascades deletion of the notifications
// that reference it.
func (h *QuestionHandler) DeleteQuestion(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	id := c.Param("id")

	question, err := h.questionRepository.GetQuestionByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Question not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if question.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden: You can only delete your own questions")
	}

	if h.images != nil {
		h.removeImages(c.Request().Context(), h.images.ExtractObjectKeys(question.Description))
	}

	if err := h.questionRepository.DeleteQuestion(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.notificationRepository.DeleteByRelatedID(id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Question deleted successfully"})
}

// UploadImage stores a base64 data-URL image and returns its public URL
// for embedding in a question description.
func (h *QuestionHandler) UploadImage(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if h.images == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Image storage is not configured")
	}

	var req struct {
		Image string `json:"image" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.Image == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "No image provided")
	}
	if !strings.HasPrefix(req.Image, "data:image/") {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid image format. Expected base64-encoded image")
	}

	url, err := h.images.UploadDataURL(c.Request().Context(), req.Image)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"secure_url": url})
}

func (h *QuestionHandler) removeImages(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := h.images.Remove(ctx, key); err != nil {
			log.Printf("Failed to delete stored image %s: %v", key, err)
		} else {
			log.Printf("Deleted stored image %s", key)
		}
	}
}

// diffKeys returns the keys present in old but absent from new
func diffKeys(oldKeys, newKeys []string) []string {
	kept := make(map[string]bool, len(newKeys))
	for _, k := range newKeys {
		kept[k] = true
	}
	var removed []string
	for _, k := range oldKeys {
		if !kept[k] {
			removed = append(removed, k)
		}
	}
	return removed
}
