package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/mentions"
	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/models"
	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// AnswerHandler handles answer submission, voting and acceptance
type AnswerHandler struct {
	answerRepository       repositories.AnswerRepository
	questionRepository     repositories.QuestionRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewAnswerHandler creates a new AnswerHandler
func NewAnswerHandler(
	answerRepo repositories.AnswerRepository,
	questionRepo repositories.QuestionRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *AnswerHandler {
	return &AnswerHandler{
		answerRepository:       answerRepo,
		questionRepository:     questionRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterAnswerRoutes registers answer-related routes
func (h *AnswerHandler) RegisterAnswerRoutes(g *echo.Group) {
	g.POST("/answer", h.SubmitAnswer)
	g.POST("/vote", h.Vote)
	g.POST("/answers/accept", h.AcceptAnswer)
}

// SubmitAnswer persists a new answer and notifies the question owner and
// any mentioned users. The answer write is the transaction boundary:
// notification failures are logged and never fail the request.
func (h *AnswerHandler) SubmitAnswer(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SubmitAnswerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Question ID and answer content are required")
	}

	question, err := h.questionRepository.GetQuestionByID(c.Request().Context(), req.QuestionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Question not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	answer := &models.Answer{
		QuestionID: question.ID,
		UserID:     userID,
		Content:    req.Content,
	}
	if err := h.answerRepository.CreateAnswer(c.Request().Context(), answer); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Owner notification first, then mention notifications.
	if question.UserID != userID {
		h.notify(&models.Notification{
			RecipientID: question.UserID,
			Type:        models.NotificationTypeAnswer,
			Content:     fmt.Sprintf("Your question %q has a new answer", question.Title),
			RelatedID:   question.ID.Hex(),
			RelatedKind: models.RelatedKindQuestion,
		})
	}
	h.notifyMentions(question, answer, userID)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Answer submitted successfully",
		"answer":  answer,
	})
}

// notifyMentions resolves @username candidates in the answer content and
// notifies each matching user except the answer's author.
func (h *AnswerHandler) notifyMentions(question *models.Question, answer *models.Answer, authorID uint) {
	candidates := mentions.Extract(answer.Content)
	if len(candidates) == 0 {
		return
	}

	users, err := h.userRepository.FindByUsernames(candidates)
	if err != nil {
		log.Printf("Failed to resolve mentioned users for answer %s: %v", answer.ID.Hex(), err)
		return
	}

	for _, user := range users {
		if user.ID == authorID {
			continue
		}
		h.notify(&models.Notification{
			RecipientID: user.ID,
			Type:        models.NotificationTypeMention,
			Content:     fmt.Sprintf("You were mentioned in an answer to %q", question.Title),
			RelatedID:   answer.ID.Hex(),
			RelatedKind: models.RelatedKindAnswer,
		})
	}
}

func (h *AnswerHandler) notify(n *models.Notification) {
	if err := h.notificationRepository.CreateNotification(n); err != nil {
		log.Printf("Failed to create %s notification for user %d: %v", n.Type, n.RecipientID, err)
	}
}

// Vote applies an upvote or downvote to an answer. A repeated vote of
// the same type fails; the opposite type switches the vote. The
// repository's conditional updates keep the one-record-per-voter
// invariant even under concurrent requests.
func (h *AnswerHandler) Vote(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.VoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Valid answer ID and vote type are required")
	}

	ctx := c.Request().Context()
	answer, err := h.answerRepository.GetAnswerByID(ctx, req.AnswerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Answer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if existing := answer.VoteBy(userID); existing != nil {
		if existing.Type == req.VoteType {
			if req.VoteType == models.VoteUpvote {
				return echo.NewHTTPError(http.StatusBadRequest, "You have already upvoted this answer")
			}
			return echo.NewHTTPError(http.StatusBadRequest, "You have already downvoted this answer")
		}
		// Switch: remove the opposite vote before adding the new one.
		if err := h.answerRepository.RemoveVote(ctx, req.AnswerID, userID, existing.Type); err != nil {
			if errors.Is(err, repositories.ErrVoteConflict) {
				return echo.NewHTTPError(http.StatusBadRequest, "Vote changed, please retry")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if err := h.answerRepository.AddVote(ctx, req.AnswerID, userID, req.VoteType); err != nil {
		if errors.Is(err, repositories.ErrDuplicateVote) {
			return echo.NewHTTPError(http.StatusBadRequest, "You have already voted on this answer")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	updated, err := h.answerRepository.GetAnswerByID(ctx, req.AnswerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Vote updated",
		"answer":  updated,
	})
}

// AcceptAnswer marks an answer as the accepted one for its question.
// Only the question owner may accept; any previously accepted answer is
// cleared first so at most one answer per question is ever accepted.
func (h *AnswerHandler) AcceptAnswer(c echo.Context) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.AcceptAnswerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Answer ID is required")
	}

	ctx := c.Request().Context()
	answer, err := h.answerRepository.GetAnswerByID(ctx, req.AnswerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Answer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	question, err := h.questionRepository.GetQuestionByID(ctx, answer.QuestionID.Hex())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Question not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if question.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden: Only the question owner can accept an answer")
	}

	// Clear any previously accepted answer, then accept the target.
	if err := h.answerRepository.ClearAccepted(ctx, question.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.answerRepository.SetAccepted(ctx, req.AnswerID, true); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.questionRepository.SetStatus(ctx, question.ID.Hex(), models.QuestionStatusAnswered); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if answer.UserID != userID {
		h.notify(&models.Notification{
			RecipientID: answer.UserID,
			Type:        models.NotificationTypeAnswer,
			Content:     fmt.Sprintf("Your answer to %q was accepted", question.Title),
			RelatedID:   question.ID.Hex(),
			RelatedKind: models.RelatedKindQuestion,
		})
	}

	answer.Accepted = true
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Answer accepted",
		"answer":  answer,
	})
}
