package handlers

import (
	"net/http"

	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/models"
	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// AdminHandler serves the admin dashboard endpoints
type AdminHandler struct {
	questionRepository repositories.QuestionRepository
	userRepository     repositories.UserRepository
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(questionRepo repositories.QuestionRepository, userRepo repositories.UserRepository) *AdminHandler {
	return &AdminHandler{
		questionRepository: questionRepo,
		userRepository:     userRepo,
	}
}

// RegisterAdminRoutes registers admin routes. The group is expected to
// carry the admin middleware.
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/questions", h.GetAllQuestions)
}

type adminQuestion struct {
	models.Question
	User *models.UserCompact `json:"user"`
}

// GetAllQuestions returns every question joined with its author, newest first
func (h *AdminHandler) GetAllQuestions(c echo.Context) error {
	questions, err := h.questionRepository.ListQuestions(c.Request().Context(), repositories.QuestionListOptions{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(questions) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success":   false,
			"message":   "No questions found",
			"questions": []adminQuestion{},
		})
	}

	userCache := make(map[uint]*models.UserCompact)
	enriched := make([]adminQuestion, len(questions))
	for i, q := range questions {
		enriched[i] = adminQuestion{Question: q}
		if author, ok := userCache[q.UserID]; ok {
			enriched[i].User = author
		} else if user, err := h.userRepository.GetUserByID(q.UserID); err == nil {
			compact := user.ToCompact()
			userCache[q.UserID] = &compact
			enriched[i].User = &compact
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "All questions retrieved successfully",
		"questions": enriched,
	})
}
