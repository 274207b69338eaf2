package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// doJSONWithID is doJSON for routes carrying an :id path parameter.
func doJSONWithID(t *testing.T, handler echo.HandlerFunc, method, path, id string, body interface{}, userID uint) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	if userID != 0 {
		c.Set("userID", userID)
	}

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAskQuestion_StartsPendingWithZeroViews(t *testing.T) {
	questionRepo := newFakeQuestionRepo()
	h := NewQuestionHandler(questionRepo, newFakeAnswerRepo(), newFakeNotificationRepo(), newFakeUserRepo(), nil)

	body := models.AskQuestionRequest{
		Title:       "How do I test echo handlers?",
		Description: "Details inside.",
		Tags:        []string{"go", "testing"},
	}
	rec := doJSON(t, h.AskQuestion, http.MethodPost, "/questions/ask", body, 7)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, questionRepo.questions, 1)
	for _, q := range questionRepo.questions {
		assert.Equal(t, uint(7), q.UserID)
		assert.Equal(t, models.QuestionStatusPending, q.Status)
		assert.Zero(t, q.Views)
	}
}

func TestUpdateQuestion_NonOwnerForbidden(t *testing.T) {
	question := newTestQuestion(1, "mine")
	h := NewQuestionHandler(newFakeQuestionRepo(question), newFakeAnswerRepo(), newFakeNotificationRepo(), newFakeUserRepo(), nil)

	body := models.UpdateQuestionRequest{Title: "stolen"}
	rec := doJSONWithID(t, h.UpdateQuestion, http.MethodPut, "/questions/update/"+question.ID.Hex(), question.ID.Hex(), body, 2)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteQuestion_CascadesRelatedNotifications(t *testing.T) {
	owner := uint(1)
	question := newTestQuestion(owner, "to be deleted")
	answerID := primitive.NewObjectID().Hex()

	notifRepo := newFakeNotificationRepo()
	require.NoError(t, notifRepo.CreateNotification(&models.Notification{
		RecipientID: owner,
		Type:        models.NotificationTypeAnswer,
		Content:     "new answer",
		RelatedID:   question.ID.Hex(),
		RelatedKind: models.RelatedKindQuestion,
	}))
	require.NoError(t, notifRepo.CreateNotification(&models.Notification{
		RecipientID: 3,
		Type:        models.NotificationTypeMention,
		Content:     "mentioned elsewhere",
		RelatedID:   answerID,
		RelatedKind: models.RelatedKindAnswer,
	}))

	questionRepo := newFakeQuestionRepo(question)
	h := NewQuestionHandler(questionRepo, newFakeAnswerRepo(), notifRepo, newFakeUserRepo(), nil)

	rec := doJSONWithID(t, h.DeleteQuestion, http.MethodDelete, "/questions/delete/"+question.ID.Hex(), question.ID.Hex(), nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, questionRepo.questions)
	// Only notifications referencing the question are removed.
	require.Len(t, notifRepo.notifications, 1)
	assert.Equal(t, answerID, notifRepo.notifications[0].RelatedID)
}

func TestDeleteQuestion_NonOwnerForbidden(t *testing.T) {
	question := newTestQuestion(1, "mine")
	questionRepo := newFakeQuestionRepo(question)
	h := NewQuestionHandler(questionRepo, newFakeAnswerRepo(), newFakeNotificationRepo(), newFakeUserRepo(), nil)

	rec := doJSONWithID(t, h.DeleteQuestion, http.MethodDelete, "/questions/delete/"+question.ID.Hex(), question.ID.Hex(), nil, 2)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, questionRepo.questions, 1)
}

func TestGetQuestion_NotFound(t *testing.T) {
	h := NewQuestionHandler(newFakeQuestionRepo(), newFakeAnswerRepo(), newFakeNotificationRepo(), newFakeUserRepo(), nil)

	rec := doJSONWithID(t, h.GetQuestion, http.MethodGet, "/questions/x", primitive.NewObjectID().Hex(), nil, 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
