package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/models"
	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the storage-layer semantics,
// including the conditional vote updates.

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	if user.ID == 0 {
		user.ID = uint(len(r.users) + 1)
	}
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, u := range r.users {
		if u.FirebaseUID == firebaseUID {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUsers() ([]models.User, error) {
	var users []models.User
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *fakeUserRepo) FindByUsernames(usernames []string) ([]models.User, error) {
	var users []models.User
	seen := make(map[uint]bool)
	for _, name := range usernames {
		for _, u := range r.users {
			if u.Username == name && !seen[u.ID] {
				seen[u.ID] = true
				users = append(users, *u)
			}
		}
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

type fakeQuestionRepo struct {
	questions map[string]*models.Question
}

func newFakeQuestionRepo(questions ...*models.Question) *fakeQuestionRepo {
	r := &fakeQuestionRepo{questions: make(map[string]*models.Question)}
	for _, q := range questions {
		r.questions[q.ID.Hex()] = q
	}
	return r
}

func (r *fakeQuestionRepo) CreateQuestion(_ context.Context, q *models.Question) error {
	q.ID = primitive.NewObjectID()
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	r.questions[q.ID.Hex()] = q
	return nil
}

func (r *fakeQuestionRepo) GetQuestionByID(_ context.Context, id string) (*models.Question, error) {
	if q, ok := r.questions[id]; ok {
		copied := *q
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeQuestionRepo) ListQuestions(_ context.Context, opts repositories.QuestionListOptions) ([]models.Question, error) {
	var questions []models.Question
	for _, q := range r.questions {
		if opts.UnansweredOnly && q.Status != models.QuestionStatusPending {
			continue
		}
		questions = append(questions, *q)
	}
	return questions, nil
}

func (r *fakeQuestionRepo) UpdateQuestion(_ context.Context, id string, q *models.Question) error {
	stored, ok := r.questions[id]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.Title = q.Title
	stored.Description = q.Description
	stored.Tags = q.Tags
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeQuestionRepo) DeleteQuestion(_ context.Context, id string) error {
	if _, ok := r.questions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.questions, id)
	return nil
}

func (r *fakeQuestionRepo) IncrementViews(_ context.Context, id string) error {
	if q, ok := r.questions[id]; ok {
		q.Views++
	}
	return nil
}

func (r *fakeQuestionRepo) SetStatus(_ context.Context, id, status string) error {
	if q, ok := r.questions[id]; ok {
		q.Status = status
	}
	return nil
}

type fakeAnswerRepo struct {
	answers map[string]*models.Answer
}

func newFakeAnswerRepo(answers ...*models.Answer) *fakeAnswerRepo {
	r := &fakeAnswerRepo{answers: make(map[string]*models.Answer)}
	for _, a := range answers {
		r.answers[a.ID.Hex()] = a
	}
	return r
}

func (r *fakeAnswerRepo) CreateAnswer(_ context.Context, a *models.Answer) error {
	a.ID = primitive.NewObjectID()
	if a.Votes == nil {
		a.Votes = []models.VoteRecord{}
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.answers[a.ID.Hex()] = a
	return nil
}

func (r *fakeAnswerRepo) GetAnswerByID(_ context.Context, id string) (*models.Answer, error) {
	if a, ok := r.answers[id]; ok {
		copied := *a
		copied.Votes = append([]models.VoteRecord(nil), a.Votes...)
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAnswerRepo) GetAnswersByQuestionID(_ context.Context, questionID string) ([]models.Answer, error) {
	var answers []models.Answer
	for _, a := range r.answers {
		if a.QuestionID.Hex() == questionID {
			answers = append(answers, *a)
		}
	}
	return answers, nil
}

func (r *fakeAnswerRepo) RemoveVote(_ context.Context, answerID string, voterID uint, voteType string) error {
	a, ok := r.answers[answerID]
	if !ok {
		return repositories.ErrNotFound
	}
	for i, v := range a.Votes {
		if v.UserID == voterID && v.Type == voteType {
			a.Votes = append(a.Votes[:i], a.Votes[i+1:]...)
			if voteType == models.VoteUpvote {
				a.Upvotes--
			} else {
				a.Downvotes--
			}
			return nil
		}
	}
	return repositories.ErrVoteConflict
}

func (r *fakeAnswerRepo) AddVote(_ context.Context, answerID string, voterID uint, voteType string) error {
	a, ok := r.answers[answerID]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, v := range a.Votes {
		if v.UserID == voterID {
			return repositories.ErrDuplicateVote
		}
	}
	a.Votes = append(a.Votes, models.VoteRecord{UserID: voterID, Type: voteType})
	if voteType == models.VoteUpvote {
		a.Upvotes++
	} else {
		a.Downvotes++
	}
	return nil
}

func (r *fakeAnswerRepo) ClearAccepted(_ context.Context, questionID primitive.ObjectID) error {
	for _, a := range r.answers {
		if a.QuestionID == questionID {
			a.Accepted = false
		}
	}
	return nil
}

func (r *fakeAnswerRepo) SetAccepted(_ context.Context, answerID string, accepted bool) error {
	a, ok := r.answers[answerID]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Accepted = accepted
	return nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
	nextID        uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	n.ID = r.nextID
	r.nextID++
	n.CreatedAt = time.Now().Add(time.Duration(n.ID) * time.Millisecond)
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) GetRecentByRecipient(recipientID uint, limit int) ([]models.Notification, error) {
	var result []models.Notification
	for i := len(r.notifications) - 1; i >= 0 && len(result) < limit; i-- {
		if r.notifications[i].RecipientID == recipientID {
			result = append(result, r.notifications[i])
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for i := range r.notifications {
		if r.notifications[i].RecipientID == recipientID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteByRelatedID(relatedID string) error {
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.RelatedID != relatedID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

func (r *fakeNotificationRepo) forRecipient(recipientID uint) []models.Notification {
	var result []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			result = append(result, n)
		}
	}
	return result
}

// doJSON runs a handler against a JSON request with the given
// authenticated user and returns the recorded response.
func doJSON(t *testing.T, handler echo.HandlerFunc, method, path string, body interface{}, userID uint) *httptest.ResponseRecorder {
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
	if userID != 0 {
		c.Set("userID", userID)
	}

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}
