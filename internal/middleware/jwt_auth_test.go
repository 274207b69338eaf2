package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, userID uint) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("supersecretjwtkey"))
	require.NoError(t, err)
	return token
}

func runMiddleware(req *http.Request) (*httptest.ResponseRecorder, uint, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seenUserID uint
	next := func(c echo.Context) error {
		seenUserID, _ = c.Get("userID").(uint)
		return c.NoContent(http.StatusOK)
	}
	err := JWTAuthMiddleware()(next)(c)
	return rec, seenUserID, err
}

func TestJWTAuth_CookieToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: signTestToken(t, 42)})

	_, userID, err := runMiddleware(req)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestJWTAuth_BearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 7))

	_, userID, err := runMiddleware(req)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestJWTAuth_MissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, _, err := runMiddleware(req)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	claims := &models.JwtCustomClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("supersecretjwtkey"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})

	_, _, mwErr := runMiddleware(req)
	require.Error(t, mwErr)
	httpErr, ok := mwErr.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuth_TamperedToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JwtCustomClaims{UserID: 1}).
		SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})

	_, _, mwErr := runMiddleware(req)
	require.Error(t, mwErr)
}
