package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/config"
	"foodgram/internal/models"
)

func TestParseExpiry(t *testing.T) {
	cases := map[string]time.Duration{
		"":      7 * 24 * time.Hour,
		"7d":    7 * 24 * time.Hour,
		"1d":    24 * time.Hour,
		"12h":   12 * time.Hour,
		"90m":   90 * time.Minute,
		"1h30m": 90 * time.Minute,
		"xd":    7 * 24 * time.Hour,
		"5w":    7 * 24 * time.Hour,
		"-3d":   7 * 24 * time.Hour,
	}
	for input, want := range cases {
		assert.Equal(t, want, parseExpiry(input), input)
	}
}

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager(config.JWTConfig{Secret: "test-secret", ExpiresIn: "1h"})
	user := &models.User{ID: 42, Username: "chef", Email: "chef@example.com"}

	t.Run("RoundTrip", func(t *testing.T) {
		token, err := manager.GenerateToken(user)
		require.NoError(t, err)

		claims, err := manager.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 42, claims.UserID)
		assert.Equal(t, "chef", claims.Username)
		assert.Equal(t, "42", claims.Subject)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := manager.GenerateToken(user)
		require.NoError(t, err)

		other := NewJWTManager(config.JWTConfig{Secret: "other-secret", ExpiresIn: "1h"})
		_, err = other.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		issued := NewJWTManager(config.JWTConfig{Secret: "test-secret", ExpiresIn: "1h"})
		issued.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := issued.GenerateToken(user)
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := manager.ValidateToken("not-a-jwt")
		assert.Error(t, err)
	})
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Token abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, tc.header)
		assert.Equal(t, tc.token, token, tc.header)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := NewJWTManager(config.JWTConfig{Secret: "test-secret", ExpiresIn: "1h"})
	token, err := manager.GenerateToken(&models.User{ID: 7, Username: "cook"})
	require.NoError(t, err)

	router := gin.New()
	whoami := func(c *gin.Context) {
		userID, ok := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "authenticated": ok})
	}
	router.GET("/required", JWTMiddleware(manager), whoami)
	router.GET("/optional", OptionalJWTMiddleware(manager), whoami)

	do := func(path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do("/required", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do("/required", "Bearer broken")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do("/required", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":7,"authenticated":true}`, rec.Body.String())

	rec = do("/optional", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":0,"authenticated":false}`, rec.Body.String())

	rec = do("/optional", "Bearer broken")
	assert.JSONEq(t, `{"user_id":0,"authenticated":false}`, rec.Body.String())

	rec = do("/optional", "Token "+token)
	assert.JSONEq(t, `{"user_id":7,"authenticated":true}`, rec.Body.String())
}
