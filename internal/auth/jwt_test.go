package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateAccessToken_RoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret")

	token, err := manager.GenerateAccessJWT("user-1", time.Minute)
	assert.NoError(t, err)

	userID, err := manager.ValidateAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret")

	token, err := manager.GenerateAccessJWT("user-1", -time.Minute)
	assert.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret")
	other := NewJWTManager("other-secret")

	token, err := other.GenerateAccessJWT("user-1", time.Minute)
	assert.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_MissingUserID(t *testing.T) {
	manager := NewJWTManager("test-secret")

	token, err := manager.GenerateAccessJWT("", time.Minute)
	assert.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	manager := NewJWTManager("test-secret")

	_, err := manager.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	manager := NewJWTManager("test-secret")
	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID, _ = r.Context().Value("userID").(string)
		w.WriteHeader(http.StatusOK)
	})
	protected := manager.Middleware()(next)

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/payment-api/payment-methods", nil)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		assert.NotEmpty(t, body["error"])
	})

	t.Run("not a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/payment-api/payment-methods", nil)
		req.Header.Set("Authorization", "Basic abc123")
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/payment-api/payment-methods", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := manager.GenerateAccessJWT("user-1", -time.Minute)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/payment-api/payment-methods", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := manager.GenerateAccessJWT("user-1", time.Minute)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/payment-api/payment-methods", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		assert.Equal(t, "user-1", seenUserID)
	})
}
