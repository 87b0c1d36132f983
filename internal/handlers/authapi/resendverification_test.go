package authapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendVerification(t *testing.T) {
	var gotBody map[string]any
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/resend", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer provider.Close()

	_, _, router := setupTestHandlersForProvider(t, provider.URL)

	rec := postJSON(router, "/api/auth/resend-verification", `{"email":"Unconfirmed@Example.com"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Verification email sent")

	// Normalized before hitting the provider.
	assert.Equal(t, "unconfirmed@example.com", gotBody["email"])
	assert.Equal(t, "signup", gotBody["type"])

	// Immediate retry cools down.
	rec = postJSON(router, "/api/auth/resend-verification", `{"email":"unconfirmed@example.com"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestResendVerificationValidation(t *testing.T) {
	_, _, router := setupTestHandlers(t)

	rec := postJSON(router, "/api/auth/resend-verification", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email is required")

	rec = postJSON(router, "/api/auth/resend-verification", `{"email":"nope"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email format")
}

func TestResendVerificationProviderFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"msg":"smtp down"}`, http.StatusBadGateway)
	}))
	defer provider.Close()

	_, _, router := setupTestHandlersForProvider(t, provider.URL)

	rec := postJSON(router, "/api/auth/resend-verification", `{"email":"unconfirmed@example.com"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unable to resend verification email")
}
