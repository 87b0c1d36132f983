package authapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchcopy/accessgate/internal/models"
	"github.com/launchcopy/accessgate/internal/storage"
)

func TestResendInviteErrors(t *testing.T) {
	past := time.Now().Add(-time.Hour)

	testCases := []struct {
		name          string
		body          string
		invite        *models.UserInvite
		expectedCode  int
		expectedError string
	}{
		{
			name:          "missing invite id",
			body:          `{}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invite id is required",
		},
		{
			name:          "unknown invite id",
			body:          `{"inviteId":"missing"}`,
			expectedCode:  http.StatusNotFound,
			expectedError: "Invite not found",
		},
		{
			name: "already accepted",
			body: `{"inviteId":"inv1"}`,
			invite: &models.UserInvite{
				ID: "inv1", Email: "invited@example.com", Status: models.InviteStatusAccepted,
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "This invite has already been used",
		},
		{
			name: "expired",
			body: `{"inviteId":"inv1"}`,
			invite: &models.UserInvite{
				ID: "inv1", Email: "invited@example.com", Status: models.InviteStatusSent, ExpiresAt: &past,
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invites are valid for 7 days",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, db, router := setupTestHandlers(t)
			if tc.invite != nil {
				require.NoError(t, storage.CreateInvite(db, tc.invite))
			}

			rec := postJSON(router, "/api/auth/resend-invite", tc.body, nil)
			assert.Equal(t, tc.expectedCode, rec.Code)

			var resp struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tc.expectedError)
		})
	}
}

func TestResendInviteSuccess(t *testing.T) {
	var gotBody map[string]any
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/generate_link", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer provider.Close()

	_, db, router := setupTestHandlersForProvider(t, provider.URL)

	staleSent := time.Now().Add(-72 * time.Hour)
	require.NoError(t, storage.CreateInvite(db, &models.UserInvite{
		ID:     "inv1",
		Email:  "invited@example.com",
		Status: models.InviteStatusSent,
		SentAt: staleSent,
	}))

	rec := postJSON(router, "/api/auth/resend-invite", `{"inviteId":"inv1"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	// The provider was asked for a link landing back on this invite.
	assert.Equal(t, "magiclink", gotBody["type"])
	assert.Equal(t, "invited@example.com", gotBody["email"])
	options, ok := gotBody["options"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, options["redirect_to"], "invite_id=inv1")

	// sent_at was refreshed.
	invite, err := storage.GetInviteByID(db, "inv1")
	require.NoError(t, err)
	assert.True(t, invite.SentAt.After(staleSent.Add(time.Hour)))

	// An immediate retry is inside the cooldown window.
	rec = postJSON(router, "/api/auth/resend-invite", `{"inviteId":"inv1"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestResendInviteTerminalStateBeatsCooldown(t *testing.T) {
	h, db, router := setupTestHandlers(t)

	require.NoError(t, storage.CreateInvite(db, &models.UserInvite{
		ID:     "inv1",
		Email:  "invited@example.com",
		Status: models.InviteStatusAccepted,
	}))
	h.resendGuard.Touch("invite:inv1")

	// An accepted invite reports its real state even inside the window.
	rec := postJSON(router, "/api/auth/resend-invite", `{"inviteId":"inv1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "This invite has already been used")

	// Same for an id that no longer exists.
	h.resendGuard.Touch("invite:gone")
	rec = postJSON(router, "/api/auth/resend-invite", `{"inviteId":"gone"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResendInviteProviderFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"msg":"boom"}`, http.StatusInternalServerError)
	}))
	defer provider.Close()

	_, db, router := setupTestHandlersForProvider(t, provider.URL)

	staleSent := time.Now().Add(-72 * time.Hour)
	require.NoError(t, storage.CreateInvite(db, &models.UserInvite{
		ID:     "inv1",
		Email:  "invited@example.com",
		Status: models.InviteStatusSent,
		SentAt: staleSent,
	}))

	rec := postJSON(router, "/api/auth/resend-invite", `{"inviteId":"inv1"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unable to send invite email")

	// No partial write: sent_at untouched on provider failure.
	invite, err := storage.GetInviteByID(db, "inv1")
	require.NoError(t, err)
	assert.WithinDuration(t, staleSent, invite.SentAt, time.Second)
}
