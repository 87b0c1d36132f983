package authapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/launchcopy/accessgate/internal/apierr"
	"github.com/launchcopy/accessgate/internal/models"
	"github.com/launchcopy/accessgate/internal/storage"
)

type completeSignupResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleCompleteSignup runs after the invited user finishes authenticating
// with the provider: the account is bridged into the local user table and
// the invite matching the session email is consumed. Safe to call again,
// the bridge is create-if-absent and an already-accepted invite is left
// alone.
func (h *Handlers) handleCompleteSignup(c *gin.Context) {
	token := sessionToken(c)
	if token == "" {
		e := apierr.Unauthorized("Not authenticated")
		c.JSON(e.HTTPStatus(), completeSignupResponse{Error: e.Message})
		return
	}

	identity, err := h.idp.VerifySession(token)
	if err != nil {
		e := apierr.From(err)
		c.JSON(e.HTTPStatus(), completeSignupResponse{Error: e.Message})
		return
	}

	email := normalizeEmail(identity.Email)
	user, err := storage.EnsureUser(h.db, &models.User{
		ID:      identity.Subject,
		Email:   email,
		Name:    identity.Name,
		Picture: identity.Picture,
	})
	if err != nil {
		logger.Error().Err(err).Str("subject", identity.Subject).Msg("Failed to ensure user")
		c.JSON(http.StatusInternalServerError, completeSignupResponse{Error: "Unable to complete signup"})
		return
	}

	invite, err := storage.GetInviteByEmail(h.db, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error().Err(err).Msg("Failed to load invite during signup completion")
			c.JSON(http.StatusInternalServerError, completeSignupResponse{Error: "Unable to complete signup"})
			return
		}
		// Active users may complete signup without an invite row.
	} else if invite.Status == models.InviteStatusSent {
		if err := storage.MarkInviteAccepted(h.db, invite, time.Now()); err != nil {
			logger.Error().Err(err).Str("invite_id", invite.ID).Msg("Failed to mark invite accepted")
			c.JSON(http.StatusInternalServerError, completeSignupResponse{Error: "Unable to complete signup"})
			return
		}
	}

	c.JSON(http.StatusOK, completeSignupResponse{
		Success: true,
		UserID:  user.ID,
	})
}
