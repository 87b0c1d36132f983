package authapi

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/launchcopy/accessgate/internal/apierr"
	"github.com/launchcopy/accessgate/internal/models"
	"github.com/launchcopy/accessgate/internal/storage"
)

type resendInviteParams struct {
	InviteID string `json:"inviteId"`
}

type resendInviteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// handleResendInvite re-issues the one-time sign-in link for a pending
// invite. Keyed by invite id, unlike the email-keyed checks: the caller
// already holds a concrete invite reference.
func (h *Handlers) handleResendInvite(c *gin.Context) {
	params := &resendInviteParams{}
	if err := c.ShouldBindJSON(params); err != nil || params.InviteID == "" {
		e := apierr.Validation("Invite id is required")
		c.JSON(e.HTTPStatus(), resendInviteResponse{Error: e.Message})
		return
	}

	invite, aerr := h.resendableInvite(params.InviteID)
	if aerr != nil {
		c.JSON(aerr.HTTPStatus(), resendInviteResponse{Error: aerr.Message})
		return
	}

	redirectTo := h.idp.SiteURL() + "/signup?invite_id=" + url.QueryEscape(invite.ID)
	if err := h.idp.GenerateMagicLink(c.Request.Context(), invite.Email, redirectTo); err != nil {
		// No state mutated: sent_at only moves once the provider accepts.
		logger.Error().Err(err).Str("invite_id", invite.ID).Msg("Provider rejected magic link request")
		c.JSON(http.StatusInternalServerError, resendInviteResponse{Error: "Unable to send invite email"})
		return
	}

	// sent_at is informational; a failed stamp is not worth failing the
	// request over once the email is on its way.
	if err := storage.TouchInviteSent(h.db, invite.ID, time.Now()); err != nil {
		logger.Error().Err(err).Str("invite_id", invite.ID).Msg("Failed to update invite sent_at")
	}

	h.resendGuard.Touch("invite:" + invite.ID)
	c.JSON(http.StatusOK, resendInviteResponse{Success: true})
}

// resendableInvite loads the invite and rejects every state that must not
// get another sign-in link. Terminal states win over the cooldown: an id
// that turned unusable mid-window reports what is actually wrong with it,
// not 429.
func (h *Handlers) resendableInvite(id string) (*models.UserInvite, *apierr.Error) {
	invite, err := storage.GetInviteByID(h.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("Invite not found")
		}
		logger.Error().Err(err).Str("invite_id", id).Msg("Failed to load invite")
		return nil, apierr.From(err)
	}

	if invite.Status == models.InviteStatusAccepted {
		return nil, apierr.InvalidState("This invite has already been used")
	}

	if invite.Expired(time.Now()) {
		return nil, apierr.Expired("This invite has expired. Invites are valid for 7 days.")
	}

	if h.resendGuard.Active("invite:" + id) {
		return nil, apierr.TooManyRequests("Please wait before requesting another invite email")
	}

	return invite, nil
}
