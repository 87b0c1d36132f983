package authapi

import (
	"net/http"
	"time"

	"github.com/badoux/checkmail"
	"github.com/gin-gonic/gin"

	"github.com/launchcopy/accessgate/internal/apierr"
)

type checkPasswordStatusParams struct {
	Email string `json:"email"`
}

type checkPasswordStatusResponse struct {
	HasPassword    bool   `json:"hasPassword"`
	UserExists     bool   `json:"userExists"`
	HasValidInvite bool   `json:"hasValidInvite"`
	Error          string `json:"error,omitempty"`
}

// handleCheckPasswordStatus tells the client which credential flow to
// render: set a password, enter one, or request access. Invite validity uses
// the same rule as the access gate; an accepted invite no longer counts as
// valid here, the set-password flow keys off userExists instead.
func (h *Handlers) handleCheckPasswordStatus(c *gin.Context) {
	params := &checkPasswordStatusParams{}
	if err := c.ShouldBindJSON(params); err != nil || params.Email == "" {
		e := apierr.Validation("Email is required")
		c.JSON(e.HTTPStatus(), checkPasswordStatusResponse{Error: e.Message})
		return
	}

	email := normalizeEmail(params.Email)
	if err := checkmail.ValidateFormat(email); err != nil {
		e := apierr.Validation("Invalid email format")
		c.JSON(e.HTTPStatus(), checkPasswordStatusResponse{Error: e.Message})
		return
	}

	user, invite, err := h.lookupUserAndInvite(email)
	if err != nil {
		logger.Error().Err(err).Msg("Database error during password status check")
		c.JSON(http.StatusInternalServerError, checkPasswordStatusResponse{Error: "Unable to check password status"})
		return
	}

	resp := checkPasswordStatusResponse{
		HasValidInvite: invite != nil && invite.Usable(time.Now()),
	}
	if user != nil {
		resp.UserExists = true
		resp.HasPassword = user.PasswordSet()
	}

	c.JSON(http.StatusOK, resp)
}
