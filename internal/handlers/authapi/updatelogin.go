package authapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/launchcopy/accessgate/internal/apierr"
	"github.com/launchcopy/accessgate/internal/storage"
)

type updateLoginParams struct {
	Email string `json:"email"`
}

type updateLoginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// handleUpdateLogin stamps last_login on a successful session refresh. The
// write is blind: no read-before-write, a missing row comes back from the
// store and is reported as-is.
func (h *Handlers) handleUpdateLogin(c *gin.Context) {
	token := sessionToken(c)
	if token == "" {
		e := apierr.Unauthorized("Not authenticated")
		c.JSON(e.HTTPStatus(), updateLoginResponse{Error: e.Message})
		return
	}

	identity, err := h.idp.VerifySession(token)
	if err != nil {
		e := apierr.From(err)
		c.JSON(e.HTTPStatus(), updateLoginResponse{Error: e.Message})
		return
	}

	params := &updateLoginParams{}
	if err := c.ShouldBindJSON(params); err != nil || params.Email == "" {
		e := apierr.Validation("Email is required")
		c.JSON(e.HTTPStatus(), updateLoginResponse{Error: e.Message})
		return
	}

	email := normalizeEmail(params.Email)
	if err := storage.UpdateLastLogin(h.db, email, time.Now()); err != nil {
		logger.Error().Err(err).Str("subject", identity.Subject).Msg("Failed to update last login")
		c.JSON(http.StatusInternalServerError, updateLoginResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, updateLoginResponse{Success: true})
}
