package authapi

import (
	"net/http"

	"github.com/badoux/checkmail"
	"github.com/gin-gonic/gin"

	"github.com/launchcopy/accessgate/internal/apierr"
)

type resendVerificationParams struct {
	Email string `json:"email"`
}

type resendVerificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handlers) handleResendVerification(c *gin.Context) {
	params := &resendVerificationParams{}
	if err := c.ShouldBindJSON(params); err != nil || params.Email == "" {
		e := apierr.Validation("Email is required")
		c.JSON(e.HTTPStatus(), resendVerificationResponse{Error: e.Message})
		return
	}

	email := normalizeEmail(params.Email)
	if err := checkmail.ValidateFormat(email); err != nil {
		e := apierr.Validation("Invalid email format")
		c.JSON(e.HTTPStatus(), resendVerificationResponse{Error: e.Message})
		return
	}

	if h.resendGuard.Active("verification:" + email) {
		e := apierr.TooManyRequests("Please wait before requesting another verification email")
		c.JSON(e.HTTPStatus(), resendVerificationResponse{Error: e.Message})
		return
	}

	if err := h.idp.ResendVerification(c.Request.Context(), email); err != nil {
		logger.Error().Err(err).Msg("Provider rejected verification resend")
		c.JSON(http.StatusInternalServerError, resendVerificationResponse{Error: "Unable to resend verification email"})
		return
	}

	h.resendGuard.Touch("verification:" + email)
	c.JSON(http.StatusOK, resendVerificationResponse{
		Success: true,
		Message: "Verification email sent",
	})
}
