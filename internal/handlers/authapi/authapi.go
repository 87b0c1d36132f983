// Package authapi implements the invite-gated access endpoints consumed by
// the front-end login flow.
package authapi

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/launchcopy/accessgate/internal/gormw"
	"github.com/launchcopy/accessgate/internal/idp"
	"github.com/launchcopy/accessgate/internal/models"
	"github.com/launchcopy/accessgate/internal/storage"
)

var (
	logger = log.With().Str("component", "authapi").Logger()
)

// sessionCookie is the cookie the front-end stores the provider session
// token under, checked when no Authorization header is present.
const sessionCookie = "sb-access-token"

type Config struct {
	// ResendCooldownSeconds throttles the resend endpoints per target.
	// Zero picks the default (one minute).
	ResendCooldownSeconds uint `yaml:"resend_cooldown_seconds"`
}

type Handlers struct {
	config *Config
	db     *gormw.DB
	idp    *idp.Client

	resendGuard *storage.CooldownCache
}

func New(config *Config, db *gormw.DB, idpClient *idp.Client) *Handlers {
	return &Handlers{
		config:      config,
		db:          db,
		idp:         idpClient,
		resendGuard: storage.NewCooldownCache(time.Duration(config.ResendCooldownSeconds) * time.Second),
	}
}

func (h *Handlers) RegisterHandlers(rg *gin.RouterGroup) {
	authRoutes := rg.Group("/api/auth")
	{
		// Access gate: may this email proceed at all?
		authRoutes.POST("/check-invite", h.handleCheckInvite)

		// Which credential flow should the client render?
		authRoutes.POST("/check-password-status", h.handleCheckPasswordStatus)

		// Re-deliver a one-time sign-in link for a pending invite.
		authRoutes.POST("/resend-invite", h.handleResendInvite)

		// Re-deliver the signup verification email.
		authRoutes.POST("/resend-verification", h.handleResendVerification)

		// Stamp last_login on session refresh.
		authRoutes.POST("/update-login", h.handleUpdateLogin)

		// Bridge the provider account locally and consume the invite.
		authRoutes.POST("/complete-signup", h.handleCompleteSignup)
	}
}

// normalizeEmail is applied before any lookup so handlers and storage agree
// on the canonical form.
func normalizeEmail(email string) string {
	return models.NormalizeEmail(email)
}

// sessionToken pulls the provider session token from the Authorization
// header, falling back to the session cookie.
func sessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if token, err := c.Cookie(sessionCookie); err == nil {
		return token
	}
	return ""
}
