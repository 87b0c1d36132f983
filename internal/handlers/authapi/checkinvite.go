package authapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/badoux/checkmail"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/launchcopy/accessgate/internal/access"
	"github.com/launchcopy/accessgate/internal/apierr"
	"github.com/launchcopy/accessgate/internal/models"
	"github.com/launchcopy/accessgate/internal/storage"
)

type checkInviteParams struct {
	Email string `json:"email"`
}

type checkInviteResponse struct {
	HasValidInvite bool   `json:"hasValidInvite"`
	Error          string `json:"error,omitempty"`
}

func (h *Handlers) handleCheckInvite(c *gin.Context) {
	params := &checkInviteParams{}
	if err := c.ShouldBindJSON(params); err != nil || params.Email == "" {
		e := apierr.Validation("Email is required")
		c.JSON(e.HTTPStatus(), checkInviteResponse{Error: e.Message})
		return
	}

	email := normalizeEmail(params.Email)
	if err := checkmail.ValidateFormat(email); err != nil {
		e := apierr.Validation("Invalid email format")
		c.JSON(e.HTTPStatus(), checkInviteResponse{Error: e.Message})
		return
	}

	user, invite, err := h.lookupUserAndInvite(email)
	if err != nil {
		logger.Error().Err(err).Msg("Database error during invite check")
		c.JSON(http.StatusInternalServerError, checkInviteResponse{Error: "Unable to verify access"})
		return
	}

	decision := access.Evaluate(user, invite, time.Now())
	c.JSON(http.StatusOK, checkInviteResponse{
		HasValidInvite: decision.Allowed,
		Error:          decision.Message(),
	})
}

// lookupUserAndInvite runs the two point queries concurrently; they target
// independent tables so no ordering is needed. A missing row is not an
// error, any other store failure fails the whole lookup.
func (h *Handlers) lookupUserAndInvite(email string) (*models.User, *models.UserInvite, error) {
	var (
		user   *models.User
		invite *models.UserInvite
	)

	g := new(errgroup.Group)
	g.Go(func() error {
		u, err := storage.GetUserByEmail(h.db, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		user = u
		return nil
	})
	g.Go(func() error {
		i, err := storage.GetInviteByEmail(h.db, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		invite = i
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return user, invite, nil
}
