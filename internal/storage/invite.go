package storage

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/launchcopy/accessgate/internal/gormw"
	"github.com/launchcopy/accessgate/internal/models"
)

var (
	logger = log.With().Str("component", "storage").Logger()
)

func GetInviteByID(db *gormw.DB, id string) (*models.UserInvite, error) {
	invite := &models.UserInvite{}
	if err := db.Where("id = ?", id).First(invite).Error; err != nil {
		return nil, err
	}
	return invite, nil
}

func GetInviteByEmail(db *gormw.DB, email string) (*models.UserInvite, error) {
	invite := &models.UserInvite{}
	if err := db.Where("email = ?", email).First(invite).Error; err != nil {
		return nil, err
	}
	return invite, nil
}

func CreateInvite(db *gormw.DB, invite *models.UserInvite) error {
	return db.Create(invite).Error
}

func ListInvites(db *gormw.DB) ([]models.UserInvite, error) {
	var invites []models.UserInvite
	if err := db.Order("created_at").Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

func DeleteInvite(db *gormw.DB, id string) error {
	return db.Where("id = ?", id).Delete(&models.UserInvite{}).Error
}

// TouchInviteSent refreshes sent_at after the provider accepted a resend
// request. Informational only, so callers tolerate a lost write.
func TouchInviteSent(db *gormw.DB, id string, now time.Time) error {
	return db.Model(&models.UserInvite{}).Where("id = ?", id).Update("sent_at", now).Error
}

func MarkInviteAccepted(db *gormw.DB, invite *models.UserInvite, now time.Time) error {
	invite.Status = models.InviteStatusAccepted
	invite.AcceptedAt = &now
	return db.Save(invite).Error
}

// PurgeExpiredInvites deletes sent invites whose expiry passed before
// cutoff. Accepted invites and invites without an expiry are kept.
func PurgeExpiredInvites(db *gormw.DB, cutoff time.Time) error {
	return db.Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?",
		models.InviteStatusSent, cutoff).Delete(&models.UserInvite{}).Error
}

// Never-accepted invites pile up in the database if not register a cleaner.
func RegisterInvitesCleaner(scheduler gocron.Scheduler, db *gormw.DB) {
	_, _ = scheduler.NewJob(
		gocron.CronJob(
			// 4am Daily
			"0 4 * * *",
			false,
		),
		gocron.NewTask(
			func() {
				logger.Info().Msg("Cleaning up long-expired invites")
				if err := PurgeExpiredInvites(db, time.Now().AddDate(0, 0, -30)); err != nil {
					logger.Error().Err(err).Msg("Failed to purge expired invites")
				}
			},
		),
	)
}
