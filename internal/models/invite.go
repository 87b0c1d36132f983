package models

import "time"

const (
	InviteStatusSent     = "sent"
	InviteStatusAccepted = "accepted"
)

// UserInvite grants a single email permission to join. ExpiresAt nil means the
// invite never expires.
type UserInvite struct {
	ID         string `gorm:"primarykey"`
	Email      string `gorm:"uniqueIndex"`
	Status     string
	ExpiresAt  *time.Time
	SentAt     time.Time
	AcceptedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (i *UserInvite) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// Usable reports whether the invite can still be consumed: not yet accepted
// and not past its expiry.
func (i *UserInvite) Usable(now time.Time) bool {
	return i.Status == InviteStatusSent && !i.Expired(now)
}
