package models

import (
	"strings"
	"time"
)

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User mirrors an identity-provider account in the local database. ID is the
// provider's subject, not a locally generated key.
type User struct {
	ID          string `gorm:"primarykey"`
	Email       string `gorm:"uniqueIndex"`
	Name        string
	Picture     string
	HasPassword *bool
	Status      string
	LastLogin   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PasswordSet treats the nullable HasPassword column as false when unset.
func (u *User) PasswordSet() bool {
	return u.HasPassword != nil && *u.HasPassword
}

// NormalizeEmail is the one normalization every lookup agrees on: trim then
// lowercase. Emails are stored already normalized.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
