// Package access holds the single gate decision shared by every auth
// handler. Earlier revisions re-derived invite validity per route with
// slightly different rules; all of them now go through Evaluate.
package access

import (
	"time"

	"github.com/hashicorp/go-set/v3"

	"github.com/launchcopy/accessgate/internal/models"
)

type Reason int

const (
	ReasonNoAccess Reason = iota
	ReasonActiveUser
	ReasonInviteUsable
	ReasonInviteConsumed
	ReasonInviteExpired
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

// User statuses that bypass the invite gate entirely.
var allowedUserStatuses = set.From([]string{models.UserStatusActive})

// Evaluate decides whether the owner of (user, invite) may enter. Either
// argument may be nil when no matching row exists. An active user always
// gets in; otherwise the invite decides: consumed beats expired beats
// usable, and no row at all means no access.
func Evaluate(user *models.User, invite *models.UserInvite, now time.Time) Decision {
	if user != nil && allowedUserStatuses.Contains(user.Status) {
		return Decision{Allowed: true, Reason: ReasonActiveUser}
	}

	if invite != nil {
		switch {
		case invite.Status == models.InviteStatusAccepted:
			return Decision{Reason: ReasonInviteConsumed}
		case invite.Expired(now):
			return Decision{Reason: ReasonInviteExpired}
		case invite.Status == models.InviteStatusSent:
			return Decision{Allowed: true, Reason: ReasonInviteUsable}
		}
	}

	return Decision{Reason: ReasonNoAccess}
}

// Message is the user-facing text for a denial. Empty for granted decisions.
func (d Decision) Message() string {
	switch d.Reason {
	case ReasonInviteConsumed:
		return "This invite has already been used"
	case ReasonInviteExpired:
		return "This invite has expired"
	case ReasonNoAccess:
		return "You don't have access to this platform. Please contact support@launchcopy.io to request access."
	default:
		return ""
	}
}
