package idp

import (
	"errors"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/launchcopy/accessgate/internal/apierr"
)

// Identity is the subset of session-token claims this service cares about.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// VerifySession checks an HS256 session token minted by the provider and
// extracts the identity it proves. Expiry is validated during parsing.
func (c *Client) VerifySession(token string) (*Identity, error) {
	verified, err := jwt.Parse([]byte(token), jwt.WithKey(jwa.HS256(), []byte(c.config.JWTSecret)))
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, apierr.Unauthorized("Session expired")
		}
		return nil, apierr.Unauthorized("Invalid session")
	}

	sub, ok := verified.Subject()
	if !ok || sub == "" {
		return nil, apierr.Unauthorized("Invalid session")
	}

	identity := &Identity{Subject: sub}

	if err := verified.Get("email", &identity.Email); err != nil {
		return nil, apierr.Unauthorized("Invalid session")
	}

	// Profile attributes ride along in user_metadata; absence is fine.
	var meta map[string]any
	if err := verified.Get("user_metadata", &meta); err == nil {
		if name, ok := meta["full_name"].(string); ok {
			identity.Name = name
		}
		if picture, ok := meta["avatar_url"].(string); ok {
			identity.Picture = picture
		}
	}

	return identity, nil
}
