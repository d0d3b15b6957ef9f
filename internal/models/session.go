package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionRecord maps an issued session token to the provider token it was minted for.
// Records are appended on every exchange and never deduplicated.
type SessionRecord struct {
	SessionToken  string    `json:"session_token"`
	ProviderToken string    `json:"provider_token"`
	Login         string    `json:"login"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func (r *SessionRecord) IsExpired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	jwt.RegisteredClaims
}

func (c *SessionClaims) Profile() Profile {
	return Profile{
		Login:     c.Login,
		ID:        c.ID,
		AvatarURL: c.AvatarURL,
		Subject:   c.Subject,
	}
}
