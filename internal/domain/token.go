package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccessToken is a whitelist entry for a currently-valid access token.
// A token missing from the whitelist is rejected even if its signature
// still verifies.
type AccessToken struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the entry is past its expiry at the given time.
func (t *AccessToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
