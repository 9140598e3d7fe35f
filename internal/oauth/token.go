package oauth

import (
	"fmt"
	"time"
)

// DefaultExpirationInterval is the token lifetime used when none is given.
const DefaultExpirationInterval = "1h"

// expirationIntervals enumerates the allowed token lifetimes.
var expirationIntervals = map[string]time.Duration{
	"15m": 15 * time.Minute,
	"1h":  time.Hour,
	"1mo": 30 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
}

// ExpirationIntervalNames returns the allowed interval identifiers in
// ascending order of duration.
func ExpirationIntervalNames() []string {
	return []string{"15m", "1h", "1mo", "1y"}
}

// ExpirationInterval resolves an interval identifier to a duration.
func ExpirationInterval(name string) (time.Duration, error) {
	if d, ok := expirationIntervals[name]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown expiration interval %q (allowed: %v)", name, ExpirationIntervalNames())
}

// AccessToken is an issued OAuth2 access token. Its scope set is fixed at
// mint time as the intersection of the requested scopes and the client's
// granted scopes; later changes to the client do not affect it.
type AccessToken struct {
	// ID is the opaque token identifier (the JWT "jti" claim).
	ID string `json:"identifier"`

	// ClientID references the owning client.
	ClientID string `json:"client_id"`

	// Scopes is the granted scope subset.
	Scopes []Scope `json:"scopes"`

	// UserID is the technical user attributed to record operations.
	UserID string `json:"user_id,omitempty"`

	// ExpiresAt is the expiry timestamp.
	ExpiresAt time.Time `json:"expires_at"`

	// Revoked marks the token as explicitly invalidated.
	Revoked bool `json:"revoked"`

	// AdminCreated distinguishes admin-created tokens from
	// protocol-issued ones.
	AdminCreated bool `json:"admin_created,omitempty"`

	// ShortToken is the abbreviated display form for listings.
	ShortToken string `json:"short_token,omitempty"`
}

// Expired reports whether the token is past its expiry.
func (t *AccessToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// HasScope reports whether the token was granted the given scope.
func (t *AccessToken) HasScope(s Scope) bool {
	for _, have := range t.Scopes {
		if have == s {
			return true
		}
	}
	return false
}

// Identity returns the caller identity carried by the token.
func (t *AccessToken) Identity() Identity {
	return Identity{ClientID: t.ClientID, UserID: t.UserID}
}

// ShortTokenOf builds the abbreviated display form of a signed token:
// the first and last four characters with an ellipsis in between.
func ShortTokenOf(signed string) string {
	if len(signed) <= 8 {
		return signed
	}
	return signed[:4] + "…" + signed[len(signed)-4:]
}
