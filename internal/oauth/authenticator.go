package oauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authentication failures. From the caller's perspective an expired token
// and an unknown token are the same condition.
var (
	ErrTokenInvalid = errors.New("access token is invalid or expired")
	ErrTokenRevoked = errors.New("access token has been revoked")
)

// Authenticator verifies inbound bearer tokens and resolves the granted
// scopes and caller identity.
type Authenticator struct {
	keys  *KeyPair
	store *TokenStore
}

// NewAuthenticator creates an authenticator verifying against the given
// keypair and token store.
func NewAuthenticator(keys *KeyPair, store *TokenStore) *Authenticator {
	return &Authenticator{keys: keys, store: store}
}

// Authenticate verifies a bearer token and returns its store record.
// Checks run in order: signature/structural validity, expiry,
// revocation. There is no partial-scope fallback — any failure rejects
// the token outright.
func (a *Authenticator) Authenticate(bearer string) (*AccessToken, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(bearer, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.keys.Public(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil || !parsed.Valid {
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrTokenInvalid, err)
		}
		return nil, ErrTokenInvalid
	}

	token := a.store.Lookup(claims.ID)
	if token == nil || token.Expired(time.Now()) {
		// Expired tokens are purged on store load, so "not found" and
		// "expired" collapse into the same outcome.
		return nil, ErrTokenInvalid
	}
	if token.Revoked {
		return nil, ErrTokenRevoked
	}
	return token, nil
}
