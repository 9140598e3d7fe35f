package oauth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenIssuerName is the "iss" claim of minted tokens.
const tokenIssuerName = "lineage"

// tokenClaims is the JWT claim set of a minted access token.
type tokenClaims struct {
	jwt.RegisteredClaims
	ClientID string   `json:"client_id"`
	Scopes   []string `json:"scopes"`
}

// Issuer mints signed, time-bounded access tokens for validated clients.
type Issuer struct {
	keys *KeyPair
}

// NewIssuer creates an issuer signing with the given keypair.
func NewIssuer(keys *KeyPair) *Issuer {
	return &Issuer{keys: keys}
}

// Issue mints a token for the client, restricted to the intersection of
// the requested scopes and the client's granted scopes; requested scopes
// the client does not hold are silently dropped. The token is not yet
// persisted — that is the token store's Persist step.
//
// It returns the token record and the signed bearer string.
func (i *Issuer) Issue(client *Client, requested []Scope, userID string, ttl time.Duration) (*AccessToken, string, error) {
	granted := make([]Scope, 0, len(requested))
	for _, s := range requested {
		if client.HasScope(s) {
			granted = append(granted, s)
		}
	}

	now := time.Now()
	token := &AccessToken{
		ID:        uuid.NewString(),
		ClientID:  client.ID,
		Scopes:    granted,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
	}

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        token.ID,
			Issuer:    tokenIssuerName,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(token.ExpiresAt),
		},
		ClientID: client.ID,
		Scopes:   ScopeStrings(granted),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.keys.Private)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign access token: %w", err)
	}

	token.ShortToken = ShortTokenOf(signed)
	return token, signed, nil
}
