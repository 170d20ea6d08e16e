package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultInteractionTTL is the default lifetime of an interaction token.
// Long enough to complete a multi-step binding flow, short enough that an
// abandoned interaction doesn't linger.
const DefaultInteractionTTL = 30 * time.Minute

var (
	ErrIssuer  = errors.New("jwtx: issuer mismatch")
	ErrExpired = errors.New("jwtx: token expired")
)

// Claims are interaction-token claims. Subject carries the interaction id;
// UserID is the user the interaction was identified for.
type Claims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid,omitempty"`
}

// NewInteractionClaims builds minimally-correct claims for an interaction
// token.
func NewInteractionClaims(interactionID, userID, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   interactionID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		UserID: userID,
	}
}

// InteractionID returns the interaction id the token refers to.
func (c Claims) InteractionID() string { return c.Subject }

// ValidateIssuer checks the iss claim against the expected issuer.
func (c Claims) ValidateIssuer(issuer string) error {
	if issuer != "" && c.Issuer != issuer {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry checks exp/nbf against the current time.
func (c Claims) ValidateExpiry() error {
	now := time.Now()
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrExpired
	}
	return nil
}

// NewJTI generates a random token identifier (128 bits, base64url).
func NewJTI() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}
