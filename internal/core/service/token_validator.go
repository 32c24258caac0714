package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/research-tracker/dashboard/internal/core/domain"
)

// tokenClaims mirrors what the API puts in its access tokens.
type tokenClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenValidator reads token claims without verifying the signature. It is
// advisory only: the API enforces expiry on every request.
type TokenValidator struct {
	parser *jwt.Parser
	now    func() time.Time
}

// NewTokenValidator returns a validator using the wall clock.
func NewTokenValidator() *TokenValidator {
	return NewTokenValidatorWithClock(time.Now)
}

// NewTokenValidatorWithClock returns a validator evaluating expiry against now.
func NewTokenValidatorWithClock(now func() time.Time) *TokenValidator {
	if now == nil {
		now = time.Now
	}
	return &TokenValidator{parser: jwt.NewParser(), now: now}
}

// Decode extracts subject, role, issued-at and expires-at. A token without an
// exp claim or with a role outside the enum is malformed.
func (v *TokenValidator) Decode(token string) (domain.TokenClaims, error) {
	var claims tokenClaims
	if _, _, err := v.parser.ParseUnverified(token, &claims); err != nil {
		return domain.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	if claims.ExpiresAt == nil {
		return domain.TokenClaims{}, fmt.Errorf("%w: missing exp claim", domain.ErrMalformedToken)
	}

	out := domain.TokenClaims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.Role != "" {
		role, err := domain.ParseRole(claims.Role)
		if err != nil {
			return domain.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
		}
		out.Role = role
	}
	return out, nil
}

// IsExpired reports true when the token cannot be decoded or its expiry is at
// or before the current time. No clock skew is tolerated.
func (v *TokenValidator) IsExpired(token string) bool {
	return v.IsExpiredAt(token, v.now())
}

// IsExpiredAt is IsExpired evaluated at a fixed instant.
func (v *TokenValidator) IsExpiredAt(token string, at time.Time) bool {
	claims, err := v.Decode(token)
	if err != nil {
		return true
	}
	return !claims.ExpiresAt.After(at)
}
