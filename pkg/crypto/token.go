package crypto

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	// TokenIssuer is the issuer claim stamped on every generated token.
	TokenIssuer = "supabase"

	// TokenLifetime is how long generated tokens stay valid (ten 365-day years).
	TokenLifetime = 315360000 * time.Second
)

// TokenClaims is the payload of a generated service token.
type TokenClaims struct {
	Role      string `json:"role"`
	Issuer    string `json:"iss"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// GetExpirationTime implements jwt.Claims.
func (c TokenClaims) GetExpirationTime() (*jwtlib.NumericDate, error) {
	return jwtlib.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

// GetIssuedAt implements jwt.Claims.
func (c TokenClaims) GetIssuedAt() (*jwtlib.NumericDate, error) {
	return jwtlib.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

// GetNotBefore implements jwt.Claims.
func (c TokenClaims) GetNotBefore() (*jwtlib.NumericDate, error) {
	return nil, nil
}

// GetIssuer implements jwt.Claims.
func (c TokenClaims) GetIssuer() (string, error) {
	return c.Issuer, nil
}

// GetSubject implements jwt.Claims.
func (c TokenClaims) GetSubject() (string, error) {
	return "", nil
}

// GetAudience implements jwt.Claims.
func (c TokenClaims) GetAudience() (jwtlib.ClaimStrings, error) {
	return nil, nil
}

// NewTokenClaims builds the claims for role issued at the given instant.
func NewTokenClaims(role string, issuedAt time.Time) TokenClaims {
	iat := issuedAt.Unix()
	return TokenClaims{
		Role:      role,
		Issuer:    TokenIssuer,
		IssuedAt:  iat,
		ExpiresAt: iat + int64(TokenLifetime/time.Second),
	}
}

// SignToken issues an HS256 token for role, keyed by secret. The output is
// deterministic for a fixed secret, role and issuedAt.
func SignToken(secret, role string, issuedAt time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("signing secret is required")
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, NewTokenClaims(role, issuedAt))
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", role, err)
	}
	return signed, nil
}
