package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// TokenDetails is one credential as issued by the backend. A nil ExpiresAt
// means the token never expires.
type TokenDetails struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// Expired reports whether the token's deadline is at or before now.
func (d TokenDetails) Expired(now time.Time) bool {
	if d.ExpiresAt == nil {
		return false
	}
	return !now.Before(*d.ExpiresAt)
}

// Claims parses the token as an unverified JWT and returns its claims.
// The client holds no verification key, so this is display/introspection
// only; validity is always the server's call.
func (d TokenDetails) Claims() (jwt.MapClaims, error) {
	if d.Token == "" {
		return nil, errors.New("[TokenDetails.Claims] empty token")
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(d.Token, jwt.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[TokenDetails.Claims] ParseUnverified")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("[TokenDetails.Claims] error extracting claims")
	}
	return claims, nil
}

// TokenPair is the access/refresh credential bundle. A pair is either fully
// present or the session is anonymous; a deserialized pair missing either
// token string is malformed and must be discarded.
type TokenPair struct {
	AccessToken  TokenDetails `json:"accessToken"`
	RefreshToken TokenDetails `json:"refreshToken"`
}

// Valid reports whether the pair has the shape invariant: both tokens set.
func (p *TokenPair) Valid() bool {
	return p != nil && p.AccessToken.Token != "" && p.RefreshToken.Token != ""
}
