package clinicapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the console shows about the signed-in staff member.
// It is read from the bearer token without verifying it; the backend
// remains the only authority on the token.
type TokenInfo struct {
	Subject   string
	Name      string
	Email     string
	ExpiresAt time.Time
}

// ParseTokenInfo reads the claims of a JWT bearer token.
func ParseTokenInfo(token string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("parse token: %w", err)
	}

	info := TokenInfo{}
	info.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	for _, key := range []string{"name", "preferred_username"} {
		if v, ok := claims[key].(string); ok && v != "" {
			info.Name = v
			break
		}
	}
	if v, ok := claims["email"].(string); ok {
		info.Email = v
	}
	return info, nil
}

// Expired reports whether the token carries an expiry before now.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// DisplayName returns the best human label for the token holder.
func (t TokenInfo) DisplayName() string {
	switch {
	case t.Name != "":
		return t.Name
	case t.Email != "":
		return t.Email
	default:
		return t.Subject
	}
}
