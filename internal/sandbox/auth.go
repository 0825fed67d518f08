package sandbox

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
)

// IssueToken signs an HS256 staff token accepted by a server using the
// same secret.
func IssueToken(secret []byte, subject, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"name": name,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verifyToken checks the signature and expiry of a bearer token.
func verifyToken(secret []byte, token string) (jwt.MapClaims, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if sub, _ := claims.GetSubject(); sub == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.secret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == r.Header.Get("Authorization") {
			token = ""
		}
		claims, err := verifyToken(s.secret, strings.TrimSpace(token))
		if err != nil {
			s.log.Warn().Err(err).Str("path", r.URL.Path).Msg("rejected request")
			writeError(w, http.StatusUnauthorized, errorBody{Message: "Unauthorized", Code: "unauthorized"})
			return
		}
		sub, _ := claims.GetSubject()
		s.log.Debug().Str("subject", sub).Msg("authenticated")
		next.ServeHTTP(w, r)
	})
}
