package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// SessionUsecase decodes session tokens for the introspection endpoint.
// The access router does not call it; routing stays presence-only.
type SessionUsecase struct {
	key []byte
}

func NewSessionUsecase(key []byte) *SessionUsecase {
	return &SessionUsecase{key: key}
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Decode validates an HS256 session token and returns its session.
// Any parse, signature or expiry failure maps to domain.ErrSessionInvalid.
func (u *SessionUsecase) Decode(raw string) (*domain.Session, error) {
	if raw == "" {
		return nil, domain.ErrSessionInvalid
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return u.key, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionInvalid, err)
	}
	if claims.Subject == "" {
		return nil, domain.ErrSessionInvalid
	}

	return &domain.Session{
		User: domain.SessionUser{
			ID:    claims.Subject,
			Email: claims.Email,
			Name:  claims.Name,
		},
		Expires: claims.ExpiresAt.Time,
	}, nil
}

// Sign mints a session token. Used by tests and local tooling; production
// sessions are minted by the auth provider.
func (u *SessionUsecase) Sign(user domain.SessionUser, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}
