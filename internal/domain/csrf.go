package domain

import (
	"errors"
	"time"
)

var (
	ErrCSRFTokenMissing  = errors.New("csrf token missing")
	ErrCSRFNoStoredToken = errors.New("no csrf token in cookies")
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

type CSRFToken struct {
	Value    string
	IssuedAt time.Time
	MaxAge   time.Duration
}

// ExpiresAt is when the cookie carrying the token stops being sent.
func (t *CSRFToken) ExpiresAt() time.Time {
	return t.IssuedAt.Add(t.MaxAge)
}
