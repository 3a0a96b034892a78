package domain

import (
	"errors"
	"time"
)

var ErrSessionInvalid = errors.New("session is invalid or expired")

type SessionUser struct {
	ID    string
	Email string
	Name  string
}

type Session struct {
	User    SessionUser
	Expires time.Time
}
