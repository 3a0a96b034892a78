package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
)

const (
	CSRFCookieName = "csrf-token"

	csrfTokenBytes    = 32
	defaultCSRFMaxAge = 24 * time.Hour
)

// CSRFHeaders are set on every token issuance response.
var CSRFHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "DENY",
	"X-XSS-Protection":       "1; mode=block",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
}

// CSRFUsecase issues and checks double-submit tokens. The cookie is the
// only store: nothing is kept server side and a verified token is not consumed.
type CSRFUsecase struct {
	random io.Reader
	now    func() time.Time
	maxAge time.Duration
	secure bool
}

type CSRFOption func(*CSRFUsecase)

// WithRandom swaps the entropy source.
func WithRandom(r io.Reader) CSRFOption {
	return func(u *CSRFUsecase) { u.random = r }
}

func WithClock(now func() time.Time) CSRFOption {
	return func(u *CSRFUsecase) { u.now = now }
}

func WithMaxAge(d time.Duration) CSRFOption {
	return func(u *CSRFUsecase) {
		if d > 0 {
			u.maxAge = d
		}
	}
}

// NewCSRFUsecase returns a token service. secure controls the cookie's Secure flag
// and should be true in production.
func NewCSRFUsecase(secure bool, opts ...CSRFOption) *CSRFUsecase {
	u := &CSRFUsecase{
		random: rand.Reader,
		now:    time.Now,
		maxAge: defaultCSRFMaxAge,
		secure: secure,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Issue draws a fresh token. It never looks at previously issued tokens.
func (u *CSRFUsecase) Issue(_ context.Context) (*domain.CSRFToken, error) {
	raw := make([]byte, csrfTokenBytes)
	if _, err := io.ReadFull(u.random, raw); err != nil {
		return nil, fmt.Errorf("generate csrf token: %w", err)
	}
	return &domain.CSRFToken{
		Value:    hex.EncodeToString(raw),
		IssuedAt: u.now(),
		MaxAge:   u.maxAge,
	}, nil
}

// Verify compares the submitted token with the one from the request cookie.
// The checks run in a fixed order: submitted, stored, equality.
func (u *CSRFUsecase) Verify(submitted, stored string) error {
	if submitted == "" {
		return domain.ErrCSRFTokenMissing
	}
	if stored == "" {
		return domain.ErrCSRFNoStoredToken
	}
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) != 1 {
		return domain.ErrCSRFTokenMismatch
	}
	return nil
}

func (u *CSRFUsecase) Cookie(tok *domain.CSRFToken) domain.Cookie {
	return domain.Cookie{
		Name:     CSRFCookieName,
		Value:    tok.Value,
		Path:     "/",
		MaxAge:   int(tok.MaxAge / time.Second),
		HTTPOnly: true,
		Secure:   u.secure,
		SameSite: domain.SameSiteStrict,
	}
}

type csrfIssueBody struct {
	CSRFToken string `json:"csrfToken"`
	Timestamp int64  `json:"timestamp"`
}

type csrfVerifyBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

const csrfVerifiedMessage = "CSRF token verified successfully"

// IssueResponse is Issue in request/response form.
func (u *CSRFUsecase) IssueResponse(ctx context.Context) (domain.Response, *domain.CSRFToken, error) {
	tok, err := u.Issue(ctx)
	if err != nil {
		return domain.Response{}, nil, err
	}

	headers := make(map[string]string, len(CSRFHeaders))
	for k, v := range CSRFHeaders {
		headers[k] = v
	}

	return domain.Response{
		Status:     http.StatusOK,
		Headers:    headers,
		SetCookies: []domain.Cookie{u.Cookie(tok)},
		Body: csrfIssueBody{
			CSRFToken: tok.Value,
			Timestamp: tok.IssuedAt.UnixMilli(),
		},
	}, tok, nil
}

// VerifyResponse is Verify in request/response form. The error is returned
// alongside so callers can record the outcome.
func (u *CSRFUsecase) VerifyResponse(submitted string, req domain.Request) (domain.Response, error) {
	err := u.Verify(submitted, req.Cookies[CSRFCookieName])
	if err != nil {
		return domain.Response{
			Status: CSRFStatus(err),
			Body:   errorBody{Error: CSRFMessage(err)},
		}, err
	}
	return domain.Response{
		Status: http.StatusOK,
		Body:   csrfVerifyBody{Success: true, Message: csrfVerifiedMessage},
	}, nil
}

// CSRFStatus maps a verification error to its HTTP status.
func CSRFStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrCSRFTokenMissing):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCSRFNoStoredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrCSRFTokenMismatch):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// CSRFMessage maps a verification error to the message clients see.
func CSRFMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrCSRFTokenMissing):
		return "CSRF token missing"
	case errors.Is(err, domain.ErrCSRFNoStoredToken):
		return "No CSRF token found in cookies"
	case errors.Is(err, domain.ErrCSRFTokenMismatch):
		return "Invalid CSRF token"
	default:
		return "Internal server error"
	}
}
