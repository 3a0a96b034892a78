package usecase_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
	"github.com/ErlanBelekov/content-gateway/internal/usecase"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newCSRF(secure bool, opts ...usecase.CSRFOption) *usecase.CSRFUsecase {
	opts = append([]usecase.CSRFOption{usecase.WithClock(func() time.Time { return fixedNow })}, opts...)
	return usecase.NewCSRFUsecase(secure, opts...)
}

func TestIssue_TokenIs32RandomBytesHex(t *testing.T) {
	tok, err := newCSRF(false).Issue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := hex.DecodeString(tok.Value)
	if err != nil {
		t.Fatalf("token %q is not hex: %v", tok.Value, err)
	}
	if len(raw) != 32 {
		t.Errorf("token carries %d bytes, want 32", len(raw))
	}
	if !tok.IssuedAt.Equal(fixedNow) {
		t.Errorf("IssuedAt = %v, want %v", tok.IssuedAt, fixedNow)
	}
	if !tok.ExpiresAt().Equal(fixedNow.Add(24 * time.Hour)) {
		t.Errorf("ExpiresAt = %v, want 24h after issue", tok.ExpiresAt())
	}
}

func TestIssue_UsesInjectedEntropy(t *testing.T) {
	src := bytes.NewReader(bytes.Repeat([]byte{0xab}, 32))
	tok, err := newCSRF(false, usecase.WithRandom(src)).Issue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := hex.EncodeToString(bytes.Repeat([]byte{0xab}, 32))
	if tok.Value != want {
		t.Errorf("token = %q, want %q", tok.Value, want)
	}
}

func TestIssue_EntropyFailure_Propagates(t *testing.T) {
	_, err := newCSRF(false, usecase.WithRandom(failingReader{})).Issue(context.Background())
	if err == nil {
		t.Fatal("expected error from failing entropy source")
	}
}

func TestIssue_TokensAreUnique(t *testing.T) {
	svc := usecase.NewCSRFUsecase(false)
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		tok, err := svc.Issue(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[tok.Value] {
			t.Fatalf("duplicate token after %d issues", i)
		}
		seen[tok.Value] = true
	}
}

func TestCookie_Attributes(t *testing.T) {
	tests := []struct {
		name   string
		secure bool
	}{
		{"development", false},
		{"production", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCSRF(tt.secure)
			tok, _ := svc.Issue(context.Background())
			ck := svc.Cookie(tok)

			if ck.Name != "csrf-token" {
				t.Errorf("name = %q, want csrf-token", ck.Name)
			}
			if ck.Value != tok.Value {
				t.Errorf("value = %q, want token", ck.Value)
			}
			if !ck.HTTPOnly {
				t.Error("cookie must be HttpOnly")
			}
			if ck.SameSite != domain.SameSiteStrict {
				t.Errorf("samesite = %q, want Strict", ck.SameSite)
			}
			if ck.Secure != tt.secure {
				t.Errorf("secure = %v, want %v", ck.Secure, tt.secure)
			}
			if ck.Path != "/" {
				t.Errorf("path = %q, want /", ck.Path)
			}
			if ck.MaxAge != 86400 {
				t.Errorf("max-age = %d, want 86400", ck.MaxAge)
			}
		})
	}
}

func TestCookie_CustomMaxAge(t *testing.T) {
	svc := newCSRF(false, usecase.WithMaxAge(time.Hour))
	tok, _ := svc.Issue(context.Background())

	if got := svc.Cookie(tok).MaxAge; got != 3600 {
		t.Errorf("max-age = %d, want 3600", got)
	}
}

func TestVerify(t *testing.T) {
	svc := newCSRF(false)

	tests := []struct {
		name      string
		submitted string
		stored    string
		wantErr   error
		wantCode  int
	}{
		{"match", "abc", "abc", nil, http.StatusOK},
		{"missing submitted", "", "abc", domain.ErrCSRFTokenMissing, http.StatusBadRequest},
		{"missing both", "", "", domain.ErrCSRFTokenMissing, http.StatusBadRequest},
		{"no stored", "abc", "", domain.ErrCSRFNoStoredToken, http.StatusUnauthorized},
		{"mismatch", "abc", "abd", domain.ErrCSRFTokenMismatch, http.StatusForbidden},
		{"prefix is not a match", "ab", "abc", domain.ErrCSRFTokenMismatch, http.StatusForbidden},
		{"case differs", "ABC", "abc", domain.ErrCSRFTokenMismatch, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Verify(tt.submitted, tt.stored)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Verify(%q, %q) = %v, want %v", tt.submitted, tt.stored, err, tt.wantErr)
			}
			if got := usecase.CSRFStatus(err); got != tt.wantCode {
				t.Errorf("status = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

// Tokens are not consumed: the same pair keeps verifying until the cookie expires.
func TestVerify_TokenReplayStillSucceeds(t *testing.T) {
	svc := newCSRF(false)
	tok, _ := svc.Issue(context.Background())

	for i := 0; i < 3; i++ {
		if err := svc.Verify(tok.Value, tok.Value); err != nil {
			t.Fatalf("verify #%d: %v", i+1, err)
		}
	}
}

func TestIssueThenVerifyResponse(t *testing.T) {
	svc := newCSRF(true)

	issued, tok, err := svc.IssueResponse(context.Background())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.Status != http.StatusOK {
		t.Fatalf("issue status = %d, want 200", issued.Status)
	}
	for k, v := range usecase.CSRFHeaders {
		if issued.Headers[k] != v {
			t.Errorf("header %s = %q, want %q", k, issued.Headers[k], v)
		}
	}
	if len(issued.SetCookies) != 1 || issued.SetCookies[0].Value != tok.Value {
		t.Fatalf("set cookies = %+v, want one carrying the token", issued.SetCookies)
	}

	var body struct {
		CSRFToken string `json:"csrfToken"`
		Timestamp int64  `json:"timestamp"`
	}
	raw, _ := json.Marshal(issued.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.CSRFToken != tok.Value {
		t.Errorf("body token = %q, want %q", body.CSRFToken, tok.Value)
	}
	if body.Timestamp != fixedNow.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", body.Timestamp, fixedNow.UnixMilli())
	}

	verified, err := svc.VerifyResponse(body.CSRFToken, domain.Request{
		Cookies: map[string]string{issued.SetCookies[0].Name: issued.SetCookies[0].Value},
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.Status != http.StatusOK {
		t.Errorf("verify status = %d, want 200", verified.Status)
	}
}

func TestVerifyResponse_ErrorBody(t *testing.T) {
	res, err := newCSRF(false).VerifyResponse("abc", domain.Request{})
	if !errors.Is(err, domain.ErrCSRFNoStoredToken) {
		t.Fatalf("err = %v, want ErrCSRFNoStoredToken", err)
	}
	if res.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", res.Status)
	}

	raw, _ := json.Marshal(res.Body)
	if string(raw) != `{"error":"No CSRF token found in cookies"}` {
		t.Errorf("body = %s", raw)
	}
}
