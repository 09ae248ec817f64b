// Package auth implements the file manager's login flow. The server issues a
// short-lived JWT; the client stores it and sends it back verbatim.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"tableflip.dev/firemap/pkg/logging"
	"tableflip.dev/firemap/pkg/store"
)

var (
	// ErrInvalidCredentials is returned when the server rejects a login.
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
	// ErrNotLoggedIn is returned when no token is stored.
	ErrNotLoggedIn = errors.New("auth: not logged in")
)

// Claims is the subset of the token payload the client displays.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Expired reports whether the token's exp claim is in the past.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time)
}

// Expiry returns the exp claim, or the zero time when absent.
func (c Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Session manages the stored login token.
type Session struct {
	BaseURL    string
	HTTPClient *http.Client
	Storage    store.Storage
	Log        logrus.FieldLogger
}

// New returns a Session against baseURL.
func New(baseURL string, s store.Storage, log logrus.FieldLogger) *Session {
	return &Session{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
		Storage:    s,
		Log:        log,
	}
}

// Login exchanges credentials for a token and stores it.
func (s *Session) Login(ctx context.Context, username, password string) (Claims, error) {
	if username == "" || password == "" {
		return Claims{}, ErrInvalidCredentials
	}
	body, err := json.Marshal(map[string]interface{}{
		"auth": map[string]string{"username": username, "password": password},
	})
	if err != nil {
		return Claims{}, errors.Wrap(err, "encoding login request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/login/auth", bytes.NewReader(body))
	if err != nil {
		return Claims{}, errors.Wrap(err, "building login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client().Do(req)
	if err != nil {
		return Claims{}, errors.Wrap(err, "requesting login")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		s.logger().WithField("user", username).Warn("login rejected")
		return Claims{}, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Claims{}, errors.Errorf("auth: login returned %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Token == "" {
		return Claims{}, errors.New("auth: login response carried no token")
	}
	claims, err := ParseClaims(out.Token)
	if err != nil {
		return Claims{}, err
	}
	if err := s.Storage.Set(store.KeyToken, out.Token); err != nil {
		return Claims{}, errors.Wrap(err, "storing token")
	}
	s.logger().WithField("user", claims.Username).Info("logged in")
	return claims, nil
}

// Validate asks the server whether the stored token is still accepted.
func (s *Session) Validate(ctx context.Context) error {
	tok, ok := s.Token()
	if !ok {
		return ErrNotLoggedIn
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/protected", nil)
	if err != nil {
		return errors.Wrap(err, "building validation request")
	}
	req.Header.Set("Authorization", tok)
	resp, err := s.client().Do(req)
	if err != nil {
		return errors.Wrap(err, "validating token")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		s.logger().WithField("status", resp.StatusCode).Info("stored token rejected")
		return ErrNotLoggedIn
	}
	return nil
}

// Claims decodes the stored token without verifying its signature; the
// server remains the only verifier.
func (s *Session) Claims() (Claims, error) {
	tok, ok := s.Token()
	if !ok {
		return Claims{}, ErrNotLoggedIn
	}
	return ParseClaims(tok)
}

// Token implements fileservice.TokenSource.
func (s *Session) Token() (string, bool) {
	if s.Storage == nil {
		return "", false
	}
	tok, ok, err := s.Storage.Get(store.KeyToken)
	if err != nil {
		s.logger().WithError(err).Warn("reading stored token")
		return "", false
	}
	return tok, ok && tok != ""
}

// Logout forgets the stored token.
func (s *Session) Logout() error {
	return s.Storage.Delete(store.KeyToken)
}

// ParseClaims decodes a token's claims without signature verification.
func ParseClaims(token string) (Claims, error) {
	var c Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return Claims{}, errors.Wrap(err, "auth: decoding token")
	}
	return c, nil
}

func (s *Session) client() *http.Client {
	if s.HTTPClient == nil {
		return http.DefaultClient
	}
	return s.HTTPClient
}

func (s *Session) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logging.Discard()
	}
	return s.Log
}
