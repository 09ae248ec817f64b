package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"

	"tableflip.dev/firemap/pkg/store"
)

type memoryStorage map[string]string

func (m memoryStorage) Get(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memoryStorage) Set(key, value string) error {
	m[key] = value
	return nil
}

func (m memoryStorage) Delete(key string) error {
	delete(m, key)
	return nil
}

func signToken(t *testing.T, user string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username:         user,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	})
	s, err := tok.SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestLoginStoresToken(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token := signToken(t, "ranger", exp)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Auth struct {
				Username string `json:"username"`
				Password string `json:"password"`
			} `json:"auth"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.URL.Path != "/login/auth" || body.Auth.Username != "ranger" || body.Auth.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
	}))
	defer srv.Close()

	mem := memoryStorage{}
	s := New(srv.URL, mem, nil)
	claims, err := s.Login(context.Background(), "ranger", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if claims.Username != "ranger" || !claims.ExpiresAt.Time.Equal(exp) {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if mem[store.KeyToken] != token {
		t.Fatal("token not persisted")
	}
	if got, ok := s.Token(); !ok || got != token {
		t.Fatalf("Token() = %q, %v", got, ok)
	}

	if _, err := s.Login(context.Background(), "ranger", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Login(context.Background(), "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty credentials, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	mem := memoryStorage{}
	s := New(srv.URL, mem, nil)
	if err := s.Validate(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn without token, got %v", err)
	}
	mem[store.KeyToken] = "bad"
	if err := s.Validate(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn for rejected token, got %v", err)
	}
	mem[store.KeyToken] = "good"
	if err := s.Validate(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestClaimsAndLogout(t *testing.T) {
	mem := memoryStorage{store.KeyToken: signToken(t, "ranger", time.Now().Add(-time.Minute))}
	s := New("http://unused", mem, nil)
	c, err := s.Claims()
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	if !c.Expired(time.Now()) {
		t.Fatal("expected expired token")
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := s.Claims(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn after logout, got %v", err)
	}
}
