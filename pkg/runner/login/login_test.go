package login

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"

	"tableflip.dev/firemap/pkg/auth"
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

func loginServer(t *testing.T) *httptest.Server {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{Username: "ranger"}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Auth struct{ Username, Password string } `json:"auth"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Auth.Username != "ranger" || body.Auth.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": tok})
	}))
}

func TestLoginPromptsForMissingCredentials(t *testing.T) {
	srv := loginServer(t)
	defer srv.Close()
	mem := memoryStorage{}
	sess := auth.New(srv.URL, mem, nil)

	var out strings.Builder
	l := &Login{Session: sess, In: strings.NewReader("ranger\npw"), Out: &out}
	if err := l.Do(context.Background()); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out.String(), "username: ") || !strings.Contains(out.String(), "password: ") {
		t.Errorf("prompts missing from %q", out.String())
	}
	if _, ok := mem[store.KeyToken]; !ok {
		t.Fatal("token not stored")
	}

	out.Reset()
	if err := (&Whoami{Session: sess, Out: &out}).Do(context.Background()); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out.String(), "ranger") {
		t.Errorf("whoami = %q", out.String())
	}

	if err := (&Logout{Session: sess, Out: &strings.Builder{}}).Do(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := (&Whoami{Session: sess, Out: &out}).Do(context.Background()); err != auth.ErrNotLoggedIn {
		t.Fatalf("whoami after logout = %v", err)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := loginServer(t)
	defer srv.Close()
	sess := auth.New(srv.URL, memoryStorage{}, nil)
	l := &Login{Session: sess, Username: "ranger", Password: "nope", Out: &strings.Builder{}}
	if err := l.Do(context.Background()); err != auth.ErrInvalidCredentials {
		t.Fatalf("err = %v", err)
	}
}

func TestLoginWithoutInput(t *testing.T) {
	l := &Login{Session: auth.New("http://unused", memoryStorage{}, nil), Username: "ranger"}
	if err := l.Do(context.Background()); err == nil || !strings.Contains(err.Error(), "password required") {
		t.Fatalf("err = %v", err)
	}
}
