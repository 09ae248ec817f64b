// Package login signs in to the file service and stores the token.
package login

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tableflip.dev/firemap/pkg/auth"
	"tableflip.dev/firemap/pkg/printers"
)

type Login struct {
	Session  *auth.Session
	Username string
	Password string
	// In supplies missing credentials, one per line.
	In  io.Reader
	Out io.Writer
}

func (l *Login) Do(ctx context.Context) error {
	var r *bufio.Reader
	ask := func(label string) (string, error) {
		if r == nil {
			if l.In == nil {
				return "", fmt.Errorf("%s required", label)
			}
			r = bufio.NewReader(l.In)
		}
		_, _ = fmt.Fprintf(out(l.Out), "%s: ", label)
		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("reading %s: %w", label, err)
		}
		return strings.TrimSpace(line), nil
	}

	var err error
	if l.Username == "" {
		if l.Username, err = ask("username"); err != nil {
			return err
		}
	}
	if l.Password == "" {
		if l.Password, err = ask("password"); err != nil {
			return err
		}
	}
	claims, err := l.Session.Login(ctx, l.Username, l.Password)
	if err != nil {
		return err
	}
	user := claims.Username
	if user == "" {
		user = l.Username
	}
	pp := printers.PrettyPrint{Out: l.Out}
	pp.Login(user, claims.Expiry())
	return nil
}

type Logout struct {
	Session *auth.Session
	Out     io.Writer
}

func (l *Logout) Do(_ context.Context) error {
	if err := l.Session.Logout(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out(l.Out), "logged out")
	return nil
}

// Whoami prints the stored login without contacting the server.
type Whoami struct {
	Session *auth.Session
	Out     io.Writer
}

func (w *Whoami) Do(_ context.Context) error {
	c, err := w.Session.Claims()
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: w.Out}
	pp.Login(c.Username, c.Expiry())
	return nil
}

func out(w io.Writer) io.Writer {
	if w == nil {
		return printers.Stdout()
	}
	return w
}
