package commands

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"tableflip.dev/firemap/pkg/app"
	"tableflip.dev/firemap/pkg/auth"
	"tableflip.dev/firemap/pkg/config"
	"tableflip.dev/firemap/pkg/dataservice"
	"tableflip.dev/firemap/pkg/fileservice"
	"tableflip.dev/firemap/pkg/logging"
	"tableflip.dev/firemap/pkg/printers"
	"tableflip.dev/firemap/pkg/store"
)

// env is everything a command needs, built from configuration.
type env struct {
	settings   *config.Settings
	log        *logrus.Logger
	storage    *store.DiskStorage
	controller *app.Controller
	session    *auth.Session
	files      *fileservice.Client
	closers    []io.Closer
}

// loadEnv reads config and wires the clients. The dashboard owns the
// terminal, so with screen set logs go to log_file or nowhere.
func loadEnv(screen bool) (*env, error) {
	s, err := config.LoadWith(vp)
	if err != nil {
		return nil, err
	}
	e := &env{settings: s}

	var out io.Writer = os.Stderr
	switch {
	case s.LogFile != "":
		f, err := logging.OpenFile(s.LogFile)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, f)
		out = f
	case screen:
		out = io.Discard
	}
	if e.log, err = logging.New(logging.Options{Level: s.LogLevel, Format: s.LogFormat, Output: out}); err != nil {
		e.Close()
		return nil, err
	}
	printers.UseColor(os.Stdout)

	if e.storage, err = store.Load(s); err != nil {
		e.Close()
		return nil, err
	}
	data := dataservice.New(s.DataURL, e.log.WithField("service", "data"))
	e.controller = app.NewController(e.storage, data, e.log)
	e.session = auth.New(s.AuthURL, e.storage, e.log.WithField("service", "auth"))
	e.files = fileservice.New(s.FilesURL, e.session, e.log.WithField("service", "files"))
	return e, nil
}

func (e *env) Close() {
	for _, c := range e.closers {
		_ = c.Close()
	}
}

// downloadDir prefers the flag value over config.
func (e *env) downloadDir(flag string) string {
	if flag != "" {
		return flag
	}
	return e.settings.DownloadDir
}
