package filemanager

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"tableflip.dev/firemap/pkg/download"
	"tableflip.dev/firemap/pkg/fileservice"
	"tableflip.dev/firemap/pkg/logging"
)

// FileService is the subset of the file service client the dispatcher uses.
type FileService interface {
	Delete(ctx context.Context, ids []string) error
	Upload(ctx context.Context, name string, r io.Reader) error
	Download(ctx context.Context, ids []string) ([]byte, error)
	PDF(ctx context.Context, name string) ([]byte, error)
	Text(ctx context.Context, name string) (string, error)
}

// Kind is a previewable content type.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindText Kind = "txt"
)

// Viewer presents fetched file content.
type Viewer interface {
	Open(name string, kind Kind, body []byte) error
}

// Dispatcher executes actions against the file service. It holds no state
// between calls.
type Dispatcher struct {
	Files  FileService
	Picker FilePicker
	Sink   download.Sink
	Viewer Viewer
	Log    logrus.FieldLogger
}

// Handle runs a. It never panics and never returns an error: failures are
// logged and reported as false. Preview always reports false.
func (d *Dispatcher) Handle(ctx context.Context, a Action) bool {
	log := d.logger().WithField("action", Name(a))
	switch a := a.(type) {
	case Delete:
		return d.delete(ctx, log, a)
	case Upload:
		return d.upload(ctx, log)
	case Download:
		return d.download(ctx, log, a)
	case Preview:
		d.preview(ctx, log, a)
		return false
	case Unknown:
		log.WithField("id", a.ID).Debug("ignoring action")
	}
	return false
}

// Refreshes reports whether the file tree should be fetched again after a
// returned ok.
func Refreshes(a Action, ok bool) bool {
	if !ok {
		return false
	}
	switch a.(type) {
	case Delete, Upload, Download:
		return true
	}
	return false
}

func (d *Dispatcher) delete(ctx context.Context, log logrus.FieldLogger, a Delete) bool {
	if len(a.Selected) == 0 {
		log.Debug("nothing selected")
		return false
	}
	ids := fileservice.IDs(a.Selected)
	if err := d.Files.Delete(ctx, ids); err != nil {
		log.WithError(err).Warn("delete failed")
		return false
	}
	log.WithField("count", len(ids)).Info("deleted")
	return true
}

func (d *Dispatcher) upload(ctx context.Context, log logrus.FieldLogger) bool {
	if d.Picker == nil {
		log.Warn("no file picker")
		return false
	}
	name, r, err := d.Picker.Pick(ctx, ".zip")
	if err != nil {
		if errors.Is(err, ErrNoFileChosen) {
			log.Debug("upload cancelled")
		} else {
			log.WithError(err).Warn("pick failed")
		}
		return false
	}
	defer r.Close()
	if err := d.Files.Upload(ctx, name, r); err != nil {
		log.WithError(err).WithField("file", name).Warn("upload failed")
		return false
	}
	log.WithField("file", name).Info("uploaded")
	return true
}

func (d *Dispatcher) download(ctx context.Context, log logrus.FieldLogger, a Download) bool {
	if len(a.Selected) == 0 {
		log.Debug("nothing selected")
		return false
	}
	if d.Sink == nil {
		log.Warn("no download sink")
		return false
	}
	b, err := d.Files.Download(ctx, fileservice.IDs(a.Selected))
	if err != nil {
		log.WithError(err).Warn("download failed")
		return false
	}
	path, err := d.Sink.Save(download.FilesName, b)
	if err != nil {
		log.WithError(err).Warn("save failed")
		return false
	}
	log.WithField("path", path).Info("downloaded")
	return true
}

func (d *Dispatcher) preview(ctx context.Context, log logrus.FieldLogger, a Preview) {
	f := a.File
	if f.IsDir {
		return
	}
	log = log.WithField("file", f.Name)
	var (
		kind Kind
		body []byte
	)
	switch Kind(f.Ext()) {
	case KindPDF:
		b, err := d.Files.PDF(ctx, f.Name)
		if err != nil {
			log.WithError(err).Warn("pdf preview failed")
			return
		}
		kind, body = KindPDF, b
	case KindText:
		s, err := d.Files.Text(ctx, f.Name)
		if err != nil {
			log.WithError(err).Warn("text preview failed")
			return
		}
		kind, body = KindText, []byte(s)
	default:
		log.Debug("not previewable")
		return
	}
	if d.Viewer == nil {
		return
	}
	if err := d.Viewer.Open(f.Name, kind, body); err != nil {
		log.WithError(err).Warn("viewer failed")
	}
}

func (d *Dispatcher) logger() logrus.FieldLogger {
	if d.Log != nil {
		return d.Log
	}
	return logging.Discard()
}
