// Package download saves the generated map or its shapefile archive.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"tableflip.dev/firemap/pkg/app"
	dl "tableflip.dev/firemap/pkg/download"
	"tableflip.dev/firemap/pkg/printers"
)

// What selects the payload.
type What string

const (
	HTML   What = "html"
	Shapes What = "shapes"
)

var errNotSaved = errors.New("nothing was saved, see the log for details")

type Download struct {
	Controller *app.Controller
	Dir        string
	What       What
	Out        io.Writer
}

func (d *Download) Do(ctx context.Context) error {
	_ = d.Controller.Init(ctx)
	sink := dl.DirSink{Dir: d.Dir}
	var (
		ok   bool
		name string
	)
	switch d.What {
	case HTML:
		ok, name = d.Controller.DownloadHTML(sink), dl.MapHTMLName
	case Shapes:
		ok, name = d.Controller.DownloadArchive(ctx, sink), dl.MapArchiveName
	default:
		return fmt.Errorf("unknown download %q, want html or shapes", d.What)
	}
	if !ok {
		return errNotSaved
	}
	pp := printers.PrettyPrint{Out: d.Out}
	pp.Saved("saved", filepath.Join(d.Dir, name))
	return nil
}
