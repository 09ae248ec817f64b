// Package selection holds the runners that show and edit the persisted
// filter selection. None of them contact the data service.
package selection

import (
	"context"
	"fmt"
	"io"

	"tableflip.dev/firemap/pkg/app"
	"tableflip.dev/firemap/pkg/printers"
	sel "tableflip.dev/firemap/pkg/selection"
)

type Show struct {
	Controller *app.Controller
	JSON       bool
	Out        io.Writer
}

type showJSON struct {
	Selection sel.Selection `json:"selection"`
	SessionID string        `json:"sessionId,omitempty"`
	MapRef    string        `json:"mapRef,omitempty"`
}

func (s *Show) Do(_ context.Context) error {
	s.Controller.Restore()
	snap := s.Controller.Snapshot()
	if s.JSON {
		return printers.JSON(out(s.Out), showJSON{Selection: snap.Selection, SessionID: snap.SessionID, MapRef: snap.Artifact.Ref})
	}
	pp := printers.PrettyPrint{Out: s.Out}
	pp.Selection(snap.Selection, snap.SessionID, snap.Artifact)
	return nil
}

// Toggle flips each value in turn within one dimension.
type Toggle struct {
	Controller *app.Controller
	Dimension  sel.Dimension
	Values     []string
	JSON       bool
	Out        io.Writer
}

func (t *Toggle) Do(ctx context.Context) error {
	if len(t.Values) == 0 {
		return fmt.Errorf("no %s values given", t.Dimension)
	}
	t.Controller.Restore()
	for _, v := range t.Values {
		if err := t.Controller.Toggle(t.Dimension, v); err != nil {
			return err
		}
	}
	return (&Show{Controller: t.Controller, JSON: t.JSON, Out: t.Out}).Do(ctx)
}

type Clear struct {
	Controller *app.Controller
	Dimension  sel.Dimension
	JSON       bool
	Out        io.Writer
}

func (c *Clear) Do(ctx context.Context) error {
	c.Controller.Restore()
	if err := c.Controller.Clear(c.Dimension); err != nil {
		return fmt.Errorf("clear %s: %w", c.Dimension, err)
	}
	return (&Show{Controller: c.Controller, JSON: c.JSON, Out: c.Out}).Do(ctx)
}

// DataSet switches the data set. A failed catalog refresh is reported but the
// new data set stays selected.
type DataSet struct {
	Controller *app.Controller
	Name       string
	JSON       bool
	Out        io.Writer
}

func (d *DataSet) Do(ctx context.Context) error {
	d.Controller.Restore()
	if err := d.Controller.SelectDataSet(ctx, d.Name); err != nil {
		return fmt.Errorf("data set %q selected, catalog refresh failed: %w", d.Name, err)
	}
	return (&Show{Controller: d.Controller, JSON: d.JSON, Out: d.Out}).Do(ctx)
}

func out(w io.Writer) io.Writer {
	if w == nil {
		return printers.Stdout()
	}
	return w
}
