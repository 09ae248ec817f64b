// Package catalog prints the values the data service offers for filtering.
package catalog

import (
	"context"
	"fmt"
	"io"

	"tableflip.dev/firemap/pkg/app"
	"tableflip.dev/firemap/pkg/printers"
	"tableflip.dev/firemap/pkg/selection"
)

// Catalog fetches the catalog for the persisted data set and prints it with
// the current selection marked.
type Catalog struct {
	Controller *app.Controller
	JSON       bool
	Out        io.Writer
}

type catalogJSON struct {
	Catalog   selection.Catalog   `json:"catalog"`
	Selection selection.Selection `json:"selection"`
}

func (c *Catalog) Do(ctx context.Context) error {
	if c.Controller == nil {
		return fmt.Errorf("catalog: no controller")
	}
	if err := c.Controller.Init(ctx); err != nil {
		return fmt.Errorf("catalog unavailable: %w", err)
	}
	snap := c.Controller.Snapshot()
	if c.JSON {
		return printers.JSON(c.out(), catalogJSON{Catalog: snap.Catalog, Selection: snap.Selection})
	}
	pp := printers.PrettyPrint{Out: c.Out}
	pp.NewLine()
	pp.Catalog(snap.Catalog, snap.Selection)
	return nil
}

func (c *Catalog) out() io.Writer {
	if c.Out == nil {
		return printers.Stdout()
	}
	return c.Out
}
