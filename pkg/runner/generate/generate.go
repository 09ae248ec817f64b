// Package generate asks the data service for a map of the persisted
// selection.
package generate

import (
	"context"
	"io"

	"tableflip.dev/firemap/pkg/app"
	"tableflip.dev/firemap/pkg/printers"
)

type Generate struct {
	Controller *app.Controller
	JSON       bool
	Out        io.Writer
}

type generateJSON struct {
	Status    string `json:"status"`
	MapRef    string `json:"mapRef,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Do initializes the controller so a session id is assigned, then generates.
// An init failure is not fatal; generation runs with whatever was restored.
func (g *Generate) Do(ctx context.Context) error {
	_ = g.Controller.Init(ctx)
	status, err := g.Controller.Generate(ctx)
	snap := g.Controller.Snapshot()
	if g.JSON {
		res := generateJSON{Status: status.String(), MapRef: snap.Artifact.Ref, SessionID: snap.SessionID}
		if err != nil {
			res.Error = err.Error()
		}
		if perr := printers.JSON(out(g.Out), res); perr != nil {
			return perr
		}
		return err
	}
	pp := printers.PrettyPrint{Out: g.Out}
	pp.Status(status.String(), snap.Artifact, err)
	return err
}

func out(w io.Writer) io.Writer {
	if w == nil {
		return printers.Stdout()
	}
	return w
}
