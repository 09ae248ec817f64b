// Package files drives the file action dispatcher from the command line.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tableflip.dev/firemap/pkg/auth"
	"tableflip.dev/firemap/pkg/filemanager"
	"tableflip.dev/firemap/pkg/fileservice"
	"tableflip.dev/firemap/pkg/printers"
)

// ErrLoginRequired is returned when no valid login is stored.
var ErrLoginRequired = errors.New("login required, run `firemap login`")

// Op is a files subcommand.
type Op string

const (
	OpTree     Op = "tree"
	OpDelete   Op = "delete"
	OpUpload   Op = "upload"
	OpDownload Op = "download"
	OpPreview  Op = "preview"
)

// Validator confirms the stored login.
type Validator interface {
	Validate(ctx context.Context) error
}

// TreeSource lists the remote files.
type TreeSource interface {
	Tree(ctx context.Context) ([]fileservice.FileEntry, error)
}

type Files struct {
	Auth       Validator
	Tree       TreeSource
	Dispatcher *filemanager.Dispatcher
	Op         Op
	// Args are entry ids, or the local path for upload.
	Args []string
	JSON bool
	Out  io.Writer
}

type resultJSON struct {
	Action string `json:"action"`
	OK     bool   `json:"ok"`
}

func (f *Files) Do(ctx context.Context) error {
	if err := f.Auth.Validate(ctx); err != nil {
		if errors.Is(err, auth.ErrNotLoggedIn) {
			return ErrLoginRequired
		}
		return err
	}

	tree, err := f.Tree.Tree(ctx)
	if err != nil {
		return fmt.Errorf("file tree: %w", err)
	}
	if f.Op == OpTree || f.Op == "" {
		return f.printTree(tree)
	}

	var a filemanager.Action
	switch f.Op {
	case OpUpload:
		if len(f.Args) != 1 {
			return errors.New("upload takes one local .zip path")
		}
		f.Dispatcher.Picker = filemanager.PathPicker{Path: f.Args[0]}
		a = filemanager.Upload{}
	case OpDelete, OpDownload, OpPreview:
		selected, err := lookup(tree, f.Args)
		if err != nil {
			return err
		}
		a = filemanager.ParseAction(string(f.Op), selected)
	default:
		return fmt.Errorf("unknown files action %q", f.Op)
	}

	ok := f.Dispatcher.Handle(ctx, a)
	if f.JSON {
		if err := printers.JSON(out(f.Out), resultJSON{Action: filemanager.Name(a), OK: ok}); err != nil {
			return err
		}
	}
	if _, preview := a.(filemanager.Preview); preview {
		return nil
	}
	if !ok {
		return fmt.Errorf("%s failed, see the log for details", filemanager.Name(a))
	}
	if !filemanager.Refreshes(a, ok) || f.JSON {
		return nil
	}
	tree, err = f.Tree.Tree(ctx)
	if err != nil {
		return fmt.Errorf("file tree: %w", err)
	}
	return f.printTree(tree)
}

func (f *Files) printTree(tree []fileservice.FileEntry) error {
	if f.JSON {
		return printers.JSON(out(f.Out), tree)
	}
	pp := printers.PrettyPrint{Out: f.Out}
	pp.Tree(fileservice.Flatten(tree))
	return nil
}

// lookup resolves ids against the tree so actions carry full entries.
func lookup(tree []fileservice.FileEntry, ids []string) ([]fileservice.FileEntry, error) {
	if len(ids) == 0 {
		return nil, errors.New("no file ids given")
	}
	byID := map[string]fileservice.FileEntry{}
	for _, r := range fileservice.Flatten(tree) {
		byID[r.Entry.ID] = r.Entry
	}
	var (
		out     []fileservice.FileEntry
		missing []string
	)
	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, e)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no such file: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func out(w io.Writer) io.Writer {
	if w == nil {
		return printers.Stdout()
	}
	return w
}
