package filemanager

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/muesli/reflow/wordwrap"
)

// TerminalViewer prints text previews to Out and hands pdf previews to the
// system opener.
type TerminalViewer struct {
	Out   io.Writer
	Dir   string
	Width int
	// Launch opens path in an external viewer. Defaults to OpenWithSystem.
	Launch func(path string) error
}

// Open implements Viewer.
func (v TerminalViewer) Open(name string, kind Kind, body []byte) error {
	switch kind {
	case KindText:
		width := v.Width
		if width <= 0 {
			width = 80
		}
		out := v.Out
		if out == nil {
			out = os.Stdout
		}
		_, err := fmt.Fprintln(out, wordwrap.String(string(body), width))
		return err
	case KindPDF:
		dir := v.Dir
		if dir == "" {
			dir = os.TempDir()
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(dir, filepath.Base(name))
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return err
		}
		launch := v.Launch
		if launch == nil {
			launch = OpenWithSystem
		}
		return launch(path)
	}
	return fmt.Errorf("filemanager: cannot view %s", kind)
}

// OpenWithSystem opens path with the desktop's default application.
func OpenWithSystem(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
