// Package filemanager turns file browser gestures into file service calls.
package filemanager

import (
	"strings"

	"tableflip.dev/firemap/pkg/fileservice"
)

// Action is one file browser gesture. The set of variants is closed.
type Action interface {
	action()
}

// Delete removes the selected entries.
type Delete struct {
	Selected []fileservice.FileEntry
}

// Upload asks the picker for a local archive and uploads it.
type Upload struct{}

// Download fetches an archive of the selected entries.
type Download struct {
	Selected []fileservice.FileEntry
}

// Preview shows the content of a single file.
type Preview struct {
	File fileservice.FileEntry
}

// Unknown is any gesture the dispatcher does not handle.
type Unknown struct {
	ID string
}

func (Delete) action()   {}
func (Upload) action()   {}
func (Download) action() {}
func (Preview) action()  {}
func (Unknown) action()  {}

// ParseAction maps a browser action id onto a variant. Preview uses the first
// selected entry.
func ParseAction(id string, selected []fileservice.FileEntry) Action {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "delete", "delete_file", "delete_files":
		return Delete{Selected: selected}
	case "upload", "upload_files":
		return Upload{}
	case "download", "download_files":
		return Download{Selected: selected}
	case "preview", "open_files", "view":
		if len(selected) == 0 {
			return Unknown{ID: id}
		}
		return Preview{File: selected[0]}
	}
	return Unknown{ID: id}
}

// Name returns a short label for logs and status lines.
func Name(a Action) string {
	switch a.(type) {
	case Delete:
		return "delete"
	case Upload:
		return "upload"
	case Download:
		return "download"
	case Preview:
		return "preview"
	}
	return "unknown"
}
