package fileservice

import (
	"path"
	"strings"
)

// FileEntry is one node of the remote file tree. ID is the path the file
// service uses to address the entry.
type FileEntry struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	IsDir    bool        `json:"isDir"`
	IsHidden bool        `json:"isHidden,omitempty"`
	Size     int64       `json:"size,omitempty"`
	ModDate  string      `json:"modDate,omitempty"`
	Files    []FileEntry `json:"files,omitempty"`
}

// Ext returns the lower-cased extension without the dot.
func (e FileEntry) Ext() string {
	name := e.Name
	if name == "" {
		name = e.ID
	}
	return strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
}

// Row is a flattened tree entry with its nesting depth.
type Row struct {
	Entry FileEntry
	Depth int
}

// Flatten walks the tree depth-first.
func Flatten(entries []FileEntry) []Row {
	var rows []Row
	var walk func([]FileEntry, int)
	walk = func(es []FileEntry, depth int) {
		for _, e := range es {
			rows = append(rows, Row{Entry: e, Depth: depth})
			if e.IsDir {
				walk(e.Files, depth+1)
			}
		}
	}
	walk(entries, 0)
	return rows
}

// IDs returns the identifiers of entries.
func IDs(entries []FileEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
