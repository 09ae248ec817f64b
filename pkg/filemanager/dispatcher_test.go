package filemanager

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/firemap/pkg/fileservice"
)

type fakeFiles struct {
	calls    []string
	deleted  []string
	uploaded map[string]string
	archive  []byte
	text     string
	err      error
}

func (f *fakeFiles) Delete(_ context.Context, ids []string) error {
	f.calls = append(f.calls, "delete")
	f.deleted = ids
	return f.err
}

func (f *fakeFiles) Upload(_ context.Context, name string, r io.Reader) error {
	f.calls = append(f.calls, "upload")
	b, _ := io.ReadAll(r)
	if f.uploaded == nil {
		f.uploaded = map[string]string{}
	}
	f.uploaded[name] = string(b)
	return f.err
}

func (f *fakeFiles) Download(context.Context, []string) ([]byte, error) {
	f.calls = append(f.calls, "download")
	return f.archive, f.err
}

func (f *fakeFiles) PDF(context.Context, string) ([]byte, error) {
	f.calls = append(f.calls, "pdf")
	return []byte("%PDF"), f.err
}

func (f *fakeFiles) Text(context.Context, string) (string, error) {
	f.calls = append(f.calls, "text")
	return f.text, f.err
}

type memorySink struct{ saved map[string][]byte }

func (s *memorySink) Save(name string, data []byte) (string, error) {
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[name] = data
	return name, nil
}

type recordingViewer struct {
	name string
	kind Kind
	body string
}

func (v *recordingViewer) Open(name string, kind Kind, body []byte) error {
	v.name, v.kind, v.body = name, kind, string(body)
	return nil
}

func entries(ids ...string) []fileservice.FileEntry {
	out := make([]fileservice.FileEntry, len(ids))
	for i, id := range ids {
		out[i] = fileservice.FileEntry{ID: id, Name: filepath.Base(id)}
	}
	return out
}

func TestParseAction(t *testing.T) {
	sel := entries("/a.txt")
	tests := []struct {
		id   string
		want Action
	}{
		{"delete", Delete{Selected: sel}},
		{"delete_file", Delete{Selected: sel}},
		{"upload", Upload{}},
		{"download_files", Download{Selected: sel}},
		{"open_files", Preview{File: sel[0]}},
		{"view", Preview{File: sel[0]}},
		{"create_folder", Unknown{ID: "create_folder"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseAction(tt.id, sel)); diff != "" {
			t.Errorf("ParseAction(%q) (-want +got):\n%s", tt.id, diff)
		}
	}
	if got := ParseAction("preview", nil); got != (Unknown{ID: "preview"}) {
		t.Errorf("preview without selection = %#v", got)
	}
}

func TestDownloadEmptySelectionMakesNoCall(t *testing.T) {
	files := &fakeFiles{}
	d := &Dispatcher{Files: files, Sink: &memorySink{}}
	if d.Handle(context.Background(), ParseAction("download", nil)) {
		t.Fatal("expected false")
	}
	if d.Handle(context.Background(), Delete{}) {
		t.Fatal("expected false")
	}
	if len(files.calls) != 0 {
		t.Fatalf("calls = %v", files.calls)
	}
}

func TestUnknownIsNoop(t *testing.T) {
	files := &fakeFiles{}
	d := &Dispatcher{Files: files}
	a := ParseAction("unknown", nil)
	if d.Handle(context.Background(), a) || Refreshes(a, true) {
		t.Fatal("unknown action should do nothing")
	}
	if len(files.calls) != 0 {
		t.Fatalf("calls = %v", files.calls)
	}
}

func TestDeleteAgainstService(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/delete-folders" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := &Dispatcher{Files: fileservice.New(srv.URL, nil, nil)}
	a := ParseAction("delete", entries("/a", "/b"))
	ok := d.Handle(context.Background(), a)
	if !ok || !Refreshes(a, ok) {
		t.Fatalf("handle = %v", ok)
	}
	if diff := cmp.Diff([]string{"/a", "/b"}, got); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}
}

func TestDeleteFailureReportsFalse(t *testing.T) {
	d := &Dispatcher{Files: &fakeFiles{err: errors.New("500")}}
	a := Delete{Selected: entries("/a")}
	if ok := d.Handle(context.Background(), a); ok || Refreshes(a, ok) {
		t.Fatal("expected false")
	}
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	zip := filepath.Join(dir, "fires.zip")
	if err := os.WriteFile(zip, []byte("PK"), 0o644); err != nil {
		t.Fatal(err)
	}
	files := &fakeFiles{}
	d := &Dispatcher{Files: files, Picker: PathPicker{Path: zip}}
	if !d.Handle(context.Background(), Upload{}) {
		t.Fatal("upload failed")
	}
	if files.uploaded["fires.zip"] != "PK" {
		t.Fatalf("uploaded = %v", files.uploaded)
	}

	for _, p := range []PathPicker{{}, {Path: filepath.Join(dir, "notes.txt")}, {Path: filepath.Join(dir, "missing.zip")}} {
		files.calls = nil
		d.Picker = p
		if d.Handle(context.Background(), Upload{}) {
			t.Fatalf("upload with %q should fail", p.Path)
		}
		if len(files.calls) != 0 {
			t.Fatalf("calls = %v", files.calls)
		}
	}
}

func TestDownloadSavesArchive(t *testing.T) {
	sink := &memorySink{}
	d := &Dispatcher{Files: &fakeFiles{archive: []byte("PK")}, Sink: sink}
	if !d.Handle(context.Background(), Download{Selected: entries("/a")}) {
		t.Fatal("download failed")
	}
	if string(sink.saved["downloaded_files.zip"]) != "PK" {
		t.Fatalf("saved = %v", sink.saved)
	}
}

func TestDownloadWithoutSinkSkipsFetch(t *testing.T) {
	files := &fakeFiles{archive: []byte("PK")}
	d := &Dispatcher{Files: files}
	if d.Handle(context.Background(), Download{Selected: entries("/a")}) {
		t.Fatal("expected false without a sink")
	}
	if len(files.calls) != 0 {
		t.Fatalf("calls = %v, want none", files.calls)
	}
}

func TestPreview(t *testing.T) {
	files := &fakeFiles{text: "hello"}
	v := &recordingViewer{}
	d := &Dispatcher{Files: files, Viewer: v}
	ctx := context.Background()

	if d.Handle(ctx, Preview{File: fileservice.FileEntry{ID: "/r/notes.TXT", Name: "notes.TXT"}}) {
		t.Fatal("preview reports false")
	}
	if v.kind != KindText || v.body != "hello" {
		t.Fatalf("viewer = %+v", v)
	}
	_ = d.Handle(ctx, Preview{File: fileservice.FileEntry{Name: "map.pdf"}})
	if v.kind != KindPDF || v.body != "%PDF" {
		t.Fatalf("viewer = %+v", v)
	}

	files.calls = nil
	_ = d.Handle(ctx, Preview{File: fileservice.FileEntry{Name: "data.shp"}})
	_ = d.Handle(ctx, Preview{File: fileservice.FileEntry{Name: "dir.txt", IsDir: true}})
	if len(files.calls) != 0 {
		t.Fatalf("calls = %v", files.calls)
	}
}

func TestTerminalViewer(t *testing.T) {
	var out strings.Builder
	var opened string
	v := TerminalViewer{Out: &out, Dir: t.TempDir(), Width: 10, Launch: func(p string) error {
		opened = p
		return nil
	}}
	if err := v.Open("a.txt", KindText, []byte("one two three four")); err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if len(line) > 10 {
			t.Fatalf("line %q wider than 10", line)
		}
	}
	if err := v.Open("../m.pdf", KindPDF, []byte("%PDF")); err != nil {
		t.Fatal(err)
	}
	if filepath.Base(opened) != "m.pdf" {
		t.Fatalf("opened %q", opened)
	}
	b, err := os.ReadFile(opened)
	if err != nil || string(b) != "%PDF" {
		t.Fatalf("pdf = %q, %v", b, err)
	}
}
