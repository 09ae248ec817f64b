package fileservice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

type staticToken string

func (s staticToken) Token() (string, bool) { return string(s), s != "" }

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticToken("tok"), nil)
}

func TestTreeDecodesNestedEntries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/file-tree" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "tok" {
			t.Errorf("authorization = %q", got)
		}
		_, _ = io.WriteString(w, `[{"id":"fires","name":"fires","isDir":true,"files":[{"id":"fires/a.zip","name":"a.zip","isDir":false,"size":12}]},{"id":"readme.txt","name":"readme.txt","isDir":false}]`)
	})
	tree, err := c.Tree(context.Background())
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	rows := Flatten(tree)
	var got []string
	for _, r := range rows {
		got = append(got, strings.Repeat("  ", r.Depth)+r.Entry.Name)
	}
	want := []string{"fires", "  a.zip", "readme.txt"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("flattened tree (-want +got):\n%s", diff)
	}
	if rows[1].Entry.Size != 12 {
		t.Fatalf("size not decoded: %+v", rows[1].Entry)
	}
}

func TestDeleteSendsIDs(t *testing.T) {
	var got []string
	var method string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	})
	if err := c.Delete(context.Background(), []string{"/a", "/b"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if method != http.MethodDelete {
		t.Fatalf("method = %s", method)
	}
	if diff := cmp.Diff([]string{"/a", "/b"}, got); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}
}

func TestDeleteStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	err := c.Delete(context.Background(), []string{"/a"})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestUploadMultipart(t *testing.T) {
	var name, content string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		name, content = hdr.Filename, string(b)
	})
	if err := c.Upload(context.Background(), "/tmp/fires_2020.zip", strings.NewReader("zipdata")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if name != "fires_2020.zip" || content != "zipdata" {
		t.Fatalf("unexpected upload %q %q", name, content)
	}
}

func TestDownloadDecodesArchive(t *testing.T) {
	var ids string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ids = r.URL.Query().Get("fileIds")
		_ = json.NewEncoder(w).Encode(map[string]string{"zip_folder": base64.StdEncoding.EncodeToString([]byte("PK"))})
	})
	b, err := c.Download(context.Background(), []string{"a.zip", "b.zip"})
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if ids != "a.zip,b.zip" || string(b) != "PK" {
		t.Fatalf("unexpected download ids=%q body=%q", ids, b)
	}
}

func TestDownloadUnexpectedShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "[Errno 2] No such file")
	})
	if _, err := c.Download(context.Background(), []string{"a"}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestTextAcceptsBothShapes(t *testing.T) {
	for name, body := range map[string]string{
		"json": `{"text_content":"fire season notes"}`,
		"raw":  "fire season notes",
	} {
		t.Run(name, func(t *testing.T) {
			var filename string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var req map[string]string
				_ = json.NewDecoder(r.Body).Decode(&req)
				filename = req["filename"]
				_, _ = io.WriteString(w, body)
			})
			got, err := c.Text(context.Background(), "notes.txt")
			if err != nil {
				t.Fatalf("text: %v", err)
			}
			if got != "fire season notes" || filename != "notes.txt" {
				t.Fatalf("got %q for %q", got, filename)
			}
		})
	}
}

func TestPDFReturnsRawBytes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_pdf" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, "%PDF-1.4")
	})
	b, err := c.PDF(context.Background(), "report.pdf")
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if string(b) != "%PDF-1.4" {
		t.Fatalf("unexpected body %q", b)
	}
}

func TestEntryExt(t *testing.T) {
	for name, want := range map[string]string{"a.PDF": "pdf", "notes.txt": "txt", "dir": ""} {
		if got := (FileEntry{Name: name}).Ext(); got != want {
			t.Fatalf("Ext(%q) = %q, want %q", name, got, want)
		}
	}
}
