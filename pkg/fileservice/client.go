// Package fileservice is the HTTP client for the file service that stores the
// shapefile archives backing each data set.
package fileservice

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"tableflip.dev/firemap/pkg/logging"
)

// ErrMalformed is returned when a response body has an unexpected shape.
var ErrMalformed = errors.New("fileservice: malformed response")

// StatusError reports a non-2xx response.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fileservice: %s returned %d %s", e.Endpoint, e.Code, http.StatusText(e.Code))
}

// TokenSource supplies the login token sent as the Authorization header.
type TokenSource interface {
	Token() (string, bool)
}

// Client talks to the file service rooted at BaseURL.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Log        logrus.FieldLogger
}

// New returns a client for baseURL.
func New(baseURL string, tokens TokenSource, log logrus.FieldLogger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
		Tokens:     tokens,
		Log:        log,
	}
}

// Tree fetches the whole file tree.
func (c *Client) Tree(ctx context.Context) ([]FileEntry, error) {
	body, err := c.do(ctx, http.MethodGet, "file-tree", nil, nil, "")
	if err != nil {
		return nil, err
	}
	var entries []FileEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "file-tree: %v", err)
	}
	return entries, nil
}

// Delete removes the entries with the given ids.
func (c *Client) Delete(ctx context.Context, ids []string) error {
	b, err := json.Marshal(ids)
	if err != nil {
		return errors.Wrap(err, "encoding delete request")
	}
	_, err = c.do(ctx, http.MethodDelete, "delete-folders", nil, bytes.NewReader(b), "application/json")
	return err
}

// Upload sends r as a multipart "file" field named name.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return errors.Wrap(err, "creating upload form")
	}
	if _, err := io.Copy(part, r); err != nil {
		return errors.Wrapf(err, "reading %s", name)
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "closing upload form")
	}
	_, err = c.do(ctx, http.MethodPost, "upload-zip", nil, &buf, mw.FormDataContentType())
	return err
}

// Download asks the service to zip the given entries and returns the archive.
func (c *Client) Download(ctx context.Context, ids []string) ([]byte, error) {
	q := url.Values{}
	q.Set("fileIds", strings.Join(ids, ","))
	body, err := c.do(ctx, http.MethodGet, "download-files", q, nil, "")
	if err != nil {
		return nil, err
	}
	var resp struct {
		ZipFolder *string `json:"zip_folder"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.ZipFolder == nil {
		return nil, errors.Wrap(ErrMalformed, "download-files: missing zip_folder")
	}
	b, err := base64.StdEncoding.DecodeString(*resp.ZipFolder)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "download-files: decode zip_folder: %v", err)
	}
	return b, nil
}

// PDF fetches a pdf file's raw bytes.
func (c *Client) PDF(ctx context.Context, name string) ([]byte, error) {
	return c.postFilename(ctx, "get_pdf", name)
}

// Text fetches a text file. The service may answer with the raw text or with
// a {"text_content": ...} object.
func (c *Client) Text(ctx context.Context, name string) (string, error) {
	body, err := c.postFilename(ctx, "get_text", name)
	if err != nil {
		return "", err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var resp struct {
			TextContent *string `json:"text_content"`
		}
		if err := json.Unmarshal(trimmed, &resp); err == nil && resp.TextContent != nil {
			return *resp.TextContent, nil
		}
	}
	return string(body), nil
}

func (c *Client) postFilename(ctx context.Context, endpoint, name string) ([]byte, error) {
	b, err := json.Marshal(map[string]string{"filename": name})
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s request", endpoint)
	}
	return c.do(ctx, http.MethodPost, endpoint, nil, bytes.NewReader(b), "application/json")
}

func (c *Client) do(ctx context.Context, method, endpoint string, q url.Values, body io.Reader, contentType string) ([]byte, error) {
	u := c.BaseURL + "/" + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s request", endpoint)
	}
	reqID := uuid.New().String()
	req.Header.Set("X-Request-Id", reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Tokens != nil {
		if tok, ok := c.Tokens.Token(); ok {
			req.Header.Set("Authorization", tok)
		}
	}

	log := c.logger().WithFields(logrus.Fields{"method": method, "endpoint": endpoint, "request_id": reqID})
	start := time.Now()

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		log.WithError(err).Warn("file service request failed")
		return nil, errors.Wrapf(err, "requesting %s", endpoint)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start)})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("file service returned error status")
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}
	if err != nil {
		log.WithError(err).Warn("file service body read failed")
		return nil, errors.Wrapf(err, "reading %s response", endpoint)
	}
	log.Debug("file service request complete")
	return data, nil
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logging.Discard()
	}
	return c.Log
}
