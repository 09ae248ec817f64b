// Package dataservice is the HTTP client for the wildfire data service, which
// advertises selectable values and renders filtered maps.
package dataservice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"tableflip.dev/firemap/pkg/logging"
)

// ErrMalformed is returned when a response body cannot be decoded or lacks a
// required field.
var ErrMalformed = errors.New("dataservice: malformed response")

// StatusError reports a non-2xx response.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dataservice: %s returned %d %s", e.Endpoint, e.Code, http.StatusText(e.Code))
}

// ListResponse is the catalog advertised for a data set.
type ListResponse struct {
	AllYears    []int    `json:"allYears"`
	AllIslands  []string `json:"allIslands"`
	AllMonths   []string `json:"allMonths"`
	AllDataSets []string `json:"allDataSets"`
}

// ExistingResponse carries the session id and any map generated earlier for
// that session.
type ExistingResponse struct {
	SessionID string `json:"id_num"`
	MapData   string `json:"map_data"`
}

// Query is a map generation request.
type Query struct {
	Years     string
	Months    string
	Islands   string
	SessionID string
	DataSet   string
}

// DataResponse is a generated map.
type DataResponse struct {
	MapHTML string `json:"mapHtml"`
	MapData string `json:"map_data"`
}

// Client talks to the data service rooted at BaseURL (e.g. http://host/api).
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Log        logrus.FieldLogger
}

// New returns a client for baseURL.
func New(baseURL string, log logrus.FieldLogger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
		Log:        log,
	}
}

// List fetches the catalog. An empty dataSet lets the service pick its default.
func (c *Client) List(ctx context.Context, dataSet string) (ListResponse, error) {
	q := url.Values{}
	if dataSet != "" {
		q.Set("dataSet", dataSet)
	}
	var resp ListResponse
	if err := c.getJSON(ctx, "list", q, &resp); err != nil {
		return ListResponse{}, err
	}
	if resp.AllYears == nil && resp.AllIslands == nil && resp.AllMonths == nil && resp.AllDataSets == nil {
		return ListResponse{}, errors.Wrap(ErrMalformed, "list: no catalog fields")
	}
	return resp, nil
}

// Existing fetches the map previously generated for sessionID. The service
// assigns a new id when sessionID is empty.
func (c *Client) Existing(ctx context.Context, sessionID string) (ExistingResponse, error) {
	q := url.Values{}
	if sessionID != "" {
		q.Set("param1", sessionID)
	}
	var resp ExistingResponse
	if err := c.getJSON(ctx, "existing", q, &resp); err != nil {
		return ExistingResponse{}, err
	}
	return resp, nil
}

// Generate asks the service to render a map for q.
func (c *Client) Generate(ctx context.Context, q Query) (DataResponse, error) {
	v := url.Values{}
	v.Set("years", q.Years)
	v.Set("months", q.Months)
	v.Set("islands", q.Islands)
	v.Set("id_num", q.SessionID)
	v.Set("dataSet", q.DataSet)
	var resp DataResponse
	if err := c.getJSON(ctx, "data", v, &resp); err != nil {
		return DataResponse{}, err
	}
	if resp.MapHTML == "" {
		return DataResponse{}, errors.Wrap(ErrMalformed, "data: missing mapHtml")
	}
	return resp, nil
}

// MapZip downloads the shapefile archive for the session's last map.
func (c *Client) MapZip(ctx context.Context, sessionID string) ([]byte, error) {
	q := url.Values{}
	q.Set("id_num", sessionID)
	var resp struct {
		ShapeZip *string `json:"shape_zip"`
	}
	if err := c.getJSON(ctx, "mapZip", q, &resp); err != nil {
		return nil, err
	}
	if resp.ShapeZip == nil {
		return nil, errors.Wrap(ErrMalformed, "mapZip: missing shape_zip")
	}
	b, err := base64.StdEncoding.DecodeString(*resp.ShapeZip)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformed, "mapZip: decode shape_zip: %v", err)
	}
	return b, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, out interface{}) error {
	u := c.BaseURL + "/" + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrapf(err, "building %s request", endpoint)
	}
	reqID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)

	log := c.logger().WithFields(logrus.Fields{"endpoint": endpoint, "request_id": reqID})
	start := time.Now()

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		log.WithError(err).Warn("data service request failed")
		return errors.Wrapf(err, "requesting %s", endpoint)
	}
	defer resp.Body.Close()

	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start)})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Warn("data service returned error status")
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.WithError(err).Warn("data service returned undecodable body")
		return errors.Wrapf(ErrMalformed, "%s: %v", endpoint, err)
	}
	log.Debug("data service request complete")
	return nil
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logging.Discard()
	}
	return c.Log
}
