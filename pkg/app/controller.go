package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/firemap/pkg/dataservice"
	"tableflip.dev/firemap/pkg/download"
	"tableflip.dev/firemap/pkg/logging"
	"tableflip.dev/firemap/pkg/selection"
	"tableflip.dev/firemap/pkg/store"
)

// ErrNotClearable is returned by Clear for a dimension without a clear
// affordance.
var ErrNotClearable = errors.New("app: dimension cannot be cleared")

// DataService is the subset of the data service the controller needs.
type DataService interface {
	List(ctx context.Context, dataSet string) (dataservice.ListResponse, error)
	Existing(ctx context.Context, sessionID string) (dataservice.ExistingResponse, error)
	Generate(ctx context.Context, q dataservice.Query) (dataservice.DataResponse, error)
	MapZip(ctx context.Context, sessionID string) ([]byte, error)
}

// Snapshot is a point-in-time copy of the controller state.
type Snapshot struct {
	Selection selection.Selection
	Catalog   selection.Catalog
	Artifact  selection.Artifact
	SessionID string
	Status    Status
}

// Controller owns the filter selection, the session identity and the map
// artifact. It persists every selection change and every generated map to
// storage. All methods are safe for concurrent use.
type Controller struct {
	storage store.Storage
	data    DataService
	log     logrus.FieldLogger

	mu        sync.Mutex
	sel       selection.Selection
	catalog   selection.Catalog
	artifact  selection.Artifact
	sessionID string
	status    Status
	inflight  int
}

// NewController returns a controller with empty state. Call Init to restore
// and fetch.
func NewController(s store.Storage, data DataService, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{storage: s, data: data, log: log.WithField("component", "controller")}
}

// Init restores persisted state, then asks the data service for the catalog
// and any map left over from this session. The two responses are applied
// together or not at all. The returned error is informational.
func (c *Controller) Init(ctx context.Context) error {
	c.Restore()

	c.mu.Lock()
	dataSet, sessionID := c.sel.DataSet, c.sessionID
	c.mu.Unlock()

	var (
		list     dataservice.ListResponse
		existing dataservice.ExistingResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := c.data.List(gctx, dataSet)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		list = resp
		return nil
	})
	g.Go(func() error {
		resp, err := c.data.Existing(gctx, sessionID)
		if err != nil {
			return fmt.Errorf("existing: %w", err)
		}
		existing = resp
		return nil
	})
	if err := g.Wait(); err != nil {
		c.log.WithError(err).Warn("init: keeping empty catalog")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = catalogFrom(list)
	if existing.MapData != "" {
		c.artifact.Document = existing.MapData
	}
	if existing.SessionID != "" && existing.SessionID != c.sessionID {
		c.sessionID = existing.SessionID
		if err := c.storage.Set(store.KeySessionID, c.sessionID); err != nil {
			c.log.WithError(err).Warn("init: persist session id")
		}
	}
	c.log.WithFields(logrus.Fields{
		"session": c.sessionID,
		"years":   len(c.catalog.Years),
		"islands": len(c.catalog.Islands),
	}).Debug("init complete")
	return nil
}

// Reload re-reads the persisted selection. Catalog and artifact are kept.
func (c *Controller) Reload() {
	sel := c.readSelection()
	sessionID := c.readSessionID()
	c.mu.Lock()
	c.sel = sel
	if sessionID != "" {
		c.sessionID = sessionID
	}
	c.mu.Unlock()
}

// Toggle adds value to the set named by dim, or removes it when present, and
// persists the whole set.
func (c *Controller) Toggle(dim selection.Dimension, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("app: empty %s value", dim)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.sel.Clone()
	switch dim {
	case selection.Year:
		y, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("app: year %q is not a number", value)
		}
		next.Years = selection.Toggle(next.Years, y)
	case selection.Month:
		next.Months = selection.Toggle(next.Months, value)
	case selection.Island:
		next.Islands = selection.Toggle(next.Islands, value)
	default:
		return fmt.Errorf("app: unknown dimension %q", dim)
	}
	if err := c.persistDimension(next, dim); err != nil {
		return err
	}
	c.sel = next
	return nil
}

// Clear empties the set named by dim. Only year and month can be cleared.
func (c *Controller) Clear(dim selection.Dimension) error {
	if !dim.Clearable() {
		return ErrNotClearable
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.sel.Clone()
	switch dim {
	case selection.Year:
		next.Years = []int{}
	case selection.Month:
		next.Months = []string{}
	}
	if err := c.persistDimension(next, dim); err != nil {
		return err
	}
	c.sel = next
	return nil
}

// SelectDataSet switches the data set and refreshes the catalog for it. On a
// failed refresh the previous catalog is kept and the error returned.
func (c *Controller) SelectDataSet(ctx context.Context, dataSet string) error {
	c.mu.Lock()
	b, err := encodeValue(dataSet)
	if err == nil {
		err = c.storage.Set(store.KeyDataSet, b)
	}
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("app: persist data set: %w", err)
	}
	c.sel.DataSet = dataSet
	c.mu.Unlock()

	resp, err := c.data.List(ctx, dataSet)
	if err != nil {
		c.log.WithError(err).WithField("dataSet", dataSet).Warn("catalog refresh failed, keeping previous catalog")
		return err
	}
	c.mu.Lock()
	c.catalog = catalogFrom(resp)
	c.mu.Unlock()
	return nil
}

// Generate asks the data service for a map of the current selection. On
// success the artifact is replaced and its reference persisted. On failure
// the previous artifact is kept. Calls may overlap; the last response to
// arrive decides the artifact and the status.
func (c *Controller) Generate(ctx context.Context) (Status, error) {
	c.mu.Lock()
	c.apply(EventStart)
	c.inflight++
	q := dataservice.Query{
		Years:     selection.Join(c.sel.Years),
		Months:    selection.Join(c.sel.Months),
		Islands:   selection.Join(c.sel.Islands),
		SessionID: c.sessionID,
		DataSet:   c.sel.DataSet,
	}
	c.mu.Unlock()

	resp, err := c.data.Generate(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if err == nil {
		var ref string
		if ref, err = encodeValue(resp.MapHTML); err == nil {
			err = c.storage.Set(store.KeyArtifact, ref)
		}
	}
	if err != nil {
		c.log.WithError(err).Warn("generate failed")
		c.resolve(EventFail)
		return c.status, err
	}
	c.artifact = selection.Artifact{Ref: resp.MapHTML, Document: resp.MapData}
	c.resolve(EventSucceed)
	c.log.WithField("ref", resp.MapHTML).Info("map generated")
	return c.status, nil
}

// ResetStatus returns a finished generation to idle. It does nothing while a
// generation is pending.
func (c *Controller) ResetStatus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(EventReset)
}

// Status returns the generation status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// DownloadHTML saves the held map document. It reports false when there is
// nothing to save or the save failed.
func (c *Controller) DownloadHTML(sink download.Sink) bool {
	c.mu.Lock()
	doc := c.artifact.Document
	c.mu.Unlock()
	if doc == "" {
		return false
	}
	path, err := sink.Save(download.MapHTMLName, []byte(doc))
	if err != nil {
		c.log.WithError(err).Warn("html download failed")
		return false
	}
	c.log.WithField("path", path).Info("saved map html")
	return true
}

// DownloadArchive fetches the shapefile archive for this session and saves
// it. Failures are logged and leave the controller unchanged.
func (c *Controller) DownloadArchive(ctx context.Context, sink download.Sink) bool {
	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()

	b, err := c.data.MapZip(ctx, sessionID)
	if err != nil {
		c.log.WithError(err).Warn("archive download failed")
		return false
	}
	path, err := sink.Save(download.MapArchiveName, b)
	if err != nil {
		c.log.WithError(err).Warn("archive save failed")
		return false
	}
	c.log.WithField("path", path).Info("saved map archive")
	return true
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Selection: c.sel.Clone(),
		Catalog: selection.Catalog{
			Years:    append([]int(nil), c.catalog.Years...),
			Islands:  append([]string(nil), c.catalog.Islands...),
			Months:   append([]string(nil), c.catalog.Months...),
			DataSets: append([]string(nil), c.catalog.DataSets...),
		},
		Artifact:  c.artifact,
		SessionID: c.sessionID,
		Status:    c.status,
	}
}

// apply must be called with mu held.
func (c *Controller) apply(e Event) bool {
	next, ok := c.status.Apply(e)
	if ok {
		c.status = next
	}
	return ok
}

// resolve settles a generation response. A response that arrives after an
// overlapping call already settled the status reopens it first, so the last
// response wins.
func (c *Controller) resolve(e Event) {
	if !c.apply(e) {
		c.apply(EventStart)
		c.apply(e)
	}
}

func (c *Controller) persistDimension(next selection.Selection, dim selection.Dimension) error {
	var (
		key string
		v   interface{}
	)
	switch dim {
	case selection.Year:
		key, v = store.KeyYears, nonNil(next.Years)
	case selection.Month:
		key, v = store.KeyMonths, nonNil(next.Months)
	case selection.Island:
		key, v = store.KeyIslands, nonNil(next.Islands)
	}
	b, err := encodeValue(v)
	if err != nil {
		return err
	}
	if err := c.storage.Set(key, b); err != nil {
		return fmt.Errorf("app: persist %s: %w", key, err)
	}
	return nil
}

// encodeValue renders v as compact JSON with markup left unescaped, the same
// text a browser's JSON.stringify would store.
func encodeValue(v interface{}) (string, error) {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func catalogFrom(r dataservice.ListResponse) selection.Catalog {
	return selection.Catalog{
		Years:    r.AllYears,
		Islands:  r.AllIslands,
		Months:   r.AllMonths,
		DataSets: r.AllDataSets,
	}
}
