package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/firemap/pkg/selection"
	"tableflip.dev/firemap/pkg/store"
)

// Restore loads every persisted field without contacting the data service.
// Missing keys keep their defaults and unreadable ones are logged and
// skipped.
func (c *Controller) Restore() {
	sel := c.readSelection()
	sessionID := c.readSessionID()
	ref := c.readArtifactRef()

	c.mu.Lock()
	c.sel = sel
	c.sessionID = sessionID
	c.artifact.Ref = ref
	c.mu.Unlock()
}

func (c *Controller) readSelection() selection.Selection {
	var sel selection.Selection
	if raw, ok := c.read(store.KeyYears); ok {
		years, err := decodeYears(raw)
		c.keep(store.KeyYears, err, func() { sel.Years = selection.Dedupe(years) })
	}
	if raw, ok := c.read(store.KeyMonths); ok {
		months, err := decodeStrings(raw)
		c.keep(store.KeyMonths, err, func() { sel.Months = selection.Dedupe(months) })
	}
	if raw, ok := c.read(store.KeyIslands); ok {
		islands, err := decodeStrings(raw)
		c.keep(store.KeyIslands, err, func() { sel.Islands = selection.Dedupe(islands) })
	}
	if raw, ok := c.read(store.KeyDataSet); ok {
		ds, err := decodeScalar(raw)
		c.keep(store.KeyDataSet, err, func() { sel.DataSet = ds })
	}
	return sel
}

func (c *Controller) readSessionID() string {
	raw, _ := c.read(store.KeySessionID)
	return strings.TrimSpace(raw)
}

func (c *Controller) readArtifactRef() string {
	raw, ok := c.read(store.KeyArtifact)
	if !ok {
		return ""
	}
	var ref string
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		// Written by a client that stored the markup unquoted.
		return raw
	}
	return ref
}

func (c *Controller) read(key string) (string, bool) {
	v, ok, err := c.storage.Get(key)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("restore: read failed")
		return "", false
	}
	return v, ok && v != ""
}

func (c *Controller) keep(key string, err error, set func()) {
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("restore: ignoring corrupt value")
		return
	}
	set()
}

func decodeYears(raw string) ([]int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	years := make([]int, 0, len(items))
	for _, item := range items {
		if string(item) == "null" {
			continue
		}
		var n int
		if err := json.Unmarshal(item, &n); err == nil {
			years = append(years, n)
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, fmt.Errorf("year %s: %w", item, err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("year %q is not a number", s)
		}
		years = append(years, n)
	}
	return years, nil
}

// decodeStrings accepts a JSON array, or a single JSON string from clients
// that stored one value.
func decodeStrings(raw string) ([]string, error) {
	var set []string
	if err := json.Unmarshal([]byte(raw), &set); err == nil {
		if set == nil {
			set = []string{}
		}
		return set, nil
	}
	var one string
	if err := json.Unmarshal([]byte(raw), &one); err != nil {
		return nil, err
	}
	if one == "" {
		return []string{}, nil
	}
	return []string{one}, nil
}

// decodeScalar accepts a JSON string, a one-element JSON array, or the bare
// value.
func decodeScalar(raw string) (string, error) {
	var one string
	if err := json.Unmarshal([]byte(raw), &one); err == nil {
		return one, nil
	}
	var set []string
	if err := json.Unmarshal([]byte(raw), &set); err == nil {
		switch len(set) {
		case 0:
			return "", nil
		case 1:
			return set[0], nil
		}
		return "", fmt.Errorf("expected one data set, got %d", len(set))
	}
	raw = strings.TrimSpace(raw)
	if strings.ContainsAny(raw, "[]{}\"") {
		return "", fmt.Errorf("unreadable data set %q", raw)
	}
	return raw, nil
}
