// Package selection holds the filter state a user builds up before asking the
// data service for a map: which years, months and islands to include, and
// which data set to query.
package selection

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimension names one of the set-valued filters.
type Dimension string

const (
	Year   Dimension = "year"
	Month  Dimension = "month"
	Island Dimension = "island"
)

// Dimensions lists every toggleable dimension in display order.
var Dimensions = []Dimension{Year, Month, Island}

// ParseDimension accepts singular or plural spellings.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year", "years":
		return Year, nil
	case "month", "months":
		return Month, nil
	case "island", "islands":
		return Island, nil
	}
	return "", fmt.Errorf("selection: unknown dimension %q", s)
}

// Clearable reports whether the dimension has a clear affordance.
func (d Dimension) Clearable() bool {
	return d == Year || d == Month
}

// Selection is the user's current query.
type Selection struct {
	Years   []int    `json:"years"`
	Months  []string `json:"months"`
	Islands []string `json:"islands"`
	DataSet string   `json:"dataSet,omitempty"`
}

// Values returns the string form of the set for d.
func (s Selection) Values(d Dimension) []string {
	switch d {
	case Year:
		out := make([]string, len(s.Years))
		for i, y := range s.Years {
			out[i] = strconv.Itoa(y)
		}
		return out
	case Month:
		return append([]string(nil), s.Months...)
	case Island:
		return append([]string(nil), s.Islands...)
	}
	return nil
}

// Has reports whether value is selected in d.
func (s Selection) Has(d Dimension, value string) bool {
	for _, v := range s.Values(d) {
		if v == value {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	return Selection{
		Years:   append([]int(nil), s.Years...),
		Months:  append([]string(nil), s.Months...),
		Islands: append([]string(nil), s.Islands...),
		DataSet: s.DataSet,
	}
}

// Equal compares two selections as sets.
func (s Selection) Equal(o Selection) bool {
	return s.DataSet == o.DataSet &&
		sameSet(s.Years, o.Years) &&
		sameSet(s.Months, o.Months) &&
		sameSet(s.Islands, o.Islands)
}

// Toggle removes v from set if present, otherwise appends it. The input is
// never modified.
func Toggle[T comparable](set []T, v T) []T {
	out := make([]T, 0, len(set)+1)
	found := false
	for _, cur := range set {
		if cur == v {
			found = true
			continue
		}
		out = append(out, cur)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

// Join renders a set as a comma-joined list. Receivers must not rely on the
// order.
func Join[T any](set []T) string {
	parts := make([]string, len(set))
	for i, v := range set {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}

// Dedupe drops repeated values, keeping first occurrences. Restored state may
// come from an older client that did not enforce set semantics.
func Dedupe[T comparable](set []T) []T {
	if set == nil {
		return nil
	}
	seen := make(map[T]struct{}, len(set))
	out := make([]T, 0, len(set))
	for _, v := range set {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sameSet[T comparable](a, b []T) bool {
	a, b = Dedupe(a), Dedupe(b)
	if len(a) != len(b) {
		return false
	}
	in := make(map[T]struct{}, len(a))
	for _, v := range a {
		in[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := in[v]; !ok {
			return false
		}
	}
	return true
}
