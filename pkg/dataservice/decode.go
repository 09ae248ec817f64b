package dataservice

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// The service builds its catalog by splitting comma-joined database columns,
// so years arrive as strings, and it hands out numeric session ids. Both
// shapes are accepted.

// UnmarshalJSON implements json.Unmarshaler.
func (r *ListResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		AllYears    []json.RawMessage `json:"allYears"`
		AllIslands  []string          `json:"allIslands"`
		AllMonths   []string          `json:"allMonths"`
		AllDataSets []string          `json:"allDataSets"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var years []int
	if raw.AllYears != nil {
		years = make([]int, 0, len(raw.AllYears))
	}
	for _, y := range raw.AllYears {
		s := strings.TrimSpace(flexString(y))
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.Wrapf(err, "allYears: %q", s)
		}
		years = append(years, n)
	}
	*r = ListResponse{
		AllYears:    years,
		AllIslands:  raw.AllIslands,
		AllMonths:   raw.AllMonths,
		AllDataSets: raw.AllDataSets,
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ExistingResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		SessionID json.RawMessage `json:"id_num"`
		MapData   string          `json:"map_data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = ExistingResponse{SessionID: flexString(raw.SessionID), MapData: raw.MapData}
	return nil
}

// flexString renders a JSON string or number as a string. null and other
// shapes become "".
func flexString(m json.RawMessage) string {
	if len(m) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(m, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(m, &n); err == nil {
		return n.String()
	}
	return ""
}
