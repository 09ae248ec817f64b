package selection

import "strconv"

// Catalog is the server-advertised universe of selectable values. It is
// scoped to a data set.
type Catalog struct {
	Years    []int
	Islands  []string
	Months   []string
	DataSets []string
}

// Values returns the selectable values for d as strings.
func (c Catalog) Values(d Dimension) []string {
	switch d {
	case Year:
		out := make([]string, len(c.Years))
		for i, y := range c.Years {
			out[i] = strconv.Itoa(y)
		}
		return out
	case Month:
		return c.Months
	case Island:
		return c.Islands
	}
	return nil
}

// Artifact is the result of a map generation.
type Artifact struct {
	// Ref is the embeddable map markup, persisted between runs.
	Ref string
	// Document is the standalone HTML document offered for download.
	Document string
}

// Empty reports whether no artifact is held.
func (a Artifact) Empty() bool {
	return a.Ref == "" && a.Document == ""
}
