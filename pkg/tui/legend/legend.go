// Package legend renders the acreage classes the data service colors fire
// markers by.
package legend

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Class is one acreage bucket, in acres. Both bounds are inclusive; the first
// class has no lower bound.
type Class struct {
	Label string
	Min   float64
	Max   float64
}

// Classes are the buckets used by the map renderer.
var Classes = []Class{
	{Label: "0-0.25", Min: math.Inf(-1), Max: 0.25},
	{Label: "0.26-9", Min: 0.26, Max: 9.99},
	{Label: "10-99", Min: 10, Max: 99.99},
	{Label: "100-299", Min: 100, Max: 299.99},
	{Label: "300-999", Min: 300, Max: 999.99},
	{Label: "1000-9999", Min: 1000, Max: 9999.99},
}

// Classify returns the index of the class acres falls in, or -1 when it falls
// between classes or above the last one.
func Classify(acres float64) int {
	for i, c := range Classes {
		if acres >= c.Min && acres <= c.Max {
			return i
		}
	}
	return -1
}

var (
	low  = mustHex("#ffe066")
	high = mustHex("#b3001b")
)

// Colors returns n hex colors blended from yellow to deep red in CIE-L*C*h.
func Colors(n int) []string {
	out := make([]string, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = low.BlendHcl(high, t).Clamped().Hex()
	}
	return out
}

// Render draws the legend as one swatch per line.
func Render(title lipgloss.Style) string {
	colors := Colors(len(Classes))
	var b strings.Builder
	b.WriteString(title.Render("Acres"))
	for i, c := range Classes {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Render("●")
		fmt.Fprintf(&b, "\n%s %s", swatch, c.Label)
	}
	return b.String()
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
