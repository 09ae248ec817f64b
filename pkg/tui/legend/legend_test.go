package legend

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

func TestClassify(t *testing.T) {
	tests := map[float64]int{
		0:       0,
		0.25:    0,
		0.255:   -1,
		0.26:    1,
		9.99:    1,
		10:      2,
		299.99:  3,
		1000:    5,
		9999.99: 5,
		10000:   -1,
	}
	for acres, want := range tests {
		if got := Classify(acres); got != want {
			t.Errorf("Classify(%v) = %d, want %d", acres, got, want)
		}
	}
}

func TestColorsRunFromLowToHigh(t *testing.T) {
	cs := Colors(len(Classes))
	if len(cs) != 6 {
		t.Fatalf("got %d colors", len(cs))
	}
	first, _ := colorful.Hex(cs[0])
	last, _ := colorful.Hex(cs[5])
	if first.DistanceLab(low) > 0.01 || last.DistanceLab(high) > 0.01 {
		t.Fatalf("endpoints = %s, %s", cs[0], cs[5])
	}
	seen := map[string]bool{}
	for _, c := range cs {
		if _, err := colorful.Hex(c); err != nil {
			t.Fatalf("bad color %q: %v", c, err)
		}
		seen[c] = true
	}
	if len(seen) != len(cs) {
		t.Fatalf("colors not distinct: %v", cs)
	}
}

func TestRenderListsEveryClass(t *testing.T) {
	out := Render(lipgloss.NewStyle())
	for _, c := range Classes {
		if !strings.Contains(out, c.Label) {
			t.Errorf("legend missing %s", c.Label)
		}
	}
}
