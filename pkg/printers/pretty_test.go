package printers

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/firemap/pkg/fileservice"
	"tableflip.dev/firemap/pkg/selection"
)

func init() {
	color.NoColor = true
}

func TestCatalogMarksSelection(t *testing.T) {
	var b strings.Builder
	pp := &PrettyPrint{Out: &b}
	pp.Catalog(selection.Catalog{
		Years:    []int{2019, 2020},
		Islands:  []string{"Guam"},
		DataSets: []string{"default", "nasa"},
	}, selection.Selection{Years: []int{2020}, DataSet: "nasa"})

	out := b.String()
	for _, want := range []string{"[ ] 2019", "[x] 2020", "[ ] Guam", "(*) nasa", "( ) default", "Months - 0 values"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTreeIndentsChildren(t *testing.T) {
	var b strings.Builder
	pp := &PrettyPrint{Out: &b}
	pp.Tree(fileservice.Flatten([]fileservice.FileEntry{{
		ID: "/data", Name: "data", IsDir: true,
		Files: []fileservice.FileEntry{{ID: "/data/a.zip", Name: "a.zip", Size: 2048}},
	}}))
	out := b.String()
	if !strings.Contains(out, "data/") || !strings.Contains(out, "  a.zip") || !strings.Contains(out, "2.0 KiB") {
		t.Fatalf("unexpected tree:\n%s", out)
	}
}

func TestHumanSize(t *testing.T) {
	for n, want := range map[int64]string{0: "0 B", 1023: "1023 B", 1536: "1.5 KiB", 5 << 20: "5.0 MiB"} {
		if got := humanSize(n); got != want {
			t.Errorf("humanSize(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestJSONLeavesMarkupUnescaped(t *testing.T) {
	var b strings.Builder
	if err := JSON(&b, map[string]string{"mapRef": "<div>m</div>"}); err != nil {
		t.Fatal(err)
	}
	if want := "{\n  \"mapRef\": \"<div>m</div>\"\n}\n"; b.String() != want {
		t.Fatalf("JSON = %q, want %q", b.String(), want)
	}
}
