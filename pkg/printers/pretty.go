// Package printers renders controller and file service state for the CLI.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"

	"tableflip.dev/firemap/pkg/fileservice"
	"tableflip.dev/firemap/pkg/selection"
)

// UseColor turns color off when f is not a terminal.
func UseColor(f *os.File) {
	fd := f.Fd()
	color.NoColor = !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// Stdout is the color-aware standard output.
func Stdout() io.Writer {
	return color.Output
}

// JSON writes v as indented JSON. Map markup is written as is.
func JSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type PrettyPrint struct {
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " value")
	default:
		_, _ = c.Fprintln(pp.out(), " values")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Catalog lists every selectable value per dimension, marking the selected
// ones.
func (pp *PrettyPrint) Catalog(cat selection.Catalog, sel selection.Selection) {
	on := color.New(color.FgHiGreen, color.Bold)
	for _, d := range selection.Dimensions {
		values := cat.Values(d)
		pp.TitleWithCount(plural(d), len(values))
		if len(values) == 0 {
			pp.none()
			continue
		}
		for _, v := range values {
			if sel.Has(d, v) {
				_, _ = on.Fprintf(pp.out(), "[x] %s\n", v)
			} else {
				_, _ = fmt.Fprintf(pp.out(), "[ ] %s\n", v)
			}
		}
		pp.NewLine()
	}

	pp.TitleWithCount("Data sets", len(cat.DataSets))
	if len(cat.DataSets) == 0 {
		pp.none()
		return
	}
	for _, ds := range cat.DataSets {
		if ds == sel.DataSet {
			_, _ = on.Fprintf(pp.out(), "(*) %s\n", ds)
		} else {
			_, _ = fmt.Fprintf(pp.out(), "( ) %s\n", ds)
		}
	}
	pp.NewLine()
}

// Selection prints the current filter and session.
func (pp *PrettyPrint) Selection(sel selection.Selection, sessionID string, art selection.Artifact) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint, color.Italic)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	row := func(label string, values []string) {
		v := strings.Join(values, ", ")
		if v == "" {
			v = faint.Sprint("all")
		}
		tbl.AddRow(bold.Sprint(label), v)
	}
	row("Years", sel.Values(selection.Year))
	row("Months", sel.Values(selection.Month))
	row("Islands", sel.Values(selection.Island))
	ds := sel.DataSet
	if ds == "" {
		ds = faint.Sprint("default")
	}
	tbl.AddRow(bold.Sprint("Data set"), ds)
	id := sessionID
	if id == "" {
		id = faint.Sprint("unassigned")
	}
	tbl.AddRow(bold.Sprint("Session"), id)
	tbl.AddRow(bold.Sprint("Map"), artifactSummary(art))
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Status prints a one-line generation outcome.
func (pp *PrettyPrint) Status(status string, art selection.Artifact, err error) {
	switch {
	case err != nil:
		_, _ = color.New(color.FgRed, color.Bold).Fprintf(pp.out(), "✗ %s: %v\n", status, err)
	default:
		_, _ = color.New(color.FgGreen, color.Bold).Fprintf(pp.out(), "✓ %s", status)
		_, _ = fmt.Fprintf(pp.out(), "  %s\n", artifactSummary(art))
	}
}

// Saved reports a written download.
func (pp *PrettyPrint) Saved(what, path string) {
	c := color.New(color.Faint)
	_, _ = fmt.Fprintf(pp.out(), "%s ", what)
	_, _ = c.Fprintln(pp.out(), path)
}

// Tree prints the flattened file tree.
func (pp *PrettyPrint) Tree(rows []fileservice.Row) {
	pp.TitleWithCount("Files", len(rows))
	if len(rows) == 0 {
		pp.none()
		return
	}
	dir := color.New(color.FgHiBlue, color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, r := range rows {
		indent := strings.Repeat("  ", r.Depth)
		e := r.Entry
		if e.IsDir {
			tbl.AddRow(indent+dir.Sprint(e.Name+"/"), "", "", faint.Sprint(e.ID))
			continue
		}
		tbl.AddRow(indent+e.Name, humanSize(e.Size), e.ModDate, faint.Sprint(e.ID))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Login prints who is logged in and until when.
func (pp *PrettyPrint) Login(user string, expires time.Time) {
	bold := color.New(color.Bold)
	_, _ = fmt.Fprint(pp.out(), "logged in as ")
	_, _ = bold.Fprint(pp.out(), user)
	if !expires.IsZero() {
		_, _ = color.New(color.Faint).Fprintf(pp.out(), " until %s", expires.Local().Format(time.RFC1123))
	}
	pp.NewLine()
}

func artifactSummary(a selection.Artifact) string {
	if a.Empty() {
		return color.New(color.Faint, color.Italic).Sprint("none")
	}
	if a.Ref != "" {
		return a.Ref
	}
	return fmt.Sprintf("document (%s)", humanSize(int64(len(a.Document))))
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func plural(d selection.Dimension) string {
	s := string(d)
	return strings.ToUpper(s[:1]) + s[1:] + "s"
}
