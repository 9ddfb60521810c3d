// Package report builds the caseload report document and email drafts.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

// Run is a span of text with uniform formatting. Newlines start a new
// paragraph in the same style.
type Run struct {
	Text  string
	Bold  bool
	Color string // hex without '#', e.g. "FF0000"
}

const (
	styleBullet = "ListBullet"
	styleTable  = "TableGrid"
)

// Document is a .docx under construction.
type Document struct {
	root *docx.RootDoc
	err  error
}

// NewDocument starts a document from the library's blank template.
func NewDocument() *Document {
	root, err := godocx.NewDocument()
	return &Document{root: root, err: err}
}

func (d *Document) ok() bool { return d.err == nil && d.root != nil }

func addRun(p *docx.Paragraph, r Run, text string) {
	run := p.AddText(text)
	if r.Bold {
		run.Bold(true)
	}
	if r.Color != "" {
		run.Color(r.Color)
	}
}

func (d *Document) para(style string, runs ...Run) {
	if !d.ok() {
		return
	}
	start := func() *docx.Paragraph {
		p := d.root.AddParagraph("")
		if style != "" {
			p.Style(style)
		}
		return p
	}
	p := start()
	for _, r := range runs {
		for i, line := range strings.Split(r.Text, "\n") {
			if i > 0 {
				p = start()
			}
			if line != "" {
				addRun(p, r, line)
			}
		}
	}
}

// Title adds a document title paragraph.
func (d *Document) Title(text string) { d.heading(0, text) }

// Heading adds a heading paragraph at level 1-3.
func (d *Document) Heading(level int, text string) {
	d.heading(uint(min(max(level, 1), 3)), text)
}

func (d *Document) heading(level uint, text string) {
	if !d.ok() {
		return
	}
	if _, err := d.root.AddHeading(text, level); err != nil {
		d.err = fmt.Errorf("adding heading %q: %w", text, err)
	}
}

// Paragraph adds a body paragraph.
func (d *Document) Paragraph(runs ...Run) { d.para("", runs...) }

// Text adds a plain body paragraph.
func (d *Document) Text(text string) { d.para("", Run{Text: text}) }

// Bullet adds a bulleted list item.
func (d *Document) Bullet(text string) { d.para(styleBullet, Run{Text: "• " + text}) }

// PageBreak starts a new page.
func (d *Document) PageBreak() {
	if d.ok() {
		d.root.AddPageBreak()
	}
}

// Table adds a bordered grid with a bold header row.
func (d *Document) Table(headers []string, rows [][]string) {
	if !d.ok() {
		return
	}
	tbl := d.root.AddTable()
	tbl.Style(styleTable)

	row := func(cells []string, bold bool) {
		tr := tbl.AddRow()
		for _, c := range cells {
			p := tr.AddCell().AddParagraph("")
			addRun(p, Run{Bold: bold}, c)
		}
	}
	row(headers, true)
	for _, r := range rows {
		row(r, false)
	}
}

// WriteTo writes the document as a .docx package. The library saves to a
// path, so the package is staged in a temp file and copied to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if d.err != nil {
		return 0, d.err
	}
	if d.root == nil {
		return 0, fmt.Errorf("document not initialised")
	}

	tmp, err := os.CreateTemp("", "caseload-*.docx")
	if err != nil {
		return 0, fmt.Errorf("staging report: %w", err)
	}
	name := tmp.Name()
	tmp.Close()
	defer os.Remove(name)

	if err := d.root.SaveTo(name); err != nil {
		return 0, fmt.Errorf("saving report: %w", err)
	}
	f, err := os.Open(name)
	if err != nil {
		return 0, fmt.Errorf("reading staged report: %w", err)
	}
	defer f.Close()
	return io.Copy(w, f)
}
