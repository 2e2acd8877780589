package document

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrUnreadable marks input that cannot be parsed as a rich document.
// Callers skip annotation for that document and continue the batch.
var ErrUnreadable = errors.New("document unreadable")

// Run is a formatted span of text within a paragraph.
type Run struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Color     string `json:"color,omitempty"`
	Highlight string `json:"highlight,omitempty"`
}

// Paragraph is an ordered sequence of runs. Paragraph indices are 0-based
// and stable within one document until an insertion shifts them.
type Paragraph struct {
	Runs []Run `json:"runs"`
}

// Text returns the concatenated run text of the paragraph.
func (p Paragraph) Text() (text string) {
	var b strings.Builder
	for _, run := range p.Runs {
		b.WriteString(run.Text)
	}
	text = b.String()

	return text
}

// NewParagraph builds a plain single-run paragraph.
func NewParagraph(text string) (para Paragraph) {
	para = Paragraph{
		Runs: []Run{{Text: text}},
	}

	return para
}

// Table is a grid of cell texts. Tables are read for classification and
// detection but are never annotation targets.
type Table struct {
	Rows [][]string `json:"rows"`
}

// Document is a paragraph/table rich document modeled as an ordered,
// indexable paragraph sequence.
type Document struct {
	Paragraphs []Paragraph `json:"paragraphs"`
	Tables     []Table     `json:"tables,omitempty"`
}

// Parse decodes a rich document from its JSON byte form. Malformed input
// yields ErrUnreadable rather than a raw decode error, so callers can
// contain the failure to a single document.
func Parse(data []byte) (doc *Document, err error) {
	if len(data) == 0 {
		err = errors.Wrap(ErrUnreadable, "empty input")
		return doc, err
	}

	if !utf8.Valid(data) {
		err = errors.Wrap(ErrUnreadable, "input is not valid UTF-8")
		return doc, err
	}

	doc = &Document{}
	jsonErr := json.Unmarshal(data, doc)
	if jsonErr != nil {
		doc = nil
		err = errors.Wrapf(ErrUnreadable, "invalid document structure: %v", jsonErr)
		return doc, err
	}

	return doc, err
}

// FromText builds a document from plain text, one paragraph per line.
func FromText(text string) (doc *Document) {
	doc = &Document{}
	for _, line := range strings.Split(text, "\n") {
		doc.Paragraphs = append(doc.Paragraphs, NewParagraph(line))
	}

	return doc
}

// Bytes encodes the document back to its JSON byte form.
func (d *Document) Bytes() (data []byte, err error) {
	data, err = json.MarshalIndent(d, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to encode document")
		return data, err
	}

	return data, err
}

// Copy returns a deep copy. Annotation always works on a copy so the
// caller's original is never mutated.
func (d *Document) Copy() (out *Document) {
	out = &Document{
		Paragraphs: make([]Paragraph, len(d.Paragraphs)),
		Tables:     make([]Table, len(d.Tables)),
	}

	for i, para := range d.Paragraphs {
		runs := make([]Run, len(para.Runs))
		copy(runs, para.Runs)
		out.Paragraphs[i] = Paragraph{Runs: runs}
	}

	for i, table := range d.Tables {
		rows := make([][]string, len(table.Rows))
		for j, row := range table.Rows {
			cells := make([]string, len(row))
			copy(cells, row)
			rows[j] = cells
		}
		out.Tables[i] = Table{Rows: rows}
	}

	return out
}

// InsertAt inserts a paragraph so it occupies the given index, shifting
// everything at or after that index down by one. An index at or beyond the
// end appends.
func (d *Document) InsertAt(index int, para Paragraph) {
	if index < 0 {
		index = 0
	}
	if index >= len(d.Paragraphs) {
		d.Paragraphs = append(d.Paragraphs, para)
		return
	}

	d.Paragraphs = append(d.Paragraphs, Paragraph{})
	copy(d.Paragraphs[index+1:], d.Paragraphs[index:])
	d.Paragraphs[index] = para
}

// Append adds a paragraph at the end of the document.
func (d *Document) Append(para Paragraph) {
	d.Paragraphs = append(d.Paragraphs, para)
}

// Highlight applies a highlight color to every run of the paragraph at
// the given index. Out-of-range indices are ignored.
func (d *Document) Highlight(index int, color string) {
	if index < 0 || index >= len(d.Paragraphs) {
		return
	}

	for i := range d.Paragraphs[index].Runs {
		d.Paragraphs[index].Runs[i].Highlight = color
	}
}

// PlainText joins all paragraph and table cell text with single spaces.
func (d *Document) PlainText() (text string) {
	parts := make([]string, 0, len(d.Paragraphs))

	for _, para := range d.Paragraphs {
		parts = append(parts, para.Text())
	}

	for _, table := range d.Tables {
		for _, row := range table.Rows {
			parts = append(parts, row...)
		}
	}

	text = strings.Join(parts, " ")

	return text
}
