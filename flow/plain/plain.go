// Package plain is a reference flowable container: plain text split into
// paragraphs, wrapped into lines of fixed height. It is good enough to drive
// footnotes layout and navigation without a real rich-text engine.
package plain

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"fnflow/flow"
)

const (
	DefaultLineHeight = 4.5 // mm, roughly 10pt with single spacing
	DefaultCharWidth  = 2.0 // mm, advance of a narrow rune
)

type Option func(*Container)

func WithLineHeight(h float64) Option {
	return func(c *Container) {
		if h > 0 {
			c.lineHeight = h
		}
	}
}

func WithCharWidth(w float64) Option {
	return func(c *Container) {
		if w > 0 {
			c.charWidth = w
		}
	}
}

// Container is a plain text flowable container. Paragraphs are separated by
// '\n'. Cursor positions are rune offsets in [0, len(text)].
type Container struct {
	id        string
	text      []rune
	separator bool

	lineHeight float64
	charWidth  float64

	// layout
	x, y, xLimit, yLimit float64
	startPage            int
	lines                []line
	wrapped              bool
	pages                []page
	placed               int

	// cursor and selection
	pos       int
	anchor    int
	selecting bool
}

var (
	_ flow.Container = (*Container)(nil)
	_ flow.Editor    = (*Container)(nil)
)

// New creates container with initial text.
func New(id, text string, opts ...Option) *Container {
	c := &Container{
		id:         id,
		text:       []rune(text),
		lineHeight: DefaultLineHeight,
		charWidth:  DefaultCharWidth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewSeparator creates footnote separator - an empty single line container
// drawn as short horizontal rule.
func NewSeparator(id string, opts ...Option) *Container {
	c := New(id, "", opts...)
	c.separator = true
	return c
}

func (c *Container) ID() string {
	return c.id
}

// Text returns current content.
func (c *Container) Text() string {
	return string(c.text)
}

// Len returns content length in runes.
func (c *Container) Len() int {
	return len(c.text)
}

// Pos returns cursor offset.
func (c *Container) Pos() int {
	return c.pos
}

// Selected returns selection range, ok is false when there is no selection.
func (c *Container) Selected() (from, to int, ok bool) {
	if !c.selecting {
		return c.pos, c.pos, false
	}
	return min(c.anchor, c.pos), max(c.anchor, c.pos), true
}

// Anchor returns fixed end of selection.
func (c *Container) Anchor() int {
	return c.anchor
}

func (c *Container) advance(r rune) float64 {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2 * c.charWidth
	default:
		return c.charWidth
	}
}

// AddNewParagraph splits paragraph at cursor.
func (c *Container) AddNewParagraph() bool {
	c.insert([]rune{'\n'})
	return true
}

// AddText replaces selection (if any) with text.
func (c *Container) AddText(text string) {
	c.insert([]rune(text))
}

// AddInlineTable is not supported by plain text.
func (c *Container) AddInlineTable(_, _ int) bool {
	return false
}

// Remove deletes selection, or count runes after (count > 0) or before
// (count < 0) the cursor.
func (c *Container) Remove(count int, onlySelection bool) bool {
	if from, to, ok := c.Selected(); ok && from != to {
		c.cut(from, to)
		return true
	}
	if onlySelection || count == 0 {
		return false
	}
	from, to := c.pos, c.pos+count
	if count < 0 {
		from, to = c.pos+count, c.pos
	}
	from, to = max(from, 0), min(to, len(c.text))
	if from == to {
		return false
	}
	c.cut(from, to)
	return true
}

func (c *Container) insert(rs []rune) {
	if from, to, ok := c.Selected(); ok && from != to {
		c.cut(from, to)
	}
	text := make([]rune, 0, len(c.text)+len(rs))
	text = append(text, c.text[:c.pos]...)
	text = append(text, rs...)
	text = append(text, c.text[c.pos:]...)
	c.text = text
	c.pos += len(rs)
	c.anchor, c.selecting = c.pos, false
	c.wrapped = false
}

func (c *Container) cut(from, to int) {
	c.text = append(c.text[:from], c.text[to:]...)
	c.pos, c.anchor, c.selecting = from, from, false
	c.wrapped = false
}

// wordLeft returns position of the beginning of the word before p.
func (c *Container) wordLeft(p int) int {
	for p > 0 && unicode.IsSpace(c.text[p-1]) {
		p--
	}
	for p > 0 && !unicode.IsSpace(c.text[p-1]) {
		p--
	}
	return p
}

// wordRight returns position after the end of the word following p.
func (c *Container) wordRight(p int) int {
	n := len(c.text)
	for p < n && unicode.IsSpace(c.text[p]) {
		p++
	}
	for p < n && !unicode.IsSpace(c.text[p]) {
		p++
	}
	return p
}

func (c *Container) String() string {
	var sb strings.Builder
	sb.WriteString(c.id)
	sb.WriteString(": ")
	sb.WriteString(string(c.text))
	return sb.String()
}
