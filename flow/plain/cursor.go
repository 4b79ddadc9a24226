package plain

import (
	"image/color"

	"fnflow/flow"
)

var selectionColor = color.RGBA{R: 0x7a, G: 0xa3, B: 0xe5, A: 0x80}

// moveTo places cursor at p. Extending move starts selection at the old
// position if there is none, non extending move drops selection.
func (c *Container) moveTo(p int, extend bool) {
	if extend {
		if !c.selecting {
			c.anchor, c.selecting = c.pos, true
		}
	} else {
		c.selecting = false
	}
	c.pos = max(0, min(p, len(c.text)))
	if !c.selecting {
		c.anchor = c.pos
	}
}

// collapse drops non empty selection putting cursor at its start or end.
func (c *Container) collapse(toEnd bool) bool {
	from, to, ok := c.Selected()
	if !ok || from == to {
		return false
	}
	if toEnd {
		c.moveTo(to, false)
	} else {
		c.moveTo(from, false)
	}
	return true
}

func (c *Container) MoveLeft(extend, word bool) bool {
	if !extend && c.collapse(false) {
		return true
	}
	if c.pos == 0 {
		if !extend {
			c.RemoveSelection()
		}
		return false
	}
	p := c.pos - 1
	if word {
		p = c.wordLeft(c.pos)
	}
	c.moveTo(p, extend)
	return true
}

func (c *Container) MoveRight(extend, word bool) bool {
	if !extend && c.collapse(true) {
		return true
	}
	if c.pos == len(c.text) {
		if !extend {
			c.RemoveSelection()
		}
		return false
	}
	p := c.pos + 1
	if word {
		p = c.wordRight(c.pos)
	}
	c.moveTo(p, extend)
	return true
}

func (c *Container) MoveUp(extend bool) bool {
	i := c.lineOf(c.pos)
	if i == 0 {
		if !extend {
			c.RemoveSelection()
		}
		return false
	}
	c.moveTo(c.column(i-1, c.offset(i, c.pos)), extend)
	return true
}

func (c *Container) MoveDown(extend bool) bool {
	i := c.lineOf(c.pos)
	if i >= len(c.lines)-1 {
		if !extend {
			c.RemoveSelection()
		}
		return false
	}
	c.moveTo(c.column(i+1, c.offset(i, c.pos)), extend)
	return true
}

func (c *Container) MoveToStart(extend bool) {
	c.moveTo(0, extend)
}

func (c *Container) MoveToEnd(extend bool) {
	c.moveTo(len(c.text), extend)
}

func (c *Container) MoveToLineStart(extend bool) {
	c.moveTo(c.lines[c.lineOf(c.pos)].from, extend)
}

func (c *Container) MoveToLineEnd(extend bool) {
	c.moveTo(c.lines[c.lineOf(c.pos)].to, extend)
}

func (c *Container) MoveUpToLastRow(x, _ float64, extend bool) {
	c.ensureLines()
	c.moveTo(c.column(len(c.lines)-1, x), extend)
}

func (c *Container) MoveDownToFirstRow(x, _ float64, extend bool) {
	c.ensureLines()
	c.moveTo(c.column(0, x), extend)
}

func (c *Container) MoveAt(x, y float64, rel int, extend bool) {
	c.moveTo(c.hit(x, y, rel), extend)
}

func (c *Container) CursorPos() flow.Point {
	i := c.lineOf(c.pos)
	return flow.Point{X: c.offset(i, c.pos), Y: c.lines[i].origin.Y}
}

func (c *Container) SetSelectionStart(x, y float64, rel int) {
	c.pos = c.hit(x, y, rel)
	c.anchor, c.selecting = c.pos, true
}

func (c *Container) SetSelectionEnd(x, y float64, rel int) {
	if !c.selecting {
		c.anchor, c.selecting = c.pos, true
	}
	c.pos = c.hit(x, y, rel)
}

func (c *Container) RemoveSelection() {
	c.selecting = false
	c.anchor = c.pos
}

// SelectAll selects whole content leaving cursor at the end, or at the start
// for backward direction.
func (c *Container) SelectAll(dir flow.Direction) {
	c.selecting = true
	if dir == flow.Backward {
		c.anchor, c.pos = len(c.text), 0
		return
	}
	c.anchor, c.pos = 0, len(c.text)
}

func (c *Container) StartSelectionFromCursor() {
	c.anchor, c.selecting = c.pos, true
}

func (c *Container) IsSelectionUse() bool {
	return c.selecting
}

func (c *Container) IsSelectionEmpty() bool {
	return !c.selecting || c.anchor == c.pos
}

func (c *Container) SelectionBounds() (start, end flow.Bounds) {
	from, to, _ := c.Selected()
	return c.caret(from), c.caret(to)
}

func (c *Container) caret(p int) flow.Bounds {
	i := c.lineOf(p)
	x := c.offset(i, p)
	y := c.lines[i].origin.Y
	return flow.Bounds{Left: x, Top: y, Right: x, Bottom: y + c.lineHeight}
}

// SelectedText returns selected text. Plain text is always representable so
// clear flag has no effect.
func (c *Container) SelectedText(_ bool) (string, bool) {
	from, to, ok := c.Selected()
	if !ok {
		return "", true
	}
	return string(c.text[from:to]), true
}

func (c *Container) CheckSelection(x, y float64, rel int) bool {
	from, to, ok := c.Selected()
	if !ok || from == to {
		return false
	}
	p := c.hit(x, y, rel)
	return p >= from && p < to
}

func (c *Container) DrawSelection(rel int, s flow.Surface) {
	from, to, ok := c.Selected()
	if !ok || from == to || rel < 0 || rel >= len(c.pages) {
		return
	}
	p := c.pages[rel]
	for i := p.first; i < p.last; i++ {
		l := c.lines[i]
		lf, lt := max(from, l.from), min(to, l.to)
		if lf > lt || (lf == lt && to <= l.to) {
			continue
		}
		b := flow.Bounds{Left: c.offset(i, lf), Top: l.origin.Y, Right: c.offset(i, lt), Bottom: l.origin.Y + c.lineHeight}
		if lf == lt {
			// selected paragraph break
			b.Right = b.Left + c.charWidth
		}
		s.FillRect(b, selectionColor)
	}
}
