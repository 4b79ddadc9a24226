package footnotes

import (
	"strings"

	"go.uber.org/zap"

	"fnflow/flow"
)

// MoveCursorToXY moves cursor to the footnote at (x, y) on page abs. With
// extend selection is stretched from its start to that point covering every
// footnote in between.
func (c *Controller) MoveCursorToXY(x, y float64, abs int, extend bool) bool {
	h, ok := c.locate(x, y, abs)
	if !ok {
		return false
	}
	f, rel := h.Container, h.rel()

	if !extend {
		if c.sel.active {
			c.RemoveSelection()
		}
		c.setCurrentNoSelection(f)
		c.sel.start, c.sel.end = h.Anchor, h.Anchor
		f.MoveAt(h.x, h.y, rel, false)
		return true
	}

	start := c.current
	if c.sel.active {
		start = c.sel.start.Container
		c.keepOnly(start)
	}
	if start == nil {
		return false
	}

	dir := c.direction(start, f)
	if dir == flow.Neutral {
		c.sel.active = true
		c.sel.start = Anchor{Container: f, Page: c.sel.start.Page, Index: c.sel.start.Index}
		c.sel.end = h.Anchor
		c.sel.direction = flow.Neutral
		c.sel.set.reset(f)
		c.current = f
		f.MoveAt(h.x, h.y, rel, true)
		return true
	}

	var rng []flow.Container
	if dir == flow.Forward {
		rng = c.logicRange(start, f)
	} else {
		rng = c.logicRange(f, start)
	}
	if len(rng) <= 1 {
		return false
	}

	c.sel.active = true
	c.sel.start.Container = start
	c.sel.end = h.Anchor
	c.sel.direction = dir
	c.current = f
	c.sel.set.reset(rng...)

	if dir == flow.Forward {
		start.MoveToEnd(true)
	} else {
		start.MoveToStart(true)
	}
	for _, o := range rng[1 : len(rng)-1] {
		o.SelectAll(dir)
	}
	if dir == flow.Forward {
		f.MoveToStart(false)
	} else {
		f.MoveToEnd(false)
	}
	f.MoveAt(h.x, h.y, rel, true)
	return true
}

// StartSelection starts mouse selection at (x, y) on page abs.
func (c *Controller) StartSelection(x, y float64, abs int) bool {
	if c.sel.active {
		c.RemoveSelection()
	}

	h, ok := c.locate(x, y, abs)
	if !ok {
		c.sel.active = false
		return false
	}

	f := h.Container
	c.sel.active = true
	c.sel.start, c.sel.end = h.Anchor, h.Anchor
	c.sel.direction = flow.Neutral
	c.sel.set.reset(f)
	c.current = f
	f.SetSelectionStart(h.x, h.y, h.rel())
	return true
}

// EndSelection moves mouse selection end to (x, y) on page abs.
func (c *Controller) EndSelection(x, y float64, abs int) bool {
	h, ok := c.locate(x, y, abs)
	if !ok {
		c.sel.active = false
		return false
	}
	// drag without press starts selection at the drag point
	if !c.sel.active || c.sel.start.Container == nil {
		return c.StartSelection(x, y, abs)
	}

	start, f := c.sel.start.Container, h.Container
	c.sel.active = true
	c.sel.end = h.Anchor
	c.current = f
	c.keepOnly(start)

	dir := c.direction(start, f)
	if dir == flow.Neutral {
		f.SetSelectionEnd(h.x, h.y, h.rel())
		c.sel.set.reset(start)
		c.sel.direction = flow.Neutral
		return true
	}

	maxc := c.maxCoord()
	var rng []flow.Container
	if dir == flow.Backward {
		start.SetSelectionEnd(-maxc, -maxc, 0)
		f.SetSelectionStart(maxc, maxc, 0)
		rng = c.logicRange(f, start)
	} else {
		start.SetSelectionEnd(maxc, maxc, 0)
		f.SetSelectionStart(-maxc, -maxc, 0)
		rng = c.logicRange(start, f)
	}
	f.SetSelectionEnd(h.x, h.y, h.rel())

	c.sel.set.reset(start)
	for _, o := range rng {
		if o != start && o != f {
			o.SelectAll(dir)
		}
		c.sel.set.add(o)
	}
	c.sel.direction = dir
	return true
}

// SelectAll selects every footnote of the document. Direction of resulting
// selection follows the sign of dir, zero is treated as forward.
func (c *Controller) SelectAll(dir flow.Direction) bool {
	all := c.doc.FootnotesInRange(nil, nil)
	if len(all) == 0 {
		return false
	}

	c.sel.active = true
	if len(all) == 1 {
		f := all[0]
		c.sel.start = Anchor{Container: f}
		c.sel.end = Anchor{Container: f}
		c.sel.direction = flow.Neutral
		c.sel.set.reset(f)
		c.current = f
		f.SelectAll(dir)
		return true
	}

	start, end := all[0], all[len(all)-1]
	c.sel.direction = flow.Forward
	if dir == flow.Backward {
		start, end = end, start
		c.sel.direction = flow.Backward
	}
	c.sel.start = Anchor{Container: start}
	c.sel.end = Anchor{Container: end}
	c.current = end
	c.sel.set.reset(all...)
	for _, f := range all {
		f.SelectAll(dir)
	}
	c.log.Debug("All footnotes selected", zap.Int("count", len(all)), zap.Stringer("direction", c.sel.direction))
	return true
}

// RemoveSelection drops selection in all footnotes, cursor stays in current
// container.
func (c *Controller) RemoveSelection() {
	if c.sel.active {
		for _, f := range c.sel.set.all() {
			f.RemoveSelection()
		}
		c.sel.active = false
	}
	c.sel.direction = flow.Neutral
	c.sel.set.reset(c.current)
	if c.current != nil {
		c.sel.start.Container, c.sel.end.Container = c.current, c.current
	}
}

// StartSelectionFromCurPos starts selection at cursor of current container.
func (c *Controller) StartSelectionFromCurPos() {
	if c.sel.active || c.current == nil {
		return
	}
	c.beginSelection()
	c.current.StartSelectionFromCursor()
}

func (c *Controller) IsSelectionUse() bool {
	return c.sel.active
}

// IsTextSelectionUse reports if there is selected text. Multiple selected
// footnotes always have.
func (c *Controller) IsTextSelectionUse() bool {
	if !c.sel.active {
		return false
	}
	if c.sel.direction == flow.Neutral {
		return c.current.IsSelectionUse()
	}
	return true
}

func (c *Controller) IsEmptySelection() bool {
	if !c.sel.active {
		return true
	}
	if c.sel.set.len() > 1 {
		return false
	}
	if c.sel.set.len() == 0 {
		return true
	}
	return c.sel.set.items[0].IsSelectionEmpty()
}

// SelectionBounds are edges of the selection in logical order.
type SelectionBounds struct {
	Start, End flow.Bounds
	Direction  flow.Direction
}

func (c *Controller) GetSelectionBounds() (SelectionBounds, bool) {
	if !c.sel.active {
		return SelectionBounds{}, false
	}
	switch c.sel.direction {
	case flow.Forward:
		start, _ := c.sel.start.Container.SelectionBounds()
		_, end := c.sel.end.Container.SelectionBounds()
		return SelectionBounds{Start: start, End: end, Direction: flow.Forward}, true
	case flow.Backward:
		start, _ := c.sel.end.Container.SelectionBounds()
		_, end := c.sel.start.Container.SelectionBounds()
		return SelectionBounds{Start: start, End: end, Direction: flow.Backward}, true
	default:
		start, end := c.current.SelectionBounds()
		return SelectionBounds{Start: start, End: end}, true
	}
}

// selected returns selected containers in logical order.
func (c *Controller) selected() []flow.Container {
	if !c.sel.active || c.sel.direction == flow.Neutral {
		if c.current == nil {
			return nil
		}
		return []flow.Container{c.current}
	}
	if c.sel.direction == flow.Forward {
		return c.logicRange(c.sel.start.Container, c.sel.end.Container)
	}
	return c.logicRange(c.sel.end.Container, c.sel.start.Container)
}

// GetSelectedText returns selected text of all footnotes in logical order.
// With clear set only selection inside single footnote is accepted. Returns
// false when selection could not be presented as text.
func (c *Controller) GetSelectedText(clear bool) (string, bool) {
	if clear {
		if !c.sel.active || c.sel.direction != flow.Neutral {
			return "", false
		}
		return c.current.SelectedText(true)
	}

	var sb strings.Builder
	for _, f := range c.selected() {
		text, ok := f.SelectedText(false)
		if !ok {
			return "", false
		}
		sb.WriteString(text)
	}
	return sb.String(), true
}

// CheckPosInSelection reports if (x, y) on page abs is inside of selection.
func (c *Controller) CheckPosInSelection(x, y float64, abs int) bool {
	h, ok := c.locate(x, y, abs)
	if !ok {
		return false
	}
	return h.Container.CheckSelection(h.x, h.y, h.rel())
}

// DrawSelectionOnPage paints selection of footnotes placed on page abs.
func (c *Controller) DrawSelectionOnPage(abs int, s flow.Surface) {
	p := c.pages.get(abs)
	if !c.sel.active || p.empty() {
		return
	}
	for i, f := range p.Elements {
		if !c.sel.set.has(f) {
			continue
		}
		if snap, ok := p.snapshot(i); ok && !c.restore(f, snap) {
			continue
		}
		f.DrawSelection(f.RelativePage(abs), s)
	}
}
