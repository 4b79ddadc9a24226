package footnotes

import (
	"slices"

	"go.uber.org/zap"

	"fnflow/flow"
)

// step describes cursor movement which may cross container boundary.
type step struct {
	name string
	dir  flow.Direction

	// inner moves cursor inside of container, reports false at boundary
	inner func(f flow.Container, extend bool) bool
	// leave is called on container left while extending selection
	leave func(f flow.Container)
	// grow positions cursor in container newly added to selection
	grow func(f flow.Container, from flow.Point)
	// shrink continues movement in container which already has selection
	shrink func(f flow.Container, from flow.Point)
	// enter positions cursor in adjacent container without selection
	enter func(f flow.Container, from flow.Point)
	// collapse moves cursor in terminal container when selection is dropped
	collapse func(f flow.Container)
}

// terminal returns container which keeps the cursor when selection is
// dropped by a move in direction dir.
func (c *Controller) terminal(dir flow.Direction) flow.Container {
	switch c.sel.direction {
	case flow.Neutral:
		return c.current
	case dir:
		return c.sel.end.Container
	default:
		return c.sel.start.Container
	}
}

// keepOnly removes selection from every selected container except f.
func (c *Controller) keepOnly(f flow.Container) {
	for _, o := range c.sel.set.all() {
		if o != f {
			o.RemoveSelection()
		}
	}
}

// beginSelection starts single container selection at current container.
func (c *Controller) beginSelection() {
	c.sel.active = true
	c.sel.start = Anchor{Container: c.current}
	c.sel.end = Anchor{Container: c.current}
	c.sel.direction = flow.Neutral
	c.sel.set.reset(c.current)
}

func (c *Controller) move(s step, extend bool) bool {
	if c.current == nil {
		return false
	}

	if !extend {
		if c.sel.active {
			t := c.terminal(s.dir)
			c.keepOnly(t)
			s.collapse(t)
			t.RemoveSelection()
			c.setCurrentNoSelection(t)
			return true
		}

		f := c.current
		from := f.CursorPos()
		if s.inner(f, false) {
			return true
		}
		adj := c.adjacent(f, s.dir)
		if adj == nil {
			return false
		}
		c.setCurrentNoSelection(adj)
		s.enter(adj, from)
		c.log.Debug("Cursor moved to adjacent footnote", zap.String("move", s.name), zap.String("id", adj.ID()))
		return true
	}

	started := false
	if !c.sel.active {
		c.beginSelection()
		started = true
	}

	f := c.sel.end.Container
	from := f.CursorPos()
	if s.inner(f, true) {
		return true
	}
	adj := c.adjacent(f, s.dir)
	if adj == nil {
		if started {
			f.RemoveSelection()
			c.setCurrentNoSelection(f)
		}
		return false
	}

	if s.leave != nil {
		s.leave(f)
	}
	c.sel.end.Container = adj
	c.current = adj

	if c.sel.direction == s.dir.Reverse() {
		// selection collapses towards its start
		if adj == c.sel.start.Container {
			c.sel.direction = flow.Neutral
		}
		f.RemoveSelection()
		c.sel.set.remove(f)
		s.shrink(adj, from)
	} else {
		c.sel.direction = s.dir
		c.sel.set.add(adj)
		s.grow(adj, from)
	}
	c.log.Debug("Selection crossed footnote boundary",
		zap.String("move", s.name),
		zap.String("id", adj.ID()),
		zap.Stringer("direction", c.sel.direction),
		zap.Int("selected", c.sel.set.len()))
	return true
}

// MoveCursorLeft moves cursor one position (or word) back. Returns false when
// cursor is at the very beginning of the first footnote.
func (c *Controller) MoveCursorLeft(extend, word bool) bool {
	return c.move(step{
		name:  "left",
		dir:   flow.Backward,
		inner: func(f flow.Container, extend bool) bool { return f.MoveLeft(extend, word) },
		grow: func(f flow.Container, _ flow.Point) {
			f.MoveToEnd(false)
			f.MoveLeft(true, word)
		},
		shrink:   func(f flow.Container, _ flow.Point) { f.MoveLeft(true, word) },
		enter:    func(f flow.Container, _ flow.Point) { f.MoveToEnd(false) },
		collapse: func(f flow.Container) { f.MoveLeft(false, word) },
	}, extend)
}

// MoveCursorRight moves cursor one position (or word) forward. Returns false
// when cursor is at the very end of the last footnote.
func (c *Controller) MoveCursorRight(extend, word bool) bool {
	return c.move(step{
		name:  "right",
		dir:   flow.Forward,
		inner: func(f flow.Container, extend bool) bool { return f.MoveRight(extend, word) },
		grow: func(f flow.Container, _ flow.Point) {
			f.MoveToStart(false)
			f.MoveRight(true, word)
		},
		shrink:   func(f flow.Container, _ flow.Point) { f.MoveRight(true, word) },
		enter:    func(f flow.Container, _ flow.Point) { f.MoveToStart(false) },
		collapse: func(f flow.Container) { f.MoveRight(false, word) },
	}, extend)
}

// MoveCursorUp moves cursor one row up keeping horizontal position when
// crossing into the previous footnote.
func (c *Controller) MoveCursorUp(extend bool) bool {
	return c.move(step{
		name:  "up",
		dir:   flow.Backward,
		inner: func(f flow.Container, extend bool) bool { return f.MoveUp(extend) },
		leave: func(f flow.Container) { f.MoveToStart(true) },
		grow: func(f flow.Container, from flow.Point) {
			f.MoveToEnd(false)
			f.MoveUpToLastRow(from.X, from.Y, true)
		},
		shrink:   func(f flow.Container, from flow.Point) { f.MoveUpToLastRow(from.X, from.Y, true) },
		enter:    func(f flow.Container, from flow.Point) { f.MoveUpToLastRow(from.X, from.Y, false) },
		collapse: func(f flow.Container) { f.MoveLeft(false, false) },
	}, extend)
}

// MoveCursorDown moves cursor one row down keeping horizontal position when
// crossing into the next footnote.
func (c *Controller) MoveCursorDown(extend bool) bool {
	return c.move(step{
		name:  "down",
		dir:   flow.Forward,
		inner: func(f flow.Container, extend bool) bool { return f.MoveDown(extend) },
		leave: func(f flow.Container) { f.MoveToEnd(true) },
		grow: func(f flow.Container, from flow.Point) {
			f.MoveToStart(false)
			f.MoveDownToFirstRow(from.X, from.Y, true)
		},
		shrink:   func(f flow.Container, from flow.Point) { f.MoveDownToFirstRow(from.X, from.Y, true) },
		enter:    func(f flow.Container, from flow.Point) { f.MoveDownToFirstRow(from.X, from.Y, false) },
		collapse: func(f flow.Container) { f.MoveRight(false, false) },
	}, extend)
}

// lineMove handles moves which never leave the container.
func (c *Controller) lineMove(dir flow.Direction, extend bool, do func(f flow.Container, extend bool)) bool {
	if c.current == nil {
		return false
	}
	switch {
	case c.sel.active && extend:
		do(c.sel.end.Container, true)
	case c.sel.active:
		t := c.terminal(dir)
		c.keepOnly(t)
		do(t, false)
		t.RemoveSelection()
		c.setCurrentNoSelection(t)
	case extend:
		c.beginSelection()
		do(c.current, true)
	default:
		do(c.current, false)
	}
	return true
}

func (c *Controller) MoveCursorToStartOfLine(extend bool) bool {
	return c.lineMove(flow.Backward, extend, flow.Container.MoveToLineStart)
}

func (c *Controller) MoveCursorToEndOfLine(extend bool) bool {
	return c.lineMove(flow.Forward, extend, flow.Container.MoveToLineEnd)
}

// MoveCursorToStartPos moves cursor to the start of the document. Without
// extend the move is handed to the host document when it supports that,
// otherwise cursor goes to the start of the first footnote. Extending move
// selects everything from selection start back to the first footnote.
func (c *Controller) MoveCursorToStartPos(extend bool) bool {
	return c.moveToEdge(flow.Backward, extend)
}

// MoveCursorToEndPos is the mirror of MoveCursorToStartPos.
func (c *Controller) MoveCursorToEndPos(extend bool) bool {
	return c.moveToEdge(flow.Forward, extend)
}

func (c *Controller) moveToEdge(dir flow.Direction, extend bool) bool {
	if !extend {
		if c.host != nil {
			if dir == flow.Backward {
				c.host.MoveCursorToStartPos()
			} else {
				c.host.MoveCursorToEndPos()
			}
			return true
		}
		all := c.doc.FootnotesInRange(nil, nil)
		if len(all) == 0 {
			return false
		}
		c.RemoveSelection()
		if dir == flow.Backward {
			c.setCurrentNoSelection(all[0])
			all[0].MoveToStart(false)
		} else {
			c.setCurrentNoSelection(all[len(all)-1])
			all[len(all)-1].MoveToEnd(false)
		}
		return true
	}

	f := c.current
	if c.sel.active {
		f = c.sel.start.Container
	}
	if f == nil {
		return false
	}

	var rng []flow.Container
	if dir == flow.Backward {
		rng = c.logicRange(nil, f)
	} else {
		rng = c.logicRange(f, nil)
	}
	if len(rng) == 0 {
		return false
	}
	if !c.sel.active {
		c.StartSelectionFromCurPos()
	}

	// containers out of the new range lose their selection
	for _, o := range c.sel.set.all() {
		if o != f && !slices.Contains(rng, o) {
			o.RemoveSelection()
		}
	}

	edge := rng[0]
	if dir == flow.Forward {
		edge = rng[len(rng)-1]
	}
	c.sel.start.Container = f
	c.sel.end.Container = edge
	c.current = edge

	if dir == flow.Backward {
		f.MoveToStart(true)
	} else {
		f.MoveToEnd(true)
	}
	c.sel.set.reset(f)
	for _, o := range rng {
		if o != f {
			o.SelectAll(dir)
			c.sel.set.add(o)
		}
	}

	c.sel.direction = flow.Neutral
	if f != edge {
		c.sel.direction = dir
	}
	return true
}
