package footnotes

import (
	"fnflow/flow"
)

// hit is a located container together with coordinates which should be used
// inside of it. When container was found on another page coordinates are the
// probe used there.
type hit struct {
	Anchor
	x, y float64
}

// rel returns internal page of hit container.
func (h hit) rel() int {
	return h.Container.RelativePage(h.Page)
}

// onPage looks for the lowest footnote on page abs which top is above y,
// topmost footnote is returned when y is above everything.
func (c *Controller) onPage(x, y float64, abs int) (hit, bool) {
	p := c.pages.get(abs)
	if p.empty() {
		return hit{}, false
	}
	for i := len(p.Elements) - 1; i >= 0; i-- {
		if p.elementBounds(i).Top <= y || i == 0 {
			return hit{Anchor: Anchor{Container: p.Elements[i], Page: abs, Index: i}, x: x, y: y}, true
		}
	}
	return hit{}, false
}

func (c *Controller) locate(x, y float64, abs int) (hit, bool) {
	if h, ok := c.onPage(x, y, abs); ok {
		return h, true
	}
	maxc := c.maxCoord()
	// pages past the cache hold nothing
	for page := min(abs, c.pages.len()) - 1; page >= 0; page-- {
		if h, ok := c.onPage(maxc, maxc, page); ok {
			return h, true
		}
	}
	for page := max(abs+1, 0); page < c.pages.len(); page++ {
		if h, ok := c.onPage(-maxc, -maxc, page); ok {
			return h, true
		}
	}
	return hit{}, false
}

func (c *Controller) maxCoord() float64 {
	if c.cfg.MaxCoord > 0 {
		return c.cfg.MaxCoord
	}
	return flow.MaxCoord
}

// Locate finds footnote at (x, y) on page abs. When page has no footnotes
// preceding pages are searched from the bottom up, then following pages from
// the top down. Returns false when document has no placed footnotes at all.
func (c *Controller) Locate(x, y float64, abs int) (Anchor, bool) {
	h, ok := c.locate(x, y, abs)
	return h.Anchor, ok
}

// CheckHitInFootnote reports if point (x, y) is inside footnotes band of
// page abs.
func (c *Controller) CheckHitInFootnote(x, y float64, abs int) bool {
	p := c.pages.get(abs)
	if p.empty() {
		return false
	}
	for i := range p.Elements {
		if p.elementBounds(i).Top <= y {
			return true
		}
	}
	return false
}
