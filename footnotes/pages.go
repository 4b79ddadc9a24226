package footnotes

import (
	"fnflow/flow"
)

// Page keeps footnotes placed on a single document page together with their
// computed layout.
type Page struct {
	X, Y, XLimit, YLimit float64

	// Elements in placement order, top to bottom.
	Elements []flow.Container

	SeparatorSnapshot flow.Snapshot
	SeparatorBounds   flow.Bounds

	// Snapshots and Bounds are parallel to Elements once page is recalculated.
	Snapshots []flow.Snapshot
	Bounds    []flow.Bounds
}

func (p *Page) reset() {
	*p = Page{}
}

// Empty pages carry no layout at all.
func (p *Page) empty() bool {
	return p == nil || len(p.Elements) == 0
}

// snapshot returns cached layout of i-th element if page was recalculated
// after element has been placed.
func (p *Page) snapshot(i int) (flow.Snapshot, bool) {
	if i < len(p.Snapshots) && p.Snapshots[i] != nil {
		return p.Snapshots[i], true
	}
	return nil, false
}

// elementBounds returns bounds of i-th element on its first internal page.
// Recorded bounds are used when available.
func (p *Page) elementBounds(i int) flow.Bounds {
	if i < len(p.Bounds) {
		return p.Bounds[i]
	}
	return p.Elements[i].PageBounds(0)
}

// pageCache is indexed by absolute page number and grows on demand.
type pageCache struct {
	pages []*Page
}

func (pc *pageCache) get(abs int) *Page {
	if abs < 0 || abs >= len(pc.pages) {
		return nil
	}
	return pc.pages[abs]
}

func (pc *pageCache) ensure(abs int) *Page {
	if abs < 0 {
		return nil
	}
	for len(pc.pages) <= abs {
		pc.pages = append(pc.pages, nil)
	}
	if pc.pages[abs] == nil {
		pc.pages[abs] = &Page{}
	}
	return pc.pages[abs]
}

func (pc *pageCache) len() int {
	return len(pc.pages)
}

// EnsurePage returns entry for absolute page abs creating empty one when
// necessary. Returns nil for negative page numbers.
func (c *Controller) EnsurePage(abs int) *Page {
	return c.pages.ensure(abs)
}

// IsEmptyPage reports if no footnotes are placed on page abs.
func (c *Controller) IsEmptyPage(abs int) bool {
	return c.pages.get(abs).empty()
}

// AddFootnoteOnPage places container at the bottom of page abs. Placement is
// decided by the paginator, footnote is expected to be recalculated after.
func (c *Controller) AddFootnoteOnPage(abs int, f flow.Container) {
	if p := c.pages.ensure(abs); p != nil {
		p.Elements = append(p.Elements, f)
	}
}

// Reset drops placement and computed layout of page abs.
func (c *Controller) Reset(abs int) {
	if p := c.pages.ensure(abs); p != nil {
		p.reset()
	}
}

// PageCount returns number of page entries known to cache.
func (c *Controller) PageCount() int {
	return c.pages.len()
}
