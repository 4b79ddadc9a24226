package footnotes

import (
	"go.uber.org/zap"

	"fnflow/flow"
)

// Recalculate lays out footnotes of page abs in the band starting at (x, y).
// Band is not limited vertically, footnotes which do not fit are clipped by
// the paginator. yLimit is remembered but not enforced.
func (c *Controller) Recalculate(abs int, x, xLimit, y, yLimit float64) {
	p := c.pages.ensure(abs)
	if p.empty() {
		return
	}
	p.X, p.Y, p.XLimit, p.YLimit = x, y, xLimit, yLimit

	// layout always starts at band origin, later moves are done with Shift
	cur := y
	if c.separator != nil {
		b, snap := c.layout(c.separator, abs, x, cur, xLimit, false)
		p.SeparatorBounds, p.SeparatorSnapshot = b, snap
		cur += b.Height()
	}

	p.Snapshots = p.Snapshots[:0]
	p.Bounds = p.Bounds[:0]
	for _, f := range p.Elements {
		b, snap := c.layout(f, abs, x, cur, xLimit, true)
		p.Bounds = append(p.Bounds, b)
		p.Snapshots = append(p.Snapshots, snap)
		cur += b.Height()
	}

	c.log.Debug("Footnotes recalculated",
		zap.Int("page", abs),
		zap.Int("count", len(p.Elements)),
		zap.Float64("height", cur-y))
}

// layout runs flow of a single container and returns its bounds on the
// first internal page. Separator never flows past single page.
func (c *Controller) layout(f flow.Container, abs int, x, y, xLimit float64, flowAll bool) (flow.Bounds, flow.Snapshot) {
	f.Reset(x, y, xLimit, c.cfg.UnboundedHeight)
	f.SetStartPage(abs)

	res := f.RecalculatePage(0)
	for rel := 1; flowAll && res != flow.RecalcEnd; rel++ {
		if c.cfg.MaxFlowPages > 0 && rel >= c.cfg.MaxFlowPages {
			c.log.Error("Footnote does not finish its flow, layout abandoned",
				zap.String("id", f.ID()),
				zap.Int("page", abs),
				zap.Int("pages", rel))
			break
		}
		res = f.RecalculatePage(rel)
	}
	return f.PageBounds(0), f.SaveSnapshot()
}

// GetHeight returns height of the footnotes band on page abs, zero for empty
// pages.
func (c *Controller) GetHeight(abs int) float64 {
	p := c.pages.get(abs)
	if p.empty() {
		return 0
	}

	var h float64
	if c.separator != nil {
		b := p.SeparatorBounds
		if p.SeparatorSnapshot == nil {
			b = c.separator.PageBounds(0)
		}
		h += b.Height()
	}
	for i := range p.Elements {
		h += p.elementBounds(i).Height()
	}
	return h
}

// GetPageBounds returns area occupied by footnotes band on page abs.
func (c *Controller) GetPageBounds(abs int) (flow.Bounds, bool) {
	p := c.pages.get(abs)
	if p.empty() {
		return flow.Bounds{}, false
	}
	b := p.elementBounds(0)
	if c.separator != nil {
		b = b.Union(p.SeparatorBounds)
	}
	for i := range p.Elements[1:] {
		b = b.Union(p.elementBounds(i + 1))
	}
	return b, true
}

// Shift moves already computed layout of page abs.
func (c *Controller) Shift(abs int, dx, dy float64) {
	p := c.pages.get(abs)
	if p.empty() {
		return
	}
	p.X, p.Y = p.X+dx, p.Y+dy

	if c.separator != nil && p.SeparatorSnapshot != nil {
		if snap, ok := c.shiftOne(c.separator, p.SeparatorSnapshot, dx, dy); ok {
			p.SeparatorSnapshot = snap
			p.SeparatorBounds = p.SeparatorBounds.Translate(dx, dy)
		}
	}
	for i, f := range p.Elements {
		snap, ok := p.snapshot(i)
		if !ok {
			f.Shift(0, dx, dy)
			continue
		}
		if snap, ok = c.shiftOne(f, snap, dx, dy); ok {
			p.Snapshots[i] = snap
			p.Bounds[i] = p.Bounds[i].Translate(dx, dy)
		}
	}
}

func (c *Controller) shiftOne(f flow.Container, snap flow.Snapshot, dx, dy float64) (flow.Snapshot, bool) {
	if err := f.LoadSnapshot(snap); err != nil {
		c.log.Warn("Unable to restore footnote layout, shift skipped", zap.String("id", f.ID()), zap.Error(err))
		return nil, false
	}
	f.Shift(0, dx, dy)
	return f.SaveSnapshot(), true
}

// Draw paints separator and footnotes of page abs.
func (c *Controller) Draw(abs int, s flow.Surface) {
	p := c.pages.get(abs)
	if p.empty() {
		return
	}

	if c.separator != nil && p.SeparatorSnapshot != nil {
		if c.restore(c.separator, p.SeparatorSnapshot) {
			c.separator.Draw(abs, s)
		}
	}
	for i, f := range p.Elements {
		if snap, ok := p.snapshot(i); ok && !c.restore(f, snap) {
			continue
		}
		f.Draw(abs, s)
	}
}

func (c *Controller) restore(f flow.Container, snap flow.Snapshot) bool {
	if err := f.LoadSnapshot(snap); err != nil {
		c.log.Warn("Unable to restore footnote layout", zap.String("id", f.ID()), zap.Error(err))
		return false
	}
	return true
}
