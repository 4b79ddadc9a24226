package footnotes

import (
	"fmt"

	"fnflow/utils/debug"
)

// String returns readable state of the controller. It exists solely for
// inspection during debugging.
func (c *Controller) String() string {
	tw := debug.NewTreeWriter()

	tw.Line(0, "Footnotes: %s", c.reg)
	for _, id := range c.reg.IDs() {
		tw.Line(1, "ID=%q", id)
	}

	tw.Line(0, "Pages: %d", c.pages.len())
	for abs, p := range c.pages.pages {
		if p.empty() {
			continue
		}
		tw.Line(1, "Page[%d] band x=%.2f y=%.2f x_limit=%.2f height=%.2f", abs, p.X, p.Y, p.XLimit, c.GetHeight(abs))
		if c.separator != nil {
			tw.Line(2, "Separator %s", p.SeparatorBounds)
		}
		for i, f := range p.Elements {
			tw.Line(2, "Footnote[%q] %s", f.ID(), p.elementBounds(i))
		}
	}

	tw.Line(0, "Selection: %s direction=%s", c.State(), c.sel.direction)
	if c.current != nil {
		tw.Line(1, "Current=%q", c.current.ID())
	}
	if c.sel.active {
		tw.Line(1, "Start=%s", anchorString(c.sel.start))
		tw.Line(1, "End=%s", anchorString(c.sel.end))
	}
	tw.List(1, "Selected", c.sel.set.ids())
	return tw.String()
}

func anchorString(a Anchor) string {
	if a.Container == nil {
		return "<none>"
	}
	return fmt.Sprintf("%q page=%d index=%d", a.Container.ID(), a.Page, a.Index)
}
