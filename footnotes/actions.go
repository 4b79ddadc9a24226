package footnotes

import (
	"go.uber.org/zap"

	"fnflow/flow"
)

// editor returns current container when action could be applied to it.
// Actions changing structure of a footnote make no sense for selection
// spanning several footnotes, such requests go to OnInvalidAction.
func (c *Controller) editor() (flow.Editor, bool) {
	if c.sel.set.len() > 1 || c.current == nil {
		if c.OnInvalidAction != nil {
			c.OnInvalidAction()
		}
		return nil, false
	}
	ed, ok := c.current.(flow.Editor)
	if !ok {
		c.log.Debug("Footnote does not support editing", zap.String("id", c.current.ID()))
	}
	return ed, ok
}

func (c *Controller) AddNewParagraph() bool {
	ed, ok := c.editor()
	if !ok {
		return false
	}
	return ed.AddNewParagraph()
}

func (c *Controller) AddText(text string) bool {
	ed, ok := c.editor()
	if !ok {
		return false
	}
	ed.AddText(text)
	return true
}

func (c *Controller) AddInlineTable(cols, rows int) bool {
	ed, ok := c.editor()
	if !ok {
		return false
	}
	return ed.AddInlineTable(cols, rows)
}

// Remove deletes count elements before (negative) or after the cursor, or
// selection if there is one.
func (c *Controller) Remove(count int, onlySelection bool) bool {
	ed, ok := c.editor()
	if !ok {
		return false
	}
	return ed.Remove(count, onlySelection)
}

// ForEachSelected calls fn for every container holding selection (or current
// container when nothing is selected). Used for formatting which applies to
// all selected footnotes at once.
func (c *Controller) ForEachSelected(fn func(f flow.Container)) {
	for _, f := range c.sel.set.all() {
		fn(f)
	}
}

// Hyperlinks and comments are not supported inside of footnotes.

func (c *Controller) CanAddHyperlink() bool { return false }
func (c *Controller) AddHyperlink()         {}
func (c *Controller) CanAddComment() bool   { return false }
func (c *Controller) AddComment()           {}
