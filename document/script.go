package document

import (
	"fmt"

	"go.uber.org/zap"

	"fnflow/flow"
)

// Apply runs editing script against the document. Steps which could not be
// performed (cursor at boundary, action not valid for current selection) are
// logged and skipped, errors are only returned for history failures.
func (d *Document) Apply(steps []Step) error {
	for i := range steps {
		s := &steps[i]
		repeat := max(s.Repeat, 1)
		for range repeat {
			ok, err := d.step(s)
			if err != nil {
				return fmt.Errorf("script step %d: %w", i, err)
			}
			if !ok {
				d.log.Debug("Script step had no effect", zap.Int("step", i), zap.String("action", s.name()))
				break
			}
		}
		if n := d.Relayout(); n > 0 {
			d.log.Debug("Pages recalculated", zap.Int("step", i), zap.Int("pages", n))
		}
	}
	return nil
}

func (s *Step) name() string {
	switch {
	case s.Move != "":
		return "move " + s.Move
	case s.Click != nil:
		return "click"
	case s.Press != nil:
		return "press"
	case s.Drag != nil:
		return "drag"
	case s.SelectAll != "":
		return "select all " + s.SelectAll
	case s.Type != "":
		return "type"
	case s.Paragraph:
		return "paragraph"
	case s.Delete != 0:
		return "delete"
	case s.Add != nil:
		return "add"
	case s.Undo:
		return "undo"
	case s.Redo:
		return "redo"
	default:
		return "none"
	}
}

func (d *Document) step(s *Step) (bool, error) {
	c := d.ctrl
	switch {
	case s.Move != "":
		return d.move(s.Move, s.Extend), nil
	case s.Click != nil:
		return c.MoveCursorToXY(s.Click.X, s.Click.Y, s.Click.Page, s.Extend), nil
	case s.Press != nil:
		return c.StartSelection(s.Press.X, s.Press.Y, s.Press.Page), nil
	case s.Drag != nil:
		return c.EndSelection(s.Drag.X, s.Drag.Y, s.Drag.Page), nil
	case s.SelectAll != "":
		dir := flow.Forward
		if s.SelectAll == "backward" {
			dir = flow.Backward
		}
		return c.SelectAll(dir), nil
	case s.Type != "":
		return d.edited(c.AddText(s.Type)), nil
	case s.Paragraph:
		return d.edited(c.AddNewParagraph()), nil
	case s.Delete != 0:
		return d.edited(c.Remove(s.Delete, false)), nil
	case s.Add != nil:
		f := d.insert(s.Add.Page, s.Add.Text)
		c.SetCurrentElement(f)
		d.RequestRelayout(s.Add.Page)
		return true, nil
	case s.Undo:
		return d.history(true)
	case s.Redo:
		return d.history(false)
	}
	return false, errNoAction
}

func (d *Document) move(name string, extend bool) bool {
	c := d.ctrl
	switch name {
	case "left":
		return c.MoveCursorLeft(extend, false)
	case "right":
		return c.MoveCursorRight(extend, false)
	case "word-left":
		return c.MoveCursorLeft(extend, true)
	case "word-right":
		return c.MoveCursorRight(extend, true)
	case "up":
		return c.MoveCursorUp(extend)
	case "down":
		return c.MoveCursorDown(extend)
	case "line-start":
		return c.MoveCursorToStartOfLine(extend)
	case "line-end":
		return c.MoveCursorToEndOfLine(extend)
	case "doc-start":
		return c.MoveCursorToStartPos(extend)
	case "doc-end":
		return c.MoveCursorToEndPos(extend)
	}
	return false
}

// edited requests relayout of the page current footnote starts on after
// successful edit.
func (d *Document) edited(ok bool) bool {
	if ok {
		d.ctrl.RequestRelayout(d.ctrl.GetCurPage())
	}
	return ok
}

func (d *Document) history(undo bool) (bool, error) {
	var (
		ok  bool
		err error
	)
	if undo {
		ok, err = d.hist.Undo(d.ctrl.Registry())
	} else {
		ok, err = d.hist.Redo(d.ctrl.Registry())
	}
	if err != nil || !ok {
		return ok, err
	}

	// set of footnotes changed, selection may refer to removed ones
	d.ctrl.RemoveSelection()
	for abs := range d.pages {
		d.RequestRelayout(abs)
	}
	return true, nil
}
