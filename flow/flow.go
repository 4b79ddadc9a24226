// Package flow describes flowable containers - independently laid out text
// streams with their own cursor, selection and multi-page flow. Footnotes,
// endnotes and the footnote separator are all flowable containers. The
// paragraph/run layout engine behind them lives elsewhere, this package only
// fixes the contract the footnotes controller relies on.
package flow

import "image/color"

// RecalcResult is returned by Layout.RecalculatePage.
type RecalcResult int

const (
	// RecalcNextPage means content remains and the next internal page has to
	// be recalculated.
	RecalcNextPage RecalcResult = iota
	// RecalcEnd means there is no more content for this page. Terminal.
	RecalcEnd
)

func (r RecalcResult) String() string {
	if r == RecalcEnd {
		return "end"
	}
	return "next-page"
}

// Snapshot is a serialized capture of computed layout for one page. It is
// opaque to everybody except the container which produced it.
type Snapshot []byte

// Surface is a drawing target.
type Surface interface {
	FillRect(b Bounds, c color.Color)
	HLine(x0, x1, y float64)
	DrawText(x, baseline float64, text string)
}

// Layout is the layout part of the container contract.
//
// RecalculatePage must make monotonic progress through the content: repeated
// calls with increasing page numbers eventually return RecalcEnd.
type Layout interface {
	Reset(x, y, xLimit, yLimit float64)
	SetStartPage(abs int)
	StartPage() int
	RelativePage(abs int) int
	RecalculatePage(rel int) RecalcResult
	PageBounds(rel int) Bounds
	Shift(rel int, dx, dy float64)
	SaveSnapshot() Snapshot
	LoadSnapshot(s Snapshot) error
	Draw(abs int, s Surface)
}

// Cursor moves the text cursor inside a single container. Methods returning
// bool report false when the cursor is already at the content boundary in the
// requested direction and did not move.
type Cursor interface {
	MoveLeft(extend, word bool) bool
	MoveRight(extend, word bool) bool
	MoveUp(extend bool) bool
	MoveDown(extend bool) bool
	MoveToStart(extend bool)
	MoveToEnd(extend bool)
	MoveToLineStart(extend bool)
	MoveToLineEnd(extend bool)
	// MoveUpToLastRow places cursor on the last row closest to x.
	MoveUpToLastRow(x, y float64, extend bool)
	// MoveDownToFirstRow places cursor on the first row closest to x.
	MoveDownToFirstRow(x, y float64, extend bool)
	MoveAt(x, y float64, rel int, extend bool)
	CursorPos() Point
}

// Selection manages selection inside a single container.
type Selection interface {
	SetSelectionStart(x, y float64, rel int)
	SetSelectionEnd(x, y float64, rel int)
	RemoveSelection()
	SelectAll(dir Direction)
	StartSelectionFromCursor()
	IsSelectionUse() bool
	IsSelectionEmpty() bool
	SelectionBounds() (start, end Bounds)
	// SelectedText returns false when selection cannot be represented as
	// plain text. With clear set only pure text is accepted.
	SelectedText(clear bool) (string, bool)
	CheckSelection(x, y float64, rel int) bool
	DrawSelection(rel int, s Surface)
}

// Container is a complete flowable container.
type Container interface {
	ID() string
	Layout
	Cursor
	Selection
}

// Editor is an optional capability of a container supporting structural
// edits which only make sense for a single container at a time.
type Editor interface {
	AddNewParagraph() bool
	AddText(text string)
	AddInlineTable(cols, rows int) bool
	Remove(count int, onlySelection bool) bool
}
