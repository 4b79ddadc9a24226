package footnotes

import (
	"reflect"
	"strings"
	"testing"

	"fnflow/flow"
)

func TestMoveLeftAtDocumentStart(t *testing.T) {
	fx := newFixture(t, "ab", "cd")
	f1 := fx.notes[0]
	fx.ctrl.SetCurrentElement(f1)

	if fx.ctrl.MoveCursorLeft(false, false) {
		t.Error("MoveCursorLeft() at the start of the first footnote returned true")
	}
	if fx.ctrl.State() != Idle || fx.ctrl.CurrentContainer() != f1 || f1.Pos() != 0 {
		t.Errorf("state changed: %s current=%v pos=%d", fx.ctrl.State(), fx.ctrl.CurrentContainer(), f1.Pos())
	}

	// extending move does not leave selection behind either
	if fx.ctrl.MoveCursorLeft(true, false) {
		t.Error("extending MoveCursorLeft() at the start returned true")
	}
	if fx.ctrl.State() != Idle || f1.IsSelectionUse() {
		t.Errorf("state after extend = %s, selection %v", fx.ctrl.State(), f1.IsSelectionUse())
	}
}

func TestExtendRightAcrossBoundary(t *testing.T) {
	fx := newFixture(t, "ab", "cd")
	f1, f2 := fx.notes[0], fx.notes[1]
	fx.ctrl.SetCurrentElement(f1)

	for i := range 3 {
		if !fx.ctrl.MoveCursorRight(true, false) {
			t.Fatalf("move %d failed", i+1)
		}
	}

	if got := fx.ctrl.State(); got != RangeSelect {
		t.Errorf("State() = %s, want %s", got, RangeSelect)
	}
	if got := fx.ctrl.Direction(); got != flow.Forward {
		t.Errorf("Direction() = %s, want %s", got, flow.Forward)
	}
	if got, want := fx.ctrl.SelectedIDs(), ids(f1, f2); !reflect.DeepEqual(got, want) {
		t.Errorf("SelectedIDs() = %v, want %v", got, want)
	}
	if fx.ctrl.CurrentContainer() != f2 {
		t.Errorf("current = %v, want %v", fx.ctrl.CurrentContainer(), f2)
	}
	if f2.Anchor() != 0 || f2.Pos() != 1 {
		t.Errorf("F2 anchor=%d pos=%d, want 0 and 1", f2.Anchor(), f2.Pos())
	}
	if from, to, _ := f1.Selected(); from != 0 || to != 2 {
		t.Errorf("F1 selection [%d, %d), want [0, 2)", from, to)
	}
	if text, ok := fx.ctrl.GetSelectedText(false); !ok || text != "abc" {
		t.Errorf("GetSelectedText() = %q, %v", text, ok)
	}
	if start, end := fx.ctrl.SelectionStart(), fx.ctrl.SelectionEnd(); start.Container != f1 || end.Container != f2 {
		t.Errorf("selection ends %v - %v", start.Container, end.Container)
	}
}

func TestAdjacencyFollowsLogicalOrder(t *testing.T) {
	fx := newFixture(t, "a", "b", "c")
	a, b, c := fx.notes[0], fx.notes[1], fx.notes[2]

	tests := []struct {
		name       string
		f          flow.Container
		prev, next flow.Container
	}{
		{"first", a, nil, b},
		{"middle", b, a, c},
		{"last", c, b, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fx.ctrl.prev(tt.f); got != tt.prev {
				t.Errorf("prev() = %v, want %v", got, tt.prev)
			}
			if got := fx.ctrl.next(tt.f); got != tt.next {
				t.Errorf("next() = %v, want %v", got, tt.next)
			}
			if n := fx.ctrl.next(tt.f); n != nil && fx.ctrl.prev(n) != tt.f {
				t.Error("prev(next(f)) != f")
			}
		})
	}

	if got := fx.ctrl.direction(a, c); got != flow.Forward {
		t.Errorf("direction(a, c) = %s", got)
	}
	if got := fx.ctrl.direction(c, a); got != flow.Backward {
		t.Errorf("direction(c, a) = %s", got)
	}
	if got := fx.ctrl.direction(b, b); got != flow.Neutral {
		t.Errorf("direction(b, b) = %s", got)
	}
}

// selectForward makes range selection over single rune footnotes a, b, c.
func selectForward(t *testing.T, fx *fixture) {
	t.Helper()
	fx.ctrl.SetCurrentElement(fx.notes[0])
	for range 3 {
		if !fx.ctrl.MoveCursorRight(true, false) {
			t.Fatal("MoveCursorRight() failed")
		}
	}
	if fx.ctrl.State() != RangeSelect || len(fx.ctrl.SelectedIDs()) != 3 {
		t.Fatalf("setup: state %s selected %v", fx.ctrl.State(), fx.ctrl.SelectedIDs())
	}
}

func TestSelectionCollapsesTowardsStart(t *testing.T) {
	fx := newFixture(t, "a", "b", "c")
	a, b, c := fx.notes[0], fx.notes[1], fx.notes[2]
	selectForward(t, fx)

	steps := []struct {
		state    State
		selected []string
	}{
		{RangeSelect, ids(a, b, c)}, // inside of c
		{RangeSelect, ids(a, b)},
		{SingleSelect, ids(a)},
	}
	for i, s := range steps {
		if !fx.ctrl.MoveCursorLeft(true, false) {
			t.Fatalf("step %d: MoveCursorLeft() failed", i)
		}
		if got := fx.ctrl.State(); got != s.state {
			t.Errorf("step %d: State() = %s, want %s", i, got, s.state)
		}
		if got := fx.ctrl.SelectedIDs(); !reflect.DeepEqual(got, s.selected) {
			t.Errorf("step %d: SelectedIDs() = %v, want %v", i, got, s.selected)
		}
	}
	if fx.ctrl.Direction() != flow.Neutral {
		t.Errorf("Direction() = %s, want neutral", fx.ctrl.Direction())
	}
	if c.IsSelectionUse() || b.IsSelectionUse() {
		t.Error("containers out of selection keep it")
	}
	if fx.ctrl.MoveCursorLeft(true, false) {
		t.Error("extending past the start of the first footnote returned true")
	}
}

func TestCollapseToTerminal(t *testing.T) {
	tests := []struct {
		name    string
		move    func(c *Controller) bool
		current int
		pos     int
	}{
		{"right", func(c *Controller) bool { return c.MoveCursorRight(false, false) }, 2, 1},
		{"left", func(c *Controller) bool { return c.MoveCursorLeft(false, false) }, 0, 0},
		{"down", func(c *Controller) bool { return c.MoveCursorDown(false) }, 2, 1},
		{"up", func(c *Controller) bool { return c.MoveCursorUp(false) }, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, "a", "b", "c")
			selectForward(t, fx)

			if !tt.move(fx.ctrl) {
				t.Fatal("move returned false")
			}
			want := fx.notes[tt.current]
			if fx.ctrl.CurrentContainer() != want {
				t.Errorf("current = %v, want %v", fx.ctrl.CurrentContainer(), want)
			}
			if fx.ctrl.State() != Idle {
				t.Errorf("State() = %s, want idle", fx.ctrl.State())
			}
			if want.Pos() != tt.pos {
				t.Errorf("pos = %d, want %d", want.Pos(), tt.pos)
			}
			for _, n := range fx.notes {
				if n.IsSelectionUse() {
					t.Errorf("%s keeps selection", n.ID())
				}
			}
		})
	}
}

func TestMoveAcrossBoundary(t *testing.T) {
	fx := newFixture(t, "ab", "cd")
	f1, f2 := fx.notes[0], fx.notes[1]
	fx.ctrl.SetCurrentElement(f1)
	f1.MoveRight(false, false)

	if !fx.ctrl.MoveCursorDown(false) {
		t.Fatal("MoveCursorDown() failed")
	}
	if fx.ctrl.CurrentContainer() != f2 || f2.Pos() != 1 {
		t.Errorf("after down: current %v pos %d, want F2 at 1", fx.ctrl.CurrentContainer(), f2.Pos())
	}

	if !fx.ctrl.MoveCursorUp(false) {
		t.Fatal("MoveCursorUp() failed")
	}
	if fx.ctrl.CurrentContainer() != f1 || f1.Pos() != 1 {
		t.Errorf("after up: current %v pos %d, want F1 at 1", fx.ctrl.CurrentContainer(), f1.Pos())
	}

	// non extending left at the start goes to the end of previous footnote
	fx.ctrl.SetCurrentElement(f2)
	f2.MoveToStart(false)
	if !fx.ctrl.MoveCursorLeft(false, false) {
		t.Fatal("MoveCursorLeft() failed")
	}
	if fx.ctrl.CurrentContainer() != f1 || f1.Pos() != 2 {
		t.Errorf("after left: current %v pos %d, want F1 at 2", fx.ctrl.CurrentContainer(), f1.Pos())
	}
	if !fx.ctrl.MoveCursorRight(false, true) || !fx.ctrl.MoveCursorRight(false, true) {
		t.Fatal("MoveCursorRight() by word failed")
	}
	if fx.ctrl.CurrentContainer() != f2 || f2.Pos() != 2 {
		t.Errorf("after word right: current %v pos %d, want F2 at 2", fx.ctrl.CurrentContainer(), f2.Pos())
	}
	if fx.ctrl.MoveCursorRight(false, false) {
		t.Error("MoveCursorRight() at the end of the last footnote returned true")
	}
}

func TestExtendDownAcrossBoundary(t *testing.T) {
	fx := newFixture(t, "ab", "cd")
	f1, f2 := fx.notes[0], fx.notes[1]
	fx.ctrl.SetCurrentElement(f1)
	f1.MoveRight(false, false)

	if !fx.ctrl.MoveCursorDown(true) {
		t.Fatal("MoveCursorDown(true) failed")
	}
	if fx.ctrl.State() != RangeSelect || fx.ctrl.Direction() != flow.Forward {
		t.Errorf("state %s direction %s", fx.ctrl.State(), fx.ctrl.Direction())
	}
	if text, _ := fx.ctrl.GetSelectedText(false); text != "bc" {
		t.Errorf("GetSelectedText() = %q, want %q", text, "bc")
	}

	// going back up shrinks selection to the first footnote
	if !fx.ctrl.MoveCursorUp(true) {
		t.Fatal("MoveCursorUp(true) failed")
	}
	if fx.ctrl.State() != SingleSelect || fx.ctrl.CurrentContainer() != f1 {
		t.Errorf("state %s current %v", fx.ctrl.State(), fx.ctrl.CurrentContainer())
	}
	if f2.IsSelectionUse() {
		t.Error("F2 keeps selection")
	}
}

func TestLineMoves(t *testing.T) {
	fx := newFixture(t, strings.Repeat("word ", 15))
	f := fx.notes[0]
	fx.place(0, f)
	fx.ctrl.SetCurrentElement(f)
	f.MoveToEnd(false)

	if !fx.ctrl.MoveCursorToStartOfLine(false) || f.Pos() != 50 {
		t.Errorf("MoveCursorToStartOfLine() pos = %d, want 50", f.Pos())
	}
	if !fx.ctrl.MoveCursorToEndOfLine(true) {
		t.Fatal("MoveCursorToEndOfLine(true) failed")
	}
	if fx.ctrl.State() != SingleSelect {
		t.Errorf("State() = %s, want single-select", fx.ctrl.State())
	}
	if text, ok := fx.ctrl.GetSelectedText(true); !ok || text != strings.Repeat("word ", 5) {
		t.Errorf("GetSelectedText(true) = %q, %v", text, ok)
	}

	// non extending move drops selection
	if !fx.ctrl.MoveCursorToStartOfLine(false) || fx.ctrl.State() != Idle || f.Pos() != 50 {
		t.Errorf("state %s pos %d, want idle at 50", fx.ctrl.State(), f.Pos())
	}

	empty := newFixture(t)
	if empty.ctrl.MoveCursorToEndOfLine(false) {
		t.Error("line move without current footnote returned true")
	}
}

func TestMoveToDocumentEdges(t *testing.T) {
	t.Run("own", func(t *testing.T) {
		fx := newFixture(t, "ab", "cd", "ef")
		fx.ctrl.SetCurrentElement(fx.notes[1])

		if !fx.ctrl.MoveCursorToEndPos(false) {
			t.Fatal("MoveCursorToEndPos() failed")
		}
		if last := fx.notes[2]; fx.ctrl.CurrentContainer() != last || last.Pos() != 2 {
			t.Errorf("current %v pos %d", fx.ctrl.CurrentContainer(), last.Pos())
		}
		if !fx.ctrl.MoveCursorToStartPos(false) {
			t.Fatal("MoveCursorToStartPos() failed")
		}
		if first := fx.notes[0]; fx.ctrl.CurrentContainer() != first || first.Pos() != 0 {
			t.Errorf("current %v pos %d", fx.ctrl.CurrentContainer(), first.Pos())
		}
	})

	t.Run("host", func(t *testing.T) {
		doc := &hostDoc{}
		fx := newFixtureWith(t, doc, testConfig(), testLogger(t), "ab", "cd")
		fx.ctrl.SetCurrentElement(fx.notes[0])

		if !fx.ctrl.MoveCursorToStartPos(false) || !fx.ctrl.MoveCursorToEndPos(false) {
			t.Fatal("edge moves failed")
		}
		if doc.starts != 1 || doc.ends != 1 {
			t.Errorf("host got starts=%d ends=%d", doc.starts, doc.ends)
		}
		if fx.ctrl.CurrentContainer() != fx.notes[0] {
			t.Error("current changed while host handled the move")
		}
	})

	t.Run("empty", func(t *testing.T) {
		fx := newFixture(t)
		if fx.ctrl.MoveCursorToEndPos(false) || fx.ctrl.MoveCursorToStartPos(true) {
			t.Error("edge move in document without footnotes returned true")
		}
	})
}

func TestExtendToDocumentEdges(t *testing.T) {
	fx := newFixture(t, "ab", "cd", "ef")
	f1, f2, f3 := fx.notes[0], fx.notes[1], fx.notes[2]
	fx.ctrl.SetCurrentElement(f1)
	f1.MoveRight(false, false)

	if !fx.ctrl.MoveCursorToEndPos(true) {
		t.Fatal("MoveCursorToEndPos(true) failed")
	}
	if fx.ctrl.State() != RangeSelect || fx.ctrl.Direction() != flow.Forward {
		t.Errorf("state %s direction %s", fx.ctrl.State(), fx.ctrl.Direction())
	}
	if fx.ctrl.CurrentContainer() != f3 {
		t.Errorf("current = %v, want %v", fx.ctrl.CurrentContainer(), f3)
	}
	if got, want := fx.ctrl.SelectedIDs(), ids(f1, f2, f3); !reflect.DeepEqual(got, want) {
		t.Errorf("SelectedIDs() = %v, want %v", got, want)
	}
	if text, _ := fx.ctrl.GetSelectedText(false); text != "bcdef" {
		t.Errorf("GetSelectedText() = %q, want %q", text, "bcdef")
	}

	// reversing to the start keeps only the footnote selection started in
	if !fx.ctrl.MoveCursorToStartPos(true) {
		t.Fatal("MoveCursorToStartPos(true) failed")
	}
	if fx.ctrl.State() != SingleSelect || fx.ctrl.CurrentContainer() != f1 {
		t.Errorf("state %s current %v", fx.ctrl.State(), fx.ctrl.CurrentContainer())
	}
	if f2.IsSelectionUse() || f3.IsSelectionUse() {
		t.Error("footnotes out of the new range keep selection")
	}
	if text, _ := fx.ctrl.GetSelectedText(false); text != "a" {
		t.Errorf("GetSelectedText() = %q, want %q", text, "a")
	}
}
