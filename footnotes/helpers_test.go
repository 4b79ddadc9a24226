package footnotes

import (
	"image/color"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"fnflow/config"
	"fnflow/flow"
	"fnflow/flow/plain"
	"fnflow/history"
)

// Band geometry used by tests: 100mm wide (50 narrow runes per line) at the
// bottom of a page.
const (
	bandX      = 10.0
	bandXLimit = 110.0
	bandY      = 200.0
	bandYLimit = 280.0
	lh         = plain.DefaultLineHeight
	cw         = plain.DefaultCharWidth
)

// testDoc keeps footnotes in logical order.
type testDoc struct {
	order     []flow.Container
	relayouts []int
}

func (d *testDoc) FootnotesInRange(from, to flow.Container) []flow.Container {
	if len(d.order) == 0 {
		return nil
	}
	first, last := 0, len(d.order)-1
	if from != nil {
		if first = slices.Index(d.order, from); first < 0 {
			return nil
		}
	}
	if to != nil {
		if last = slices.Index(d.order, to); last < 0 {
			return nil
		}
	}
	if first > last {
		return nil
	}
	return slices.Clone(d.order[first : last+1])
}

func (d *testDoc) RequestRelayout(abs int) {
	d.relayouts = append(d.relayouts, abs)
}

// hostDoc handles document start/end moves itself.
type hostDoc struct {
	testDoc
	starts, ends int
}

func (d *hostDoc) MoveCursorToStartPos() { d.starts++ }
func (d *hostDoc) MoveCursorToEndPos()   { d.ends++ }

type recorder struct {
	texts []string
	rules int
	rects []flow.Bounds
	lines []float64 // baselines of drawn text
}

func (r *recorder) FillRect(b flow.Bounds, _ color.Color) { r.rects = append(r.rects, b) }
func (r *recorder) HLine(_, _, _ float64)                 { r.rules++ }
func (r *recorder) DrawText(_, y float64, text string) {
	r.texts = append(r.texts, text)
	r.lines = append(r.lines, y)
}

func testLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func testConfig() config.LayoutConfig {
	return config.LayoutConfig{
		UnboundedHeight: 10000,
		MaxCoord:        flow.MaxCoord,
		MaxFlowPages:    64,
		IDScheme:        config.IDSchemeSequential,
	}
}

type fixture struct {
	ctrl  *Controller
	doc   *testDoc
	hist  *history.Log
	table *IdentityTable
	notes []*plain.Container
}

func newFixture(t *testing.T, texts ...string) *fixture {
	t.Helper()
	return newFixtureWith(t, &testDoc{}, testConfig(), testLogger(t), texts...)
}

func newFixtureWith(t *testing.T, doc Document, cfg config.LayoutConfig, log *zap.Logger, texts ...string) *fixture {
	t.Helper()

	f := &fixture{
		hist:  history.NewLog(log),
		table: NewIdentityTable(),
	}
	factory := func(id string) flow.Container { return plain.New(id, "") }
	reg := NewRegistry(f.table, factory, f.hist, cfg.IDScheme, log)
	f.ctrl = New(doc, reg, &cfg, log)

	switch d := doc.(type) {
	case *testDoc:
		f.doc = d
	case *hostDoc:
		f.doc = &d.testDoc
	default:
		t.Fatalf("unexpected document type %T", doc)
	}

	for _, text := range texts {
		n := f.ctrl.CreateFootnote().(*plain.Container)
		n.AddText(text)
		n.MoveToStart(false)
		f.doc.order = append(f.doc.order, n)
		f.notes = append(f.notes, n)
	}
	return f
}

// place puts footnotes on page abs and recalculates it.
func (f *fixture) place(abs int, notes ...*plain.Container) {
	for _, n := range notes {
		f.ctrl.AddFootnoteOnPage(abs, n)
	}
	f.ctrl.Recalculate(abs, bandX, bandXLimit, bandY, bandYLimit)
}

func (f *fixture) withSeparator() *plain.Container {
	sep := plain.NewSeparator("separator")
	f.ctrl.Init(sep)
	return sep
}

func ids(notes ...*plain.Container) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID())
	}
	return out
}
