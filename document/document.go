// Package document is a minimal paginated host for footnotes: pages with
// ordered footnote references and fixed band geometry. It is used by the
// command line tool to drive footnotes controller the way an editor would.
package document

import (
	"slices"

	"go.uber.org/zap"

	"fnflow/flow"
	"fnflow/footnotes"
	"fnflow/history"
	"fnflow/state"
)

// Document keeps footnotes placed on pages in logical order. Footnotes which
// lost their registry mapping (undone creation) are not part of the
// document and are skipped everywhere.
type Document struct {
	Title string

	band  Band
	pages [][]flow.Container
	dirty map[int]bool

	table *footnotes.IdentityTable
	hist  *history.Log
	ctrl  *footnotes.Controller
	log   *zap.Logger
}

var (
	_ footnotes.Document   = (*Document)(nil)
	_ footnotes.Relayouter = (*Document)(nil)
)

// New creates document from description and lays out every page.
func New(desc *Description, env *state.LocalEnv) *Document {
	log := env.Log
	if log == nil {
		log = zap.NewNop()
	}
	d := &Document{
		Title: desc.Title,
		band:  desc.Band,
		pages: make([][]flow.Container, len(desc.Pages)),
		dirty: make(map[int]bool),
		table: footnotes.NewIdentityTable(),
		log:   log.Named("document"),
	}
	d.hist = history.NewLog(d.log)
	d.ctrl = env.NewController(d, d.table, d.hist)

	for abs, p := range desc.Pages {
		for _, text := range p.Footnotes {
			d.insert(abs, text)
		}
	}
	d.Layout()
	return d
}

func (d *Document) Controller() *footnotes.Controller {
	return d.ctrl
}

func (d *Document) History() *history.Log {
	return d.hist
}

func (d *Document) Identities() *footnotes.IdentityTable {
	return d.table
}

func (d *Document) PageCount() int {
	return len(d.pages)
}

// insert creates footnote with text referenced at the end of page abs.
func (d *Document) insert(abs int, text string) flow.Container {
	f := d.ctrl.CreateFootnote()
	if ed, ok := f.(flow.Editor); ok && len(text) > 0 {
		ed.AddText(text)
	}
	f.MoveToStart(false)

	for len(d.pages) <= abs {
		d.pages = append(d.pages, nil)
	}
	d.pages[abs] = append(d.pages[abs], f)
	return f
}

func (d *Document) inUse(f flow.Container) bool {
	return d.ctrl.IsUseInDocument(f.ID())
}

// FootnotesInRange returns footnotes between from and to inclusive in the
// order of their references.
func (d *Document) FootnotesInRange(from, to flow.Container) []flow.Container {
	var all []flow.Container
	for _, p := range d.pages {
		for _, f := range p {
			if d.inUse(f) {
				all = append(all, f)
			}
		}
	}
	first, last := 0, len(all)-1
	if from != nil {
		if first = slices.Index(all, from); first < 0 {
			return nil
		}
	}
	if to != nil {
		if last = slices.Index(all, to); last < 0 {
			return nil
		}
	}
	if first > last {
		return nil
	}
	return all[first : last+1]
}

// RequestRelayout marks page for recalculation on next Relayout.
func (d *Document) RequestRelayout(abs int) {
	if abs < 0 || abs >= len(d.pages) {
		return
	}
	d.dirty[abs] = true
}

// Layout places and recalculates footnotes on every page.
func (d *Document) Layout() {
	for abs := range d.pages {
		d.layoutPage(abs)
	}
	clear(d.dirty)
}

// Relayout recalculates pages requested since last layout, returns number
// of pages processed.
func (d *Document) Relayout() int {
	n := 0
	for abs := range d.pages {
		if d.dirty[abs] {
			d.layoutPage(abs)
			n++
		}
	}
	clear(d.dirty)
	return n
}

func (d *Document) layoutPage(abs int) {
	d.ctrl.Reset(abs)
	for _, f := range d.pages[abs] {
		if d.inUse(f) {
			d.ctrl.AddFootnoteOnPage(abs, f)
		}
	}
	b := d.band
	d.ctrl.Recalculate(abs, b.X, b.XLimit, b.Y, b.YLimit)

	if !b.AnchorBottom {
		return
	}
	if dy := b.YLimit - (b.Y + d.ctrl.GetHeight(abs)); dy != 0 && !d.ctrl.IsEmptyPage(abs) {
		d.ctrl.Shift(abs, 0, dy)
	}
}

// BandBounds returns area of the footnotes band of page abs as laid out.
// Band geometry is returned for empty pages.
func (d *Document) BandBounds(abs int) flow.Bounds {
	if b, ok := d.ctrl.GetPageBounds(abs); ok {
		return b
	}
	return flow.Bounds{Left: d.band.X, Top: d.band.Y, Right: d.band.XLimit, Bottom: d.band.YLimit}
}

func (d *Document) String() string {
	return d.ctrl.String()
}
