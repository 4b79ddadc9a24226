// Package footnotes presents footnote containers of a paginated document as
// a single secondary flow: it lays them out in the band reserved at the
// bottom of every page and keeps cursor and selection which may span several
// otherwise independent containers.
//
// Controller is not safe for concurrent use, every operation runs to
// completion on the caller's goroutine.
package footnotes

import (
	"go.uber.org/zap"

	"fnflow/config"
	"fnflow/flow"
)

// Document is the host document as seen by the controller.
type Document interface {
	// FootnotesInRange returns containers between from and to inclusive in
	// logical order (order of reference markers in the main text). Nil from or
	// to means open end of the range.
	FootnotesInRange(from, to flow.Container) []flow.Container
}

// Relayouter is implemented by documents which want to be notified when
// footnotes on a page require new layout.
type Relayouter interface {
	RequestRelayout(abs int)
}

// CursorHost is implemented by documents which handle non extending moves to
// the start or end of the whole document.
type CursorHost interface {
	MoveCursorToStartPos()
	MoveCursorToEndPos()
}

// State of cross-container selection.
type State int

const (
	// Idle - no selection, cursor lives in current container.
	Idle State = iota
	// SingleSelect - selection confined to current container.
	SingleSelect
	// RangeSelect - selection spans two or more containers.
	RangeSelect
)

func (s State) String() string {
	switch s {
	case SingleSelect:
		return "single-select"
	case RangeSelect:
		return "range-select"
	default:
		return "idle"
	}
}

// Anchor is a selection endpoint. Page and Index locate container in page
// cache and are only updated by hit-testing.
type Anchor struct {
	Container flow.Container
	Page      int
	Index     int
}

type selection struct {
	active     bool
	start, end Anchor
	direction  flow.Direction
	set        *containerSet
}

// Controller manages footnotes of a single document.
type Controller struct {
	doc      Document
	relayout Relayouter
	host     CursorHost

	reg *Registry
	cfg config.LayoutConfig
	log *zap.Logger

	separator flow.Container
	pages     pageCache

	sel     selection
	current flow.Container

	// OnInvalidAction is called when single container action is requested
	// while selection spans several containers.
	OnInvalidAction func()
}

// New creates controller. Optional capabilities of doc (Relayouter,
// CursorHost) are detected once here.
func New(doc Document, reg *Registry, cfg *config.LayoutConfig, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{
		doc: doc,
		reg: reg,
		cfg: *cfg,
		log: log.Named("footnotes"),
		sel: selection{set: newContainerSet()},
	}
	c.relayout, _ = doc.(Relayouter)
	c.host, _ = doc.(CursorHost)
	c.OnInvalidAction = func() {
		c.log.Debug("Action is not valid for multiple selected footnotes", zap.Strings("selected", c.sel.set.ids()))
	}
	return c
}

// Init installs footnote separator. It is laid out on every non empty page
// before footnotes and is never part of the registry.
func (c *Controller) Init(separator flow.Container) {
	c.separator = separator
}

func (c *Controller) Registry() *Registry {
	return c.reg
}

func (c *Controller) Separator() flow.Container {
	return c.separator
}

// CreateFootnote creates new footnote container in the registry.
func (c *Controller) CreateFootnote() flow.Container {
	return c.reg.CreateContainer()
}

// IsUseInDocument reports whether footnote with id belongs to the document.
func (c *Controller) IsUseInDocument(id string) bool {
	return c.reg.Exists(id)
}

// SetCurrentElement makes f current container dropping any selection.
func (c *Controller) SetCurrentElement(f flow.Container) {
	if f == nil {
		return
	}
	c.setCurrentNoSelection(f)
	c.log.Debug("Current footnote set", zap.String("id", f.ID()))
}

func (c *Controller) State() State {
	switch {
	case !c.sel.active:
		return Idle
	case c.sel.direction == flow.Neutral:
		return SingleSelect
	default:
		return RangeSelect
	}
}

func (c *Controller) Direction() flow.Direction {
	return c.sel.direction
}

func (c *Controller) CurrentContainer() flow.Container {
	return c.current
}

// SelectionStart returns anchor where selection started.
func (c *Controller) SelectionStart() Anchor {
	return c.sel.start
}

// SelectionEnd returns moving end of the selection.
func (c *Controller) SelectionEnd() Anchor {
	return c.sel.end
}

// SelectedIDs returns identities of containers holding selection (or the
// current container) in the order they joined.
func (c *Controller) SelectedIDs() []string {
	return c.sel.set.ids()
}

// GetCursorPos returns cursor position in current container.
func (c *Controller) GetCursorPos() flow.Point {
	if c.current == nil {
		return flow.Point{}
	}
	return c.current.CursorPos()
}

// GetCurPage returns absolute page where current container starts, -1 when
// there is no current container.
func (c *Controller) GetCurPage() int {
	if c.current == nil {
		return -1
	}
	return c.current.StartPage()
}

// RequestRelayout asks host document to recompute page abs.
func (c *Controller) RequestRelayout(abs int) {
	if c.relayout == nil {
		return
	}
	c.relayout.RequestRelayout(abs)
}

func (c *Controller) setCurrentNoSelection(f flow.Container) {
	c.sel.active = false
	c.current = f
	c.sel.start = Anchor{Container: f}
	c.sel.end = Anchor{Container: f}
	c.sel.direction = flow.Neutral
	c.sel.set.reset(f)
}

// prev returns predecessor of f in logical order.
func (c *Controller) prev(f flow.Container) flow.Container {
	if f == nil {
		return nil
	}
	list := c.doc.FootnotesInRange(nil, f)
	if len(list) <= 1 || list[len(list)-1] != f {
		return nil
	}
	return list[len(list)-2]
}

// next returns successor of f in logical order.
func (c *Controller) next(f flow.Container) flow.Container {
	if f == nil {
		return nil
	}
	list := c.doc.FootnotesInRange(f, nil)
	if len(list) <= 1 || list[0] != f {
		return nil
	}
	return list[1]
}

func (c *Controller) adjacent(f flow.Container, dir flow.Direction) flow.Container {
	if dir == flow.Backward {
		return c.prev(f)
	}
	return c.next(f)
}

// direction returns Forward when a precedes b in logical order.
func (c *Controller) direction(a, b flow.Container) flow.Direction {
	if a == b {
		return flow.Neutral
	}
	for _, f := range c.doc.FootnotesInRange(nil, nil) {
		switch f {
		case a:
			return flow.Forward
		case b:
			return flow.Backward
		}
	}
	return flow.Neutral
}

// logicRange returns containers between a and b in logical order.
func (c *Controller) logicRange(a, b flow.Container) []flow.Container {
	return c.doc.FootnotesInRange(a, b)
}
