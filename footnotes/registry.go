package footnotes

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"fnflow/config"
	"fnflow/flow"
	"fnflow/history"
)

// Factory makes new container with given identity.
type Factory func(id string) flow.Container

// IdentityTable knows every container ever created for a document. It never
// shrinks: history changes may drop a container from the registry but the
// container itself stays resolvable here.
type IdentityTable struct {
	byID map[string]flow.Container
}

func NewIdentityTable() *IdentityTable {
	return &IdentityTable{byID: make(map[string]flow.Container)}
}

// Add registers container, known identities are overwritten.
func (t *IdentityTable) Add(c flow.Container) {
	t.byID[c.ID()] = c
}

func (t *IdentityTable) Get(id string) (flow.Container, bool) {
	c, ok := t.byID[id]
	return c, ok
}

func (t *IdentityTable) Len() int {
	return len(t.byID)
}

// Registry owns footnote containers of a document.
type Registry struct {
	table   *IdentityTable
	byID    map[string]flow.Container
	factory Factory
	history *history.Log
	scheme  config.IDScheme
	seq     int
	log     *zap.Logger
}

var _ history.Binder = (*Registry)(nil)

// NewRegistry creates empty registry. Containers are resolved through table
// which may be shared with other registries of the same document, hist may
// be nil when changes are not recorded.
func NewRegistry(table *IdentityTable, factory Factory, hist *history.Log, scheme config.IDScheme, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		table:   table,
		byID:    make(map[string]flow.Container),
		factory: factory,
		history: hist,
		scheme:  scheme,
		log:     log.Named("registry"),
	}
}

func (r *Registry) newID() string {
	switch r.scheme {
	case config.IDSchemeSequential:
		for {
			r.seq++
			id := "fn" + strconv.Itoa(r.seq)
			if _, ok := r.table.Get(id); !ok {
				return id
			}
		}
	default:
		return uuid.Must(uuid.NewV7()).String()
	}
}

// CreateContainer makes new footnote container and records its creation.
func (r *Registry) CreateContainer() flow.Container {
	c := r.factory(r.newID())
	r.table.Add(c)
	r.byID[c.ID()] = c
	if r.history != nil {
		r.history.Add(history.AddFootnote{ID: c.ID()})
	}
	r.log.Debug("Footnote created", zap.String("id", c.ID()))
	return c
}

// Exists reports if container with id belongs to the document.
func (r *Registry) Exists(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Get returns container currently mapped to id.
func (r *Registry) Get(id string) (flow.Container, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Resolve looks id up in the identity table regardless of current mapping.
func (r *Registry) Resolve(id string) (flow.Container, bool) {
	return r.table.Get(id)
}

// Bind maps id to container from identity table.
func (r *Registry) Bind(id string) bool {
	c, ok := r.table.Get(id)
	if !ok {
		r.log.Warn("Unable to bind unknown footnote", zap.String("id", id))
		return false
	}
	r.byID[id] = c
	return true
}

// Unbind drops mapping for id, container itself stays in identity table.
func (r *Registry) Unbind(id string) {
	delete(r.byID, id)
}

func (r *Registry) Len() int {
	return len(r.byID)
}

// IDs returns mapped identities in natural order.
func (r *Registry) IDs() []string {
	ids := slices.Collect(maps.Keys(r.byID))
	sort.Sort(natural.StringSlice(ids))
	return ids
}

func (r *Registry) String() string {
	return fmt.Sprintf("registry(%d of %d)", len(r.byID), r.table.Len())
}
