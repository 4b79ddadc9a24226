package footnotes

import (
	"bytes"
	"reflect"
	"strconv"
	"testing"

	"github.com/google/uuid"

	"fnflow/config"
	"fnflow/flow"
	"fnflow/flow/plain"
	"fnflow/history"
)

func plainFactory(id string) flow.Container {
	return plain.New(id, "")
}

func TestCreateContainer(t *testing.T) {
	log := testLogger(t)
	hist := history.NewLog(log)
	reg := NewRegistry(NewIdentityTable(), plainFactory, hist, config.IDSchemeUuid, log)

	c1 := reg.CreateContainer()
	c2 := reg.CreateContainer()

	if c1.ID() == c2.ID() {
		t.Fatalf("CreateContainer() returned duplicate id %q", c1.ID())
	}
	for _, c := range []flow.Container{c1, c2} {
		if _, err := uuid.Parse(c.ID()); err != nil {
			t.Errorf("id %q is not uuid: %v", c.ID(), err)
		}
		if !reg.Exists(c.ID()) {
			t.Errorf("Exists(%q) = false", c.ID())
		}
		if got, ok := reg.Get(c.ID()); !ok || got != c {
			t.Errorf("Get(%q) = %v, %v", c.ID(), got, ok)
		}
	}
	if reg.Exists("unknown") {
		t.Error("Exists(unknown) = true")
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}

	want := []history.Change{history.AddFootnote{ID: c1.ID()}, history.AddFootnote{ID: c2.ID()}}
	if got := hist.Changes(); !reflect.DeepEqual(got, want) {
		t.Errorf("history = %v, want %v", got, want)
	}
}

func TestSequentialIDs(t *testing.T) {
	table := NewIdentityTable()
	// identity already taken by another registry of the document
	table.Add(plain.New("fn2", ""))

	reg := NewRegistry(table, plainFactory, nil, config.IDSchemeSequential, testLogger(t))
	for range 10 {
		reg.CreateContainer()
	}

	want := []string{"fn1"}
	for i := 3; i <= 11; i++ {
		want = append(want, "fn"+strconv.Itoa(i))
	}
	if got := reg.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	if reg.String() != "registry(10 of 11)" {
		t.Errorf("String() = %q", reg.String())
	}
}

func TestBindUnbind(t *testing.T) {
	table := NewIdentityTable()
	reg := NewRegistry(table, plainFactory, nil, config.IDSchemeSequential, testLogger(t))
	c := reg.CreateContainer()

	reg.Unbind(c.ID())
	if reg.Exists(c.ID()) {
		t.Error("container still mapped after Unbind")
	}
	if got, ok := reg.Resolve(c.ID()); !ok || got != c {
		t.Error("Resolve() lost container after Unbind")
	}

	if !reg.Bind(c.ID()) {
		t.Fatal("Bind() of known identity failed")
	}
	if got, _ := reg.Get(c.ID()); got != c {
		t.Error("Bind() mapped another container")
	}
	if reg.Bind("unknown") {
		t.Error("Bind() of unknown identity succeeded")
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	log := testLogger(t)
	table := NewIdentityTable()
	hist := history.NewLog(log)
	reg := NewRegistry(table, plainFactory, hist, config.IDSchemeUuid, log)

	c := reg.CreateContainer()

	var buf bytes.Buffer
	if err := history.WriteAll(&buf, hist.Changes()); err != nil {
		t.Fatalf("WriteAll() error: %v", err)
	}

	fresh := NewRegistry(table, plainFactory, nil, config.IDSchemeUuid, log)
	changes, err := history.ReadAll(&buf, fresh, log)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("ReadAll() returned %d changes, want 1", len(changes))
	}
	if got, ok := fresh.Get(c.ID()); !ok || got != c {
		t.Errorf("fresh registry resolved %v, %v; want original container", got, ok)
	}
}

func TestHistoryUndoRedo(t *testing.T) {
	log := testLogger(t)
	hist := history.NewLog(log)
	reg := NewRegistry(NewIdentityTable(), plainFactory, hist, config.IDSchemeSequential, log)

	c := reg.CreateContainer()
	reg.Unbind(c.ID())

	// undo of footnote creation restores its mapping
	ok, err := hist.Undo(reg)
	if !ok || err != nil {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if !reg.Exists(c.ID()) {
		t.Error("Undo() did not restore mapping")
	}

	// redo removes it
	ok, err = hist.Redo(reg)
	if !ok || err != nil {
		t.Fatalf("Redo() = %v, %v", ok, err)
	}
	if reg.Exists(c.ID()) {
		t.Error("Redo() did not remove mapping")
	}
	if _, ok := reg.Resolve(c.ID()); !ok {
		t.Error("container disappeared from identity table")
	}
}

func TestControllerRegistryAccess(t *testing.T) {
	fx := newFixture(t, "one", "two")

	if fx.ctrl.Registry().Len() != 2 {
		t.Errorf("Registry().Len() = %d, want 2", fx.ctrl.Registry().Len())
	}
	if !fx.ctrl.IsUseInDocument(fx.notes[1].ID()) {
		t.Error("IsUseInDocument() = false for created footnote")
	}
	if fx.ctrl.IsUseInDocument("separator") {
		t.Error("separator should not be part of the document footnotes")
	}

	sep := fx.withSeparator()
	if fx.ctrl.Separator() != sep {
		t.Error("Separator() does not return installed separator")
	}
	if fx.ctrl.Registry().Exists(sep.ID()) {
		t.Error("separator should not be registered")
	}
}
