// Package history keeps structural changes of the footnotes stream: the undo
// log shared with the document and the binary form used to persist changes.
package history

import (
	"errors"
	"fmt"
)

// Class identifies owner of the persisted change record.
type Class int32

// Kind identifies change inside of a class.
type Kind int32

const (
	ClassFootnotes Class = 41

	KindAddFootnote Kind = 1
)

var (
	// ErrClassMismatch is returned when record belongs to another class.
	ErrClassMismatch = errors.New("change record class mismatch")
	// ErrUnknownKind is returned for records of unsupported kind.
	ErrUnknownKind = errors.New("unknown change record kind")
	// ErrUnknownID is returned when change refers to identity nobody owns.
	ErrUnknownID = errors.New("unknown container identity")
)

// Binder maps container identities into the live registry. Containers
// themselves are never destroyed by changes - only their mapping is.
type Binder interface {
	// Bind maps id to container from the identity table, reports false when
	// identity is unknown.
	Bind(id string) bool
	Unbind(id string)
}

// Change is a structural change. The set of changes is closed, see
// AddFootnote.
type Change interface {
	Class() Class
	Kind() Kind
	// Apply makes change mapping effective, used on load and undo.
	Apply(b Binder) error
	// Invert removes change mapping, used on redo.
	Invert(b Binder) error
	fmt.Stringer

	sealed()
}

// AddFootnote records creation of a new footnote container.
type AddFootnote struct {
	ID string
}

func (AddFootnote) Class() Class { return ClassFootnotes }
func (AddFootnote) Kind() Kind   { return KindAddFootnote }
func (AddFootnote) sealed()      {}

func (c AddFootnote) Apply(b Binder) error {
	if !b.Bind(c.ID) {
		return fmt.Errorf("unable to bind footnote %q: %w", c.ID, ErrUnknownID)
	}
	return nil
}

func (c AddFootnote) Invert(b Binder) error {
	b.Unbind(c.ID)
	return nil
}

func (c AddFootnote) String() string {
	return fmt.Sprintf("footnote-added(%s)", c.ID)
}
