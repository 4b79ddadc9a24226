package footnotes

import (
	"slices"

	"fnflow/flow"
)

// containerSet is the set of containers holding selection. Membership is by
// container id, iteration follows insertion order.
type containerSet struct {
	items []flow.Container
}

func newContainerSet() *containerSet {
	return &containerSet{}
}

func (s *containerSet) index(c flow.Container) int {
	return slices.IndexFunc(s.items, func(o flow.Container) bool {
		return o.ID() == c.ID()
	})
}

func (s *containerSet) has(c flow.Container) bool {
	return c != nil && s.index(c) >= 0
}

func (s *containerSet) add(c flow.Container) {
	if c == nil || s.has(c) {
		return
	}
	s.items = append(s.items, c)
}

func (s *containerSet) remove(c flow.Container) {
	if i := s.index(c); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
}

// reset replaces content with cs.
func (s *containerSet) reset(cs ...flow.Container) {
	s.items = s.items[:0]
	for _, c := range cs {
		s.add(c)
	}
}

func (s *containerSet) len() int {
	return len(s.items)
}

// all returns snapshot of the members, safe to iterate while set changes.
func (s *containerSet) all() []flow.Container {
	return slices.Clone(s.items)
}

func (s *containerSet) ids() []string {
	ids := make([]string, 0, len(s.items))
	for _, c := range s.items {
		ids = append(ids, c.ID())
	}
	return ids
}
