package history

import (
	"go.uber.org/zap"
)

// Log is the document history. Changes are appended as they happen, undo and
// redo walk the position back and forth. Not safe for concurrent use.
type Log struct {
	changes []Change
	pos     int
	log     *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	if log == nil {
		log = zap.NewNop()
	}
	return &Log{log: log}
}

// Add appends change dropping anything which was undone before.
func (l *Log) Add(c Change) {
	l.changes = append(l.changes[:l.pos], c)
	l.pos = len(l.changes)
	l.log.Debug("Change recorded", zap.Stringer("change", c), zap.Int("pos", l.pos))
}

// Undo steps back over the last change restoring its mapping. Returns false
// when there is nothing to undo.
func (l *Log) Undo(b Binder) (bool, error) {
	if l.pos == 0 {
		return false, nil
	}
	l.pos--
	c := l.changes[l.pos]
	l.log.Debug("Undo", zap.Stringer("change", c))
	return true, c.Apply(b)
}

// Redo steps forward over the next change removing its mapping. Returns false
// when there is nothing to redo.
func (l *Log) Redo(b Binder) (bool, error) {
	if l.pos >= len(l.changes) {
		return false, nil
	}
	c := l.changes[l.pos]
	l.pos++
	l.log.Debug("Redo", zap.Stringer("change", c))
	return true, c.Invert(b)
}

// Changes returns changes which are currently in effect.
func (l *Log) Changes() []Change {
	return append([]Change(nil), l.changes[:l.pos]...)
}

func (l *Log) CanUndo() bool {
	return l.pos > 0
}

func (l *Log) CanRedo() bool {
	return l.pos < len(l.changes)
}
