// Package journal keeps structural history of a document in SQLite database,
// one row per change record, so editing session could be replayed later.
package journal

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"fnflow/history"
)

const schema = `
CREATE TABLE IF NOT EXISTS changes (
	seq    INTEGER PRIMARY KEY AUTOINCREMENT,
	class  INTEGER NOT NULL,
	kind   INTEGER NOT NULL,
	record BLOB    NOT NULL
);`

var sqliteSig = []byte("SQLite format 3\x00")

// Journal is a change log stored in SQLite database. Not safe for concurrent
// use.
type Journal struct {
	conn *sqlite.Conn
	path string
	log  *zap.Logger
}

// Open opens journal at path creating database when necessary.
func Open(path string, log *zap.Logger) (*Journal, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("unable to open journal '%s': %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return nil, multierr.Append(fmt.Errorf("unable to prepare journal schema: %w", err), conn.Close())
	}
	return &Journal{conn: conn, path: path, log: log.Named("journal")}, nil
}

func (j *Journal) Close() error {
	if j == nil || j.conn == nil {
		return nil
	}
	err := j.conn.Close()
	j.conn = nil
	return err
}

func (j *Journal) Path() string {
	return j.path
}

// Append stores changes in a single transaction.
func (j *Journal) Append(changes ...history.Change) (err error) {
	defer sqlitex.Save(j.conn)(&err)

	for _, c := range changes {
		if err = j.insert(c); err != nil {
			return err
		}
	}
	return nil
}

// Replace makes journal content equal to changes. Used to bring journal in
// sync with history after undo.
func (j *Journal) Replace(changes []history.Change) (err error) {
	defer sqlitex.Save(j.conn)(&err)

	if err = sqlitex.Execute(j.conn, `DELETE FROM changes`, nil); err != nil {
		return fmt.Errorf("unable to clear journal: %w", err)
	}
	for _, c := range changes {
		if err = j.insert(c); err != nil {
			return err
		}
	}
	j.log.Debug("Journal replaced", zap.Int("changes", len(changes)))
	return nil
}

func (j *Journal) insert(c history.Change) error {
	data, err := history.Marshal(c)
	if err != nil {
		return fmt.Errorf("unable to encode %s: %w", c, err)
	}
	err = sqlitex.Execute(j.conn, `INSERT INTO changes (class, kind, record) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{int64(c.Class()), int64(c.Kind()), data}})
	if err != nil {
		return fmt.Errorf("unable to store %s: %w", c, err)
	}
	return nil
}

// Len returns number of stored records.
func (j *Journal) Len() (int, error) {
	var n int64
	err := sqlitex.Execute(j.conn, `SELECT count(*) FROM changes`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			n = stmt.ColumnInt64(0)
			return nil
		}})
	if err != nil {
		return 0, fmt.Errorf("unable to count journal records: %w", err)
	}
	return int(n), nil
}

// Load decodes stored records in order applying every change to b (which
// may be nil). Malformed records are skipped, all rejections are returned
// combined.
func (j *Journal) Load(b history.Binder) ([]history.Change, error) {
	var (
		changes []history.Change
		errs    error
	)
	err := sqlitex.Execute(j.conn, `SELECT seq, record FROM changes ORDER BY seq`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			seq := stmt.ColumnInt64(0)
			data, err := io.ReadAll(stmt.ColumnReader(1))
			if err != nil {
				return fmt.Errorf("record %d: %w", seq, err)
			}
			c, err := history.Unmarshal(data)
			if err == nil && b != nil {
				err = c.Apply(b)
			}
			if err != nil {
				j.log.Warn("Change record rejected", zap.Int64("seq", seq), zap.Error(err))
				errs = multierr.Append(errs, fmt.Errorf("record %d: %w", seq, err))
				return nil
			}
			changes = append(changes, c)
			return nil
		}})
	if err != nil {
		return changes, multierr.Append(errs, fmt.Errorf("unable to read journal: %w", err))
	}
	return changes, errs
}

// IsJournal reports whether file at path looks like SQLite database.
func IsJournal(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, len(sqliteSig))
	if _, err := io.ReadFull(f, head); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(head, sqliteSig), nil
}
