// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package oplog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Field names usable with Query.AddMatch and Record.Field.
const (
	FieldTimestamp    = "timestamp" // microseconds since the epoch, decimal
	FieldOperation    = "operation"
	FieldInstallation = "installation"
	FieldRef          = "ref"
	FieldRemote       = "remote"
	FieldCommit       = "commit"
	FieldResult       = "result" // "0" is the producer's success value
	FieldUID          = "uid"
	FieldTool         = "tool"
	FieldVersion      = "version"
	FieldMessageID    = "message_id"
)

// TransactionMessageID tags entries written by the transaction layer.
// History matches on it so unrelated entries (future producers) are
// filtered out in the store, not in the engine.
var TransactionMessageID = uuid.MustParse("2dd0f3e3-1a34-4cdb-ae3f-2bbfee4e28f9")

// fieldColumns maps public field names to table columns. Also the
// allowlist for AddMatch.
var fieldColumns = map[string]string{
	FieldTimestamp:    "timestamp_us",
	FieldOperation:    "operation",
	FieldInstallation: "installation",
	FieldRef:          "ref",
	FieldRemote:       "remote",
	FieldCommit:       "commit_id",
	FieldResult:       "result",
	FieldUID:          "uid",
	FieldTool:         "tool",
	FieldVersion:      "version",
	FieldMessageID:    "message_id",
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
    id           TEXT PRIMARY KEY,
    timestamp_us INTEGER NOT NULL,
    operation    TEXT NOT NULL,
    installation TEXT NOT NULL,
    ref          TEXT,
    remote       TEXT,
    commit_id    TEXT,
    result       TEXT,
    uid          INTEGER,
    tool         TEXT,
    version      TEXT,
    message_id   TEXT
);
CREATE INDEX IF NOT EXISTS entries_by_time ON entries (timestamp_us DESC);
`

// Entry is one operation to record.
type Entry struct {
	Time         time.Time // zero means now
	Operation    string
	Installation string
	Ref          string
	Remote       string
	Commit       string
	Result       string
	UID          int
	Tool         string
	Version      string
}

// Store is an open operation log. Safe for concurrent use; the CLI
// uses it from a single goroutine.
type Store struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
	path   string
}

// DefaultPath returns the log's location: FLATPAK_OPLOG_PATH if set,
// otherwise oplog.db in the per-user installation root (operations on
// system installations are still initiated by some user, and a
// per-user log never needs elevated writes).
func DefaultPath(userInstallationPath string) string {
	if p := os.Getenv("FLATPAK_OPLOG_PATH"); p != "" {
		return p
	}
	return filepath.Join(userInstallationPath, "oplog.db")
}

// Open opens (creating if needed) the operation log at path. The
// caller must Close the store on every exit path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("oplog: creating %s: %w", filepath.Dir(path), err)
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    2,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("oplog: opening %s: %w", path, err)
	}

	logger.Debug("operation log opened", "path", path)
	return &Store{pool: pool, logger: logger, path: path}, nil
}

// Close closes the log. Blocks until borrowed connections return.
func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("oplog: closing %s: %w", s.path, err)
	}
	s.logger.Debug("operation log closed", "path", s.path)
	return nil
}

// prepareConnection applies pragmas and the schema to each pooled
// connection on first use. WAL so a concurrent history read never
// blocks a transaction write; NORMAL synchronous survives process
// crashes, which is the durability the original journal offered.
func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("oplog: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("oplog: applying schema: %w", err)
	}
	return nil
}

// Record appends one entry. The entry id and message id are assigned
// here; callers only describe the operation.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("oplog: record: %w", err)
	}
	defer s.pool.Put(conn)

	when := entry.Time
	if when.IsZero() {
		when = time.Now()
	}

	err = sqlitex.Execute(conn, `
INSERT INTO entries (id, timestamp_us, operation, installation, ref, remote,
                     commit_id, result, uid, tool, version, message_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				uuid.NewString(),
				when.UnixMicro(),
				entry.Operation,
				entry.Installation,
				nullable(entry.Ref),
				nullable(entry.Remote),
				nullable(entry.Commit),
				nullable(entry.Result),
				entry.UID,
				nullable(entry.Tool),
				nullable(entry.Version),
				TransactionMessageID.String(),
			},
		})
	if err != nil {
		return fmt.Errorf("oplog: record: %w", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Query restricts a reverse scan to entries whose fields equal the
// added values. The zero value matches everything.
type Query struct {
	fields []string
	values []string
}

// AddMatch adds an equality filter on a named field. Unknown field
// names are a programming error surfaced immediately, before any
// log I/O.
func (q *Query) AddMatch(field, value string) error {
	if _, ok := fieldColumns[field]; !ok {
		return fmt.Errorf("oplog: no field named %q", field)
	}
	q.fields = append(q.fields, field)
	q.values = append(q.values, value)
	return nil
}

// Record is one entry as seen by a reader: named string fields with
// explicit absence.
type Record struct {
	values map[string]string
}

// MakeRecord builds a record from explicit field values, mainly for
// tests of record consumers.
func MakeRecord(values map[string]string) Record {
	copied := make(map[string]string, len(values))
	for field, value := range values {
		copied[field] = value
	}
	return Record{values: copied}
}

// Field returns the value of the named field and whether the entry
// has it.
func (r Record) Field(name string) (string, bool) {
	value, ok := r.values[name]
	return value, ok
}

// Reverse scans entries newest-first, calling fn for each record that
// satisfies the query's matches. A non-nil error from fn aborts the
// scan.
func (s *Store) Reverse(ctx context.Context, q Query, fn func(Record) error) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("oplog: reverse scan: %w", err)
	}
	defer s.pool.Put(conn)

	query := "SELECT timestamp_us, operation, installation, ref, remote, " +
		"commit_id, result, uid, tool, version, message_id FROM entries"
	var conditions []string
	var args []any
	for i, field := range q.fields {
		conditions = append(conditions, fieldColumns[field]+" = ?")
		args = append(args, q.values[i])
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp_us DESC, rowid DESC"

	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			return fn(scanRecord(stmt))
		},
	})
	if err != nil {
		return fmt.Errorf("oplog: reverse scan: %w", err)
	}
	return nil
}

func scanRecord(stmt *sqlite.Stmt) Record {
	values := map[string]string{
		FieldTimestamp: strconv.FormatInt(stmt.ColumnInt64(0), 10),
		FieldOperation: stmt.ColumnText(1),
	}
	// Columns: installation(2), ref(3), remote(4), commit_id(5),
	// result(6), uid(7), tool(8), version(9), message_id(10).
	text := map[string]int{
		FieldInstallation: 2,
		FieldRef:          3,
		FieldRemote:       4,
		FieldCommit:       5,
		FieldResult:       6,
		FieldTool:         8,
		FieldVersion:      9,
		FieldMessageID:    10,
	}
	for field, column := range text {
		if !stmt.ColumnIsNull(column) {
			values[field] = stmt.ColumnText(column)
		}
	}
	if !stmt.ColumnIsNull(7) {
		values[FieldUID] = strconv.FormatInt(stmt.ColumnInt64(7), 10)
	}
	return Record{values: values}
}
