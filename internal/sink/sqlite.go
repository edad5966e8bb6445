package sink

import (
  "context"
  "database/sql"
  "fmt"
  "time"

  _ "github.com/mattn/go-sqlite3"

  "bufqueue/internal/event"
)

const createRecords = `CREATE TABLE IF NOT EXISTS records (
  seq   INTEGER PRIMARY KEY,
  value INTEGER NOT NULL,
  ts    TEXT NOT NULL
)`

type SQLite struct {
  db     *sql.DB
  insert *sql.Stmt
}

func OpenSQLite(path string) (*SQLite, error) {
  if path == "" {
    return nil, fmt.Errorf("sink: sqlite path is empty")
  }
  db, err := sql.Open("sqlite3", path)
  if err != nil {
    return nil, err
  }
  db.SetMaxOpenConns(1)
  if _, err := db.Exec(createRecords); err != nil {
    db.Close()
    return nil, fmt.Errorf("sink: create records table: %w", err)
  }
  insert, err := db.Prepare(`INSERT INTO records (seq, value, ts) VALUES (?, ?, ?)`)
  if err != nil {
    db.Close()
    return nil, err
  }
  return &SQLite{db: db, insert: insert}, nil
}

func (s *SQLite) Write(ctx context.Context, r event.Record) error {
  _, err := s.insert.ExecContext(ctx, r.Seq, r.Value, r.TS.UTC().Format(time.RFC3339Nano))
  if err != nil {
    return fmt.Errorf("sink: insert seq %d: %w", r.Seq, err)
  }
  return nil
}

// Records returns everything written so far in seq order.
func (s *SQLite) Records(ctx context.Context) ([]event.Record, error) {
  rows, err := s.db.QueryContext(ctx, `SELECT seq, value, ts FROM records ORDER BY seq`)
  if err != nil {
    return nil, err
  }
  defer rows.Close()

  var out []event.Record
  for rows.Next() {
    var (
      r  event.Record
      ts string
    )
    if err := rows.Scan(&r.Seq, &r.Value, &ts); err != nil {
      return nil, err
    }
    if r.TS, err = time.Parse(time.RFC3339Nano, ts); err != nil {
      return nil, fmt.Errorf("sink: seq %d: %w", r.Seq, err)
    }
    out = append(out, r)
  }
  return out, rows.Err()
}

func (s *SQLite) Close() error {
  _ = s.insert.Close()
  return s.db.Close()
}
