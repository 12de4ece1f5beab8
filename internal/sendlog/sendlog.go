// Package sendlog journals delivered wishes in a local SQLite database so a
// rerun of the daily job does not greet the same member twice.
package sendlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jsg-federation/memberbook/internal/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS sent_wishes (
	id        TEXT PRIMARY KEY,
	run_id    TEXT NOT NULL,
	name      TEXT NOT NULL,
	phone     TEXT NOT NULL,
	kind      TEXT NOT NULL,
	wish_date TEXT NOT NULL,
	sent_at   TIMESTAMP NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS sent_wishes_unique
	ON sent_wishes (phone, kind, wish_date);
`

type Log struct {
	db     *sql.DB
	runID  string
	logger *slog.Logger
}

// Open creates (or opens) the send log and starts a new run.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Log, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sendlog dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sendlog: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sendlog schema: %w", err)
	}
	return &Log{db: db, runID: uuid.New().String(), logger: logger}, nil
}

// AlreadySent reports whether this (phone, kind, date) wish was delivered in
// any previous run.
func (l *Log) AlreadySent(ctx context.Context, phone, kind, wishDate string) (bool, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM sent_wishes WHERE phone = ? AND kind = ? AND wish_date = ?`,
		phone, kind, wishDate,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query sendlog: %w", err)
	}
	return n > 0, nil
}

// Record journals a delivered wish.
func (l *Log) Record(ctx context.Context, m *entity.Member, kind, wishDate string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO sent_wishes (id, run_id, name, phone, kind, wish_date, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), l.runID, m.Name, m.WhatsappNumber, kind, wishDate, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record wish: %w", err)
	}
	return nil
}

// RunID identifies this process's run in the journal.
func (l *Log) RunID() string {
	return l.runID
}

func (l *Log) Close() error {
	return l.db.Close()
}
