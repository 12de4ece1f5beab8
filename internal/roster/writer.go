// Package roster owns the output member table: a streaming CSV writer that
// deduplicates records and assigns dense sequential ids, a reader, and the
// post-hoc cleaning pass.
package roster

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jsg-federation/memberbook/internal/entity"
)

// Writer appends accepted members to a CSV file as they are found. Duplicates
// on the trimmed (name, whatsapp_number) key collapse to the first occurrence;
// ids are dense 1..N in output order. The writer is the single owner of the
// dedup set and the id counter.
type Writer struct {
	f      *os.File
	w      *csv.Writer
	seen   map[entity.Key]struct{}
	next   int
	logger *slog.Logger
}

// NewWriter creates the output file (and parent directory) and writes the
// header row.
func NewWriter(path string, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output csv: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(entity.Columns); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &Writer{f: f, w: w, seen: make(map[entity.Key]struct{}), next: 1, logger: logger}, nil
}

// Add writes the member unless its key was already written. Returns true when
// the row was written. The id is assigned here; the caller's draft id is
// ignored.
func (r *Writer) Add(m entity.Member) (bool, error) {
	key := m.Key()
	if _, dup := r.seen[key]; dup {
		r.logger.Debug("roster.duplicate_dropped", "name", key.Name, "phone", key.Phone)
		return false, nil
	}
	m.ID = strconv.Itoa(r.next)
	if err := r.w.Write(m.Row()); err != nil {
		return false, fmt.Errorf("write row: %w", err)
	}
	r.seen[key] = struct{}{}
	r.next++
	return true, nil
}

// Flush pushes buffered rows to disk. Called after each source document so a
// crash loses at most the in-flight document's records.
func (r *Writer) Flush() error {
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return r.f.Sync()
}

// Count returns the number of rows written so far.
func (r *Writer) Count() int {
	return r.next - 1
}

func (r *Writer) Close() error {
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		_ = r.f.Close()
		return err
	}
	return r.f.Close()
}
