package roster

import (
	"fmt"
	"log/slog"

	"github.com/jsg-federation/memberbook/internal/entity"
	"github.com/jsg-federation/memberbook/internal/validate"
)

// CleanStats summarizes a cleaning pass.
type CleanStats struct {
	Read       int
	Rejected   int
	Duplicates int
	Kept       int
}

// Clean loads an existing roster, drops rows failing the cleaning check,
// collapses duplicates to the first occurrence, renumbers ids densely, and
// rewrites the output in one pass. Running Clean on its own output is a
// no-op apart from the rewrite.
func Clean(inputPath, outputPath string, v *validate.Validator, logger *slog.Logger) (CleanStats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	members, err := ReadFile(inputPath)
	if err != nil {
		return CleanStats{}, err
	}
	stats := CleanStats{Read: len(members)}

	seen := make(map[entity.Key]struct{}, len(members))
	var kept []entity.Member
	for _, m := range members {
		if !v.CleanRecord(&m) {
			stats.Rejected++
			continue
		}
		key := m.Key()
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, m)
	}

	w, err := NewWriter(outputPath, logger)
	if err != nil {
		return stats, err
	}
	for _, m := range kept {
		if _, err := w.Add(m); err != nil {
			_ = w.Close()
			return stats, fmt.Errorf("rewrite roster: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return stats, err
	}
	stats.Kept = len(kept)

	logger.Info("roster.clean.ok",
		"input", inputPath,
		"output", outputPath,
		"read", stats.Read,
		"rejected", stats.Rejected,
		"duplicates", stats.Duplicates,
		"kept", stats.Kept,
	)
	return stats, nil
}
