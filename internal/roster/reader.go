package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/jsg-federation/memberbook/internal/entity"
)

// ReadFile loads a roster CSV into members, mapping columns by header name so
// column reordering in hand-edited files stays harmless.
func ReadFile(path string) ([]entity.Member, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var members []entity.Member
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		members = append(members, entity.FromRow(row))
	}
	return members, nil
}
