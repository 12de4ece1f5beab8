// Package sheet is a thin wrapper over an XLSX workbook holding the member
// roster. Reads return header-keyed row maps with blank cells coerced to the
// empty string; appends follow the existing header order, creating headers
// when the worksheet has none.
package sheet

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/jsg-federation/memberbook/internal/entity"
)

type Client struct {
	path      string
	worksheet string
	logger    *slog.Logger
}

func NewClient(path, worksheet string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if worksheet == "" {
		worksheet = "JSG Members"
	}
	return &Client{path: path, worksheet: worksheet, logger: logger}
}

// GetMembers returns all data rows keyed by header names. A missing
// worksheet falls back to the workbook's first sheet.
func (c *Client) GetMembers() ([]map[string]string, error) {
	f, err := excelize.OpenFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	ws := c.resolveWorksheet(f)
	rows, err := f.GetRows(ws)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %s: %w", ws, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	var out []map[string]string
	for _, row := range rows[1:] {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				m[h] = row[i]
			} else {
				m[h] = ""
			}
		}
		out = append(out, m)
	}
	c.logger.Debug("sheet.read", "worksheet", ws, "rows", len(out))
	return out, nil
}

// AppendRows appends rows in existing header order. When the worksheet has
// no header row yet, the roster columns are written first.
func (c *Client) AppendRows(rows []map[string]string) error {
	if len(rows) == 0 {
		return nil
	}

	f, created, err := c.openOrCreate()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	ws := c.resolveWorksheet(f)
	existing, err := f.GetRows(ws)
	if err != nil {
		return fmt.Errorf("read worksheet %s: %w", ws, err)
	}

	var headers []string
	nextRow := len(existing) + 1
	if len(existing) == 0 || len(existing[0]) == 0 {
		headers = entity.Columns
		if err := c.writeRow(f, ws, 1, headers); err != nil {
			return err
		}
		nextRow = 2
	} else {
		headers = existing[0]
	}

	for _, row := range rows {
		values := make([]string, len(headers))
		for i, h := range headers {
			values[i] = row[h]
		}
		if err := c.writeRow(f, ws, nextRow, values); err != nil {
			return err
		}
		nextRow++
	}

	if created {
		err = f.SaveAs(c.path)
	} else {
		err = f.Save()
	}
	if err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	c.logger.Info("sheet.append.ok", "worksheet", ws, "rows", len(rows))
	return nil
}

func (c *Client) openOrCreate() (*excelize.File, bool, error) {
	if _, err := os.Stat(c.path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		if _, err := f.NewSheet(c.worksheet); err != nil {
			return nil, false, fmt.Errorf("create worksheet: %w", err)
		}
		return f, true, nil
	}
	f, err := excelize.OpenFile(c.path)
	if err != nil {
		return nil, false, fmt.Errorf("open workbook: %w", err)
	}
	return f, false, nil
}

func (c *Client) resolveWorksheet(f *excelize.File) string {
	if idx, _ := f.GetSheetIndex(c.worksheet); idx != -1 {
		return c.worksheet
	}
	return f.GetSheetName(0)
}

func (c *Client) writeRow(f *excelize.File, ws string, row int, values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ws, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
