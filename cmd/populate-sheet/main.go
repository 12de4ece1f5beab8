package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jsg-federation/memberbook/internal/common"
	"github.com/jsg-federation/memberbook/internal/entity"
	"github.com/jsg-federation/memberbook/internal/roster"
	"github.com/jsg-federation/memberbook/internal/sheet"
)

func main() {
	var (
		csvPath   = flag.String("csv", "output/members.csv", "roster CSV to upload")
		sheetPath = flag.String("sheet", "", "workbook path (default from SHEET_PATH)")
		worksheet = flag.String("worksheet", "", "worksheet name (default from SHEET_WORKSHEET)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *sheetPath == "" {
		*sheetPath = cfg.Sheet.Path
	}
	if *worksheet == "" {
		*worksheet = cfg.Sheet.Worksheet
	}

	members, err := roster.ReadFile(*csvPath)
	if err != nil {
		logger.Error("failed to read roster", "path", *csvPath, "error", err)
		os.Exit(1)
	}

	rows := make([]map[string]string, 0, len(members))
	for i := range members {
		m := &members[i]
		row := make(map[string]string, len(entity.Columns))
		for j, col := range entity.Columns {
			row[col] = m.Row()[j]
		}
		rows = append(rows, row)
	}

	client := sheet.NewClient(*sheetPath, *worksheet, logger)
	logger.Info("appending rows", "worksheet", *worksheet, "rows", len(rows))
	if err := client.AppendRows(rows); err != nil {
		logger.Error("failed to append rows", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Appended %d rows to %s (%s)\n", len(rows), *sheetPath, *worksheet)
}
