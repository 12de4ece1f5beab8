package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsg-federation/memberbook/internal/common"
	"github.com/jsg-federation/memberbook/internal/ocr"
)

func main() {
	var (
		inputDir  = flag.String("input-dir", "input", "directory containing PDF files")
		outputDir = flag.String("output-dir", "photos", "directory to save extracted photos")
		recursive = flag.Bool("recursive", false, "recursively search input directory for PDFs")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()

	extractor := ocr.NewExtractor(ocr.Config{
		Pdfimages: cfg.OCR.Pdfimages,
	}, logger)

	files, err := listPDFs(*inputDir, *recursive)
	if err != nil {
		logger.Error("failed to list PDFs", "dir", *inputDir, "error", err)
		os.Exit(1)
	}

	total := 0
	for _, path := range files {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		photos, err := extractor.ExtractPhotos(ctx, path, *outputDir, base)
		if err != nil {
			logger.Error("photo extraction failed", "file", path, "error", err)
			continue
		}
		logger.Info("photos extracted", "file", filepath.Base(path), "count", len(photos))
		total += len(photos)
	}

	fmt.Printf("Extracted %d images to %s\n", total, *outputDir)
}

func listPDFs(inputDir string, recursive bool) ([]string, error) {
	var files []string
	if recursive {
		err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := filepath.Glob(filepath.Join(inputDir, "*"))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if strings.EqualFold(filepath.Ext(e), ".pdf") {
				files = append(files, e)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
