package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jsg-federation/memberbook/internal/common"
	"github.com/jsg-federation/memberbook/internal/ocr"
	"github.com/jsg-federation/memberbook/internal/pipeline"
	"github.com/jsg-federation/memberbook/internal/roster"
	"github.com/jsg-federation/memberbook/internal/validate"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inputDir  = flag.String("input-dir", "input", "directory containing membership-form PDFs")
		outputCSV = flag.String("output-csv", "output/members.csv", "output roster CSV path")
		photosDir = flag.String("photos-dir", "", "directory for extracted member photos (page policy only; empty disables)")
		policy    = flag.String("policy", "council", "extraction policy: page, grid, or council")
		rulesPath = flag.String("rules", "", "validation rule-set JSON (defaults compiled in)")
		recursive = flag.Bool("recursive", false, "recursively search input directory for PDFs")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()

	pol, err := pipeline.PolicyByName(*policy)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	rules := validate.DefaultRules()
	if *rulesPath != "" {
		rules, err = validate.LoadRules(*rulesPath)
		if err != nil {
			logger.Error("failed to load rules", "path", *rulesPath, "error", err)
			os.Exit(1)
		}
	}
	validator := validate.New(rules)

	extractor := ocr.NewExtractor(ocr.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Pdfimages:     cfg.OCR.Pdfimages,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		PSM:           cfg.OCR.PSM,
		TessdataDir:   cfg.OCR.TessdataDir,
	}, logger)

	writer, err := roster.NewWriter(*outputCSV, logger)
	if err != nil {
		logger.Error("failed to create roster writer", "path", *outputCSV, "error", err)
		os.Exit(1)
	}

	p := pipeline.New(extractor, validator, writer, pol, *photosDir, logger)
	stats, err := p.Run(ctx, *inputDir, *recursive)
	if cerr := writer.Close(); cerr != nil {
		logger.Error("failed to close roster", "error", cerr)
	}
	if err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Extraction complete!\n")
	fmt.Printf("- PDFs processed: %d (%d failed)\n", stats.Files, stats.FailedFiles)
	fmt.Printf("- Members written: %d\n", stats.Accepted)
	fmt.Printf("- Duplicates dropped: %d\n", stats.Duplicates)
	if stats.Accepted > 0 {
		fmt.Printf("- With birth date: %d/%d (%d%%)\n",
			stats.WithBirthdate, stats.Accepted, 100*stats.WithBirthdate/stats.Accepted)
		fmt.Printf("- With anniversary: %d/%d (%d%%)\n",
			stats.WithAnniversary, stats.Accepted, 100*stats.WithAnniversary/stats.Accepted)
	}
	fmt.Printf("- Output: %s\n", *outputCSV)
}
