// Package ocr drives poppler and tesseract through an injected Runner so the
// extraction pipeline stays testable with synthetic text and stubbed
// commands. It exposes page rasterization, per-region text recognition, and
// embedded photo extraction.
package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	xdraw "golang.org/x/image/draw"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Pdfimages string // if empty -> "pdfimages"
	Tesseract string // if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI, default 150
	PSM           int    // 6 works well for a uniform block of form text

	TessdataDir string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Pdfimages == "" {
		cfg.Pdfimages = "pdfimages"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 150
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// NewExtractorWithRunner is NewExtractor with a stubbed command runner.
func NewExtractorWithRunner(cfg Config, r Runner, logger *slog.Logger) *Extractor {
	e := NewExtractor(cfg, logger)
	e.runner = r
	return e
}

// RenderPages rasterizes every page of the PDF to PNG files in a temp
// directory and returns their paths in page order. cleanup removes the temp
// directory and must be called once the pages are consumed.
func (e *Extractor) RenderPages(ctx context.Context, path string) (pages []string, cleanup func(), err error) {
	tmpDir, err := os.MkdirTemp("", "mb-pages-*")
	if err != nil {
		return nil, nil, err
	}
	cleanup = func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rerr)
		}
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		cleanup()
		return nil, nil, fmt.Errorf("pdftoppm produced no pages for %s", path)
	}
	return matches, cleanup, nil
}

// LoadPage decodes a rendered page PNG.
func (e *Extractor) LoadPage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page image: %w", err)
	}
	defer func() { _ = f.Close() }()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode page image: %w", err)
	}
	return img, nil
}

// RegionText crops the region out of a rendered page and runs tesseract over
// the crop, returning the raw recognized text.
func (e *Extractor) RegionText(ctx context.Context, page image.Image, region image.Rectangle) (string, error) {
	region = region.Intersect(page.Bounds())
	if region.Empty() {
		return "", nil
	}

	crop := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	xdraw.Draw(crop, crop.Bounds(), page, region.Min, xdraw.Src)

	tmp, err := os.CreateTemp("", "mb-region-*.png")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := png.Encode(tmp, crop); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("encode region: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	return e.ImageText(ctx, tmpPath)
}

// ImageText runs tesseract over an image file.
func (e *Extractor) ImageText(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang, "--psm", fmt.Sprintf("%d", e.cfg.PSM)}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
