// Package pipeline orchestrates member extraction: PDF discovery, page
// rasterization, region OCR, field parsing, validation, and streaming roster
// writes. Processing is strictly sequential; a document's failure is caught
// at the document boundary and contributes zero records.
package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jsg-federation/memberbook/internal/entity"
	"github.com/jsg-federation/memberbook/internal/ocr"
	"github.com/jsg-federation/memberbook/internal/parse"
	"github.com/jsg-federation/memberbook/internal/roster"
	"github.com/jsg-federation/memberbook/internal/segment"
	"github.com/jsg-federation/memberbook/internal/validate"
)

// Stats aggregates a full extraction run.
type Stats struct {
	Files           int
	FailedFiles     int
	RegionsScanned  int
	Accepted        int
	Rejected        int
	Duplicates      int
	WithBirthdate   int
	WithAnniversary int
}

type Pipeline struct {
	extractor *ocr.Extractor
	validator *validate.Validator
	writer    *roster.Writer
	policy    Policy
	photosDir string // empty disables photo extraction
	logger    *slog.Logger
}

func New(ex *ocr.Extractor, v *validate.Validator, w *roster.Writer, policy Policy, photosDir string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: ex,
		validator: v,
		writer:    w,
		policy:    policy,
		photosDir: photosDir,
		logger:    logger,
	}
}

// Run processes every PDF under inputDir in sorted order and returns the
// aggregate stats. Per-document failures are logged and skipped.
func (p *Pipeline) Run(ctx context.Context, inputDir string, recursive bool) (Stats, error) {
	files, err := listPDFs(inputDir, recursive)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	stats.Files = len(files)
	p.logger.Info("extraction starting", "policy", p.policy.Name, "files", len(files))

	for i, path := range files {
		start := time.Now()
		accepted, err := p.processDocument(ctx, path, &stats)
		if err != nil {
			stats.FailedFiles++
			p.logger.Error("document failed",
				"file", filepath.Base(path),
				"index", i+1,
				"total", len(files),
				"error", err,
			)
			continue
		}
		if err := p.writer.Flush(); err != nil {
			return stats, fmt.Errorf("flush after %s: %w", path, err)
		}
		p.logger.Info("document done",
			"file", filepath.Base(path),
			"index", i+1,
			"total", len(files),
			"members", accepted,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}

	p.logger.Info("extraction complete",
		"files", stats.Files,
		"failed_files", stats.FailedFiles,
		"regions", stats.RegionsScanned,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
		"duplicates", stats.Duplicates,
	)
	return stats, nil
}

// processDocument extracts all records from one PDF. Region-level failures
// are logged and skipped without failing the document.
func (p *Pipeline) processDocument(ctx context.Context, path string, stats *Stats) (int, error) {
	group := parse.GroupName(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var photos []ocr.Photo
	if p.photosDir != "" && p.policy.LinkPhotos {
		var err error
		photos, err = p.extractor.ExtractPhotos(ctx, path, p.photosDir, base)
		if err != nil {
			// Photos are auxiliary; the text pipeline continues without them.
			p.logger.Warn("photo extraction failed", "file", base, "error", err)
		}
	}

	pages, cleanup, err := p.extractor.RenderPages(ctx, path)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	accepted := 0
	for pageIdx, pagePath := range pages {
		texts, err := p.pageTexts(ctx, pagePath)
		if err != nil {
			p.logger.Warn("page skipped", "file", base, "page", pageIdx+1, "error", err)
			continue
		}
		for _, text := range texts {
			stats.RegionsScanned++
			text = parse.Normalize(text)
			if text == "" {
				continue
			}

			fields := parse.Extract(text, p.policy.ParseOpts)
			m := entity.Member{
				Name:           fields.Name,
				Designation:    fields.Designation,
				Birthdate:      fields.Birthdate,
				Anniversary:    fields.Anniversary,
				WhatsappNumber: fields.Phone,
				GroupName:      group,
				City:           fields.City,
			}
			if p.policy.LinkPhotos {
				m.PhotoFileName = ocr.PhotoForPage(photos, pageIdx+1)
			}

			if !p.policy.Accept(p.validator, &m) {
				stats.Rejected++
				continue
			}
			wrote, err := p.writer.Add(m)
			if err != nil {
				return accepted, err
			}
			if !wrote {
				stats.Duplicates++
				continue
			}
			accepted++
			stats.Accepted++
			if m.Birthdate != "" {
				stats.WithBirthdate++
			}
			if m.Anniversary != "" {
				stats.WithAnniversary++
			}
		}
	}
	return accepted, nil
}

// pageTexts OCRs one rendered page, either as a whole or per grid region.
func (p *Pipeline) pageTexts(ctx context.Context, pagePath string) ([]string, error) {
	if !p.policy.Segmented {
		text, err := p.extractor.ImageText(ctx, pagePath)
		if err != nil {
			return nil, err
		}
		return []string{text}, nil
	}

	img, err := p.extractor.LoadPage(pagePath)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()

	var texts []string
	for _, region := range segment.Regions(bounds.Dx(), bounds.Dy()) {
		text, err := p.extractor.RegionText(ctx, img, region)
		if err != nil {
			// Region-level failure: skip this region only.
			p.logger.Warn("region skipped", "page", pagePath, "region", region.String(), "error", err)
			continue
		}
		texts = append(texts, text)
	}
	return texts, nil
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
			return nil, fmt.Errorf("walk %s: %w", inputDir, err)
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
