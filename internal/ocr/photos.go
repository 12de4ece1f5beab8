package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Photo is one embedded image pulled out of a source PDF, keyed by its
// 1-based page number.
type Photo struct {
	Page     int
	FileName string
}

// pdfimages -p names files <prefix>-PPP-NNN.<ext>
var rePhotoSuffix = regexp.MustCompile(`-(\d+)-(\d+)\.(png|jpg|jpeg|ppm|pbm)$`)

// ExtractPhotos pulls embedded images out of the PDF into outDir, named after
// baseName, and returns them with their page numbers in page order.
func (e *Extractor) ExtractPhotos(ctx context.Context, pdfPath, outDir, baseName string) ([]Photo, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create photos dir: %w", err)
	}

	prefix := filepath.Join(outDir, baseName)
	// pdfimages -p -png <in.pdf> <outDir/base>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdfimages, "-p", "-png", pdfPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdfimages: %w: %s", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*")
	sort.Strings(matches)

	var photos []Photo
	for _, m := range matches {
		sm := rePhotoSuffix.FindStringSubmatch(m)
		if sm == nil {
			continue
		}
		page, err := strconv.Atoi(sm[1])
		if err != nil {
			continue
		}
		photos = append(photos, Photo{Page: page, FileName: filepath.Base(m)})
	}
	e.logger.Debug("photos extracted", "pdf", pdfPath, "count", len(photos))
	return photos, nil
}

// PhotoForPage returns the first photo on the given 1-based page, or "".
func PhotoForPage(photos []Photo, page int) string {
	for _, p := range photos {
		if p.Page == page {
			return p.FileName
		}
	}
	return ""
}
