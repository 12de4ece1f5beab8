// Package segment partitions a rendered form page into candidate member-record
// regions. The layout is a fixed grid heuristic; it does not inspect page
// content to detect actual form boundaries.
package segment

import "image"

const (
	// GridRows and GridCols describe the assumed member-form layout per page.
	GridRows = 3
	GridCols = 2

	// headerFraction is the top margin excluded from the grid (page header).
	headerFraction = 0.12

	// bottomSlackPx: rows whose bottom edge lands within this distance of the
	// page bottom are treated as partial and dropped.
	bottomSlackPx = 10
)

// Regions returns the ordered candidate regions for a page of the given pixel
// dimensions, row-major (row 0 col 0, row 0 col 1, row 1 col 0, ...). The
// result is deterministic and regions never overlap.
func Regions(width, height int) []image.Rectangle {
	if width <= 0 || height <= 0 {
		return nil
	}

	topMargin := float64(height) * headerFraction
	colWidth := float64(width) / GridCols
	rowHeight := (float64(height) - topMargin) / GridRows

	var regions []image.Rectangle
	for row := 0; row < GridRows; row++ {
		y0 := topMargin + float64(row)*rowHeight
		y1 := y0 + rowHeight
		if y1 > float64(height)-bottomSlackPx {
			continue
		}
		for col := 0; col < GridCols; col++ {
			x0 := float64(col) * colWidth
			x1 := x0 + colWidth
			regions = append(regions, image.Rect(int(x0), int(y0), int(x1), int(y1)))
		}
	}
	return regions
}
