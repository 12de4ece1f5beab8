package segment

import (
	"image"
	"testing"
)

func TestRegionsGridLayout(t *testing.T) {
	got := Regions(1000, 1000)

	// 12% header margin, 880px of grid height, 293px rows. The third row's
	// bottom edge lands on the page bottom and is dropped as partial.
	want := []image.Rectangle{
		image.Rect(0, 120, 500, 413),
		image.Rect(500, 120, 1000, 413),
		image.Rect(0, 413, 500, 706),
		image.Rect(500, 413, 1000, 706),
	}
	if len(got) != len(want) {
		t.Fatalf("regions = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("region %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRegionsRowMajorAndDisjoint(t *testing.T) {
	regions := Regions(1240, 1754)
	if len(regions) == 0 {
		t.Fatal("no regions")
	}
	for i := 1; i < len(regions); i++ {
		prev, cur := regions[i-1], regions[i]
		if cur.Min.Y < prev.Min.Y {
			t.Errorf("region %d out of row order: %v after %v", i, cur, prev)
		}
		if cur.Min.Y == prev.Min.Y && cur.Min.X <= prev.Min.X {
			t.Errorf("region %d out of column order: %v after %v", i, cur, prev)
		}
	}
	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			if !regions[i].Intersect(regions[j]).Empty() {
				t.Errorf("regions %d and %d overlap: %v, %v", i, j, regions[i], regions[j])
			}
		}
	}
}

func TestRegionsExcludeHeader(t *testing.T) {
	height := 2000
	for _, r := range Regions(1400, height) {
		if r.Min.Y < int(float64(height)*headerFraction) {
			t.Errorf("region %v reaches into the header margin", r)
		}
	}
}

func TestRegionsBottomRowDropped(t *testing.T) {
	// The last row's bottom edge always lands at the page bottom, inside the
	// partial-row slack, so a full page yields two rows of two.
	for _, h := range []int{600, 1000, 1754, 3508} {
		if got := len(Regions(1240, h)); got != (GridRows-1)*GridCols {
			t.Errorf("Regions(1240, %d) = %d regions, want %d", h, got, (GridRows-1)*GridCols)
		}
	}
}

func TestRegionsDegenerateDimensions(t *testing.T) {
	for _, tt := range []struct{ w, h int }{{0, 100}, {100, 0}, {-5, 100}, {100, -5}, {0, 0}} {
		if got := Regions(tt.w, tt.h); got != nil {
			t.Errorf("Regions(%d, %d) = %v, want nil", tt.w, tt.h, got)
		}
	}
}
