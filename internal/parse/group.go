package parse

import (
	"path/filepath"
	"regexp"
	"strings"
)

var reGroupPrefix = regexp.MustCompile(`^\d+\s*-\s*(.+)$`)

// GroupName derives the group from a source file name following the
// numeric-prefix convention, e.g. "084 - JSG CHITTORGARH.pdf" -> "JSG
// CHITTORGARH". Files without the prefix yield the bare base name.
func GroupName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if m := reGroupPrefix.FindStringSubmatch(base); m != nil {
		return strings.TrimSpace(m[1])
	}
	return base
}
