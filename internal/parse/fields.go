// Package parse turns one region's OCR text into draft member fields using
// label-anchored and pattern-based heuristics. All extraction rules are
// independent: a rule that finds nothing leaves its field empty and never
// aborts the record.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	maxNameLen        = 60
	maxDesignationLen = 50
)

var (
	reNameLabel  = regexp.MustCompile(`(?i)^name\b\s*[:=]?\s*(.+)$`)
	reDate       = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`)
	rePhone      = regexp.MustCompile(`\b\d{10,13}\b`)
	reEmail      = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.\w+`)
	reLabelSplit = regexp.MustCompile(`[:=]`)
)

// labels that mark a line as form furniture rather than a name, used by the
// lenient first-uppercase-line fallback.
var nameDenyLabels = []string{"date", "phone", "mobile", "address", "city"}

var designationLabels = []string{"designation", "occupation", "position"}

// Fields is the draft output of extraction. Any field may be empty.
type Fields struct {
	Name        string
	Designation string
	Birthdate   string
	Anniversary string
	Phone       string
	City        string
	Email       string
}

// Options selects the per-variant extraction behavior.
type Options struct {
	// LenientName falls back to the first uppercase-starting line when no
	// labeled name line exists. The strict (council) pipeline leaves the name
	// empty instead so the region is abandoned rather than guessed.
	LenientName bool
	// ExtractEmail enables the email pattern (whole-page variant only).
	ExtractEmail bool
}

// Extract applies every field rule to the text block. Rules apply
// independently, first match wins within each rule.
func Extract(text string, opts Options) Fields {
	var f Fields
	if strings.TrimSpace(text) == "" {
		return f
	}

	lines := Lines(text)

	f.Name = extractName(lines, opts.LenientName)
	f.Birthdate, f.Anniversary = extractDates(text)
	f.Phone = extractPhone(text)
	f.Designation = extractDesignation(lines)
	f.City = extractCity(lines)
	if opts.ExtractEmail {
		f.Email = reEmail.FindString(text)
	}
	return f
}

func extractName(lines []string, lenient bool) string {
	for _, line := range lines {
		if m := reNameLabel.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(m[1])
			if name != "" {
				return truncate(name, maxNameLen)
			}
		}
	}
	if !lenient {
		return ""
	}
	// Fallback: first line starting uppercase with no field-label substring.
	for _, line := range lines {
		r := []rune(line)
		if !unicode.IsUpper(r[0]) {
			continue
		}
		if containsAnyFold(line, nameDenyLabels) {
			continue
		}
		return truncate(line, maxNameLen)
	}
	return ""
}

// extractDates finds all D/M/YYYY occurrences across the block in appearance
// order: the first is the birthdate, the second the anniversary. Components
// outside calendar range are rejected and the field stays empty.
func extractDates(text string) (birthdate, anniversary string) {
	matches := reDate.FindAllStringSubmatch(text, -1)
	var dates []string
	for _, m := range matches {
		if d := normalizeDate(m[1], m[2], m[3]); d != "" {
			dates = append(dates, d)
		}
		if len(dates) == 2 {
			break
		}
	}
	if len(dates) > 0 {
		birthdate = dates[0]
	}
	if len(dates) > 1 {
		anniversary = dates[1]
	}
	return birthdate, anniversary
}

// normalizeDate converts day/month/year strings to YYYY-MM-DD, or returns ""
// when a component is outside 1..31 / 1..12.
func normalizeDate(day, month, year string) string {
	d, err := strconv.Atoi(day)
	if err != nil {
		return ""
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return ""
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return ""
	}
	if d < 1 || d > 31 || m < 1 || m > 12 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// extractPhone returns the longest 10-13 digit run in the text. Ties on
// length resolve to the first occurrence, keeping the choice deterministic.
func extractPhone(text string) string {
	var best string
	for _, p := range rePhone.FindAllString(text, -1) {
		if len(p) > len(best) {
			best = p
		}
	}
	return best
}

func extractDesignation(lines []string) string {
	for i, line := range lines {
		if !containsAnyFold(line, designationLabels) {
			continue
		}
		// Inline value after a separator on the label line itself.
		if parts := reLabelSplit.Split(line, 2); len(parts) == 2 {
			if v := strings.TrimSpace(parts[1]); plausibleValue(v) {
				return truncate(v, maxDesignationLen)
			}
		}
		if i+1 < len(lines) && plausibleValue(lines[i+1]) {
			return truncate(lines[i+1], maxDesignationLen)
		}
	}
	return ""
}

func extractCity(lines []string) string {
	for i, line := range lines {
		if !containsAnyFold(line, []string{"city", "address"}) {
			continue
		}
		if parts := reLabelSplit.Split(line, 2); len(parts) == 2 {
			return strings.TrimSpace(parts[1])
		}
		if i+1 < len(lines) {
			return lines[i+1]
		}
		return ""
	}
	return ""
}

// plausibleValue filters obvious non-values when reading the line after a
// label: empty lines, overlong lines, and lines that are themselves labels.
func plausibleValue(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) >= 100 {
		return false
	}
	r := []rune(s)
	if !unicode.IsLetter(r[0]) {
		return false
	}
	if containsAnyFold(s, designationLabels) || containsAnyFold(s, nameDenyLabels) {
		return false
	}
	return true
}

func containsAnyFold(s string, subs []string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n])
}
