// Package wish selects which roster members are due a greeting on a given
// calendar date.
package wish

import (
	"time"

	"github.com/jsg-federation/memberbook/internal/entity"
)

// dateFormats accepted in roster date cells. Normalized extraction output is
// YYYY-MM-DD; hand-edited sheets sometimes carry D/M/YYYY.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
}

// MatchesDay reports whether the date string falls on the same month and day
// as today. Unparsable or empty dates never match.
func MatchesDay(dateStr string, today time.Time) bool {
	if dateStr == "" {
		return false
	}
	for _, layout := range dateFormats {
		dt, err := time.Parse(layout, dateStr)
		if err != nil {
			continue
		}
		return dt.Month() == today.Month() && dt.Day() == today.Day()
	}
	return false
}

// Lists are the members due a greeting on a date.
type Lists struct {
	Birthdays     []entity.Member
	Anniversaries []entity.Member
}

// ForDate scans members and buckets those whose birthdate or anniversary
// matches today's month and day. A member can appear in both lists.
func ForDate(members []entity.Member, today time.Time) Lists {
	var l Lists
	for _, m := range members {
		if MatchesDay(m.Birthdate, today) {
			l.Birthdays = append(l.Birthdays, m)
		}
		if MatchesDay(m.Anniversary, today) {
			l.Anniversaries = append(l.Anniversaries, m)
		}
	}
	return l
}
