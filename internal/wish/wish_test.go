package wish

import (
	"testing"
	"time"

	"github.com/jsg-federation/memberbook/internal/entity"
)

func TestMatchesDay(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
		want bool
	}{
		{"iso match", "1980-06-15", true},
		{"iso other day", "1980-06-14", false},
		{"iso other month", "1980-07-15", false},
		{"slash dmy", "15/06/1992", true},
		{"slash dmy unpadded", "15/6/1992", true},
		{"dash dmy", "15-06-1992", true},
		{"dash dmy unpadded", "15-6-1992", true},
		{"empty", "", false},
		{"garbage", "not a date", false},
		{"year ignored", "2001-06-15", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesDay(tt.date, today); got != tt.want {
				t.Errorf("MatchesDay(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestForDate(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	members := []entity.Member{
		{Name: "Ramesh Kumar", Birthdate: "1980-06-15"},
		{Name: "Suresh Jain", Anniversary: "15/06/2005"},
		{Name: "Anita Lodha", Birthdate: "1985-06-15", Anniversary: "2010-06-15"},
		{Name: "Nobody Today", Birthdate: "1990-01-01", Anniversary: "2000-02-02"},
		{Name: "No Dates"},
	}

	lists := ForDate(members, today)
	if len(lists.Birthdays) != 2 {
		t.Errorf("Birthdays = %d, want 2", len(lists.Birthdays))
	}
	if len(lists.Anniversaries) != 2 {
		t.Errorf("Anniversaries = %d, want 2", len(lists.Anniversaries))
	}

	// A member with both dates today shows up in both lists.
	inBirthdays, inAnniversaries := false, false
	for _, m := range lists.Birthdays {
		if m.Name == "Anita Lodha" {
			inBirthdays = true
		}
	}
	for _, m := range lists.Anniversaries {
		if m.Name == "Anita Lodha" {
			inAnniversaries = true
		}
	}
	if !inBirthdays || !inAnniversaries {
		t.Errorf("member with both dates: birthdays=%v anniversaries=%v, want both", inBirthdays, inAnniversaries)
	}
}
