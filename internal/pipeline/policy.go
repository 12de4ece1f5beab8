package pipeline

import (
	"fmt"

	"github.com/jsg-federation/memberbook/internal/entity"
	"github.com/jsg-federation/memberbook/internal/parse"
	"github.com/jsg-federation/memberbook/internal/validate"
)

// Policy configures the one extraction pipeline into the behavior of the
// historical variants: whole-page parsing, grid-region parsing, and the
// council-filtered grid parsing. Acceptance is part of the policy so the
// pipeline itself has a single code path.
type Policy struct {
	Name string

	// Segmented runs OCR per grid region instead of per whole page.
	Segmented bool

	// ParseOpts selects the per-variant field extraction behavior.
	ParseOpts parse.Options

	// RequireValidName applies the full name-plausibility check before
	// acceptance rather than only requiring a non-empty name.
	RequireValidName bool

	// FilterRoles drops institutional/non-target records (category filter).
	FilterRoles bool

	// LinkPhotos associates extracted page photos with records.
	LinkPhotos bool
}

// PagePolicy parses each whole page as one form; photos are linked by page.
func PagePolicy() Policy {
	return Policy{
		Name:       "page",
		Segmented:  false,
		ParseOpts:  parse.Options{LenientName: false, ExtractEmail: true},
		LinkPhotos: true,
	}
}

// GridPolicy parses each grid region with the lenient name fallback.
func GridPolicy() Policy {
	return Policy{
		Name:      "grid",
		Segmented: true,
		ParseOpts: parse.Options{LenientName: true},
	}
}

// CouncilPolicy is the strict variant: labeled names only, full name
// plausibility, and the institutional-role filter.
func CouncilPolicy() Policy {
	return Policy{
		Name:             "council",
		Segmented:        true,
		ParseOpts:        parse.Options{LenientName: false},
		RequireValidName: true,
		FilterRoles:      true,
	}
}

// PolicyByName resolves a CLI policy flag value.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "page":
		return PagePolicy(), nil
	case "grid":
		return GridPolicy(), nil
	case "council":
		return CouncilPolicy(), nil
	default:
		return Policy{}, fmt.Errorf("unknown policy %q (want page, grid, or council)", name)
	}
}

// Accept decides whether a draft record enters the roster. A record always
// needs a name and a phone number; the rest depends on the policy.
func (p Policy) Accept(v *validate.Validator, m *entity.Member) bool {
	if m.Name == "" || m.WhatsappNumber == "" {
		return false
	}
	if p.RequireValidName && !v.ValidName(m.Name) {
		return false
	}
	if p.FilterRoles && !v.TargetMember(m) {
		return false
	}
	return true
}
