package validate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jsg-federation/memberbook/internal/entity"
)

// nameBadChars reject a candidate name outright: brackets, quotes, pipes,
// slashes and colon punctuation never occur in real names on these forms.
const nameBadChars = `[](){}|"'/\:;`

// capitalized-word-sequence shape, e.g. "Ramesh Kumar". Garbled OCR casing is
// handled by the long-name fallback instead.
var reNameShape = regexp.MustCompile(`^([A-Z][a-z]+[\s\-']?)+([A-Z][a-z]+)?`)

// minimum fraction of letters per word; allows initials-with-dots noise to be
// dropped while keeping ordinary surnames.
const minLetterDensity = 0.6

// Validator applies a RuleSet to draft records.
type Validator struct {
	rules RuleSet
}

func New(rules RuleSet) *Validator {
	if rules.MinNameLength <= 0 {
		rules.MinNameLength = DefaultRules().MinNameLength
	}
	normalizeRules(&rules)
	return &Validator{rules: rules}
}

// ValidName reports whether name looks like a real person's name rather than
// form boilerplate or OCR noise.
func (v *Validator) ValidName(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) < v.rules.MinNameLength {
		return false
	}
	first := []rune(name)[0]
	if !unicode.IsLetter(first) {
		return false
	}
	if strings.ContainsAny(name, nameBadChars) {
		return false
	}
	lower := strings.ToLower(name)
	for _, phrase := range v.rules.NoisePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	words := strings.Fields(name)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if len(w) < 2 {
			return false
		}
		letters := 0
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters++
			}
		}
		if float64(letters)/float64(len(w)) < minLetterDensity {
			return false
		}
	}
	return true
}

// TargetMember reports whether the record belongs to the target category:
// false when the name or designation carries an institutional role or a
// form-copy artifact marker.
func (v *Validator) TargetMember(m *entity.Member) bool {
	name := strings.ToLower(m.Name)
	designation := strings.ToLower(m.Designation)
	for _, phrase := range v.rules.RolePhrases {
		if strings.Contains(name, phrase) || strings.Contains(designation, phrase) {
			return false
		}
	}
	return true
}

// CleanRecord is the post-hoc roster cleaning check: a relaxed variant of
// ValidName plus phone-shape requirements, applied to rows already written.
func (v *Validator) CleanRecord(m *entity.Member) bool {
	name := strings.TrimSpace(m.Name)
	phone := strings.TrimSpace(m.WhatsappNumber)

	if name == "" || phone == "" || len(name) < 3 || len(phone) < 10 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	first := []rune(name)[0]
	if !unicode.IsLetter(first) {
		return false
	}

	lower := strings.ToLower(name)
	for _, phrase := range v.rules.CleanPhrases {
		if strings.Contains(lower, phrase) {
			// A name that is barely longer than the phrase is the phrase.
			if len(lower) < len(phrase)*2 {
				return false
			}
		}
	}

	if !reNameShape.MatchString(name) {
		// Garbled casing: still accept long multi-word names.
		if len(name) < 15 || len(strings.Fields(name)) < 2 {
			return false
		}
	}
	return true
}
