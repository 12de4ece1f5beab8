// Package greeting composes personalized wish images and captions for
// birthdays and anniversaries.
package greeting

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsg-federation/memberbook/internal/entity"
)

// Kind selects the greeting variant.
type Kind string

const (
	Birthday    Kind = "birthday"
	Anniversary Kind = "anniversary"
)

// Captions holds the message templates. Placeholders: {name}, {designation},
// {group}, {city}.
type Captions struct {
	Birthday    string `yaml:"birthday"`
	Anniversary string `yaml:"anniversary"`
}

// DefaultCaptions returns the stock JSG wishes.
func DefaultCaptions() Captions {
	return Captions{
		Birthday:    "Happy Birthday JSGian {name} ji 🎉\n{designation} – {group}, {city}\n\nWarm wishes from JSG.",
		Anniversary: "Happy Anniversary to {name} ji 💐\n{designation} – {group}, {city}\n\nWarm wishes from JSG.",
	}
}

// LoadCaptions reads caption templates from a YAML file, filling missing
// entries from the defaults.
func LoadCaptions(path string) (Captions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Captions{}, fmt.Errorf("read captions: %w", err)
	}
	c := DefaultCaptions()
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Captions{}, fmt.Errorf("decode captions: %w", err)
	}
	return c, nil
}

// Render fills the template for the given kind with the member's fields.
func (c Captions) Render(kind Kind, m *entity.Member) string {
	tmpl := c.Birthday
	if kind == Anniversary {
		tmpl = c.Anniversary
	}
	r := strings.NewReplacer(
		"{name}", m.Name,
		"{designation}", m.Designation,
		"{group}", m.GroupName,
		"{city}", m.City,
	)
	return r.Replace(tmpl)
}
