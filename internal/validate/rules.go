// Package validate decides whether an extracted draft record is a plausible
// real person and whether it belongs to the target member category. All
// checks are pure functions of a single record; they never fail and have no
// side effects.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RuleSet is the categorized pattern table driving validation. It replaces
// hard-coded denylists so deployments can tune filtering without code
// changes: noise phrases mark form boilerplate masquerading as a name, role
// phrases mark institutional or non-target roles, clean phrases drive the
// post-hoc roster cleaning pass.
type RuleSet struct {
	MinNameLength int      `json:"min_name_length"`
	NoisePhrases  []string `json:"noise_phrases"`
	RolePhrases   []string `json:"role_phrases"`
	CleanPhrases  []string `json:"clean_phrases"`
}

// ruleSetSchema constrains rule files loaded from disk.
func ruleSetSchema() map[string]any {
	phraseList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string", "minLength": 1},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"min_name_length": map[string]any{"type": "integer", "minimum": 1},
			"noise_phrases":   phraseList,
			"role_phrases":    phraseList,
			"clean_phrases":   phraseList,
		},
		"required": []string{"noise_phrases", "role_phrases"},
	}
}

// DefaultRules returns the compiled-in rule set.
func DefaultRules() RuleSet {
	return RuleSet{
		MinNameLength: 4,
		NoisePhrases: []string{
			"std code", "date of inaugu", "pin code",
			"address", "designation", "birth date", "marriage", "anniversary",
			"whatsapp", "mobile", "email", "phone", "copy", "code", "details of",
			"general council", "general meeting", "office bearer", "following",
		},
		RolePhrases: []string{
			"managing committee", "committee", "chairman", "secretary",
			"treasurer", "advisor", "patron", "office copy", "group copy",
			"federation copy", "region copy", "zone copy",
		},
		CleanPhrases: []string{
			"address", "city", "phone", "mobile", "whatsapp", "email", "date",
			"pin code", "code", "copy", "federation", "district", "state", "india",
			"size", "bsp no", "ship no", "ncode", "rajasthan", "group copy",
			"region", "zone", "member", "committee", "general meeting",
		},
	}
}

// LoadRules reads a rule-set JSON file, validates it against the schema, and
// fills unset fields from the defaults.
func LoadRules(path string) (RuleSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read rules: %w", err)
	}
	if err := validateAgainstSchema(ruleSetSchema(), raw); err != nil {
		return RuleSet{}, fmt.Errorf("rules %s: %w", path, err)
	}
	rs := RuleSet{MinNameLength: DefaultRules().MinNameLength}
	if err := json.Unmarshal(raw, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("decode rules: %w", err)
	}
	if len(rs.CleanPhrases) == 0 {
		rs.CleanPhrases = DefaultRules().CleanPhrases
	}
	normalizeRules(&rs)
	return rs, nil
}

func normalizeRules(rs *RuleSet) {
	lower := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	rs.NoisePhrases = lower(rs.NoisePhrases)
	rs.RolePhrases = lower(rs.RolePhrases)
	rs.CleanPhrases = lower(rs.CleanPhrases)
}

func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rules.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("rules.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal rules: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("rules do not match schema: %w", err)
	}
	return nil
}
