package placement

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/classify"
	"github.com/matzehuels/dressup/pkg/errors"
)

type rulesFile struct {
	Rules []ruleEntry `toml:"rule"`
}

type ruleEntry struct {
	Category string `toml:"category"`
	Kind     string `toml:"kind"`
	Rule
}

// ParseRules overlays the [[rule]] entries of a TOML document onto a copy of
// base. Entries replace whole rules; an entry with no align defaults to top.
//
//	[[rule]]
//	category = "up"
//	kind = "long"
//	anchor = "torso"
//	width_factor = 2.15
//	x_nudge = 30
func ParseRules(data []byte, base Table) (Table, error) {
	var f rulesFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse rules")
	}
	out := base.Clone()
	for _, e := range f.Rules {
		cat, err := catalog.ParseCategory(e.Category)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRule, err, "rule")
		}
		kind := classify.Kind(e.Kind)
		if kind == classify.None {
			kind = classify.Default
		}
		if e.Align == "" {
			e.Align = AlignTop
		}
		k := Key{cat, kind}
		if err := validateRule(k, e.Rule); err != nil {
			return nil, err
		}
		out[k] = e.Rule
	}
	return out, nil
}

// LoadRules reads a TOML override file and overlays it onto [Defaults].
func LoadRules(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read rules %s", path)
	}
	return ParseRules(data, Defaults())
}
