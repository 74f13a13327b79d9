package vocab

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileSchema struct {
	Layers []Entry `yaml:"layers"`
	Checks []Entry `yaml:"checks"`
	Types  []Entry `yaml:"types"`
}

// LoadFile reads extra dictionary entries from a YAML file. The returned
// entries are meant to be appended to DefaultEntries before New; later
// entries win on key collisions, so a site file can re-point a synonym.
func LoadFile(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary file: %w", err)
	}
	var parsed fileSchema
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse dictionary file: %w", err)
	}
	out := make([]Entry, 0, len(parsed.Layers)+len(parsed.Checks)+len(parsed.Types))
	for _, e := range parsed.Layers {
		e.Kind = KindLayer
		out = append(out, e)
	}
	for _, e := range parsed.Checks {
		e.Kind = KindCheck
		out = append(out, e)
	}
	for _, e := range parsed.Types {
		e.Kind = KindType
		out = append(out, e)
	}
	return out, nil
}
