package vocab

import "strings"

// Kind selects one of the three vocabularies the dictionary covers.
type Kind string

const (
	KindLayer Kind = "layer"
	KindCheck Kind = "check"
	KindType  Kind = "type"
)

// Entry declares one canonical display form and the synonyms that map to it.
type Entry struct {
	Kind      Kind     `yaml:"kind,omitempty"`
	Canonical string   `yaml:"canonical"`
	Synonyms  []string `yaml:"synonyms,omitempty"`
}

// Dictionary maps noisy bilingual free text onto canonical display strings.
// It is immutable after construction and shared by every engine component;
// inject it explicitly, never read it from global state.
type Dictionary struct {
	canonical map[Kind]map[string]string
}

// NormKey is the dictionary lookup key: trimmed, lowercased.
func NormKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func New(entries []Entry) *Dictionary {
	d := &Dictionary{canonical: map[Kind]map[string]string{
		KindLayer: {},
		KindCheck: {},
		KindType:  {},
	}}
	for _, e := range entries {
		canon := strings.TrimSpace(e.Canonical)
		if e.Kind == "" || canon == "" {
			continue
		}
		byKey, ok := d.canonical[e.Kind]
		if !ok {
			byKey = map[string]string{}
			d.canonical[e.Kind] = byKey
		}
		byKey[NormKey(canon)] = canon
		for _, syn := range e.Synonyms {
			key := NormKey(syn)
			if key == "" {
				continue
			}
			byKey[key] = canon
		}
	}
	return d
}

// Canonical resolves a single input to its canonical form. Unknown
// vocabulary passes through trimmed; empty input yields "".
func (d *Dictionary) Canonical(kind Kind, input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	if byKey, ok := d.canonical[kind]; ok {
		if canon, ok := byKey[NormKey(trimmed)]; ok {
			return canon
		}
	}
	return trimmed
}

// Canonicalize maps each input to its canonical form, dropping empties and
// deduplicating by normalization key while preserving first-seen order.
// Pure and total: it never fails, unknown vocabulary passes through.
func (d *Dictionary) Canonicalize(kind Kind, inputs []string) []string {
	out := make([]string, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		canon := d.Canonical(kind, in)
		if canon == "" {
			continue
		}
		key := NormKey(canon)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, canon)
	}
	return out
}
