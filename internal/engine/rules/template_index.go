package rules

import (
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
)

// TemplateIndex holds the allowed-type lists configured on workflow
// template checks, keyed by folded check name. When the same check name
// appears in several templates with conflicting lists, the shorter
// (stricter) list wins; ties keep the first-encountered list.
type TemplateIndex struct {
	dict    *vocab.Dictionary
	allowed map[string][]string
}

func NewTemplateIndex(dict *vocab.Dictionary) *TemplateIndex {
	return &TemplateIndex{dict: dict, allowed: map[string][]string{}}
}

// Add registers one template check. Call in template order; encounter
// order is the tie-break.
func (ti *TemplateIndex) Add(checkName string, allowedTypes []string) {
	key := FoldKey(ti.dict.Canonical(vocab.KindCheck, checkName))
	if key == "" {
		return
	}
	canon := ti.dict.Canonicalize(vocab.KindType, allowedTypes)
	if len(canon) == 0 {
		return
	}
	existing, ok := ti.allowed[key]
	if ok && len(existing) <= len(canon) {
		return
	}
	ti.allowed[key] = canon
}

// Lookup returns the allowed set for a folded check-name key.
func (ti *TemplateIndex) Lookup(key string) ([]string, bool) {
	allowed, ok := ti.allowed[key]
	return allowed, ok
}

// Len reports how many governed checks the index holds.
func (ti *TemplateIndex) Len() int { return len(ti.allowed) }
