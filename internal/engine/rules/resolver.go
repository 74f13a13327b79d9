package rules

import (
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
)

// Resolver answers which acceptance types a check may legally carry.
//
// Resolution order: the hard override table first, then the template index,
// then no restriction at all. Call sites never care which tier answered.
type Resolver interface {
	// AllowedTypes returns the governing set for a check, or nil when the
	// check is ungoverned (no override, no template entry).
	AllowedTypes(checkName string) []string
	// ClampTypes canonicalizes the requested types and intersects them with
	// the governing set when one exists.
	ClampTypes(checkName string, requested []string) []string
	// MergeTypes unions two type sets and re-clamps the union, so a merge
	// can never produce a combination the check does not support, even when
	// either input violated the rule through historical drift.
	MergeTypes(checkName string, current, incoming []string) []string
}

type resolver struct {
	dict      *vocab.Dictionary
	overrides map[string][]string
	templates *TemplateIndex
}

// NewResolver builds a Resolver. overrides maps check names (any spelling,
// keys are folded) to their fixed allowed-type lists; values pass through
// the dictionary so the table may be written in either language.
func NewResolver(dict *vocab.Dictionary, overrides map[string][]string, templates *TemplateIndex) Resolver {
	folded := make(map[string][]string, len(overrides))
	for name, types := range overrides {
		folded[FoldKey(name)] = dict.Canonicalize(vocab.KindType, types)
	}
	return &resolver{dict: dict, overrides: folded, templates: templates}
}

func (r *resolver) key(checkName string) string {
	return FoldKey(r.dict.Canonical(vocab.KindCheck, checkName))
}

func (r *resolver) AllowedTypes(checkName string) []string {
	key := r.key(checkName)
	if allowed, ok := r.overrides[key]; ok {
		return append([]string(nil), allowed...)
	}
	if r.templates != nil {
		if allowed, ok := r.templates.Lookup(key); ok {
			return append([]string(nil), allowed...)
		}
	}
	return nil
}

func (r *resolver) ClampTypes(checkName string, requested []string) []string {
	canon := r.dict.Canonicalize(vocab.KindType, requested)
	governing := r.AllowedTypes(checkName)
	if governing == nil {
		return canon
	}
	allowed := make(map[string]bool, len(governing))
	for _, t := range governing {
		allowed[vocab.NormKey(t)] = true
	}
	out := make([]string, 0, len(canon))
	for _, t := range canon {
		if allowed[vocab.NormKey(t)] {
			out = append(out, t)
		}
	}
	return out
}

func (r *resolver) MergeTypes(checkName string, current, incoming []string) []string {
	union := r.dict.Canonicalize(vocab.KindType, append(append([]string{}, current...), incoming...))
	if r.AllowedTypes(checkName) == nil {
		return union
	}
	return r.ClampTypes(checkName, union)
}
