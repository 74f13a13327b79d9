package rules

// DefaultOverrides is the hard safety table: checks whose allowed
// acceptance types must never depend on template data. A misconfigured
// workflow template cannot widen what these checks may self-certify.
func DefaultOverrides() map[string][]string {
	return map[string][]string{
		// Compaction and bearing capacity are lab-test only.
		"Compactage": {"Essai"},
		"Portance":   {"Essai"},
		// Thickness may be measured or lab-verified, never visual-only.
		"Épaisseur": {"Géométrie", "Essai"},
	}
}
