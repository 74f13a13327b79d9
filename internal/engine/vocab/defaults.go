package vocab

// DefaultEntries is the built-in bilingual dictionary. Field staff enter
// vocabulary in French or Chinese with arbitrary casing; everything here
// collapses onto the French display forms used in official reports.
func DefaultEntries() []Entry {
	return []Entry{
		// Layers
		{Kind: KindLayer, Canonical: "Fondation", Synonyms: []string{"couche de fondation", "fondation", "基层"}},
		{Kind: KindLayer, Canonical: "Base", Synonyms: []string{"couche de base", "底基层"}},
		{Kind: KindLayer, Canonical: "Forme", Synonyms: []string{"couche de forme", "路床"}},
		{Kind: KindLayer, Canonical: "Roulement", Synonyms: []string{"couche de roulement", "面层", "磨耗层"}},
		{Kind: KindLayer, Canonical: "Imprégnation", Synonyms: []string{"impregnation", "couche d'imprégnation", "透层"}},
		{Kind: KindLayer, Canonical: "Accotement", Synonyms: []string{"accotements", "路肩"}},
		{Kind: KindLayer, Canonical: "Remblai", Synonyms: []string{"remblais", "填方"}},
		{Kind: KindLayer, Canonical: "Déblai", Synonyms: []string{"deblai", "déblais", "挖方"}},

		// Checks
		{Kind: KindCheck, Canonical: "Épaisseur", Synonyms: []string{"epaisseur", "contrôle épaisseur", "厚度"}},
		{Kind: KindCheck, Canonical: "Géométrie", Synonyms: []string{"geometrie", "contrôle géométrique", "几何尺寸"}},
		{Kind: KindCheck, Canonical: "Compactage", Synonyms: []string{"compacité", "compacite", "essai de compactage", "压实度"}},
		{Kind: KindCheck, Canonical: "Nivellement", Synonyms: []string{"niveau", "平整度", "高程"}},
		{Kind: KindCheck, Canonical: "Portance", Synonyms: []string{"essai de portance", "承载力", "弯沉"}},
		{Kind: KindCheck, Canonical: "Propreté", Synonyms: []string{"proprete", "清洁度"}},

		// Acceptance types
		{Kind: KindType, Canonical: "Visuel", Synonyms: []string{"visuelle", "contrôle visuel", "外观", "目测"}},
		{Kind: KindType, Canonical: "Géométrie", Synonyms: []string{"geometrie", "测量", "几何"}},
		{Kind: KindType, Canonical: "Essai", Synonyms: []string{"essai laboratoire", "essais", "试验", "检测"}},
		{Kind: KindType, Canonical: "Documentaire", Synonyms: []string{"documents", "dossier", "资料"}},
	}
}

// Default builds the dictionary from the built-in entries alone.
func Default() *Dictionary {
	return New(DefaultEntries())
}
