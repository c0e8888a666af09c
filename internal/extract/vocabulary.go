package extract

// Vocabulary names the elements the extractor looks for.
type Vocabulary struct {
	Section    string `json:"section" yaml:"section"`
	Subsection string `json:"subsection" yaml:"subsection"`
	Head       string `json:"head" yaml:"head"`
	Paragraph  string `json:"paragraph" yaml:"paragraph"`
	Table      string `json:"table" yaml:"table"`
	Row        string `json:"row" yaml:"row"`
	Entry      string `json:"entry" yaml:"entry"`
	Cell       string `json:"cell" yaml:"cell"`

	NoSectionTitle    string `json:"no_section_title" yaml:"noSectionTitle"`
	NoSubsectionTitle string `json:"no_subsection_title" yaml:"noSubsectionTitle"`
}

const (
	NoSectionTitle    = "No Section Title"
	NoSubsectionTitle = "No Subsection Title"
)

// DefaultVocabulary returns the omsection/block document shape.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Section:           "omsection",
		Subsection:        "block",
		Head:              "head",
		Paragraph:         "para",
		Table:             "table",
		Row:               "row",
		Entry:             "entry",
		Cell:              "cell",
		NoSectionTitle:    NoSectionTitle,
		NoSubsectionTitle: NoSubsectionTitle,
	}
}

// WithDefaults fills empty fields from DefaultVocabulary.
func (v Vocabulary) WithDefaults() Vocabulary {
	d := DefaultVocabulary()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&v.Section, d.Section)
	fill(&v.Subsection, d.Subsection)
	fill(&v.Head, d.Head)
	fill(&v.Paragraph, d.Paragraph)
	fill(&v.Table, d.Table)
	fill(&v.Row, d.Row)
	fill(&v.Entry, d.Entry)
	fill(&v.Cell, d.Cell)
	fill(&v.NoSectionTitle, d.NoSectionTitle)
	fill(&v.NoSubsectionTitle, d.NoSubsectionTitle)
	return v
}
