package rules

// ContentSection describes one section of a rulebook source's table of
// contents. Headers are subsection titles when present.
type ContentSection struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers,omitempty"`
}

// Source is a rulebook/content pack gating which entities are visible.
// Immutable once loaded; identified by its uppercase ID.
type Source struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Abbreviation   string           `json:"abbreviation"`
	Group          SourceGroup      `json:"group"`
	IsCore         bool             `json:"isCore"`
	Version        string           `json:"version"`
	HasErrata      bool             `json:"hasErrata"`
	TargetLanguage string           `json:"targetLanguage"`
	Contents       []ContentSection `json:"contents"`
	IsDefault      bool             `json:"isDefault"`
}

// GroupRank returns the display-priority rank for the source's group.
// Lower ranks sort first; unknown groups sink to the bottom.
func (s *Source) GroupRank() int {
	switch s.Group {
	case GroupCore:
		return 0
	case GroupSetting:
		return 1
	case GroupSupplement:
		return 2
	case GroupPrerelease:
		return 3
	case GroupHomebrew:
		return 4
	default:
		return 5
	}
}
