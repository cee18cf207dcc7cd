package rules

// ChoiceSlot tracks an in-progress optional proficiency choice for one
// contributing category. Selected may transiently exceed Allowed or contain
// entries outside Options while a recompute is in flight; the combined view
// enforces the invariants.
type ChoiceSlot struct {
	Allowed  int      `json:"allowed"`
	Options  []string `json:"options"`
	Selected []string `json:"selected"`
}

// Reset empties the slot
func (s *ChoiceSlot) Reset() {
	s.Allowed = 0
	s.Options = []string{}
	s.Selected = []string{}
}

// IsEmpty reports whether the slot grants nothing
func (s *ChoiceSlot) IsEmpty() bool {
	return s.Allowed == 0 && len(s.Options) == 0 && len(s.Selected) == 0
}

// ChoiceSlotGroup holds the per-category slots for one proficiency type and
// the combined view derived from them. Combined is a cache, not
// independently authoritative; call Recombine after any category changes.
type ChoiceSlotGroup struct {
	Race       ChoiceSlot `json:"race"`
	Class      ChoiceSlot `json:"class"`
	Subclass   ChoiceSlot `json:"subclass"`
	Background ChoiceSlot `json:"background"`
	Combined   ChoiceSlot `json:"combined"`
}

// Category returns the slot for a contribution tag, or nil for unknown tags.
// Subclass contributions get their own slot so a subclass grant never
// disturbs the class's options or the user's class picks.
func (g *ChoiceSlotGroup) Category(tag SourceTag) *ChoiceSlot {
	switch tag {
	case SourceTagRace:
		return &g.Race
	case SourceTagClass:
		return &g.Class
	case SourceTagSubclass:
		return &g.Subclass
	case SourceTagBackground:
		return &g.Background
	default:
		return nil
	}
}

// Recombine rebuilds the combined view: allowed is the sum of category
// allowances, options the union of category options, and selected the union
// of category selections intersected with the combined options.
func (g *ChoiceSlotGroup) Recombine() {
	combined := ChoiceSlot{Options: []string{}, Selected: []string{}}

	for _, slot := range []*ChoiceSlot{&g.Race, &g.Class, &g.Subclass, &g.Background} {
		combined.Allowed += slot.Allowed
		combined.Options = UnionStrings(combined.Options, slot.Options)
		combined.Selected = UnionStrings(combined.Selected, slot.Selected)
	}

	combined.Selected = IntersectStrings(combined.Selected, combined.Options)
	if len(combined.Selected) > combined.Allowed {
		combined.Selected = combined.Selected[:combined.Allowed]
	}

	g.Combined = combined
}

// OptionalProficiencies is the full optional-choice tree for a character
type OptionalProficiencies struct {
	Skills    ChoiceSlotGroup `json:"skills"`
	Tools     ChoiceSlotGroup `json:"tools"`
	Languages ChoiceSlotGroup `json:"languages"`
}

// Group returns the slot group for a proficiency type, or nil
func (o *OptionalProficiencies) Group(t ProficiencyType) *ChoiceSlotGroup {
	switch t {
	case ProficiencySkills:
		return &o.Skills
	case ProficiencyTools:
		return &o.Tools
	case ProficiencyLanguages:
		return &o.Languages
	default:
		return nil
	}
}

// RecombineAll rebuilds every combined view
func (o *OptionalProficiencies) RecombineAll() {
	o.Skills.Recombine()
	o.Tools.Recombine()
	o.Languages.Recombine()
}

// UnionStrings appends elements of b not already in a, preserving
// first-seen order and dropping duplicates.
func UnionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	result := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}

// IntersectStrings keeps the elements of a that are present in b,
// preserving a's order. The aggregator uses this to carry valid prior
// selections across a re-grant.
func IntersectStrings(a, b []string) []string {
	allowed := make(map[string]bool, len(b))
	for _, s := range b {
		allowed[s] = true
	}

	result := make([]string, 0, len(a))
	for _, s := range a {
		if allowed[s] {
			result = append(result, s)
		}
	}
	return result
}
