// Package rules implements the character-builder rule entities
package rules

// TaggedValue is a proficiency, trait, language, or resistance together with
// the selection category that contributed it.
type TaggedValue struct {
	Value string    `json:"value"`
	Tag   SourceTag `json:"tag"`
}

// AbilityBonus is a tagged ability-score bonus
type AbilityBonus struct {
	Ability string    `json:"ability"`
	Amount  int       `json:"amount"`
	Tag     SourceTag `json:"tag"`
}

// ClassSelection is the character's chosen class
type ClassSelection struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Level    int    `json:"level"`
	Subclass string `json:"subclass,omitempty"`
}

// Character holds the mutable builder state this engine derives.
// NOTE: Character is a data-only struct with tagged add/clear mutators; all
// derivation (grants, combined choice views, progression) is done by the
// orchestrator and rules packages. A Character is not safe for concurrent
// mutation; callers serialize access per instance.
type Character struct {
	ID       string `json:"id"`
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name"`

	AllowedSources map[string]bool `json:"allowedSources"`

	Race             string         `json:"race,omitempty"`
	RaceSource       string         `json:"raceSource,omitempty"`
	Class            ClassSelection `json:"class"`
	Background       string         `json:"background,omitempty"`
	BackgroundSource string         `json:"backgroundSource,omitempty"`

	AbilityScores  map[string]int `json:"abilityScores"`
	AbilityBonuses []AbilityBonus `json:"abilityBonuses"`

	Proficiencies map[ProficiencyType][]TaggedValue `json:"proficiencies"`
	Traits        []TaggedValue                     `json:"traits"`
	Languages     []TaggedValue                     `json:"languages"`
	Resistances   []TaggedValue                     `json:"resistances"`

	OptionalProficiencies OptionalProficiencies `json:"optionalProficiencies"`

	CreatedAt int64 `json:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// NewCharacter returns a character with initialized containers
func NewCharacter(id string) *Character {
	return &Character{
		ID:             id,
		AllowedSources: make(map[string]bool),
		AbilityScores:  make(map[string]int),
		Proficiencies:  make(map[ProficiencyType][]TaggedValue),
	}
}

// AddProficiency records a fixed proficiency contributed by tag
func (c *Character) AddProficiency(t ProficiencyType, name string, tag SourceTag) {
	if c.Proficiencies == nil {
		c.Proficiencies = make(map[ProficiencyType][]TaggedValue)
	}
	for _, existing := range c.Proficiencies[t] {
		if existing.Value == name && existing.Tag == tag {
			return
		}
	}
	c.Proficiencies[t] = append(c.Proficiencies[t], TaggedValue{Value: name, Tag: tag})
}

// RemoveProficienciesBySource drops every proficiency contributed by tag
func (c *Character) RemoveProficienciesBySource(tag SourceTag) {
	for t, list := range c.Proficiencies {
		c.Proficiencies[t] = filterByTag(list, tag)
	}
}

// ProficiencyNames returns the distinct proficiency names of one type,
// regardless of which selection contributed them.
func (c *Character) ProficiencyNames(t ProficiencyType) []string {
	names := make([]string, 0, len(c.Proficiencies[t]))
	for _, tv := range c.Proficiencies[t] {
		names = append(names, tv.Value)
	}
	return UnionStrings(nil, names)
}

// AddAbilityBonus records a tagged ability-score bonus
func (c *Character) AddAbilityBonus(ability string, amount int, tag SourceTag) {
	c.AbilityBonuses = append(c.AbilityBonuses, AbilityBonus{Ability: ability, Amount: amount, Tag: tag})
}

// ClearAbilityBonuses drops bonuses contributed by tag
func (c *Character) ClearAbilityBonuses(tag SourceTag) {
	kept := c.AbilityBonuses[:0]
	for _, b := range c.AbilityBonuses {
		if b.Tag != tag {
			kept = append(kept, b)
		}
	}
	c.AbilityBonuses = kept
}

// TotalAbilityBonus sums the applied bonuses for one ability
func (c *Character) TotalAbilityBonus(ability string) int {
	total := 0
	for _, b := range c.AbilityBonuses {
		if b.Ability == ability {
			total += b.Amount
		}
	}
	return total
}

// AddTrait records a tagged trait
func (c *Character) AddTrait(name string, tag SourceTag) {
	c.Traits = append(c.Traits, TaggedValue{Value: name, Tag: tag})
}

// ClearTraits drops traits contributed by tag
func (c *Character) ClearTraits(tag SourceTag) {
	c.Traits = filterByTag(c.Traits, tag)
}

// AddLanguage records a tagged language
func (c *Character) AddLanguage(name string, tag SourceTag) {
	c.Languages = append(c.Languages, TaggedValue{Value: name, Tag: tag})
}

// ClearLanguages drops languages contributed by tag
func (c *Character) ClearLanguages(tag SourceTag) {
	c.Languages = filterByTag(c.Languages, tag)
}

// AddResistance records a tagged damage resistance
func (c *Character) AddResistance(name string, tag SourceTag) {
	c.Resistances = append(c.Resistances, TaggedValue{Value: name, Tag: tag})
}

// ClearResistances drops resistances contributed by tag
func (c *Character) ClearResistances(tag SourceTag) {
	c.Resistances = filterByTag(c.Resistances, tag)
}

func filterByTag(list []TaggedValue, tag SourceTag) []TaggedValue {
	kept := make([]TaggedValue, 0, len(list))
	for _, tv := range list {
		if tv.Tag != tag {
			kept = append(kept, tv)
		}
	}
	return kept
}
