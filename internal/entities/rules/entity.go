package rules

// RawEntity is a rulebook record exactly as authored in the upstream JSON
// dataset. The shape varies by source book and is never mutated in place;
// the normalizer reads it and produces a NormalizedEntity.
type RawEntity = map[string]any

// ChoiceDescriptor captures an unresolved "choose N from [...]" grant.
// From == [AnyOption] means the full set is offered.
type ChoiceDescriptor struct {
	Count int      `json:"count"`
	From  []string `json:"from"`
}

// Proficiencies is the canonical proficiency block of a normalized entity:
// fixed grants as plain names, plus at most one pending choice per type.
type Proficiencies struct {
	Skills    []string `json:"skills"`
	Tools     []string `json:"tools"`
	Languages []string `json:"languages"`
	Expertise []string `json:"expertise,omitempty"`

	SkillChoice    *ChoiceDescriptor `json:"skillChoice,omitempty"`
	ToolChoice     *ChoiceDescriptor `json:"toolChoice,omitempty"`
	LanguageChoice *ChoiceDescriptor `json:"languageChoice,omitempty"`
}

// Feature is a named ability granted by an entity
type Feature struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Requirements string `json:"requirements,omitempty"`
	Level        int    `json:"level,omitempty"`
}

// RollableEntry is one row of a characteristics table: the die value that
// selects it and the text it yields.
type RollableEntry struct {
	Roll        int    `json:"roll"`
	Description string `json:"description"`
}

// Characteristics holds the personality tables of a background
type Characteristics struct {
	PersonalityTraits []RollableEntry `json:"personalityTraits"`
	Ideals            []RollableEntry `json:"ideals"`
	Bonds             []RollableEntry `json:"bonds"`
	Flaws             []RollableEntry `json:"flaws"`
}

// IsEmpty reports whether no table has any entries
func (c Characteristics) IsEmpty() bool {
	return len(c.PersonalityTraits) == 0 && len(c.Ideals) == 0 &&
		len(c.Bonds) == 0 && len(c.Flaws) == 0
}

// EquipmentItem is a single entry in a starting-equipment option
type EquipmentItem struct {
	Type   string `json:"type"` // "item" or "currency"
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
	Value  int    `json:"value,omitempty"`
}

// EquipmentOptionSet maps an option letter ("a", "b", ...) to the items
// granted when that option is taken.
type EquipmentOptionSet struct {
	Label   string                     `json:"label,omitempty"`
	Options map[string][]EquipmentItem `json:"options"`
}

// AbilityScoreChoice is an ability-score bonus grant, fixed or chosen
type AbilityScoreChoice struct {
	Ability string            `json:"ability,omitempty"` // empty when Choose is set
	Amount  int               `json:"amount"`
	Choose  *ChoiceDescriptor `json:"choose,omitempty"`
}

// FeatDescriptor is a feat grant, either a fixed feat or a choice
type FeatDescriptor struct {
	Name   string            `json:"name,omitempty"`
	Source string            `json:"source,omitempty"`
	Choose *ChoiceDescriptor `json:"choose,omitempty"`
}

// Variant is an alternate version of an entity, discovered either from an
// explicit variants field or from sibling copy-entries.
type Variant struct {
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	Features    []Feature `json:"features,omitempty"`
}

// Fluff holds flavor text and art for an entity
type Fluff struct {
	Entries []string `json:"entries,omitempty"`
	Images  []string `json:"images,omitempty"`
}

// NormalizedEntity is the canonical shape every raw entity is reduced to.
// Built once per load and cached by ID; invalidated when the underlying raw
// data or the allowed-source set changes.
type NormalizedEntity struct {
	ID     string `json:"id"` // slug of name+source
	Name   string `json:"name"`
	Source string `json:"source"`
	Page   int    `json:"page,omitempty"`

	Description       string               `json:"description"`
	Proficiencies     Proficiencies        `json:"proficiencies"`
	StartingEquipment []EquipmentOptionSet `json:"startingEquipment,omitempty"`
	Features          []Feature            `json:"features,omitempty"`
	Characteristics   Characteristics      `json:"characteristics"`
	Variants          []Variant            `json:"variants,omitempty"`
	Fluff             Fluff                `json:"fluff"`
	AbilityScores     []AbilityScoreChoice `json:"abilityScores,omitempty"`
	Feats             []FeatDescriptor     `json:"feats,omitempty"`
	Resistances       []string             `json:"resistances,omitempty"`
	Speed             int                  `json:"speed,omitempty"`
	Size              []string             `json:"size,omitempty"`
}
