// Package progression computes level-gated class data: spell slots,
// proficiency bonus, feature unlocks, and the per-class exception tables
// for ability score improvements and subclass selection. Everything here
// is a pure lookup over immutable tables; out-of-range levels yield zero
// values, never errors.
package progression

import (
	"strings"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
)

// MaxLevel is the highest character level the tables cover
const MaxLevel = 20

// SlotColumns is the number of spell levels a full caster can reach
const SlotColumns = 9

// fullCasterSlots is the standard slot table for full casters, one row per
// character level, columns indexed by spell level 1-9. Half and third
// casters derive their rows from this table via effective level.
var fullCasterSlots = [MaxLevel][SlotColumns]int{
	{2, 0, 0, 0, 0, 0, 0, 0, 0},
	{3, 0, 0, 0, 0, 0, 0, 0, 0},
	{4, 2, 0, 0, 0, 0, 0, 0, 0},
	{4, 3, 0, 0, 0, 0, 0, 0, 0},
	{4, 3, 2, 0, 0, 0, 0, 0, 0},
	{4, 3, 3, 0, 0, 0, 0, 0, 0},
	{4, 3, 3, 1, 0, 0, 0, 0, 0},
	{4, 3, 3, 2, 0, 0, 0, 0, 0},
	{4, 3, 3, 3, 1, 0, 0, 0, 0},
	{4, 3, 3, 3, 2, 0, 0, 0, 0},
	{4, 3, 3, 3, 2, 1, 0, 0, 0},
	{4, 3, 3, 3, 2, 1, 0, 0, 0},
	{4, 3, 3, 3, 2, 1, 1, 0, 0},
	{4, 3, 3, 3, 2, 1, 1, 0, 0},
	{4, 3, 3, 3, 2, 1, 1, 1, 0},
	{4, 3, 3, 3, 2, 1, 1, 1, 0},
	{4, 3, 3, 3, 2, 1, 1, 1, 1},
	{4, 3, 3, 3, 3, 1, 1, 1, 1},
	{4, 3, 3, 3, 3, 2, 1, 1, 1},
	{4, 3, 3, 3, 3, 2, 2, 1, 1},
}

// PactSlots is a pact-magic allotment: all slots share one spell level
type PactSlots struct {
	Count int `json:"count"`
	Level int `json:"level"`
}

// pactMagicSlots is indexed by character level 1-11; levels past 11 reuse
// the last row.
var pactMagicSlots = [11]PactSlots{
	{Count: 1, Level: 1},
	{Count: 2, Level: 1},
	{Count: 2, Level: 2},
	{Count: 2, Level: 2},
	{Count: 2, Level: 3},
	{Count: 2, Level: 3},
	{Count: 2, Level: 4},
	{Count: 2, Level: 4},
	{Count: 2, Level: 5},
	{Count: 2, Level: 5},
	{Count: 3, Level: 5},
}

// slotColumnsFor is how many spell levels each progression can reach
func slotColumnsFor(progression rules.CasterProgression) int {
	switch progression {
	case rules.CasterHalf:
		return 5
	case rules.CasterThird:
		return 4
	default:
		return SlotColumns
	}
}

// minimumCasterLevel is the character level at which each progression
// first gains slots.
func minimumCasterLevel(progression rules.CasterProgression) int {
	switch progression {
	case rules.CasterHalf:
		return 2
	case rules.CasterThird:
		return 3
	default:
		return 1
	}
}

// SpellSlots returns the slot counts per spell level for a leveled
// (non-pact) caster. The slice length depends on the progression: 9 for
// full casters, 5 for half, 4 for third. Pact casters and out-of-range
// levels get an all-zero row.
func SpellSlots(progression rules.CasterProgression, level int) []int {
	columns := slotColumnsFor(progression)
	slots := make([]int, columns)

	if progression == rules.CasterPact || progression == "" {
		return slots
	}
	if level < minimumCasterLevel(progression) || level > MaxLevel {
		return slots
	}

	effective := level
	switch progression {
	case rules.CasterHalf:
		effective = (level + 1) / 2
	case rules.CasterThird:
		effective = (level + 2) / 3
	}

	row := fullCasterSlots[effective-1]
	copy(slots, row[:columns])
	return slots
}

// PactMagicSlots returns the pact-magic allotment at a character level.
// Levels past the table's last row keep its values; out-of-range levels
// get zero.
func PactMagicSlots(level int) PactSlots {
	if level < 1 {
		return PactSlots{}
	}
	if level > len(pactMagicSlots) {
		level = len(pactMagicSlots)
	}
	return pactMagicSlots[level-1]
}

// ProficiencyBonus returns the bonus at a character level: +2 below 5,
// then one higher per four levels. Out-of-range levels get zero.
func ProficiencyBonus(level int) int {
	if level < 1 || level > MaxLevel {
		return 0
	}
	return 2 + (level-1)/4
}

// standardASILevels is the default ability-score-improvement schedule
var standardASILevels = []int{4, 8, 12, 16, 19}

// asiOverrides holds the classes whose ASI schedule deviates from the
// standard. Kept as an explicit lookup table so the exceptions stay
// auditable in one place.
var asiOverrides = map[string][]int{
	"fighter": {4, 6, 8, 12, 14, 16, 19},
	"rogue":   {4, 8, 10, 12, 16, 19},
}

// ASILevels returns the levels at which a class gains an ability score
// improvement.
func ASILevels(className string) []int {
	if override, ok := asiOverrides[normalizeClassName(className)]; ok {
		return append([]int(nil), override...)
	}
	return append([]int(nil), standardASILevels...)
}

// IsASILevel reports whether a class gains an ability score improvement
// at exactly the given level.
func IsASILevel(className string, level int) bool {
	for _, asi := range ASILevels(className) {
		if asi == level {
			return true
		}
	}
	return false
}

// subclassLevelOverrides holds the classes that choose a subclass at a
// level other than the default.
var subclassLevelOverrides = map[string]int{
	"cleric":   1,
	"sorcerer": 1,
	"warlock":  1,
}

// defaultSubclassLevel is when most classes pick a subclass
const defaultSubclassLevel = 3

// SubclassLevel returns the level at which a class selects its subclass
func SubclassLevel(className string) int {
	if level, ok := subclassLevelOverrides[normalizeClassName(className)]; ok {
		return level
	}
	return defaultSubclassLevel
}

// FeaturesAtLevel returns every feature unlocked by the given level,
// cumulatively. Features without a declared level count as level 1.
func FeaturesAtLevel(features []rules.Feature, level int) []rules.Feature {
	var unlocked []rules.Feature
	for _, feature := range features {
		if featureLevel(feature) <= level {
			unlocked = append(unlocked, feature)
		}
	}
	return unlocked
}

// FeaturesNewAtLevel returns only the features unlocked at exactly the
// given level.
func FeaturesNewAtLevel(features []rules.Feature, level int) []rules.Feature {
	var unlocked []rules.Feature
	for _, feature := range features {
		if featureLevel(feature) == level {
			unlocked = append(unlocked, feature)
		}
	}
	return unlocked
}

func featureLevel(feature rules.Feature) int {
	if feature.Level < 1 {
		return 1
	}
	return feature.Level
}

func normalizeClassName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
