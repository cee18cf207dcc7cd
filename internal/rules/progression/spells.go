package progression

import (
	"github.com/hearthforge/rulebook-api/internal/entities/rules"
)

// Known-spell and cantrip curves per caster progression. These are the
// representative curves for each progression category; classes that
// prepare spells instead of knowing them ignore the spells-known curve.

var cantripsKnownByLevel = map[rules.CasterProgression][MaxLevel]int{
	rules.CasterFull: {
		3, 3, 3, 4, 4, 4, 4, 4, 4, 5,
		5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	},
	rules.CasterThird: {
		0, 0, 2, 2, 2, 2, 2, 2, 2, 3,
		3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	},
	rules.CasterPact: {
		2, 2, 2, 3, 3, 3, 3, 3, 3, 4,
		4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	},
}

var spellsKnownByLevel = map[rules.CasterProgression][MaxLevel]int{
	rules.CasterFull: {
		2, 3, 4, 5, 6, 7, 8, 9, 10, 11,
		12, 12, 13, 13, 14, 14, 15, 15, 15, 15,
	},
	rules.CasterHalf: {
		0, 2, 3, 3, 4, 4, 5, 5, 6, 6,
		7, 7, 8, 8, 9, 9, 10, 10, 11, 11,
	},
	rules.CasterThird: {
		0, 0, 3, 4, 4, 4, 5, 6, 6, 7,
		8, 8, 9, 10, 10, 11, 11, 11, 12, 13,
	},
	rules.CasterPact: {
		2, 3, 4, 5, 6, 7, 8, 9, 10, 10,
		11, 11, 12, 12, 13, 13, 14, 14, 15, 15,
	},
}

// CantripsKnown returns the number of cantrips a caster of the given
// progression knows at a character level. Half casters and out-of-range
// levels get zero.
func CantripsKnown(progression rules.CasterProgression, level int) int {
	return curveAt(cantripsKnownByLevel, progression, level)
}

// SpellsKnown returns the number of leveled spells known at a character
// level for progressions that track known spells.
func SpellsKnown(progression rules.CasterProgression, level int) int {
	return curveAt(spellsKnownByLevel, progression, level)
}

func curveAt(curves map[rules.CasterProgression][MaxLevel]int, progression rules.CasterProgression, level int) int {
	if level < 1 || level > MaxLevel {
		return 0
	}
	curve, ok := curves[progression]
	if !ok {
		return 0
	}
	return curve[level-1]
}
