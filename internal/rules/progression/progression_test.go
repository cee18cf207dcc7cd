package progression_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/rules/progression"
)

type ProgressionTestSuite struct {
	suite.Suite
}

func TestProgressionSuite(t *testing.T) {
	suite.Run(t, new(ProgressionTestSuite))
}

func (s *ProgressionTestSuite) TestFullCasterSlotBoundaries() {
	s.Equal([]int{2, 0, 0, 0, 0, 0, 0, 0, 0}, progression.SpellSlots(rules.CasterFull, 1))
	s.Equal([]int{4, 3, 3, 3, 3, 2, 2, 1, 1}, progression.SpellSlots(rules.CasterFull, 20))
}

func (s *ProgressionTestSuite) TestHalfCasterBelowMinimum() {
	s.Equal([]int{0, 0, 0, 0, 0}, progression.SpellSlots(rules.CasterHalf, 1))
}

func (s *ProgressionTestSuite) TestHalfCasterEffectiveLevel() {
	// level 5 half caster casts as an effective level 3 full caster
	s.Equal([]int{4, 2, 0, 0, 0}, progression.SpellSlots(rules.CasterHalf, 5))
	// half casters cap at 5th-level spells
	s.Equal([]int{4, 3, 3, 3, 2}, progression.SpellSlots(rules.CasterHalf, 20))
}

func (s *ProgressionTestSuite) TestThirdCasterBelowMinimum() {
	s.Equal([]int{0, 0, 0, 0}, progression.SpellSlots(rules.CasterThird, 2))
}

func (s *ProgressionTestSuite) TestThirdCasterEffectiveLevel() {
	s.Equal([]int{2, 0, 0, 0}, progression.SpellSlots(rules.CasterThird, 3))
	// level 20 third caster casts as an effective level 7 full caster
	s.Equal([]int{4, 3, 3, 1}, progression.SpellSlots(rules.CasterThird, 20))
}

func (s *ProgressionTestSuite) TestSpellSlotsOutOfRange() {
	s.Equal([]int{0, 0, 0, 0, 0, 0, 0, 0, 0}, progression.SpellSlots(rules.CasterFull, 0))
	s.Equal([]int{0, 0, 0, 0, 0, 0, 0, 0, 0}, progression.SpellSlots(rules.CasterFull, 21))
}

func (s *ProgressionTestSuite) TestPactMagicSlots() {
	s.Equal(progression.PactSlots{Count: 1, Level: 1}, progression.PactMagicSlots(1))
	s.Equal(progression.PactSlots{Count: 2, Level: 3}, progression.PactMagicSlots(5))
	s.Equal(progression.PactSlots{Count: 3, Level: 5}, progression.PactMagicSlots(11))
	// the table caps at its last row
	s.Equal(progression.PactSlots{Count: 3, Level: 5}, progression.PactMagicSlots(20))
	s.Equal(progression.PactSlots{}, progression.PactMagicSlots(0))
}

func (s *ProgressionTestSuite) TestProficiencyBonus() {
	cases := map[int]int{
		1: 2, 4: 2,
		5: 3, 8: 3,
		9: 4, 12: 4,
		13: 5, 16: 5,
		17: 6, 20: 6,
	}
	for level, want := range cases {
		s.Equal(want, progression.ProficiencyBonus(level), "level %d", level)
	}
	s.Zero(progression.ProficiencyBonus(0))
	s.Zero(progression.ProficiencyBonus(21))
}

func (s *ProgressionTestSuite) TestASILevels() {
	s.Equal([]int{4, 8, 12, 16, 19}, progression.ASILevels("Wizard"))
	s.Equal([]int{4, 6, 8, 12, 14, 16, 19}, progression.ASILevels("Fighter"))
	s.Equal([]int{4, 8, 10, 12, 16, 19}, progression.ASILevels("rogue"))

	s.True(progression.IsASILevel("Fighter", 6))
	s.False(progression.IsASILevel("Wizard", 6))
}

func (s *ProgressionTestSuite) TestASILevelsReturnsCopy() {
	first := progression.ASILevels("Fighter")
	first[0] = 99
	s.Equal([]int{4, 6, 8, 12, 14, 16, 19}, progression.ASILevels("Fighter"))
}

func (s *ProgressionTestSuite) TestSubclassLevel() {
	s.Equal(3, progression.SubclassLevel("Barbarian"))
	s.Equal(1, progression.SubclassLevel("Cleric"))
	s.Equal(1, progression.SubclassLevel("Sorcerer"))
	s.Equal(1, progression.SubclassLevel("warlock"))
	s.Equal(3, progression.SubclassLevel("unknown class"))
}

func (s *ProgressionTestSuite) TestFeaturesAtLevel() {
	features := []rules.Feature{
		{Name: "Favored Enemy", Level: 1},
		{Name: "Fighting Style", Level: 2},
		{Name: "Ranger Archetype", Level: 3},
		{Name: "Ability Score Improvement", Level: 4},
		{Name: "Untagged"}, // no level counts as level 1
	}

	atTwo := progression.FeaturesAtLevel(features, 2)
	s.Len(atTwo, 3)

	newAtThree := progression.FeaturesNewAtLevel(features, 3)
	s.Require().Len(newAtThree, 1)
	s.Equal("Ranger Archetype", newAtThree[0].Name)

	s.Empty(progression.FeaturesNewAtLevel(features, 10))
	s.Len(progression.FeaturesAtLevel(features, 20), 5)
	s.Empty(progression.FeaturesAtLevel(features, 0))
}

func (s *ProgressionTestSuite) TestCantripsKnown() {
	s.Equal(3, progression.CantripsKnown(rules.CasterFull, 1))
	s.Equal(5, progression.CantripsKnown(rules.CasterFull, 10))
	s.Zero(progression.CantripsKnown(rules.CasterHalf, 10))
	s.Zero(progression.CantripsKnown(rules.CasterThird, 2))
	s.Equal(2, progression.CantripsKnown(rules.CasterThird, 3))
	s.Zero(progression.CantripsKnown(rules.CasterFull, 0))
	s.Zero(progression.CantripsKnown(rules.CasterFull, 21))
}

func (s *ProgressionTestSuite) TestSpellsKnown() {
	s.Equal(2, progression.SpellsKnown(rules.CasterPact, 1))
	s.Equal(11, progression.SpellsKnown(rules.CasterPact, 11))
	s.Zero(progression.SpellsKnown(rules.CasterHalf, 1))
	s.Equal(2, progression.SpellsKnown(rules.CasterHalf, 2))
	s.Zero(progression.SpellsKnown("", 5))
}
