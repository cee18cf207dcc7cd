package rules

// SourceTag identifies which selection contributed a proficiency, trait,
// bonus, or language so it can be selectively cleared and reapplied.
type SourceTag string

// Contribution tags
const (
	SourceTagRace       SourceTag = "Race"
	SourceTagClass      SourceTag = "Class"
	SourceTagSubclass   SourceTag = "Subclass"
	SourceTagBackground SourceTag = "Background"
)

// ProficiencyType categorizes an optional proficiency choice
type ProficiencyType string

// Proficiency types
const (
	ProficiencySkills    ProficiencyType = "skills"
	ProficiencyTools     ProficiencyType = "tools"
	ProficiencyLanguages ProficiencyType = "languages"
)

// AnyOption is the sentinel placed in a choice descriptor's From list when
// the raw data allows choosing from the full set (a fromFilter/any marker).
const AnyOption = "any"

// Ability names
const (
	AbilityStrength     = "strength"
	AbilityDexterity    = "dexterity"
	AbilityConstitution = "constitution"
	AbilityIntelligence = "intelligence"
	AbilityWisdom       = "wisdom"
	AbilityCharisma     = "charisma"
)

// Skill names
const (
	SkillAcrobatics     = "Acrobatics"
	SkillAnimalHandling = "Animal Handling"
	SkillArcana         = "Arcana"
	SkillAthletics      = "Athletics"
	SkillDeception      = "Deception"
	SkillHistory        = "History"
	SkillInsight        = "Insight"
	SkillIntimidation   = "Intimidation"
	SkillInvestigation  = "Investigation"
	SkillMedicine       = "Medicine"
	SkillNature         = "Nature"
	SkillPerception     = "Perception"
	SkillPerformance    = "Performance"
	SkillPersuasion     = "Persuasion"
	SkillReligion       = "Religion"
	SkillSleightOfHand  = "Sleight of Hand"
	SkillStealth        = "Stealth"
	SkillSurvival       = "Survival"
)

// AllSkills returns every skill name in display order. Callers may mutate
// the returned slice.
func AllSkills() []string {
	return []string{
		SkillAcrobatics, SkillAnimalHandling, SkillArcana, SkillAthletics,
		SkillDeception, SkillHistory, SkillInsight, SkillIntimidation,
		SkillInvestigation, SkillMedicine, SkillNature, SkillPerception,
		SkillPerformance, SkillPersuasion, SkillReligion, SkillSleightOfHand,
		SkillStealth, SkillSurvival,
	}
}

// CasterProgression categorizes how a class's spell slots grow with level
type CasterProgression string

// Caster progressions
const (
	CasterFull  CasterProgression = "full"
	CasterHalf  CasterProgression = "half"
	CasterThird CasterProgression = "third"
	CasterPact  CasterProgression = "pact"
)

// SourceGroup buckets a rulebook source for display ordering
type SourceGroup string

// Source groups, in display-priority order
const (
	GroupCore       SourceGroup = "core"
	GroupSetting    SourceGroup = "setting"
	GroupSupplement SourceGroup = "supplement"
	GroupPrerelease SourceGroup = "prerelease"
	GroupHomebrew   SourceGroup = "homebrew"
)
