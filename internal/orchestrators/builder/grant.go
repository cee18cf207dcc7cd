package builder

import (
	"github.com/hearthforge/rulebook-api/internal/entities/rules"
)

// Grant is the bundle of fixed and optional proficiencies, bonuses, and
// traits one selection contributes. The aggregator always applies a full
// Grant after clearing the tag's prior contributions; it never diffs.
type Grant struct {
	Skills    []string
	Tools     []string
	Languages []string

	SkillChoice    *rules.ChoiceDescriptor
	ToolChoice     *rules.ChoiceDescriptor
	LanguageChoice *rules.ChoiceDescriptor

	AbilityScores []rules.AbilityScoreChoice
	Resistances   []string
	Traits        []string
}

// GrantFromEntity builds the grant a normalized race or background
// contributes.
func GrantFromEntity(entity *rules.NormalizedEntity) Grant {
	grant := Grant{
		Skills:    entity.Proficiencies.Skills,
		Tools:     entity.Proficiencies.Tools,
		Languages: entity.Proficiencies.Languages,

		SkillChoice:    entity.Proficiencies.SkillChoice,
		ToolChoice:     entity.Proficiencies.ToolChoice,
		LanguageChoice: entity.Proficiencies.LanguageChoice,

		AbilityScores: entity.AbilityScores,
		Resistances:   entity.Resistances,
	}
	for _, feature := range entity.Features {
		grant.Traits = append(grant.Traits, feature.Name)
	}
	return grant
}

// choiceFor returns the grant's pending choice for one proficiency type
func (g Grant) choiceFor(t rules.ProficiencyType) *rules.ChoiceDescriptor {
	switch t {
	case rules.ProficiencySkills:
		return g.SkillChoice
	case rules.ProficiencyTools:
		return g.ToolChoice
	case rules.ProficiencyLanguages:
		return g.LanguageChoice
	default:
		return nil
	}
}

// fixedFor returns the grant's fixed names for one proficiency type
func (g Grant) fixedFor(t rules.ProficiencyType) []string {
	switch t {
	case rules.ProficiencySkills:
		return g.Skills
	case rules.ProficiencyTools:
		return g.Tools
	case rules.ProficiencyLanguages:
		return g.Languages
	default:
		return nil
	}
}

// expandOptions resolves the any-option sentinel to the concrete option
// set. Only skills have a closed universe; open tool and language choices
// keep the sentinel for the presentation layer to resolve.
func expandOptions(t rules.ProficiencyType, from []string) []string {
	if len(from) == 1 && from[0] == rules.AnyOption && t == rules.ProficiencySkills {
		return rules.AllSkills()
	}
	return append([]string(nil), from...)
}
