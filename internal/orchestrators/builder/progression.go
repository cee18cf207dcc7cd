package builder

import (
	"context"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/errors"
	"github.com/hearthforge/rulebook-api/internal/normalizer"
	"github.com/hearthforge/rulebook-api/internal/rules/progression"
)

// GetProgressionInput defines the input for computing level-gated data
type GetProgressionInput struct {
	CharacterID string
	Class       *normalizer.NormalizedClass
}

// GetProgressionOutput is the level-gated view of a character's class
type GetProgressionOutput struct {
	Level            int
	ProficiencyBonus int

	SpellSlots []int
	PactMagic  *progression.PactSlots

	CantripsKnown int
	SpellsKnown   int

	Features      []rules.Feature
	ASILevels     []int
	SubclassLevel int
}

// GetProgression computes the character's level-gated class data from the
// progression tables.
func (o *Orchestrator) GetProgression(ctx context.Context, input *GetProgressionInput) (*GetProgressionOutput, error) {
	if input == nil || input.Class == nil {
		return nil, errors.InvalidArgument("class is required")
	}

	charOut, err := o.GetCharacter(ctx, &GetCharacterInput{CharacterID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := charOut.Character

	if char.Class.Name == "" {
		return nil, errors.FailedPrecondition("character has no class selected")
	}
	level := char.Class.Level

	out := &GetProgressionOutput{
		Level:            level,
		ProficiencyBonus: progression.ProficiencyBonus(level),
		CantripsKnown:    progression.CantripsKnown(input.Class.Caster, level),
		SpellsKnown:      progression.SpellsKnown(input.Class.Caster, level),
		Features:         progression.FeaturesAtLevel(input.Class.Features, level),
		ASILevels:        progression.ASILevels(char.Class.Name),
		SubclassLevel:    progression.SubclassLevel(char.Class.Name),
	}

	if input.Class.Caster == rules.CasterPact {
		pact := progression.PactMagicSlots(level)
		out.PactMagic = &pact
	} else if input.Class.Caster != "" {
		out.SpellSlots = progression.SpellSlots(input.Class.Caster, level)
	}

	return out, nil
}
