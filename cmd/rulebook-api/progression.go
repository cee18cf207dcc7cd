package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/errors"
	"github.com/hearthforge/rulebook-api/internal/rules/progression"
)

var (
	progressionClass  string
	progressionCaster string
	progressionLevel  int
)

var progressionCmd = &cobra.Command{
	Use:   "progression",
	Short: "Show level-gated class data",
	RunE:  runProgression,
}

func init() {
	progressionCmd.Flags().StringVar(&progressionClass, "class", "", "class name (for ASI/subclass exception tables)")
	progressionCmd.Flags().StringVar(&progressionCaster, "caster", "", "caster progression: full, half, third, or pact")
	progressionCmd.Flags().IntVar(&progressionLevel, "level", 1, "character level")
}

func runProgression(_ *cobra.Command, _ []string) error {
	if progressionLevel < 1 || progressionLevel > progression.MaxLevel {
		return errors.OutOfRangef("level must be between 1 and %d", progression.MaxLevel)
	}

	fmt.Printf("level %d\n", progressionLevel)
	fmt.Printf("proficiency bonus: +%d\n", progression.ProficiencyBonus(progressionLevel))

	if progressionClass != "" {
		fmt.Printf("ASI levels: %v\n", progression.ASILevels(progressionClass))
		fmt.Printf("subclass at level: %d\n", progression.SubclassLevel(progressionClass))
	}

	switch caster := rules.CasterProgression(progressionCaster); caster {
	case "":
	case rules.CasterPact:
		slots := progression.PactMagicSlots(progressionLevel)
		fmt.Printf("pact magic: %d slots of level %d\n", slots.Count, slots.Level)
		fmt.Printf("cantrips known: %d\n", progression.CantripsKnown(caster, progressionLevel))
		fmt.Printf("spells known: %d\n", progression.SpellsKnown(caster, progressionLevel))
	case rules.CasterFull, rules.CasterHalf, rules.CasterThird:
		fmt.Printf("spell slots: %v\n", progression.SpellSlots(caster, progressionLevel))
		fmt.Printf("cantrips known: %d\n", progression.CantripsKnown(caster, progressionLevel))
	default:
		return errors.InvalidArgumentf("unknown caster progression %q", progressionCaster)
	}

	return nil
}
