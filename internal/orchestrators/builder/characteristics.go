package builder

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/errors"
)

// RollCharacteristicsInput defines the input for rolling suggested
// characteristics off a background's tables.
type RollCharacteristicsInput struct {
	Background *rules.NormalizedEntity
}

// RollCharacteristicsOutput holds one rolled entry per table. Tables the
// background does not carry come back empty.
type RollCharacteristicsOutput struct {
	PersonalityTrait string
	Ideal            string
	Bond             string
	Flaw             string
}

// RollCharacteristics rolls once on each of a background's suggested
// characteristics tables. It does not mutate any character; the caller
// decides whether to keep the results.
func (o *Orchestrator) RollCharacteristics(_ context.Context, input *RollCharacteristicsInput) (*RollCharacteristicsOutput, error) {
	if input == nil || input.Background == nil {
		return nil, errors.InvalidArgument("background is required")
	}

	chars := input.Background.Characteristics
	if chars.IsEmpty() {
		return nil, errors.NotFoundf("background %s has no characteristics tables", input.Background.Name)
	}

	out := &RollCharacteristicsOutput{}
	tables := []struct {
		entries []rules.RollableEntry
		target  *string
	}{
		{chars.PersonalityTraits, &out.PersonalityTrait},
		{chars.Ideals, &out.Ideal},
		{chars.Bonds, &out.Bond},
		{chars.Flaws, &out.Flaw},
	}

	for _, table := range tables {
		if len(table.entries) == 0 {
			continue
		}
		entry, err := rollOnTable(table.entries)
		if err != nil {
			return nil, err
		}
		*table.target = entry.Description
	}

	return out, nil
}

// rollOnTable rolls a die sized to the table and returns the matching row.
// Rows are matched by their authored roll value first, falling back to
// position when the authored values are sparse.
func rollOnTable(entries []rules.RollableEntry) (rules.RollableEntry, error) {
	roll, err := dice.NewRoll(1, len(entries))
	if err != nil {
		return rules.RollableEntry{}, errors.Wrapf(err, "failed to roll on table")
	}

	value := roll.GetValue()
	for _, entry := range entries {
		if entry.Roll == value {
			return entry, nil
		}
	}
	return entries[value-1], nil
}
