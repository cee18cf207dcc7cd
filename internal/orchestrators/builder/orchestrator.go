// Package builder implements the character-builder orchestrator: it applies
// race/class/background selections to a character by clearing the tag's
// prior contributions and reapplying the new grant in full, then recomputes
// the combined optional-proficiency views.
package builder

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/errors"
	"github.com/hearthforge/rulebook-api/internal/normalizer"
	"github.com/hearthforge/rulebook-api/internal/pkg/idgen"
	characterrepo "github.com/hearthforge/rulebook-api/internal/repositories/character"
	"github.com/hearthforge/rulebook-api/internal/rules/progression"
)

// NotifyFunc delivers a user-facing warning. The orchestrator never renders
// UI itself.
type NotifyFunc func(message string)

// Config holds the dependencies for the builder orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	IDGenerator   idgen.Generator
	Notify        NotifyFunc
	Logger        *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}

	return vb.Build()
}

// Orchestrator coordinates selection changes against character state
type Orchestrator struct {
	characterRepo characterrepo.Repository
	idGenerator   idgen.Generator
	notify        NotifyFunc
	logger        *slog.Logger
}

// New creates a new builder orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	gen := cfg.IDGenerator
	if gen == nil {
		gen = idgen.NewPrefixed("char")
	}
	notify := cfg.Notify
	if notify == nil {
		notify = func(string) {}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		characterRepo: cfg.CharacterRepo,
		idGenerator:   gen,
		notify:        notify,
		logger:        logger,
	}, nil
}

// CreateCharacterInput defines the input for creating a character
type CreateCharacterInput struct {
	PlayerID       string
	Name           string
	AllowedSources []string
}

// CreateCharacterOutput defines the output for creating a character
type CreateCharacterOutput struct {
	Character *rules.Character
}

// CreateCharacter creates and persists an empty character shell
func (o *Orchestrator) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("playerID", input.PlayerID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char := rules.NewCharacter(o.idGenerator.Generate())
	char.PlayerID = input.PlayerID
	char.Name = input.Name
	for _, source := range input.AllowedSources {
		char.AllowedSources[source] = true
	}

	out, err := o.characterRepo.Create(ctx, characterrepo.CreateInput{Character: char})
	if err != nil {
		return nil, err
	}

	return &CreateCharacterOutput{Character: out.Character}, nil
}

// GetCharacterInput defines the input for fetching a character
type GetCharacterInput struct {
	CharacterID string
}

// GetCharacterOutput defines the output for fetching a character
type GetCharacterOutput struct {
	Character *rules.Character
}

// GetCharacter fetches a character by ID
func (o *Orchestrator) GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	return &GetCharacterOutput{Character: out.Character}, nil
}

// SetRaceInput defines the input for applying a race selection
type SetRaceInput struct {
	CharacterID string
	Race        *rules.NormalizedEntity
}

// SetRaceOutput defines the output for applying a race selection
type SetRaceOutput struct {
	Character *rules.Character
}

// SetRace replaces the character's race contributions with the new race's
// grant.
func (o *Orchestrator) SetRace(ctx context.Context, input *SetRaceInput) (*SetRaceOutput, error) {
	if input == nil || input.Race == nil {
		return nil, errors.InvalidArgument("race is required")
	}

	char, err := o.loadForSelection(ctx, input.CharacterID, input.Race.Source)
	if err != nil {
		return nil, err
	}

	o.applyGrant(char, rules.SourceTagRace, GrantFromEntity(input.Race))
	char.Race = input.Race.Name
	char.RaceSource = input.Race.Source

	return &SetRaceOutput{Character: char}, o.save(ctx, char)
}

// SetBackgroundInput defines the input for applying a background selection
type SetBackgroundInput struct {
	CharacterID string
	Background  *rules.NormalizedEntity
}

// SetBackgroundOutput defines the output for applying a background selection
type SetBackgroundOutput struct {
	Character *rules.Character
}

// SetBackground replaces the character's background contributions with the
// new background's grant.
func (o *Orchestrator) SetBackground(ctx context.Context, input *SetBackgroundInput) (*SetBackgroundOutput, error) {
	if input == nil || input.Background == nil {
		return nil, errors.InvalidArgument("background is required")
	}

	char, err := o.loadForSelection(ctx, input.CharacterID, input.Background.Source)
	if err != nil {
		return nil, err
	}

	o.applyGrant(char, rules.SourceTagBackground, GrantFromEntity(input.Background))
	char.Background = input.Background.Name
	char.BackgroundSource = input.Background.Source

	return &SetBackgroundOutput{Character: char}, o.save(ctx, char)
}

// SetClassInput defines the input for applying a class selection
type SetClassInput struct {
	CharacterID string
	Class       *normalizer.NormalizedClass
	Level       int
}

// SetClassOutput defines the output for applying a class selection
type SetClassOutput struct {
	Character *rules.Character
}

// SetClass replaces the character's class contributions. Switching class
// also drops any subclass contributions, since the old subclass no longer
// applies.
func (o *Orchestrator) SetClass(ctx context.Context, input *SetClassInput) (*SetClassOutput, error) {
	if input == nil || input.Class == nil {
		return nil, errors.InvalidArgument("class is required")
	}
	level := input.Level
	if level < 1 {
		level = 1
	}
	if level > progression.MaxLevel {
		return nil, errors.OutOfRange("level exceeds the maximum")
	}

	char, err := o.loadForSelection(ctx, input.CharacterID, input.Class.Source)
	if err != nil {
		return nil, err
	}

	if char.Class.Subclass != "" {
		o.applyGrant(char, rules.SourceTagSubclass, Grant{})
	}

	grant := GrantFromEntity(&input.Class.NormalizedEntity)
	grant.Traits = nil
	for _, feature := range progression.FeaturesAtLevel(input.Class.Features, level) {
		grant.Traits = append(grant.Traits, feature.Name)
	}
	o.applyGrant(char, rules.SourceTagClass, grant)

	char.Class = rules.ClassSelection{
		Name:   input.Class.Name,
		Source: input.Class.Source,
		Level:  level,
	}

	return &SetClassOutput{Character: char}, o.save(ctx, char)
}

// SetSubclassInput defines the input for applying a subclass selection
type SetSubclassInput struct {
	CharacterID string
	Subclass    *rules.NormalizedEntity
}

// SetSubclassOutput defines the output for applying a subclass selection
type SetSubclassOutput struct {
	Character *rules.Character
}

// SetSubclass applies a subclass grant. The character must have reached
// the class's subclass-selection level.
func (o *Orchestrator) SetSubclass(ctx context.Context, input *SetSubclassInput) (*SetSubclassOutput, error) {
	if input == nil || input.Subclass == nil {
		return nil, errors.InvalidArgument("subclass is required")
	}

	char, err := o.loadForSelection(ctx, input.CharacterID, input.Subclass.Source)
	if err != nil {
		return nil, err
	}

	if char.Class.Name == "" {
		return nil, errors.FailedPrecondition("select a class before a subclass")
	}
	if required := progression.SubclassLevel(char.Class.Name); char.Class.Level < required {
		o.notify("subclass unlocks at level " + strconv.Itoa(required))
		return nil, errors.FailedPreconditionf("%s selects a subclass at level %d", char.Class.Name, required)
	}

	o.applyGrant(char, rules.SourceTagSubclass, GrantFromEntity(input.Subclass))
	char.Class.Subclass = input.Subclass.Name

	return &SetSubclassOutput{Character: char}, o.save(ctx, char)
}

// SelectProficienciesInput defines the input for recording a user's
// optional-proficiency picks.
type SelectProficienciesInput struct {
	CharacterID string
	Type        rules.ProficiencyType
	Tag         rules.SourceTag
	Selected    []string
}

// SelectProficienciesOutput defines the output for recording picks
type SelectProficienciesOutput struct {
	Character *rules.Character
}

// SelectProficiencies records the user's picks for one category slot.
// Picks outside the slot's options or beyond its allowance are rejected
// before any state changes.
func (o *Orchestrator) SelectProficiencies(ctx context.Context, input *SelectProficienciesInput) (*SelectProficienciesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := out.Character

	group := char.OptionalProficiencies.Group(input.Type)
	if group == nil {
		return nil, errors.InvalidArgumentf("unknown proficiency type %q", input.Type)
	}
	slot := group.Category(input.Tag)
	if slot == nil {
		return nil, errors.InvalidArgumentf("unknown selection tag %q", input.Tag)
	}

	if len(input.Selected) > slot.Allowed {
		return nil, errors.OutOfRangef("%d selections exceed the %d allowed", len(input.Selected), slot.Allowed)
	}
	valid := rules.IntersectStrings(input.Selected, slot.Options)
	if len(valid) != len(input.Selected) {
		return nil, errors.InvalidArgument("selection includes an option the grant does not offer")
	}

	slot.Selected = append([]string(nil), input.Selected...)
	char.OptionalProficiencies.RecombineAll()

	return &SelectProficienciesOutput{Character: char}, o.save(ctx, char)
}

// applyGrant is the clear-then-reapply step shared by every selection
// change. Prior optional selections are captured before the slot resets so
// picks still offered by the new grant survive.
func (o *Orchestrator) applyGrant(char *rules.Character, tag rules.SourceTag, grant Grant) {
	for _, t := range []rules.ProficiencyType{
		rules.ProficiencySkills, rules.ProficiencyTools, rules.ProficiencyLanguages,
	} {
		group := char.OptionalProficiencies.Group(t)
		slot := group.Category(tag)

		choice := grant.choiceFor(t)
		prior := append([]string(nil), slot.Selected...)
		slot.Reset()
		if choice != nil {
			slot.Allowed = choice.Count
			slot.Options = expandOptions(t, choice.From)
			slot.Selected = rules.IntersectStrings(prior, slot.Options)
		}
	}

	char.RemoveProficienciesBySource(tag)
	char.ClearAbilityBonuses(tag)
	char.ClearTraits(tag)
	char.ClearLanguages(tag)
	char.ClearResistances(tag)

	for _, t := range []rules.ProficiencyType{rules.ProficiencySkills, rules.ProficiencyTools} {
		for _, name := range grant.fixedFor(t) {
			char.AddProficiency(t, name, tag)
		}
	}
	for _, name := range grant.fixedFor(rules.ProficiencyLanguages) {
		char.AddLanguage(name, tag)
	}
	for _, bonus := range grant.AbilityScores {
		if bonus.Choose == nil {
			char.AddAbilityBonus(bonus.Ability, bonus.Amount, tag)
		}
	}
	for _, name := range grant.Traits {
		char.AddTrait(name, tag)
	}
	for _, name := range grant.Resistances {
		char.AddResistance(name, tag)
	}

	char.OptionalProficiencies.RecombineAll()
}

// loadForSelection fetches the character and checks the selection's source
// against its allowed set.
func (o *Orchestrator) loadForSelection(ctx context.Context, characterID, source string) (*rules.Character, error) {
	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: characterID})
	if err != nil {
		return nil, err
	}
	char := out.Character

	if len(char.AllowedSources) > 0 && !char.AllowedSources[source] {
		o.notify("source " + source + " is not enabled for this character")
		return nil, errors.FailedPreconditionf("source %s is not in the character's allowed set", source)
	}
	return char, nil
}

func (o *Orchestrator) save(ctx context.Context, char *rules.Character) error {
	_, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: char})
	return err
}

