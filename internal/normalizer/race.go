package normalizer

import (
	"sort"
	"strings"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
)

// NormalizeRace converts one raw race record into its canonical shape.
func (n *Normalizer) NormalizeRace(raw rules.RawEntity, fluffIndex map[string]rules.RawEntity, siblings []rules.RawEntity) (*rules.NormalizedEntity, error) {
	name, source, err := identity(raw)
	if err != nil {
		return nil, err
	}

	entity := &rules.NormalizedEntity{
		ID:     EntityID(name, source),
		Name:   name,
		Source: source,
	}
	if page, ok := asInt(raw["page"]); ok {
		entity.Page = page
	}

	err = guard(name, func() error {
		entity.Description = extractDescription(raw)
		entity.Proficiencies = extractProficiencies(raw)
		entity.Features = raceTraits(raw)
		entity.AbilityScores = raceAbilityScores(raw)
		entity.Resistances = stringList(raw["resist"])
		entity.Size = stringList(raw["size"])
		entity.Speed = raceSpeed(raw)
		entity.Variants = extractVariants(raw, name, source, siblings)
		entity.Fluff = lookupFluff(fluffIndex, name, source)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entity, nil
}

// NormalizeRaces converts a batch of raw races with per-record fault
// isolation.
func (n *Normalizer) NormalizeRaces(raws []rules.RawEntity, fluffIndex map[string]rules.RawEntity) []*rules.NormalizedEntity {
	out := make([]*rules.NormalizedEntity, 0, len(raws))
	for _, raw := range raws {
		entity, err := n.NormalizeRace(raw, fluffIndex, raws)
		if err != nil {
			logDropped(n.logger, "race", raw, err)
			continue
		}
		out = append(out, entity)
	}
	return out
}

// raceAbilityScores reads the race ability block: a list of objects whose
// keys are three-letter ability codes mapped to fixed bonuses, plus an
// optional choose object.
func raceAbilityScores(raw rules.RawEntity) []rules.AbilityScoreChoice {
	var choices []rules.AbilityScoreChoice
	for _, entry := range asSlice(raw["ability"]) {
		obj := asMap(entry)
		if obj == nil {
			continue
		}
		for key, value := range obj {
			if key == "choose" {
				choices = append(choices, weightedAbilityChoices(value)...)
				continue
			}
			ability, ok := abilityName(key)
			if !ok {
				continue
			}
			amount, ok := asInt(value)
			if !ok {
				continue
			}
			choices = append(choices, rules.AbilityScoreChoice{
				Ability: ability,
				Amount:  amount,
			})
		}
	}
	sortAbilityChoices(choices)
	return choices
}

// raceTraits pulls named trait entries from a race's entries list. Unnamed
// entries are prose and belong to the description instead.
func raceTraits(raw rules.RawEntity) []rules.Feature {
	var traits []rules.Feature
	for _, entry := range asSlice(raw["entries"]) {
		obj := asMap(entry)
		if obj == nil {
			continue
		}
		traitName, _ := obj["name"].(string)
		if traitName == "" {
			continue
		}
		traits = append(traits, rules.Feature{
			Name:        traitName,
			Description: flattenChildren(obj["entries"]),
		})
	}
	return traits
}

// raceSpeed reads the speed field, which is either a bare number or an
// object keyed by movement mode. Only walking speed is kept.
func raceSpeed(raw rules.RawEntity) int {
	if speed, ok := asInt(raw["speed"]); ok {
		return speed
	}
	if obj := asMap(raw["speed"]); obj != nil {
		if walk, ok := asInt(obj["walk"]); ok {
			return walk
		}
	}
	return 0
}

// stringList flattens a field that mixes bare strings with wrapper objects
// (e.g. conditional resistances) into the plain string values. Wrapper
// objects carry conditions the builder cannot evaluate and are skipped.
func stringList(v any) []string {
	var out []string
	for _, entry := range asSlice(v) {
		if s, ok := entry.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// abilityName maps a three-letter ability code to its canonical name
func abilityName(code string) (string, bool) {
	switch strings.ToLower(code) {
	case "str":
		return rules.AbilityStrength, true
	case "dex":
		return rules.AbilityDexterity, true
	case "con":
		return rules.AbilityConstitution, true
	case "int":
		return rules.AbilityIntelligence, true
	case "wis":
		return rules.AbilityWisdom, true
	case "cha":
		return rules.AbilityCharisma, true
	default:
		return "", false
	}
}

var abilityOrder = map[string]int{
	rules.AbilityStrength:     0,
	rules.AbilityDexterity:    1,
	rules.AbilityConstitution: 2,
	rules.AbilityIntelligence: 3,
	rules.AbilityWisdom:       4,
	rules.AbilityCharisma:     5,
}

// sortAbilityChoices orders fixed bonuses in conventional ability order so
// output is deterministic across map iteration.
func sortAbilityChoices(choices []rules.AbilityScoreChoice) {
	sort.SliceStable(choices, func(i, j int) bool {
		a, b := choices[i], choices[j]
		if (a.Choose == nil) != (b.Choose == nil) {
			return a.Choose == nil
		}
		return abilityOrder[a.Ability] < abilityOrder[b.Ability]
	})
}
