package normalizer

import (
	"strconv"
	"strings"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
)

// NormalizedClass is a class entity plus the progression inputs classes
// carry on top of the common shape.
type NormalizedClass struct {
	rules.NormalizedEntity

	HitDice       int                     `json:"hitDice"` // die size, e.g. 8 for d8
	Caster        rules.CasterProgression `json:"caster,omitempty"`
	SubclassTitle string                  `json:"subclassTitle,omitempty"`
	SavingThrows  []string                `json:"savingThrows,omitempty"`
}

// NormalizeClass converts one raw class record into its canonical shape
func (n *Normalizer) NormalizeClass(raw rules.RawEntity, fluffIndex map[string]rules.RawEntity) (*NormalizedClass, error) {
	name, source, err := identity(raw)
	if err != nil {
		return nil, err
	}

	class := &NormalizedClass{
		NormalizedEntity: rules.NormalizedEntity{
			ID:     EntityID(name, source),
			Name:   name,
			Source: source,
		},
	}
	if page, ok := asInt(raw["page"]); ok {
		class.Page = page
	}

	err = guard(name, func() error {
		class.Description = extractDescription(raw)
		class.HitDice = hitDice(raw)
		class.Caster = casterProgression(raw)
		class.SubclassTitle, _ = raw["subclassTitle"].(string)
		class.SavingThrows = savingThrows(raw)
		class.Proficiencies = classProficiencies(raw)
		class.StartingEquipment = extractEquipment(raw, source)
		class.Features = classFeatures(raw)
		class.Fluff = lookupFluff(fluffIndex, name, source)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return class, nil
}

// NormalizeClasses converts a batch of raw classes with per-record fault
// isolation.
func (n *Normalizer) NormalizeClasses(raws []rules.RawEntity, fluffIndex map[string]rules.RawEntity) []*NormalizedClass {
	out := make([]*NormalizedClass, 0, len(raws))
	for _, raw := range raws {
		class, err := n.NormalizeClass(raw, fluffIndex)
		if err != nil {
			logDropped(n.logger, "class", raw, err)
			continue
		}
		out = append(out, class)
	}
	return out
}

// hitDice reads the hit-die size from the hd object
func hitDice(raw rules.RawEntity) int {
	hd := asMap(raw["hd"])
	if hd == nil {
		return 0
	}
	faces, _ := asInt(hd["faces"])
	return faces
}

// casterProgression maps the raw progression label to its canonical value.
// Non-casters have no label and report an empty progression.
func casterProgression(raw rules.RawEntity) rules.CasterProgression {
	label, _ := raw["casterProgression"].(string)
	switch label {
	case "full":
		return rules.CasterFull
	case "1/2", "half":
		return rules.CasterHalf
	case "1/3", "third":
		return rules.CasterThird
	case "pact":
		return rules.CasterPact
	default:
		return ""
	}
}

// savingThrows maps the proficiency code list to canonical ability names
func savingThrows(raw rules.RawEntity) []string {
	var saves []string
	for _, code := range stringList(raw["proficiency"]) {
		if ability, ok := abilityName(code); ok {
			saves = append(saves, ability)
		}
	}
	return saves
}

// classProficiencies reads the startingProficiencies block, which nests the
// per-type lists one level deeper than backgrounds do.
func classProficiencies(raw rules.RawEntity) rules.Proficiencies {
	starting := asMap(raw["startingProficiencies"])
	if starting == nil {
		return rules.Proficiencies{}
	}
	return extractProficiencies(starting)
}

// classFeatures reads the classFeatures list. Each entry is a reference
// string "Name|Class|Source|Level" (empty segments fall back to the class's
// own values) or an object wrapping such a reference.
func classFeatures(raw rules.RawEntity) []rules.Feature {
	var features []rules.Feature
	for _, entry := range asSlice(raw["classFeatures"]) {
		var ref string
		switch e := entry.(type) {
		case string:
			ref = e
		case map[string]any:
			ref, _ = e["classFeature"].(string)
		}
		if ref == "" {
			continue
		}
		if feature, ok := parseFeatureRef(ref); ok {
			features = append(features, feature)
		}
	}
	return features
}

// parseFeatureRef splits a pipe-delimited class feature reference into its
// name and level. References with no parseable level are kept at level 1.
func parseFeatureRef(ref string) (rules.Feature, bool) {
	parts := strings.Split(ref, "|")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return rules.Feature{}, false
	}

	feature := rules.Feature{Name: name, Level: 1}
	if len(parts) >= 4 {
		if level, err := strconv.Atoi(strings.TrimSpace(parts[3])); err == nil {
			feature.Level = level
		}
	}
	return feature, true
}
