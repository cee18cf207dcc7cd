package normalizer

import (
	"github.com/hearthforge/rulebook-api/internal/entities/rules"
)

// NormalizeBackground converts one raw background record into its canonical
// shape. siblings is the full raw list the record came from and is scanned
// for copy-variants; fluffIndex may be nil.
func (n *Normalizer) NormalizeBackground(raw rules.RawEntity, fluffIndex map[string]rules.RawEntity, siblings []rules.RawEntity) (*rules.NormalizedEntity, error) {
	name, source, err := identity(raw)
	if err != nil {
		return nil, err
	}

	ext := extractorFor(classifyVariant(source))

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
		entity.StartingEquipment = extractEquipment(raw, source)
		entity.Features = extractFeatures(raw)
		entity.Characteristics = ext.characteristics(raw)
		entity.AbilityScores = ext.abilityScores(raw)
		entity.Feats = ext.feats(raw)
		entity.Variants = extractVariants(raw, name, source, siblings)
		entity.Fluff = lookupFluff(fluffIndex, name, source)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entity, nil
}

// NormalizeBackgrounds converts a batch of raw backgrounds. A record that
// fails to normalize is dropped with a warning; the rest of the batch is
// unaffected.
func (n *Normalizer) NormalizeBackgrounds(raws []rules.RawEntity, fluffIndex map[string]rules.RawEntity) []*rules.NormalizedEntity {
	out := make([]*rules.NormalizedEntity, 0, len(raws))
	for _, raw := range raws {
		entity, err := n.NormalizeBackground(raw, fluffIndex, raws)
		if err != nil {
			logDropped(n.logger, "background", raw, err)
			continue
		}
		out = append(out, entity)
	}
	return out
}
