package normalizer

import (
	"github.com/hearthforge/rulebook-api/internal/entities/rules"
)

// extractEquipment prefers the structured startingEquipment array of named
// option sets; entities from older books fall back to a flat equipment
// list wrapped as a single always-granted option tagged with the entity's
// own source.
func extractEquipment(raw rules.RawEntity, entitySource string) []rules.EquipmentOptionSet {
	if structured := asSlice(raw["startingEquipment"]); len(structured) > 0 {
		return extractStructuredEquipment(structured, entitySource)
	}

	flat := asSlice(raw["equipment"])
	if len(flat) == 0 {
		return nil
	}

	items := make([]rules.EquipmentItem, 0, len(flat))
	for _, entry := range flat {
		if item, ok := equipmentItem(entry, entitySource); ok {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil
	}

	return []rules.EquipmentOptionSet{
		{Options: map[string][]rules.EquipmentItem{"_": items}},
	}
}

func extractStructuredEquipment(structured []any, entitySource string) []rules.EquipmentOptionSet {
	sets := make([]rules.EquipmentOptionSet, 0, len(structured))
	for _, entry := range structured {
		group := asMap(entry)
		if group == nil {
			continue
		}

		set := rules.EquipmentOptionSet{Options: make(map[string][]rules.EquipmentItem)}
		for letter, list := range group {
			var items []rules.EquipmentItem
			for _, itemRaw := range asSlice(list) {
				if item, ok := equipmentItem(itemRaw, entitySource); ok {
					items = append(items, item)
				}
			}
			if len(items) > 0 {
				set.Options[letter] = items
			}
		}
		if len(set.Options) > 0 {
			sets = append(sets, set)
		}
	}
	return sets
}

// equipmentItem converts one raw equipment entry. Recognized shapes: a
// plain "name|source" string, an {item: ref} object, a {special: name}
// object, and a {value: n} currency amount.
func equipmentItem(raw any, entitySource string) (rules.EquipmentItem, bool) {
	switch typed := raw.(type) {
	case string:
		name, source := splitRef(typed)
		if source == "" {
			source = entitySource
		}
		return rules.EquipmentItem{Type: "item", Name: titleCase(name), Source: source}, true

	case map[string]any:
		if ref, ok := typed["item"].(string); ok {
			name, source := splitRef(ref)
			if source == "" {
				source = entitySource
			}
			if display, ok := typed["displayName"].(string); ok && display != "" {
				name = display
			}
			item := rules.EquipmentItem{Type: "item", Name: titleCase(name), Source: source}
			if qty, ok := asInt(typed["quantity"]); ok {
				item.Value = qty
			}
			return item, true
		}
		if special, ok := typed["special"].(string); ok {
			return rules.EquipmentItem{Type: "item", Name: titleCase(special), Source: entitySource}, true
		}
		// currency amounts are authored in copper pieces
		if value, ok := asInt(typed["value"]); ok {
			return rules.EquipmentItem{Type: "currency", Name: "cp", Value: value, Source: entitySource}, true
		}
	}

	return rules.EquipmentItem{}, false
}
