package normalizer

import (
	"strings"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
)

// variantNamePrefix marks a sibling entry as a variant of the entity it
// copies from.
const variantNamePrefix = "Variant "

// extractVariants collects an entity's variants from two places: an
// explicit variants field, and sibling raw entities that _copy this entity
// under a variant-marked name. Sibling extraction is best-effort parsing
// of a semi-structured diff format; unrecognized directive shapes yield no
// variant feature rather than an error.
func extractVariants(raw rules.RawEntity, name, source string, siblings []rules.RawEntity) []rules.Variant {
	var variants []rules.Variant

	for _, entry := range asSlice(raw["variants"]) {
		obj := asMap(entry)
		if obj == nil {
			continue
		}
		variantName, _ := obj["name"].(string)
		if variantName == "" {
			continue
		}
		variantSource, _ := obj["source"].(string)
		if variantSource == "" {
			variantSource = source
		}
		variants = append(variants, rules.Variant{
			Name:        variantName,
			Source:      strings.ToUpper(variantSource),
			Description: flattenChildren(obj["entries"]),
		})
	}

	for _, sibling := range siblings {
		if variant, ok := copyVariant(sibling, name, source); ok {
			variants = append(variants, variant)
		}
	}

	return variants
}

// copyVariant recognizes a sibling that copies this entity and synthesizes
// a variant from its modification directives.
func copyVariant(sibling rules.RawEntity, name, source string) (rules.Variant, bool) {
	siblingName, _ := sibling["name"].(string)
	if !strings.HasPrefix(siblingName, variantNamePrefix) {
		return rules.Variant{}, false
	}

	copyRef := asMap(sibling["_copy"])
	if copyRef == nil {
		return rules.Variant{}, false
	}
	copyName, _ := copyRef["name"].(string)
	copySource, _ := copyRef["source"].(string)
	if !strings.EqualFold(copyName, name) || !strings.EqualFold(copySource, source) {
		return rules.Variant{}, false
	}

	siblingSource, _ := sibling["source"].(string)
	if siblingSource == "" {
		siblingSource = source
	}

	variant := rules.Variant{
		Name:     siblingName,
		Source:   strings.ToUpper(siblingSource),
		Features: modFeatures(copyRef["_mod"]),
	}

	var parts []string
	for _, feature := range variant.Features {
		if feature.Description != "" {
			parts = append(parts, feature.Description)
		}
	}
	variant.Description = strings.Join(parts, "\n\n")

	return variant, true
}

// modFeatures extracts feature replacement/insertion directives from a
// _mod block. Only entries-array directives with named items are
// understood; anything else is silently skipped.
func modFeatures(modRaw any) []rules.Feature {
	mod := asMap(modRaw)
	if mod == nil {
		return nil
	}

	directives := asSlice(mod["entries"])
	if directives == nil {
		if single := asMap(mod["entries"]); single != nil {
			directives = []any{single}
		}
	}

	var features []rules.Feature
	for _, directiveRaw := range directives {
		directive := asMap(directiveRaw)
		if directive == nil {
			continue
		}

		switch mode, _ := directive["mode"].(string); mode {
		case "replaceArr", "insertArr", "appendArr":
			items := asSlice(directive["items"])
			if items == nil {
				if single := asMap(directive["items"]); single != nil {
					items = []any{single}
				}
			}
			for _, itemRaw := range items {
				item := asMap(itemRaw)
				if item == nil {
					continue
				}
				featureName, _ := item["name"].(string)
				if featureName == "" {
					continue
				}
				features = append(features, rules.Feature{
					Name:        strings.TrimSpace(strings.TrimPrefix(featureName, "Feature:")),
					Description: flattenChildren(item["entries"]),
				})
			}
		}
	}
	return features
}
