package normalizer

import (
	"fmt"
	"strings"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/references"
)

// extractDescription concatenates an entity's descriptive entries into one
// text blob, recursively flattening nested blocks. Blocks whose sole
// purpose is restating mechanics are skipped, as are the characteristics
// tables (extracted separately).
func extractDescription(raw rules.RawEntity) string {
	var parts []string
	for _, entry := range asSlice(raw["entries"]) {
		if text := flattenDescriptive(entry); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// flattenDescriptive flattens one entry, skipping mechanical restatements
func flattenDescriptive(entry any) string {
	obj := asMap(entry)
	if obj != nil {
		if name, _ := obj["name"].(string); name != "" {
			if isMechanicalBlockName(name) || strings.HasPrefix(name, "Feature:") ||
				strings.EqualFold(name, "Suggested Characteristics") {
				return ""
			}
		}
		if listType, _ := obj["type"].(string); listType == "list" {
			if isMechanicalList(obj) {
				return ""
			}
		}
	}
	return flattenEntry(entry)
}

// flattenEntry renders any entry shape to text: strings pass through,
// entries/inset blocks flatten recursively with their name as a heading,
// lists render as bullet lines, and tables are skipped.
func flattenEntry(entry any) string {
	switch typed := entry.(type) {
	case string:
		return references.StripTags(typed)

	case map[string]any:
		switch t, _ := typed["type"].(string); t {
		case "list":
			var lines []string
			for _, item := range asSlice(typed["items"]) {
				if text := flattenEntry(item); text != "" {
					lines = append(lines, "• "+text)
				}
			}
			return strings.Join(lines, "\n")

		case "table":
			return ""

		case "item":
			name, _ := typed["name"].(string)
			body := flattenEntry(typed["entry"])
			if body == "" {
				body = flattenChildren(typed["entries"])
			}
			if name != "" && body != "" {
				return fmt.Sprintf("%s: %s", references.StripTags(name), body)
			}
			return body

		default:
			name, _ := typed["name"].(string)
			body := flattenChildren(typed["entries"])
			if name != "" && body != "" {
				return fmt.Sprintf("%s\n%s", references.StripTags(name), body)
			}
			return body
		}

	default:
		return ""
	}
}

func flattenChildren(entries any) string {
	var parts []string
	for _, child := range asSlice(entries) {
		if text := flattenEntry(child); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// isMechanicalList reports whether every item of a list entry is a named
// mechanical item (proficiencies, equipment, languages), meaning the list
// only restates data already captured structurally.
func isMechanicalList(obj map[string]any) bool {
	items := asSlice(obj["items"])
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		itemObj := asMap(item)
		if itemObj == nil {
			return false
		}
		name, _ := itemObj["name"].(string)
		if !isMechanicalBlockName(name) {
			return false
		}
	}
	return true
}

// extractFeatures pulls the legacy "Feature: X" sub-entries out of an
// entity's entries list.
func extractFeatures(raw rules.RawEntity) []rules.Feature {
	var features []rules.Feature
	for _, entry := range asSlice(raw["entries"]) {
		obj := asMap(entry)
		if obj == nil {
			continue
		}
		name, _ := obj["name"].(string)
		if !strings.HasPrefix(name, "Feature:") {
			continue
		}
		features = append(features, rules.Feature{
			Name:        strings.TrimSpace(strings.TrimPrefix(name, "Feature:")),
			Description: flattenChildren(obj["entries"]),
		})
	}
	return features
}
