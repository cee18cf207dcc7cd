package normalizer

import (
	"sort"
	"strings"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
)

// keys that mark an element as something other than a fixed-grant map
var nonGrantKeys = map[string]bool{
	"choose":      true,
	"any":         true,
	"anyStandard": true,
	"fromFilter":  true,
}

// extractProficiencyList flattens one raw proficiency list into fixed names
// plus at most one pending choice. Each element is one of three shapes: a
// plain string, a {choose:{count,from}} object, or an object of
// {name: true} pairs (optionally carrying an any-count marker).
func extractProficiencyList(raw any) ([]string, *rules.ChoiceDescriptor) {
	var fixed []string
	var choice *rules.ChoiceDescriptor

	for _, element := range asSlice(raw) {
		switch typed := element.(type) {
		case string:
			fixed = append(fixed, titleCase(typed))

		case map[string]any:
			names, c := extractProficiencyObject(typed)
			fixed = append(fixed, names...)
			if c != nil && choice == nil {
				choice = c
			}
		}
	}

	return fixed, choice
}

// extractProficiencyObject handles the two object shapes: an explicit
// choose block and a bag of {name: true} grants. An "any"/"anyStandard"
// count inside a grant bag becomes an open choice.
func extractProficiencyObject(obj map[string]any) ([]string, *rules.ChoiceDescriptor) {
	if chooseRaw, ok := obj["choose"]; ok {
		return nil, extractChooseBlock(chooseRaw)
	}

	for _, key := range []string{"any", "anyStandard"} {
		if count, ok := asInt(obj[key]); ok && count > 0 {
			names := fixedGrantNames(obj)
			return names, &rules.ChoiceDescriptor{Count: count, From: []string{rules.AnyOption}}
		}
	}

	return fixedGrantNames(obj), nil
}

// fixedGrantNames collects the truthy {name: true} pairs of a grant bag,
// sorted for deterministic output.
func fixedGrantNames(obj map[string]any) []string {
	var names []string
	for key, value := range obj {
		if nonGrantKeys[key] {
			continue
		}
		switch v := value.(type) {
		case bool:
			if v {
				names = append(names, titleCase(key))
			}
		case float64:
			if v > 0 {
				names = append(names, titleCase(key))
			}
		}
	}
	sort.Strings(names)
	return names
}

// extractChooseBlock parses a {count, from} choose object. A fromFilter
// (or missing from list) means any option is allowed.
func extractChooseBlock(raw any) *rules.ChoiceDescriptor {
	obj := asMap(raw)
	if obj == nil {
		return nil
	}

	count, ok := asInt(obj["count"])
	if !ok {
		if count, ok = asInt(obj["amount"]); !ok {
			count = 1
		}
	}

	var from []string
	for _, option := range asSlice(obj["from"]) {
		if name, ok := option.(string); ok {
			from = append(from, titleCase(name))
		}
	}

	if _, hasFilter := obj["fromFilter"]; hasFilter || len(from) == 0 {
		from = []string{rules.AnyOption}
	}

	return &rules.ChoiceDescriptor{Count: count, From: from}
}

// extractProficiencies builds the canonical proficiency block from the raw
// entity's skill/tool/language lists.
func extractProficiencies(raw rules.RawEntity) rules.Proficiencies {
	p := rules.Proficiencies{}

	p.Skills, p.SkillChoice = extractProficiencyList(raw["skillProficiencies"])
	p.Tools, p.ToolChoice = extractProficiencyList(raw["toolProficiencies"])
	p.Languages, p.LanguageChoice = extractProficiencyList(raw["languageProficiencies"])

	for _, expertise := range asSlice(raw["expertise"]) {
		if name, ok := expertise.(string); ok {
			p.Expertise = append(p.Expertise, titleCase(name))
		}
	}

	return p
}

// mechanicalBlockNames are entry headings that restate proficiencies or
// equipment; they are excluded from description text to avoid duplicating
// mechanical content in flavor.
var mechanicalBlockNames = map[string]bool{
	"skill proficiencies": true,
	"tool proficiencies":  true,
	"languages":           true,
	"equipment":           true,
	"ability scores":      true,
	"feat":                true,
}

func isMechanicalBlockName(name string) bool {
	return mechanicalBlockNames[strings.ToLower(strings.TrimSpace(name))]
}
