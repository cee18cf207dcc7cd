package normalizer

import (
	"strings"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/references"
)

// modernExtractor handles the newer source books, which encode ability
// scores and feats as structured arrays and dropped the suggested
// characteristics tables entirely.
type modernExtractor struct{}

func (modernExtractor) abilityScores(raw rules.RawEntity) []rules.AbilityScoreChoice {
	var choices []rules.AbilityScoreChoice

	for _, entry := range asSlice(raw["ability"]) {
		obj := asMap(entry)
		if obj == nil {
			continue
		}

		if chooseRaw, ok := obj["choose"]; ok {
			choices = append(choices, weightedAbilityChoices(chooseRaw)...)
			continue
		}

		for code, amountRaw := range obj {
			ability, ok := abilityName(code)
			if !ok {
				continue
			}
			if amount, ok := asInt(amountRaw); ok {
				choices = append(choices, rules.AbilityScoreChoice{
					Ability: ability,
					Amount:  amount,
				})
			}
		}
	}

	sortAbilityChoices(choices)
	return choices
}

// weightedAbilityChoices expands a weighted choose block: each weight is
// one bonus to assign to a distinct ability from the offered list.
func weightedAbilityChoices(raw any) []rules.AbilityScoreChoice {
	obj := asMap(raw)
	if obj == nil {
		return nil
	}

	weighted := asMap(obj["weighted"])
	if weighted == nil {
		// plain {from, count, amount} choose
		descriptor := extractChooseBlock(raw)
		if descriptor == nil {
			return nil
		}
		amount, ok := asInt(obj["amount"])
		if !ok {
			amount = 1
		}
		return []rules.AbilityScoreChoice{{Amount: amount, Choose: descriptor}}
	}

	var from []string
	for _, a := range asSlice(weighted["from"]) {
		code, ok := a.(string)
		if !ok {
			continue
		}
		if ability, known := abilityName(code); known {
			from = append(from, ability)
		} else {
			from = append(from, strings.ToLower(code))
		}
	}

	var choices []rules.AbilityScoreChoice
	for _, w := range asSlice(weighted["weights"]) {
		if amount, ok := asInt(w); ok {
			choices = append(choices, rules.AbilityScoreChoice{
				Amount: amount,
				Choose: &rules.ChoiceDescriptor{Count: 1, From: from},
			})
		}
	}
	return choices
}

func (modernExtractor) feats(raw rules.RawEntity) []rules.FeatDescriptor {
	var feats []rules.FeatDescriptor

	for _, entry := range asSlice(raw["feats"]) {
		obj := asMap(entry)
		if obj == nil {
			continue
		}

		for key, value := range obj {
			if key == "choose" {
				if descriptor := extractChooseBlock(value); descriptor != nil {
					feats = append(feats, rules.FeatDescriptor{Choose: descriptor})
				}
				continue
			}
			if on, ok := value.(bool); !ok || !on {
				continue
			}
			name, source := splitRef(key)
			feats = append(feats, rules.FeatDescriptor{Name: titleCase(name), Source: source})
		}
	}

	return feats
}

func (modernExtractor) characteristics(_ rules.RawEntity) rules.Characteristics {
	return rules.Characteristics{}
}

// legacyExtractor handles older source books: no structured ability or
// feat data, and personality tables buried in a "Suggested
// Characteristics" entry that must be mapped positionally.
type legacyExtractor struct{}

func (legacyExtractor) abilityScores(_ rules.RawEntity) []rules.AbilityScoreChoice {
	return nil
}

func (legacyExtractor) feats(_ rules.RawEntity) []rules.FeatDescriptor {
	return nil
}

func (legacyExtractor) characteristics(raw rules.RawEntity) rules.Characteristics {
	tables := characteristicsTables(raw)

	chars := rules.Characteristics{}
	// up to 4 tables map positionally to traits, ideals, bonds, flaws
	slots := []*[]rules.RollableEntry{
		&chars.PersonalityTraits, &chars.Ideals, &chars.Bonds, &chars.Flaws,
	}
	for i, table := range tables {
		if i >= len(slots) {
			break
		}
		*slots[i] = table
	}
	return chars
}

// characteristicsTables finds the Suggested Characteristics entry and
// parses each table it contains into rollable rows.
func characteristicsTables(raw rules.RawEntity) [][]rules.RollableEntry {
	for _, entry := range asSlice(raw["entries"]) {
		obj := asMap(entry)
		if obj == nil {
			continue
		}
		name, _ := obj["name"].(string)
		if !strings.EqualFold(strings.TrimSpace(name), "Suggested Characteristics") {
			continue
		}

		var tables [][]rules.RollableEntry
		for _, child := range asSlice(obj["entries"]) {
			childObj := asMap(child)
			if childObj == nil {
				continue
			}
			if t, _ := childObj["type"].(string); t != "table" {
				continue
			}
			if rows := rollableRows(childObj); len(rows) > 0 {
				tables = append(tables, rows)
			}
		}
		return tables
	}
	return nil
}

// rollableRows parses a table's rows into {roll, description} pairs.
// Rows whose first cell is not a number are skipped.
func rollableRows(table map[string]any) []rules.RollableEntry {
	var rows []rules.RollableEntry
	for _, rowRaw := range asSlice(table["rows"]) {
		row := asSlice(rowRaw)
		if len(row) < 2 {
			continue
		}

		roll, ok := asInt(row[0])
		if !ok {
			if text, isString := row[0].(string); isString {
				roll, ok = parseRollCell(text)
			}
			if !ok {
				continue
			}
		}

		description, _ := row[1].(string)
		if description == "" {
			continue
		}
		rows = append(rows, rules.RollableEntry{
			Roll:        roll,
			Description: references.StripTags(description),
		})
	}
	return rows
}

func parseRollCell(text string) (int, bool) {
	text = strings.TrimSpace(text)
	roll := 0
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, false
		}
		roll = roll*10 + int(r-'0')
	}
	if text == "" {
		return 0, false
	}
	return roll, true
}
