package normalizer_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/normalizer"
)

type NormalizerTestSuite struct {
	suite.Suite
	norm *normalizer.Normalizer
}

func TestNormalizerSuite(t *testing.T) {
	suite.Run(t, new(NormalizerTestSuite))
}

func (s *NormalizerTestSuite) SetupTest() {
	s.norm = normalizer.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func legacyBackground() rules.RawEntity {
	return rules.RawEntity{
		"name":   "Acolyte",
		"source": "PHB",
		"page":   float64(127),
		"skillProficiencies": []any{
			map[string]any{"insight": true, "religion": true},
		},
		"languageProficiencies": []any{
			map[string]any{"anyStandard": float64(2)},
		},
		"equipment": []any{
			"holy symbol|phb",
			map[string]any{"value": float64(1500)},
		},
		"entries": []any{
			"You have spent your life in service, learning {@spell sacred flame|PHB} among other rites.",
			map[string]any{
				"name":    "Feature: Shelter of the Faithful",
				"entries": []any{"You command the respect of those who share your faith."},
			},
			map[string]any{
				"name": "Suggested Characteristics",
				"entries": []any{
					map[string]any{
						"type": "table",
						"rows": []any{
							[]any{float64(1), "I idolize a particular hero of my faith."},
							[]any{"2", "I can find common ground between foes."},
						},
					},
					map[string]any{
						"type": "table",
						"rows": []any{[]any{float64(1), "Tradition."}},
					},
					map[string]any{
						"type": "table",
						"rows": []any{[]any{float64(1), "I would die to recover an ancient relic."}},
					},
					map[string]any{
						"type": "table",
						"rows": []any{[]any{float64(1), "I judge others harshly."}},
					},
				},
			},
		},
	}
}

func (s *NormalizerTestSuite) TestNormalizeBackgroundLegacy() {
	entity, err := s.norm.NormalizeBackground(legacyBackground(), nil, nil)
	s.Require().NoError(err)

	s.Equal("acolyte-phb", entity.ID)
	s.Equal("Acolyte", entity.Name)
	s.Equal("PHB", entity.Source)
	s.Equal(127, entity.Page)

	s.Equal([]string{"Insight", "Religion"}, entity.Proficiencies.Skills)
	s.Require().NotNil(entity.Proficiencies.LanguageChoice)
	s.Equal(2, entity.Proficiencies.LanguageChoice.Count)
	s.Equal([]string{rules.AnyOption}, entity.Proficiencies.LanguageChoice.From)

	s.Require().Len(entity.Features, 1)
	s.Equal("Shelter of the Faithful", entity.Features[0].Name)

	// reference tags are stripped to plain prose
	s.Contains(entity.Description, "sacred flame")
	s.NotContains(entity.Description, "{@spell")
	// mechanical blocks stay out of the description
	s.NotContains(entity.Description, "Shelter of the Faithful")

	s.Len(entity.Characteristics.PersonalityTraits, 2)
	s.Equal(2, entity.Characteristics.PersonalityTraits[1].Roll)
	s.Len(entity.Characteristics.Ideals, 1)
	s.Len(entity.Characteristics.Bonds, 1)
	s.Len(entity.Characteristics.Flaws, 1)

	// legacy data carries no structured ability or feat grants
	s.Empty(entity.AbilityScores)
	s.Empty(entity.Feats)

	s.Require().Len(entity.StartingEquipment, 1)
	items := entity.StartingEquipment[0].Options["_"]
	s.Require().Len(items, 2)
	s.Equal(rules.EquipmentItem{Type: "item", Name: "Holy Symbol", Source: "PHB"}, items[0])
	s.Equal(rules.EquipmentItem{Type: "currency", Name: "cp", Value: 1500, Source: "PHB"}, items[1])
}

func (s *NormalizerTestSuite) TestNormalizeBackgroundModern() {
	raw := rules.RawEntity{
		"name":   "Acolyte",
		"source": "XPHB",
		"ability": []any{
			map[string]any{
				"choose": map[string]any{
					"weighted": map[string]any{
						"from":    []any{"int", "wis", "cha"},
						"weights": []any{float64(2), float64(1)},
					},
				},
			},
		},
		"feats": []any{
			map[string]any{"magic initiate; cleric|XPHB": true},
		},
		"skillProficiencies": []any{
			map[string]any{"insight": true, "religion": true},
		},
	}

	entity, err := s.norm.NormalizeBackground(raw, nil, nil)
	s.Require().NoError(err)

	s.Equal("acolyte-xphb", entity.ID)

	s.Require().Len(entity.AbilityScores, 2)
	wantFrom := []string{
		rules.AbilityIntelligence, rules.AbilityWisdom, rules.AbilityCharisma,
	}
	s.Equal(2, entity.AbilityScores[0].Amount)
	s.Equal(1, entity.AbilityScores[1].Amount)
	for _, choice := range entity.AbilityScores {
		s.Require().NotNil(choice.Choose)
		s.Equal(1, choice.Choose.Count)
		s.Equal(wantFrom, choice.Choose.From)
	}

	s.Require().Len(entity.Feats, 1)
	s.Equal("Magic Initiate; Cleric", entity.Feats[0].Name)
	s.Equal("XPHB", entity.Feats[0].Source)

	// modern sources dropped the characteristics tables
	s.True(entity.Characteristics.IsEmpty())
}

func (s *NormalizerTestSuite) TestNormalizeBackgroundIdempotent() {
	first, err := s.norm.NormalizeBackground(legacyBackground(), nil, nil)
	s.Require().NoError(err)
	second, err := s.norm.NormalizeBackground(legacyBackground(), nil, nil)
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *NormalizerTestSuite) TestNormalizeBackgroundMissingIdentity() {
	_, err := s.norm.NormalizeBackground(rules.RawEntity{"source": "PHB"}, nil, nil)
	s.Error(err)

	_, err = s.norm.NormalizeBackground(rules.RawEntity{"name": "Acolyte"}, nil, nil)
	s.Error(err)
}

func (s *NormalizerTestSuite) TestNormalizeBackgroundsDropsMalformed() {
	raws := []rules.RawEntity{
		{"name": "Acolyte", "source": "PHB"},
		{"name": "Charlatan", "source": "PHB"},
		{"source": "PHB"}, // no name
		{"name": "Criminal", "source": "PHB"},
		{"name": "Entertainer", "source": "PHB"},
	}

	entities := s.norm.NormalizeBackgrounds(raws, nil)

	s.Len(entities, 4)
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Name)
	}
	s.Equal([]string{"Acolyte", "Charlatan", "Criminal", "Entertainer"}, names)
}

func (s *NormalizerTestSuite) TestNormalizeBackgroundFluff() {
	fluffIndex := map[string]rules.RawEntity{
		"acolyte|PHB": {
			"entries": []any{"Acolytes serve in temples across the land."},
			"images": []any{
				map[string]any{"href": map[string]any{"path": "bg/Acolyte.webp"}},
			},
		},
	}

	entity, err := s.norm.NormalizeBackground(legacyBackground(), fluffIndex, nil)
	s.Require().NoError(err)

	s.Equal([]string{"Acolytes serve in temples across the land."}, entity.Fluff.Entries)
	s.Equal([]string{"bg/Acolyte.webp"}, entity.Fluff.Images)
}

func (s *NormalizerTestSuite) TestCopyVariantFromSibling() {
	criminal := rules.RawEntity{"name": "Criminal", "source": "PHB"}
	spy := rules.RawEntity{
		"name":   "Variant Criminal (Spy)",
		"source": "PHB",
		"_copy": map[string]any{
			"name":   "Criminal",
			"source": "PHB",
			"_mod": map[string]any{
				"entries": map[string]any{
					"mode":    "replaceArr",
					"replace": "Feature: Criminal Contact",
					"items": map[string]any{
						"name":    "Feature: Spy Contact",
						"entries": []any{"You have a reliable and trustworthy contact."},
					},
				},
			},
		},
	}

	entity, err := s.norm.NormalizeBackground(criminal, nil, []rules.RawEntity{criminal, spy})
	s.Require().NoError(err)

	s.Require().Len(entity.Variants, 1)
	variant := entity.Variants[0]
	s.Equal("Variant Criminal (Spy)", variant.Name)
	s.Equal("PHB", variant.Source)
	s.Require().Len(variant.Features, 1)
	s.Equal("Spy Contact", variant.Features[0].Name)
	s.Contains(variant.Features[0].Description, "trustworthy contact")
}

func (s *NormalizerTestSuite) TestCopyVariantIgnoresUnmarkedSiblings() {
	criminal := rules.RawEntity{"name": "Criminal", "source": "PHB"}
	// copies the entity but is not variant-marked
	reprint := rules.RawEntity{
		"name":   "Criminal (Reprint)",
		"source": "SCAG",
		"_copy":  map[string]any{"name": "Criminal", "source": "PHB"},
	}
	// variant-marked but copies a different entity
	other := rules.RawEntity{
		"name":   "Variant Sailor (Pirate)",
		"source": "PHB",
		"_copy":  map[string]any{"name": "Sailor", "source": "PHB"},
	}

	entity, err := s.norm.NormalizeBackground(criminal, nil, []rules.RawEntity{criminal, reprint, other})
	s.Require().NoError(err)
	s.Empty(entity.Variants)
}

func (s *NormalizerTestSuite) TestNormalizeRace() {
	raw := rules.RawEntity{
		"name":   "Hill Dwarf",
		"source": "PHB",
		"speed":  float64(25),
		"size":   []any{"M"},
		"resist": []any{"poison"},
		"ability": []any{
			map[string]any{"con": float64(2), "wis": float64(1)},
		},
		"entries": []any{
			map[string]any{
				"name":    "Darkvision",
				"entries": []any{"You can see in dim light within 60 feet."},
			},
			"Bold and hardy, dwarves are known as skilled warriors.",
		},
	}

	entity, err := s.norm.NormalizeRace(raw, nil, nil)
	s.Require().NoError(err)

	s.Equal("hill-dwarf-phb", entity.ID)
	s.Equal(25, entity.Speed)
	s.Equal([]string{"M"}, entity.Size)
	s.Equal([]string{"poison"}, entity.Resistances)

	s.Equal([]rules.AbilityScoreChoice{
		{Ability: rules.AbilityConstitution, Amount: 2},
		{Ability: rules.AbilityWisdom, Amount: 1},
	}, entity.AbilityScores)

	s.Require().Len(entity.Features, 1)
	s.Equal("Darkvision", entity.Features[0].Name)
	s.Contains(entity.Description, "skilled warriors")
}

func (s *NormalizerTestSuite) TestNormalizeRaceSpeedObject() {
	raw := rules.RawEntity{
		"name":   "Aarakocra",
		"source": "MPMM",
		"speed":  map[string]any{"walk": float64(30), "fly": float64(50)},
	}

	entity, err := s.norm.NormalizeRace(raw, nil, nil)
	s.Require().NoError(err)
	s.Equal(30, entity.Speed)
}

func (s *NormalizerTestSuite) TestNormalizeClass() {
	raw := rules.RawEntity{
		"name":              "Ranger",
		"source":            "PHB",
		"hd":                map[string]any{"number": float64(1), "faces": float64(10)},
		"casterProgression": "1/2",
		"proficiency":       []any{"str", "dex"},
		"subclassTitle":     "Ranger Archetype",
		"startingProficiencies": map[string]any{
			"skills": []any{
				map[string]any{
					"choose": map[string]any{
						"from":  []any{"animal handling", "athletics", "insight"},
						"count": float64(3),
					},
				},
			},
		},
		"classFeatures": []any{
			"Favored Enemy|Ranger||1",
			map[string]any{
				"classFeature":        "Ranger Archetype|Ranger||3",
				"gainSubclassFeature": true,
			},
			"Ability Score Improvement|Ranger||4",
		},
	}

	class, err := s.norm.NormalizeClass(raw, nil)
	s.Require().NoError(err)

	s.Equal("ranger-phb", class.ID)
	s.Equal(10, class.HitDice)
	s.Equal(rules.CasterHalf, class.Caster)
	s.Equal("Ranger Archetype", class.SubclassTitle)
	s.Equal([]string{rules.AbilityStrength, rules.AbilityDexterity}, class.SavingThrows)

	s.Require().NotNil(class.Proficiencies.SkillChoice)
	s.Equal(3, class.Proficiencies.SkillChoice.Count)
	s.Equal([]string{rules.SkillAnimalHandling, rules.SkillAthletics, rules.SkillInsight},
		class.Proficiencies.SkillChoice.From)

	s.Require().Len(class.Features, 3)
	s.Equal("Favored Enemy", class.Features[0].Name)
	s.Equal(1, class.Features[0].Level)
	s.Equal("Ranger Archetype", class.Features[1].Name)
	s.Equal(3, class.Features[1].Level)
	s.Equal("Ability Score Improvement", class.Features[2].Name)
	s.Equal(4, class.Features[2].Level)
}

func (s *NormalizerTestSuite) TestNormalizeClassNonCaster() {
	raw := rules.RawEntity{
		"name":   "Fighter",
		"source": "PHB",
		"hd":     map[string]any{"number": float64(1), "faces": float64(10)},
	}

	class, err := s.norm.NormalizeClass(raw, nil)
	s.Require().NoError(err)
	s.Equal(rules.CasterProgression(""), class.Caster)
}

func (s *NormalizerTestSuite) TestSlug() {
	s.Equal("acolyte-phb", normalizer.EntityID("Acolyte", "PHB"))
	s.Equal("variant-criminal-spy-phb", normalizer.EntityID("Variant Criminal (Spy)", "PHB"))
	s.Equal("far-traveler-scag", normalizer.EntityID("Far Traveler", "SCAG"))
}
