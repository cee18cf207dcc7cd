// Package normalizer reconciles the schema variants of raw rulebook entities
// into one canonical shape. Each source book encodes the same semantic data
// differently; entries are classified once by source id and routed to a
// per-variant extractor rather than shape-sniffed field by field.
package normalizer

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/errors"
)

// modernSourceIDs are the newer source books that encode proficiencies,
// ability scores, and feats as structured arrays. Everything else is
// treated as legacy and extracted heuristically from entries text.
var modernSourceIDs = map[string]bool{
	"XPHB": true,
	"XDMG": true,
	"XMM":  true,
}

// schemaVariant tags which encoding an entity's source uses
type schemaVariant int

const (
	variantLegacy schemaVariant = iota
	variantModern
)

// classifyVariant classifies an entity by source id membership
func classifyVariant(source string) schemaVariant {
	if modernSourceIDs[strings.ToUpper(source)] {
		return variantModern
	}
	return variantLegacy
}

// extractor is the per-variant strategy for the fields whose encoding
// diverges between legacy and modern sources. Proficiencies, equipment,
// and descriptions share one code path; these do not.
type extractor interface {
	abilityScores(raw rules.RawEntity) []rules.AbilityScoreChoice
	feats(raw rules.RawEntity) []rules.FeatDescriptor
	characteristics(raw rules.RawEntity) rules.Characteristics
}

func extractorFor(variant schemaVariant) extractor {
	if variant == variantModern {
		return modernExtractor{}
	}
	return legacyExtractor{}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9-]+`)
var hyphenRuns = regexp.MustCompile(`-+`)

// Slug creates a URL-safe identifier from a string
func Slug(s string) string {
	slug := strings.ToLower(s)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = hyphenRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// EntityID builds the canonical id for a name+source pair
func EntityID(name, source string) string {
	return Slug(name + "-" + source)
}

// Normalizer converts raw entities to their canonical shape
type Normalizer struct {
	logger *slog.Logger
}

// New creates a normalizer. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// identity pulls the required name/source pair off a raw entity
func identity(raw rules.RawEntity) (name, source string, err error) {
	name, _ = raw["name"].(string)
	source, _ = raw["source"].(string)

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", name, vb)
	errors.ValidateRequired("source", source, vb)
	if err := vb.Build(); err != nil {
		return "", "", err
	}
	return name, strings.ToUpper(source), nil
}

// guard converts a panic during one entity's extraction into an error so a
// single malformed record never aborts batch processing.
func guard(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Internalf("panic normalizing %q: %v", name, r)
		}
	}()
	return fn()
}

// asInt converts the numeric shapes JSON decoding produces
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

// asSlice returns v as []any when it is one
func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// asMap returns v as a raw object when it is one
func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// titleCase normalizes a lowercase proficiency key to its display name,
// e.g. "sleight of hand" -> "Sleight of Hand".
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "of" && i > 0 {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// splitRef splits a "name|source" reference, returning an empty source
// when the reference has none.
func splitRef(ref string) (name, source string) {
	parts := strings.SplitN(ref, "|", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.ToUpper(strings.TrimSpace(parts[1]))
	}
	return strings.TrimSpace(ref), ""
}

// lookupFluff resolves an entity's flavor record from the fluff index
func lookupFluff(fluffIndex map[string]rules.RawEntity, name, source string) rules.Fluff {
	if fluffIndex == nil {
		return rules.Fluff{}
	}
	raw, ok := fluffIndex[strings.ToLower(name)+"|"+strings.ToUpper(source)]
	if !ok {
		return rules.Fluff{}
	}

	fluff := rules.Fluff{}
	for _, entry := range asSlice(raw["entries"]) {
		if text := flattenEntry(entry); text != "" {
			fluff.Entries = append(fluff.Entries, text)
		}
	}
	for _, img := range asSlice(raw["images"]) {
		if href := asMap(asMap(img)["href"]); href != nil {
			if path, ok := href["path"].(string); ok {
				fluff.Images = append(fluff.Images, path)
			}
		}
	}
	return fluff
}

func logDropped(logger *slog.Logger, kind string, raw rules.RawEntity, err error) {
	name, _ := raw["name"].(string)
	source, _ := raw["source"].(string)
	logger.Warn(fmt.Sprintf("dropped malformed %s", kind),
		"name", name, "source", source, "error", err)
}
