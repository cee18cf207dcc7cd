package sources

import (
	"context"
	"strings"

	"github.com/hearthforge/rulebook-api/internal/clients/rulebook"
	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/errors"
)

// ClientProvider loads source records through the raw data loader's books
// resource.
type ClientProvider struct {
	client rulebook.Client
}

// NewClientProvider creates a provider backed by the rulebook client
func NewClientProvider(client rulebook.Client) (*ClientProvider, error) {
	if client == nil {
		return nil, errors.InvalidArgument("client is required")
	}
	return &ClientProvider{client: client}, nil
}

// Sources loads and decodes the books resource
func (p *ClientProvider) Sources(ctx context.Context) ([]rules.Source, error) {
	result, err := p.client.Load(ctx, rulebook.ResourceSources, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load book records")
	}

	sources := make([]rules.Source, 0, len(result.Entities))
	for _, raw := range result.Entities {
		if src, ok := sourceFromRaw(raw); ok {
			sources = append(sources, src)
		}
	}
	return sources, nil
}

// sourceFromRaw maps one raw book record to a Source. Records without an
// id are unusable and skipped.
func sourceFromRaw(raw rules.RawEntity) (rules.Source, bool) {
	id, _ := raw["id"].(string)
	if id == "" {
		// older records key the abbreviation as "source"
		id, _ = raw["source"].(string)
	}
	if id == "" {
		return rules.Source{}, false
	}

	src := rules.Source{
		ID:           strings.ToUpper(id),
		Abbreviation: strings.ToUpper(id),
		Group:        groupFromRaw(raw),
	}
	src.Name, _ = raw["name"].(string)
	if abbrev, ok := raw["abbreviation"].(string); ok && abbrev != "" {
		src.Abbreviation = abbrev
	}
	src.Version, _ = raw["version"].(string)
	src.TargetLanguage, _ = raw["targetLanguage"].(string)
	src.IsCore, _ = raw["isCore"].(bool)
	src.IsDefault, _ = raw["isDefault"].(bool)
	src.HasErrata, _ = raw["hasErrata"].(bool)

	contents, _ := raw["contents"].([]any)
	for _, entry := range contents {
		section, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		cs := rules.ContentSection{}
		cs.Name, _ = section["name"].(string)
		if headers, ok := section["headers"].([]any); ok {
			for _, h := range headers {
				if header, ok := h.(string); ok {
					cs.Headers = append(cs.Headers, header)
				}
			}
		}
		if cs.Name != "" {
			src.Contents = append(src.Contents, cs)
		}
	}

	return src, true
}

func groupFromRaw(raw rules.RawEntity) rules.SourceGroup {
	group, _ := raw["group"].(string)
	switch strings.ToLower(group) {
	case "core":
		return rules.GroupCore
	case "setting":
		return rules.GroupSetting
	case "supplement":
		return rules.GroupSupplement
	case "prerelease", "ua":
		return rules.GroupPrerelease
	case "homebrew":
		return rules.GroupHomebrew
	default:
		return rules.GroupSupplement
	}
}
