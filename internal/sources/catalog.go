// Package sources implements the rulebook source catalog. The catalog gates
// which raw entities are visible to a character: a source must carry
// player-facing content sections and not sit on the ban list.
package sources

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/errors"
)

//go:generate mockgen -destination=mock/mock_provider.go -package=sourcesmock github.com/hearthforge/rulebook-api/internal/sources Provider

// contentKeywords is the fixed set of section/header names that mark a
// source as usable for character building. A source whose contents mention
// none of these is filtered out regardless of ban-list status.
var contentKeywords = []string{
	"Races",
	"Classes",
	"Backgrounds",
	"Feats",
	"Spells",
	"Equipment",
	"Magic Items",
	"Subclasses",
	"Subraces",
	"Class Options",
	"Character Options",
	"Customization Options",
	"Multiclassing",
	"Personality and Background",
}

// bannedSourceIDs are excluded unconditionally, even when their contents
// match the keyword filter.
var bannedSourceIDs = map[string]bool{
	"SAIS":   true,
	"BAM":    true,
	"LOX":    true,
	"DSOTDQ": true,
}

// pinnedSourceIDs are always sorted to the front of the display order,
// in this order.
var pinnedSourceIDs = []string{"PHB", "XPHB"}

// Provider supplies the raw source records the catalog filters
type Provider interface {
	Sources(ctx context.Context) ([]rules.Source, error)
}

// NotifyFunc delivers a user-facing warning. The catalog never renders UI;
// it hands messages to this injected sink.
type NotifyFunc func(message string)

// Config holds the dependencies for the catalog
type Config struct {
	Provider Provider
	Notify   NotifyFunc
	Logger   *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Provider == nil {
		vb.RequiredField("Provider")
	}

	return vb.Build()
}

// Catalog is the registry of filtered rulebook sources and the allowed-source
// selection. Lookups are safe for concurrent use; Initialize and
// UpdateAllowedSources serialize writers internally.
type Catalog struct {
	provider Provider
	notify   NotifyFunc
	logger   *slog.Logger

	mu          sync.RWMutex
	initialized bool
	sources     map[string]rules.Source
	allowed     map[string]bool
	invalidate  []func()
}

// New creates a new source catalog
func New(cfg *Config) (*Catalog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	notify := cfg.Notify
	if notify == nil {
		notify = func(string) {}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Catalog{
		provider: cfg.Provider,
		notify:   notify,
		logger:   logger,
		sources:  make(map[string]rules.Source),
		allowed:  make(map[string]bool),
	}, nil
}

// Initialize loads and filters the raw source records. It is idempotent:
// a second call is a no-op even if the provider data has changed.
func (c *Catalog) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	raw, err := c.provider.Sources(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load sources")
	}

	for _, src := range raw {
		id := strings.ToUpper(src.ID)
		if bannedSourceIDs[id] {
			continue
		}
		if !isEligible(&src) {
			c.logger.Debug("source filtered: no character content", "source", id)
			continue
		}
		src.ID = id
		c.sources[id] = src
		if src.IsDefault {
			c.allowed[id] = true
		}
	}

	c.initialized = true
	c.logger.Info("source catalog initialized", "sources", len(c.sources))
	return nil
}

// isEligible reports whether a source's contents mention any of the
// character-building keywords, in section names or headers.
func isEligible(src *rules.Source) bool {
	for _, section := range src.Contents {
		if matchesKeyword(section.Name) {
			return true
		}
		for _, header := range section.Headers {
			if matchesKeyword(header) {
				return true
			}
		}
	}
	return false
}

// matchesKeyword is a case-insensitive containment check, so a section
// titled "Spells and Rituals" still counts as spell content.
func matchesKeyword(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, kw := range contentKeywords {
		if strings.Contains(name, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// IsValidSource reports whether the code names a known, non-banned source
func (c *Catalog) IsValidSource(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.sources[strings.ToUpper(code)]
	return ok
}

// GetSourceDetails returns the source record for a code
func (c *Catalog) GetSourceDetails(code string) (rules.Source, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	src, ok := c.sources[strings.ToUpper(code)]
	if !ok {
		return rules.Source{}, errors.NotFoundf("unknown source %q", code)
	}
	return src, nil
}

// IsSourceAllowed reports whether the code is in the current allowed set
func (c *Catalog) IsSourceAllowed(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.allowed[strings.ToUpper(code)]
}

// AllowedSources returns a copy of the current allowed set
func (c *Catalog) AllowedSources() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]bool, len(c.allowed))
	for id, ok := range c.allowed {
		if ok {
			out[id] = true
		}
	}
	return out
}

// UpdateAllowedSources replaces the allowed-source set. The new set must
// contain at least one core source (IsCore); otherwise the update is
// rejected, a user-facing warning is emitted, and no state changes.
// Invalidation hooks fire only on a successful swap.
func (c *Catalog) UpdateAllowedSources(newSet map[string]bool) bool {
	c.mu.Lock()

	if !c.hasCoreSourceLocked(newSet) {
		c.mu.Unlock()
		c.notify("At least one core source must remain enabled.")
		return false
	}

	cleaned := make(map[string]bool, len(newSet))
	for id, on := range newSet {
		id = strings.ToUpper(id)
		if on && c.sources[id].ID != "" {
			cleaned[id] = true
		}
	}
	c.allowed = cleaned
	hooks := make([]func(), len(c.invalidate))
	copy(hooks, c.invalidate)
	c.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
	return true
}

func (c *Catalog) hasCoreSourceLocked(set map[string]bool) bool {
	for id, on := range set {
		if !on {
			continue
		}
		if src, ok := c.sources[strings.ToUpper(id)]; ok && src.IsCore {
			return true
		}
	}
	return false
}

// OnInvalidate registers a hook fired after the allowed set changes, so
// dependent caches (normalized entities) can drop stale state.
func (c *Catalog) OnInvalidate(hook func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidate = append(c.invalidate, hook)
}

// SortedForDisplay returns the filtered sources in display order: pinned
// ids first, then ascending group-priority rank. Ties within a rank keep
// no particular order beyond a stable name sort.
func (c *Catalog) SortedForDisplay() []rules.Source {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pinned := make(map[string]int, len(pinnedSourceIDs))
	for i, id := range pinnedSourceIDs {
		pinned[id] = i
	}

	out := make([]rules.Source, 0, len(c.sources))
	for _, src := range c.sources {
		out = append(out, src)
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, iPinned := pinned[out[i].ID]
		pj, jPinned := pinned[out[j].ID]
		switch {
		case iPinned && jPinned:
			return pi < pj
		case iPinned:
			return true
		case jPinned:
			return false
		}
		if ri, rj := out[i].GroupRank(), out[j].GroupRank(); ri != rj {
			return ri < rj
		}
		return out[i].Name < out[j].Name
	})

	return out
}
