package references

import (
	"strings"
	"sync"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
)

// Lister supplies the current entities of one type. The resolver queries
// it on every lookup so a provider can serve freshly-normalized data.
type Lister func() []*rules.NormalizedEntity

// Resolution is the outcome of a lookup. A miss is a value, never an
// error: Entity is nil and Err carries the presentable failure text.
type Resolution struct {
	Name   string
	Entity *rules.NormalizedEntity
	Err    string
}

// Found reports whether the lookup hit
func (r Resolution) Found() bool {
	return r.Entity != nil
}

// Resolver resolves cross-reference tags against registered entity lists
type Resolver struct {
	mu      sync.RWMutex
	listers map[string]Lister
}

// NewResolver creates an empty resolver
func NewResolver() *Resolver {
	return &Resolver{listers: make(map[string]Lister)}
}

// Register installs the entity lister for a type, replacing any previous one
func (r *Resolver) Register(entityType string, lister Lister) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listers[strings.ToLower(entityType)] = lister
}

// Resolve looks up an entity by case-insensitive exact name. When several
// entities share the name, one from the requested source wins; otherwise
// the first name match is returned.
func (r *Resolver) Resolve(entityType, name, source string) Resolution {
	r.mu.RLock()
	lister, ok := r.listers[strings.ToLower(entityType)]
	r.mu.RUnlock()

	if !ok {
		return Resolution{Name: name, Err: "unknown entity type: " + entityType}
	}

	wantName := strings.ToLower(strings.TrimSpace(name))
	wantSource := strings.ToUpper(strings.TrimSpace(source))

	var first *rules.NormalizedEntity
	for _, entity := range lister() {
		if strings.ToLower(entity.Name) != wantName {
			continue
		}
		if wantSource != "" && strings.ToUpper(entity.Source) == wantSource {
			return Resolution{Name: entity.Name, Entity: entity}
		}
		if first == nil {
			first = entity
		}
	}

	if first != nil {
		return Resolution{Name: first.Name, Entity: first}
	}
	return Resolution{Name: name, Err: "not found"}
}

// ResolveTag resolves a parsed inline tag
func (r *Resolver) ResolveTag(tag Tag) Resolution {
	return r.Resolve(tag.Type, tag.Name, tag.Source)
}
