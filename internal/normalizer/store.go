package normalizer

import (
	"context"
	"strings"
	"sync"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/errors"
)

// ListFunc loads and normalizes every entity of one type
type ListFunc func(ctx context.Context) ([]*rules.NormalizedEntity, error)

// SourceFilter reports whether a source code is currently allowed. A nil
// filter admits every source.
type SourceFilter func(source string) bool

// Store caches normalized entities by ID, built once per load and filtered
// through the allowed-source set. Register Invalidate with the catalog's
// invalidation hooks and call it after a raw-data refresh so the cached
// views rebuild lazily on the next read.
type Store struct {
	filter SourceFilter

	mu    sync.Mutex
	types map[string]*storeType
}

type storeType struct {
	load     ListFunc
	loaded   bool
	entities []*rules.NormalizedEntity
	byID     map[string]*rules.NormalizedEntity
}

// NewStore creates an empty store
func NewStore(filter SourceFilter) *Store {
	return &Store{filter: filter, types: make(map[string]*storeType)}
}

// RegisterType installs the load function for one entity type, replacing
// any previous registration.
func (s *Store) RegisterType(entityType string, load ListFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[strings.ToLower(entityType)] = &storeType{load: load}
}

// List returns the cached entities of a type, loading and filtering them
// on first use after registration or invalidation.
func (s *Store) List(ctx context.Context, entityType string) ([]*rules.NormalizedEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadLocked(ctx, entityType)
	if err != nil {
		return nil, err
	}
	return st.entities, nil
}

// Get looks up one cached entity by ID
func (s *Store) Get(ctx context.Context, entityType, id string) (*rules.NormalizedEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadLocked(ctx, entityType)
	if err != nil {
		return nil, err
	}
	entity, ok := st.byID[id]
	if !ok {
		return nil, errors.NotFoundf("%s %q not found", entityType, id)
	}
	return entity, nil
}

func (s *Store) loadLocked(ctx context.Context, entityType string) (*storeType, error) {
	st, ok := s.types[strings.ToLower(entityType)]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown entity type %q", entityType)
	}
	if st.loaded {
		return st, nil
	}

	loaded, err := st.load(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s entities", entityType)
	}

	entities := make([]*rules.NormalizedEntity, 0, len(loaded))
	byID := make(map[string]*rules.NormalizedEntity, len(loaded))
	for _, entity := range loaded {
		if s.filter != nil && !s.filter(entity.Source) {
			continue
		}
		entities = append(entities, entity)
		byID[entity.ID] = entity
	}

	st.entities = entities
	st.byID = byID
	st.loaded = true
	return st, nil
}

// Invalidate drops every cached view; the next read reloads
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.types {
		st.loaded = false
		st.entities = nil
		st.byID = nil
	}
}

// Lister adapts one type's List for the reference resolver, which has no
// error path: a failed load resolves as an empty list.
func (s *Store) Lister(entityType string) func() []*rules.NormalizedEntity {
	return func() []*rules.NormalizedEntity {
		entities, err := s.List(context.Background(), entityType)
		if err != nil {
			return nil
		}
		return entities
	}
}
