// Package rulebook is the client for the raw rulebook JSON datasets
package rulebook

//go:generate mockgen -destination=mock/mock_client.go -package=rulebookmock github.com/hearthforge/rulebook-api/internal/clients/rulebook Client

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/errors"
	"github.com/hearthforge/rulebook-api/internal/pkg/clock"
)

// Resource keys for the entity datasets
const (
	ResourceBackgrounds = "backgrounds"
	ResourceClasses     = "classes"
	ResourceRaces       = "races"
	ResourceSpells      = "spells"
	ResourceItems       = "items"
	ResourceSources     = "books"
)

// fluffKeyFor maps a primary resource to its flavor-text companion
func fluffKeyFor(key string) string {
	return "fluff-" + key
}

// LoadOptions controls a single Load call
type LoadOptions struct {
	// MaxRetries bounds fetch attempts for transient failures (default 3)
	MaxRetries int
	// ForceRefresh bypasses the cache even when the entry is fresh
	ForceRefresh bool
}

// LoadResult is the outcome of loading a primary resource and its fluff
// companion. FluffIndex is keyed by name|source and is empty, never nil,
// when the companion failed to load.
type LoadResult struct {
	Entities   []rules.RawEntity
	FluffIndex map[string]rules.RawEntity
}

// Client defines the interface for raw dataset access
type Client interface {
	// Load returns the raw entities for a resource key, cached until stale.
	// The fluff companion is fetched alongside; its failure degrades to an
	// empty index and never fails the primary load.
	Load(ctx context.Context, key string, opts *LoadOptions) (*LoadResult, error)

	// Invalidate drops any cached entry for the key
	Invalidate(key string)
}

// Config contains configuration options for the rulebook client
type Config struct {
	Fetcher Fetcher
	// PrimaryTTL is the staleness bound for primary resources (default 1h)
	PrimaryTTL time.Duration
	// FluffTTL is the staleness bound for fluff companions (default 2h)
	FluffTTL time.Duration
	// CacheSize bounds the number of cached resource keys (default 50)
	CacheSize int
	Clock     clock.Clock
	Logger    *slog.Logger
}

// Validate validates the Config and sets defaults if not provided
func (cfg *Config) Validate() error {
	if cfg.Fetcher == nil {
		return errors.InvalidArgument("Fetcher is required")
	}
	if cfg.PrimaryTTL == 0 {
		cfg.PrimaryTTL = time.Hour
	}
	if cfg.FluffTTL == 0 {
		cfg.FluffTTL = 2 * time.Hour
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = 50
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return nil
}

type client struct {
	fetcher    Fetcher
	primaryTTL time.Duration
	fluffTTL   time.Duration
	clock      clock.Clock
	logger     *slog.Logger

	cache *resourceCache
}

// New creates a new rulebook client with the given configuration
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &client{
		fetcher:    cfg.Fetcher,
		primaryTTL: cfg.PrimaryTTL,
		fluffTTL:   cfg.FluffTTL,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
		cache:      newResourceCache(cfg.CacheSize),
	}, nil
}

func (c *client) Load(ctx context.Context, key string, opts *LoadOptions) (*LoadResult, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.InvalidArgument("resource key is required")
	}
	if opts == nil {
		opts = &LoadOptions{}
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	now := c.clock.Now()
	if !opts.ForceRefresh {
		if entities, ok := c.cache.get(key, now, c.primaryTTL); ok {
			fluff, _ := c.cache.getFluff(key, now, c.fluffTTL)
			return &LoadResult{Entities: entities, FluffIndex: fluff}, nil
		}
	}

	// Fence this request: a slower fetch for an older request must not
	// clobber the result of a newer one for the same key.
	gen := c.cache.nextGeneration(key)

	var (
		wg       sync.WaitGroup
		entities []rules.RawEntity
		loadErr  error
		fluff    map[string]rules.RawEntity
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		entities, loadErr = c.fetchEntities(ctx, key, maxRetries)
	}()
	go func() {
		defer wg.Done()
		fluff = c.fetchFluff(ctx, fluffKeyFor(key), maxRetries)
	}()
	wg.Wait()

	if loadErr != nil {
		return nil, errors.Wrapf(loadErr, "failed to load resource %q", key)
	}

	if c.cache.put(key, entities, fluff, c.clock.Now(), gen) {
		c.logger.Debug("resource cached", "key", key, "entities", len(entities))
	} else {
		c.logger.Debug("stale fetch discarded", "key", key, "generation", gen)
	}

	return &LoadResult{Entities: entities, FluffIndex: fluff}, nil
}

func (c *client) Invalidate(key string) {
	c.cache.remove(key)
}

// fetchEntities fetches and decodes a primary resource, retrying transient
// failures only. Malformed JSON or an empty payload is a hard failure.
func (c *client) fetchEntities(ctx context.Context, key string, maxRetries int) ([]rules.RawEntity, error) {
	payload, err := c.fetchWithRetry(ctx, key, maxRetries)
	if err != nil {
		return nil, err
	}
	return decodeEntityPayload(key, payload)
}

// fetchFluff loads the flavor-text companion; any failure degrades to an
// empty index.
func (c *client) fetchFluff(ctx context.Context, key string, maxRetries int) map[string]rules.RawEntity {
	payload, err := c.fetchWithRetry(ctx, key, maxRetries)
	if err != nil {
		c.logger.Warn("fluff resource unavailable", "key", key, "error", err)
		return map[string]rules.RawEntity{}
	}

	entities, err := decodeEntityPayload(key, payload)
	if err != nil {
		c.logger.Warn("fluff resource malformed", "key", key, "error", err)
		return map[string]rules.RawEntity{}
	}

	index := make(map[string]rules.RawEntity, len(entities))
	for _, e := range entities {
		name, _ := e["name"].(string)
		source, _ := e["source"].(string)
		if name == "" {
			continue
		}
		index[FluffIndexKey(name, source)] = e
	}
	return index
}

func (c *client) fetchWithRetry(ctx context.Context, key string, maxRetries int) ([]byte, error) {
	operation := func() ([]byte, error) {
		payload, err := c.fetcher.Fetch(ctx, key)
		if err != nil {
			if errors.IsRetryable(err) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return payload, nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 100 * time.Millisecond

	payload, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(maxRetries)), // #nosec G115 -- maxRetries is validated positive
	)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// entityArrayFields maps a resource key to the root field carrying its
// entity array in the upstream datasets.
var entityArrayFields = map[string]string{
	ResourceBackgrounds: "background",
	ResourceClasses:     "class",
	ResourceRaces:       "race",
	ResourceSpells:      "spell",
	ResourceItems:       "item",
	ResourceSources:     "book",

	fluffKeyFor(ResourceBackgrounds): "backgroundFluff",
	fluffKeyFor(ResourceClasses):     "classFluff",
	fluffKeyFor(ResourceRaces):       "raceFluff",
}

// decodeEntityPayload parses a dataset payload. The root is an object whose
// known field for the key holds the entities, or a bare array. Unknown keys
// fall back to the first array field in sorted order, skipping _-prefixed
// metadata fields. An empty or structurally invalid root is data loss, not
// a transient failure.
func decodeEntityPayload(key string, payload []byte) ([]rules.RawEntity, error) {
	if len(payload) == 0 {
		return nil, errors.DataLoss("empty payload")
	}

	var root any
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "malformed payload")
	}

	var list []any
	switch typed := root.(type) {
	case []any:
		list = typed
	case map[string]any:
		if field := entityArrayFields[key]; field != "" {
			list, _ = typed[field].([]any)
		}
		if list == nil {
			fields := make([]string, 0, len(typed))
			for k := range typed {
				if strings.HasPrefix(k, "_") {
					continue
				}
				fields = append(fields, k)
			}
			sort.Strings(fields)
			for _, k := range fields {
				if arr, ok := typed[k].([]any); ok {
					list = arr
					break
				}
			}
		}
	}
	if list == nil {
		return nil, errors.DataLoss("payload has no entity array")
	}

	entities := make([]rules.RawEntity, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			entities = append(entities, obj)
		}
	}
	if len(entities) == 0 {
		return nil, errors.DataLoss("payload entity array is empty")
	}
	return entities, nil
}

// FluffIndexKey builds the lookup key for an entity's flavor record
func FluffIndexKey(name, source string) string {
	return strings.ToLower(name) + "|" + strings.ToUpper(source)
}
