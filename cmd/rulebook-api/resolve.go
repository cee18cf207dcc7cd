package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hearthforge/rulebook-api/internal/clients/rulebook"
	"github.com/hearthforge/rulebook-api/internal/config"
	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/errors"
	"github.com/hearthforge/rulebook-api/internal/normalizer"
	"github.com/hearthforge/rulebook-api/internal/references"
	"github.com/hearthforge/rulebook-api/internal/sources"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve {@type name|source}",
	Short: "Resolve an inline cross-reference tag against normalized entities",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	tag, ok := references.ParseTag(args[0])
	if !ok {
		return errors.InvalidArgumentf("not a reference tag: %q", args[0])
	}

	catalog, err := buildCatalog()
	if err != nil {
		return err
	}
	if err := catalog.Initialize(cmd.Context()); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	resolver := buildResolver(client, catalog, cfg)
	res := resolver.ResolveTag(tag)
	if !res.Found() {
		return errors.NotFoundf("%s %q: %s", tag.Type, tag.Name, res.Err)
	}

	fmt.Printf("%s (%s)\n", res.Entity.Name, res.Entity.Source)
	if res.Entity.Description != "" {
		fmt.Println(references.StripTags(res.Entity.Description))
	}
	return nil
}

// buildResolver wires the normalized-entity store between the loader and
// the reference resolver. The store drops its cached views whenever the
// catalog's allowed set changes.
func buildResolver(client rulebook.Client, catalog *sources.Catalog, cfg *config.Config) *references.Resolver {
	norm := normalizer.New(slog.Default())
	store := normalizer.NewStore(catalog.IsSourceAllowed)
	catalog.OnInvalidate(store.Invalidate)

	load := func(key string) func(ctx context.Context) (*rulebook.LoadResult, error) {
		return func(ctx context.Context) (*rulebook.LoadResult, error) {
			return client.Load(ctx, key, &rulebook.LoadOptions{MaxRetries: cfg.MaxRetries})
		}
	}

	backgrounds := load(rulebook.ResourceBackgrounds)
	store.RegisterType("background", func(ctx context.Context) ([]*rules.NormalizedEntity, error) {
		result, err := backgrounds(ctx)
		if err != nil {
			return nil, err
		}
		return norm.NormalizeBackgrounds(result.Entities, result.FluffIndex), nil
	})

	races := load(rulebook.ResourceRaces)
	store.RegisterType("race", func(ctx context.Context) ([]*rules.NormalizedEntity, error) {
		result, err := races(ctx)
		if err != nil {
			return nil, err
		}
		return norm.NormalizeRaces(result.Entities, result.FluffIndex), nil
	})

	classes := load(rulebook.ResourceClasses)
	store.RegisterType("class", func(ctx context.Context) ([]*rules.NormalizedEntity, error) {
		result, err := classes(ctx)
		if err != nil {
			return nil, err
		}
		normalized := norm.NormalizeClasses(result.Entities, result.FluffIndex)
		entities := make([]*rules.NormalizedEntity, 0, len(normalized))
		for _, class := range normalized {
			entities = append(entities, &class.NormalizedEntity)
		}
		return entities, nil
	})

	resolver := references.NewResolver()
	for _, entityType := range []string{"background", "race", "class"} {
		resolver.Register(entityType, store.Lister(entityType))
	}
	return resolver
}
