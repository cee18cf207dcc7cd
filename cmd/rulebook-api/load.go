package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hearthforge/rulebook-api/internal/clients/rulebook"
	"github.com/hearthforge/rulebook-api/internal/config"
	"github.com/hearthforge/rulebook-api/internal/normalizer"
)

var (
	loadResource  string
	loadChunkSize int
	loadRefresh   bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a raw resource and report what normalizes cleanly",
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadResource, "resource", rulebook.ResourceBackgrounds, "resource key to load")
	loadCmd.Flags().IntVar(&loadChunkSize, "chunk-size", 25, "entities per progress chunk")
	loadCmd.Flags().BoolVar(&loadRefresh, "refresh", false, "bypass the cache")
}

func runLoad(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	result, err := client.Load(cmd.Context(), loadResource, &rulebook.LoadOptions{
		MaxRetries:   cfg.MaxRetries,
		ForceRefresh: loadRefresh,
	})
	if err != nil {
		return err
	}

	fmt.Printf("loaded %d raw entities (%d fluff records)\n",
		len(result.Entities), len(result.FluffIndex))

	if loadResource != rulebook.ResourceBackgrounds {
		return nil
	}

	// drop per-entity warnings; only the summary matters here.
	// normalize the full slice in one pass so _copy variants can find
	// their base entity; chunking is progress reporting only.
	norm := normalizer.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	normalized := norm.NormalizeBackgrounds(result.Entities, result.FluffIndex)

	total := 0
	for chunk := range rulebook.Chunks(normalized, loadChunkSize) {
		total += len(chunk)
		fmt.Printf("normalized %d/%d\n", total, len(normalized))
	}
	fmt.Printf("%d of %d backgrounds normalized cleanly\n", len(normalized), len(result.Entities))
	return nil
}
