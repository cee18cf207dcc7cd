package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hearthforge/rulebook-api/internal/clients/rulebook"
	"github.com/hearthforge/rulebook-api/internal/config"
	"github.com/hearthforge/rulebook-api/internal/sources"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the filtered rulebook sources in display order",
	RunE:  runSources,
}

func runSources(cmd *cobra.Command, _ []string) error {
	catalog, err := buildCatalog()
	if err != nil {
		return err
	}
	if err := catalog.Initialize(cmd.Context()); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGROUP\tCORE\tDEFAULT")
	for _, src := range catalog.SortedForDisplay() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\n",
			src.ID, src.Name, src.Group, src.IsCore, src.IsDefault)
	}
	return w.Flush()
}

// buildCatalog wires the loader, provider, and catalog from environment
// configuration.
func buildCatalog() (*sources.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	client, err := buildClient(cfg)
	if err != nil {
		return nil, err
	}

	provider, err := sources.NewClientProvider(client)
	if err != nil {
		return nil, err
	}

	return sources.New(&sources.Config{
		Provider: provider,
		Notify: func(msg string) {
			fmt.Fprintln(os.Stderr, "warning:", msg)
		},
		Logger: slog.Default(),
	})
}

// buildClient wires the HTTP fetcher and caching loader
func buildClient(cfg *config.Config) (rulebook.Client, error) {
	fetcher, err := rulebook.NewHTTPFetcher(&rulebook.HTTPFetcherConfig{
		BaseURL: cfg.DataBaseURL,
		Timeout: cfg.FetchTimeout,
	})
	if err != nil {
		return nil, err
	}

	return rulebook.New(&rulebook.Config{
		Fetcher:    fetcher,
		PrimaryTTL: cfg.PrimaryTTL,
		FluffTTL:   cfg.FluffTTL,
		CacheSize:  cfg.CacheSize,
	})
}
