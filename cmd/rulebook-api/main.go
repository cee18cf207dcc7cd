// Package main is the entry point for the rulebook API tooling
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rulebook-api",
	Short: "Character-builder rules engine",
	Long:  `rulebook-api loads tabletop rulebook data, normalizes it, and computes character-builder state.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(progressionCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(resolveCmd)
}
