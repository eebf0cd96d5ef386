package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bugbear/internal/storage"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the result cache",
	Long: `Manage the result cache.

Results are cached per file content, bugbear version and analysis settings,
so a cache never needs clearing for correctness. Clearing reclaims space.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show result cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached result",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openResults() (*storage.DB, *storage.Results, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := openCache(cfg, newLogger(cfg))
	if err != nil {
		return nil, nil, err
	}
	return db, storage.NewResults(db), nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	db, results, err := openResults()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := results.Stats(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Cache:        %s\n", s.Path)
	fmt.Fprintf(out, "Entries:      %d\n", s.Entries)
	fmt.Fprintf(out, "Files:        %d\n", s.Files)
	fmt.Fprintf(out, "Diagnostics:  %d\n", s.Diagnostics)
	fmt.Fprintf(out, "Payload size: %d bytes\n", s.PayloadBytes)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	db, results, err := openResults()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := results.Clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached results from %s\n", n, db.Path())
	return nil
}
