// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/taxonomy-tsv/internal/index"
	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the category search index (build, search, export, delete)",
	Long: `Index keeps converted category tables in a local SQLite database with
full-text search. Use subcommands to load standard TSV files, search them
by product text, export them, or drop a platform.`,
}

// --- build subcommand ---

var indexBuildCmd = &cobra.Command{
	Use:   "build [platforms...]",
	Short: "Load converted TSV files into the index",
	Long: `Build reads each platform's standard TSV (the convert output path) and
loads it into the index. With no arguments every platform is built.
Files unchanged since the last build are skipped.`,
	RunE: runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	cfg, store, err := openIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	platforms, err := platformsFromArgs(args)
	if err != nil {
		return err
	}

	sources := make([]index.Source, len(platforms))
	for i, p := range platforms {
		sources[i] = index.Source{
			Platform: p,
			Path:     resolve(cfg.Root, cfg.PathsFor(p).Output),
		}
	}

	summary, err := store.Build(context.Background(), sources, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d platform(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var indexSearchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Find the categories that best match product text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIndexSearch,
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	_, store, err := openIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := index.SearchOptions{Text: strings.Join(args, " ")}
	if p, _ := cmd.Flags().GetString("platform"); p != "" {
		if opts.Platform, err = types.ParsePlatform(p); err != nil {
			return err
		}
	}
	opts.Limit, _ = cmd.Flags().GetInt("limit")

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []index.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-8s  %-7s  %-40s  %s\n", "Rank", "Platform", "Score", "ID", "Category")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range results {
		id := r.ID
		if len(id) > 40 {
			id = id[:37] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-8s  %-7.3f  %-40s  %s\n", i+1, r.Platform, r.Score, id, r.Text)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export indexed categories to YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	_, store, err := openIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	var platform types.Platform
	if p, _ := cmd.Flags().GetString("platform"); p != "" {
		if platform, err = types.ParsePlatform(p); err != nil {
			return err
		}
	}

	var path string
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background(), platform)
	case "json":
		path, err = store.ExportJSON(context.Background(), platform)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- delete subcommand ---

var indexDeleteCmd = &cobra.Command{
	Use:   "delete [platform]",
	Short: "Remove a platform from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexDelete,
}

func runIndexDelete(cmd *cobra.Command, args []string) error {
	platform, err := types.ParsePlatform(args[0])
	if err != nil {
		return err
	}

	_, store, err := openIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Delete(context.Background(), platform)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d %s categories\n", n, platform)
	return nil
}

// --- status subcommand ---

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List indexed platforms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openIndex()
		if err != nil {
			return err
		}
		defer store.Close()

		statuses, err := store.Statuses(context.Background())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(statuses) == 0 {
			fmt.Fprintln(out, "No platforms indexed.")
			return nil
		}
		for _, st := range statuses {
			fmt.Fprintf(out, "%-8s  %6d categories  %s  (%s)\n", st.Platform, st.Rows, st.IndexedAt, st.Source)
		}
		return nil
	},
}

// --- shared helpers ---

func openIndex() (types.Config, *index.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	idxCfg := cfg.Index
	idxCfg.Dir = resolve(cfg.Root, idxCfg.Dir)

	store, err := index.NewStore(idxCfg, logger)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, store, nil
}

func platformsFromArgs(args []string) ([]types.Platform, error) {
	if len(args) == 0 {
		return types.Platforms, nil
	}
	platforms := make([]types.Platform, 0, len(args))
	for _, a := range args {
		p, err := types.ParsePlatform(a)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, p)
	}
	return platforms, nil
}

func init() {
	indexCmd.PersistentFlags().String("index-dir", "index", "directory holding the index database (relative to --root)")
	viper.BindPFlag("index.dir", indexCmd.PersistentFlags().Lookup("index-dir"))

	indexSearchCmd.Flags().String("platform", "", "restrict results to one platform: ozon, yandex, or shopify")
	indexSearchCmd.Flags().Int("limit", 0, "maximum results (0 = index.limit, default 5)")
	indexSearchCmd.Flags().Bool("json", false, "output results as JSON")

	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	indexExportCmd.Flags().String("platform", "", "export only one platform")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexSearchCmd)
	indexCmd.AddCommand(indexExportCmd)
	indexCmd.AddCommand(indexDeleteCmd)
	indexCmd.AddCommand(indexStatusCmd)

	rootCmd.AddCommand(indexCmd)
}
