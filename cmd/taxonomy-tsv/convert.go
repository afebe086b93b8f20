// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/taxonomy-tsv/internal/convert"
	"github.com/pdiddy/taxonomy-tsv/internal/shopify"
	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a marketplace taxonomy export to standard TSV",
	Long: `Convert reads one taxonomy export and writes category_id<TAB>category_text
rows, one per category, with the full " > "-joined path as text.

Each platform subcommand takes an optional input path and output path.
When omitted, paths come from the config file or the built-in defaults
under --root:

  ozon     data/ozon.json    -> data/ozon.tsv
  yandex   data/yandex.json  -> data/yandex.tsv
  shopify  categories.tsv    -> data/categories_standard.tsv`,
}

var convertAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Convert every platform using configured paths",
	Args:  cobra.NoArgs,
	RunE:  runConvertAll,
}

func newConvertPlatformCmd(p types.Platform, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(p) + " [input] [output]",
		Short: short,
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvertPlatform(cmd, p, args)
		},
	}
}

// sourceFor resolves a platform's paths from configuration, letting
// positional arguments override input then output.
func sourceFor(cfg types.Config, p types.Platform, args []string) convert.Source {
	paths := cfg.PathsFor(p)
	src := convert.Source{
		Platform: p,
		Input:    resolve(cfg.Root, paths.Input),
		Output:   resolve(cfg.Root, paths.Output),
	}
	if len(args) >= 1 {
		src.Input = args[0]
	}
	if len(args) >= 2 {
		src.Output = args[1]
	}
	return src
}

func runConvertPlatform(cmd *cobra.Command, p types.Platform, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ex, err := convert.ExtractorFor(p, shopify.NewParser(cfg.Shopify.Scheme, logger))
	if err != nil {
		return err
	}
	src := sourceFor(cfg, p, args)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converting %s taxonomy...\n", p)
	fmt.Fprintf(out, "  - input:  %s\n", src.Input)
	fmt.Fprintf(out, "  - output: %s\n\n", src.Output)

	res, err := convert.ConvertSource(ex, src, out)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nConversion complete!")
	fmt.Fprintf(out, "  - converted: %d\n", res.Converted)
	fmt.Fprintf(out, "  - skipped:   %d\n", res.Skipped)
	fmt.Fprintf(out, "  - output:    %s\n", res.Output)
	return nil
}

func runConvertAll(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	parser := shopify.NewParser(cfg.Shopify.Scheme, logger)

	jobs := make([]convert.Job, 0, len(types.Platforms))
	for _, p := range types.Platforms {
		ex, err := convert.ExtractorFor(p, parser)
		if err != nil {
			return err
		}
		jobs = append(jobs, convert.Job{Extractor: ex, Source: sourceFor(cfg, p, nil)})
	}

	batch := convert.ConvertBatch(jobs, cmd.OutOrStdout())
	if batch.HasFailures() {
		return fmt.Errorf("%d platform(s) failed conversion", batch.Failed)
	}
	return nil
}

func init() {
	convertCmd.AddCommand(newConvertPlatformCmd(types.PlatformOzon, "Flatten an ozon category tree"))
	convertCmd.AddCommand(newConvertPlatformCmd(types.PlatformYandex, "Flatten a yandex category tree (root excluded)"))
	convertCmd.AddCommand(newConvertPlatformCmd(types.PlatformShopify, "Parse a Shopify taxonomy listing"))
	convertCmd.AddCommand(convertAllCmd)

	rootCmd.AddCommand(convertCmd)
}
