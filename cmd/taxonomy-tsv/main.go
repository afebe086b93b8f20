// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the taxonomy-tsv CLI.
// It converts marketplace category exports (ozon, yandex, shopify) into the
// standard category_id/category_text TSV and maintains a searchable index
// of the converted tables.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/taxonomy-tsv/internal/shopify"
	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger carries warnings and diagnostics. Progress lines are printed
// directly to the command's output.
var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// rootCmd is the base command for the taxonomy-tsv CLI.
var rootCmd = &cobra.Command{
	Use:   "taxonomy-tsv",
	Short: "Flatten marketplace category taxonomies into standard TSV",
	Long: `taxonomy-tsv converts hierarchical product-category exports into a flat
table of category_id and full category path, one row per category.

Supported exports: ozon (nested JSON with category and type nodes),
yandex (single-root JSON tree), and shopify (one "gid://... : path" record
per line). Converted tables can be loaded into a local full-text index and
searched by product text.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool("verbose") {
			logger.SetLevel(logrus.DebugLevel)
		}
		if f := viper.ConfigFileUsed(); f != "" {
			logger.WithField("file", f).Debug("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./taxonomy-tsv.yaml or ~/.config/taxonomy-tsv/config.yaml)")
	rootCmd.PersistentFlags().String("root", ".", "project root that default input and output paths are relative to")
	rootCmd.PersistentFlags().Bool("verbose", false, "log debug detail")

	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Diagnostics, including command errors, go to standard output.
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stdout)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("taxonomy-tsv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "taxonomy-tsv"))
		}
	}

	setDefaults()

	viper.SetEnvPrefix("TAXONOMY_TSV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logger.Warnf("could not read config file: %v", err)
		}
	}
}

func setDefaults() {
	viper.SetDefault("root", ".")
	viper.SetDefault("shopify.scheme", shopify.DefaultScheme)
	viper.SetDefault("index.dir", "index")
	viper.SetDefault("index.limit", 5)

	// Registering every platform key lets TAXONOMY_TSV_PLATFORMS_<P>_INPUT
	// and _OUTPUT reach viper.Unmarshal.
	for p, paths := range types.DefaultPaths() {
		viper.SetDefault("platforms."+string(p)+".input", paths.Input)
		viper.SetDefault("platforms."+string(p)+".output", paths.Output)
	}
}

// loadConfig decodes the merged flag, file, and environment settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	return cfg, nil
}

// resolve joins a relative path onto root. Absolute paths are returned as is.
func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
