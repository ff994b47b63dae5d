// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the section-digest CLI.
// The root command runs the pipeline over an input directory; subcommands
// inspect pages, keywords and the run history.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/section-digest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Configuration keys shared by the config file, environment and flags.
const (
	keyInputDir        = "input_dir"
	keyOutputDir       = "output_dir"
	keyMaxSections     = "max_sections"
	keyIsolateFailures = "isolate_failures"
	keySupplemental    = "keywords.supplemental"
	keyBackend         = "extraction.backend"
	keyImage           = "extraction.image"
	keyHistoryDB       = "history.db_path"
)

// rootCmd is the base command for the section-digest CLI.
var rootCmd = &cobra.Command{
	Use:   "section-digest",
	Short: "Rank PDF pages against a persona's task",
	Long: `section-digest reads persona.json and every PDF in the input directory,
scores each page against keywords derived from the persona's task, and
writes the top sections of each document, with a title and a representative
line, to output.json in the output directory.

Without a subcommand it runs the pipeline, the same as "section-digest run".`,
	SilenceUsage: true,
	RunE:         runPipeline,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./section-digest.yaml or ~/.config/section-digest/section-digest.yaml)")
	flags.String("input-dir", types.DefaultInputDir, "directory containing persona.json and the PDFs")
	flags.String("output-dir", types.DefaultOutputDir, "directory that receives output.json")
	flags.String("backend", string(types.BackendLedongthuc), "text extraction backend: ledongthuc, pdfcpu, or pdftotext")
	flags.String("image", "", "container image for the pdftotext backend (default pdftotext:latest)")
	flags.Int("max-sections", types.DefaultMaxSections, "ranked sections kept per document")
	flags.Bool("isolate-failures", false, "skip unreadable documents instead of aborting the run")
	flags.String("history-db", "", "SQLite database recording each run (empty disables history)")

	for key, flag := range map[string]string{
		keyInputDir:        "input-dir",
		keyOutputDir:       "output-dir",
		keyBackend:         "backend",
		keyImage:           "image",
		keyMaxSections:     "max-sections",
		keyIsolateFailures: "isolate-failures",
		keyHistoryDB:       "history-db",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	if err := viper.BindEnv(keySupplemental); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("section-digest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "section-digest"))
		}
	}

	viper.SetEnvPrefix("SECTION_DIGEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the pipeline configuration from flags, environment
// and config file, in that order of precedence.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if cfg.InputDir == "" {
		cfg.InputDir = types.DefaultInputDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = types.DefaultOutputDir
	}
	if cfg.MaxSections <= 0 {
		cfg.MaxSections = types.DefaultMaxSections
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
