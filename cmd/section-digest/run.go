// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/section-digest/internal/history"
	"github.com/pdiddy/section-digest/internal/pdftext"
	"github.com/pdiddy/section-digest/internal/pipeline"
	"github.com/pdiddy/section-digest/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rank the pages of every PDF in the input directory",
	Long: `Run derives keywords from the task in persona.json, scores every page
of every PDF in the input directory, and writes output.json. Documents are
processed one at a time in filename order.

An unreadable PDF aborts the run and no output is written, unless
--isolate-failures is set; then the document is skipped, output.json is
still written, and the command exits non-zero.`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ex, err := pdftext.New(cfg.Extraction, nil)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	r := &pipeline.Runner{Extractor: ex, Config: cfg, Out: w}
	out, summary, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}

	path, err := pipeline.WriteOutput(cfg.OutputDir, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", path)

	if cfg.History.DBPath != "" {
		if err := recordRun(cmd.Context(), cfg.History, out, w); err != nil {
			return err
		}
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed extraction", summary.Failed)
	}
	return nil
}

func recordRun(ctx context.Context, cfg types.HistoryConfig, out *types.Output, w io.Writer) error {
	store, err := history.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Record(ctx, out)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	fmt.Fprintf(w, "Recorded run %s\n", id)
	return nil
}
