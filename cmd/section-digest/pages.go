// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/section-digest/internal/keywords"
	"github.com/pdiddy/section-digest/internal/pdftext"
	"github.com/pdiddy/section-digest/internal/rank"
	"github.com/pdiddy/section-digest/internal/snippet"
	"github.com/pdiddy/section-digest/internal/title"
	"github.com/pdiddy/section-digest/pkg/types"
)

var pagesCmd = &cobra.Command{
	Use:   "pages <pdf>",
	Short: "Print the extracted text of each page of a PDF",
	Long: `Pages runs the configured extraction backend on a single PDF and prints
one record per page. With --task, each record also carries the page's score,
its heading candidates and the line that would be chosen as refined text.`,
	Args: cobra.ExactArgs(1),
	RunE: runPages,
}

// pageDump is one page as printed by the pages command.
type pageDump struct {
	PageNumber  int      `json:"page_number" yaml:"page_number"`
	Score       *int     `json:"score,omitempty" yaml:"score,omitempty"`
	Titles      []string `json:"titles,omitempty" yaml:"titles,omitempty"`
	RefinedText string   `json:"refined_text,omitempty" yaml:"refined_text,omitempty"`
	Lines       []string `json:"lines" yaml:"lines"`
}

func init() {
	pagesCmd.Flags().String("format", "yaml", "output format: yaml or json")
	pagesCmd.Flags().String("task", "", "score pages against keywords derived from this task")

	rootCmd.AddCommand(pagesCmd)
}

func runPages(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	task, _ := cmd.Flags().GetString("task")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ex, err := pdftext.New(cfg.Extraction, nil)
	if err != nil {
		return err
	}

	pages, err := ex.Extract(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var kws []string
	if task != "" {
		kws = keywords.Derive(task, keywords.Options{Supplemental: cfg.Keywords.Supplemental})
	}
	return writePages(cmd.OutOrStdout(), format, dumpPages(pages, kws))
}

func dumpPages(pages []types.PageRecord, kws []string) []pageDump {
	dumps := make([]pageDump, len(pages))
	for i, p := range pages {
		dumps[i] = pageDump{PageNumber: p.PageNumber, Lines: p.RawLines}
		if kws == nil {
			continue
		}
		score := rank.Score(p, kws)
		dumps[i].Score = &score
		dumps[i].Titles = title.Candidates(p.FullText)
		dumps[i].RefinedText = snippet.Select(p.RawLines, kws)
	}
	return dumps
}

func writePages(w io.Writer, format string, dumps []pageDump) error {
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(dumps); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(dumps)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}
