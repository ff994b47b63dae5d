// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline ranks the pages of every PDF in an input directory
// against a persona's task and assembles the output document.
//
// A run derives keywords once, then processes documents sequentially in
// lexicographic filename order: extract pages, rank them, keep the top
// sections, and pick a title and a representative line for each.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/section-digest/internal/keywords"
	"github.com/pdiddy/section-digest/internal/pdftext"
	"github.com/pdiddy/section-digest/internal/persona"
	"github.com/pdiddy/section-digest/internal/rank"
	"github.com/pdiddy/section-digest/internal/snippet"
	"github.com/pdiddy/section-digest/internal/title"
	"github.com/pdiddy/section-digest/pkg/types"
)

const pdfExt = ".pdf"

// Summary holds per-document outcome counts of a run.
type Summary struct {
	// Extracted counts documents with at least one ranked section.
	Extracted int
	// Empty counts readable documents without relevant sections.
	Empty int
	// Failed counts unreadable documents; non-zero only with IsolateFailures.
	Failed int
}

// Total returns the number of documents processed.
func (s Summary) Total() int {
	return s.Extracted + s.Empty + s.Failed
}

// HasFailures reports whether any document failed extraction.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Runner executes one pipeline run.
type Runner struct {
	Extractor pdftext.Extractor
	Config    types.PipelineConfig

	// Out receives per-document status lines. Nil discards them.
	Out io.Writer

	// Now stamps the output metadata. Nil means time.Now.
	Now func() time.Time
}

// Run processes every PDF in the input directory. A missing input
// directory or persona file returns a *MissingInputError. An unreadable
// document returns a *PdfReadError and no output, unless
// Config.IsolateFailures is set, in which case it is reported on Out,
// counted in Summary.Failed, and skipped.
func (r *Runner) Run(ctx context.Context) (*types.Output, Summary, error) {
	cfg := withDefaults(r.Config)
	w := r.Out
	if w == nil {
		w = io.Discard
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}

	var summary Summary

	docs, err := listDocuments(cfg.InputDir)
	if err != nil {
		return nil, summary, err
	}

	p, err := persona.Load(cfg.InputDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, summary, &MissingInputError{Path: filepath.Join(cfg.InputDir, persona.FileName), Err: err}
		}
		return nil, summary, err
	}

	task := p.JobToBeDone.Task
	kws := keywords.Derive(task, keywords.Options{Supplemental: cfg.Keywords.Supplemental})

	out := &types.Output{
		Metadata: types.Metadata{
			InputDocuments:      make([]string, 0, len(docs)),
			Persona:             persona.Label(p.Persona),
			JobToBeDone:         task,
			ProcessingTimestamp: now().Format(types.TimestampLayout),
		},
		ExtractedSections:  []types.ExtractedSection{},
		SubsectionAnalysis: []types.SubsectionAnalysis{},
	}

	for _, name := range docs {
		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}

		out.Metadata.InputDocuments = append(out.Metadata.InputDocuments, name)
		fmt.Fprintf(w, "extracting %s\n", name)

		pages, err := r.Extractor.Extract(ctx, filepath.Join(cfg.InputDir, name))
		if err != nil {
			if ctx.Err() != nil {
				return nil, summary, ctx.Err()
			}
			readErr := &PdfReadError{Document: name, Err: err}
			if !cfg.IsolateFailures {
				return nil, summary, readErr
			}
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		sections, analyses := AnalyzeDocument(name, pages, kws, cfg.MaxSections)
		if len(sections) == 0 {
			fmt.Fprintf(w, "no relevant sections in %s\n", name)
			summary.Empty++
			continue
		}

		out.ExtractedSections = append(out.ExtractedSections, sections...)
		out.SubsectionAnalysis = append(out.SubsectionAnalysis, analyses...)
		fmt.Fprintf(w, "extracted %s (%d sections)\n", name, len(sections))
		summary.Extracted++
	}

	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d empty, %d failed (total: %d)\n",
		summary.Extracted, summary.Empty, summary.Failed, summary.Total())

	return out, summary, nil
}

// AnalyzeDocument ranks pages against kws and returns, for the top
// limit sections, the parallel ExtractedSection and SubsectionAnalysis
// entries. Ranks start at 1 in descending score order.
func AnalyzeDocument(document string, pages []types.PageRecord, kws []string, limit int) ([]types.ExtractedSection, []types.SubsectionAnalysis) {
	ranked := rank.Rank(pages, kws)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	sections := make([]types.ExtractedSection, len(ranked))
	analyses := make([]types.SubsectionAnalysis, len(ranked))
	for i, sec := range ranked {
		sections[i] = types.ExtractedSection{
			Document:       document,
			SectionTitle:   title.Pick(sec.FullText),
			ImportanceRank: i + 1,
			PageNumber:     sec.PageNumber,
		}
		analyses[i] = types.SubsectionAnalysis{
			Document:    document,
			RefinedText: snippet.Select(sec.RawLines, kws),
			PageNumber:  sec.PageNumber,
		}
	}
	return sections, analyses
}

// listDocuments returns the names of the *.pdf files in dir, sorted.
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingInputError{Path: dir, Err: err}
		}
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), pdfExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func withDefaults(cfg types.PipelineConfig) types.PipelineConfig {
	if cfg.InputDir == "" {
		cfg.InputDir = types.DefaultInputDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = types.DefaultOutputDir
	}
	if cfg.MaxSections <= 0 {
		cfg.MaxSections = types.DefaultMaxSections
	}
	return cfg
}
