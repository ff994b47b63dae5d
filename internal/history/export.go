// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Format selects the export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want yaml or json)", s)
	}
}

// ExportRun is a recorded run with its sections, in export form.
type ExportRun struct {
	Run      `yaml:",inline"`
	Created  string          `json:"processing_timestamp" yaml:"processing_timestamp"`
	Sections []ExportSection `json:"sections" yaml:"sections"`
}

// ExportSection joins a ranked section with its refined text.
type ExportSection struct {
	Document    string `json:"document" yaml:"document"`
	Rank        int    `json:"importance_rank" yaml:"importance_rank"`
	Page        int    `json:"page_number" yaml:"page_number"`
	Title       string `json:"section_title" yaml:"section_title"`
	RefinedText string `json:"refined_text" yaml:"refined_text"`
}

// Export writes recorded runs to w. An empty runID exports every run, most
// recent first.
func (s *Store) Export(ctx context.Context, w io.Writer, format Format, runID string) error {
	entries, err := s.exportEntries(ctx, runID)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	return nil
}

func (s *Store) exportEntries(ctx context.Context, runID string) ([]ExportRun, error) {
	runs, err := s.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := []ExportRun{}
	for _, run := range runs {
		if runID != "" && run.ID != runID {
			continue
		}
		out, err := s.Get(ctx, run.ID)
		if err != nil {
			return nil, err
		}
		entry := ExportRun{
			Run:      run,
			Created:  out.Metadata.ProcessingTimestamp,
			Sections: make([]ExportSection, len(out.ExtractedSections)),
		}
		for i, sec := range out.ExtractedSections {
			entry.Sections[i] = ExportSection{
				Document:    sec.Document,
				Rank:        sec.ImportanceRank,
				Page:        sec.PageNumber,
				Title:       sec.SectionTitle,
				RefinedText: out.SubsectionAnalysis[i].RefinedText,
			}
		}
		entries = append(entries, entry)
	}

	if runID != "" && len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return entries, nil
}
