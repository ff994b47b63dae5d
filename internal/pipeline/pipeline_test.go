// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/section-digest/internal/title"
	"github.com/pdiddy/section-digest/pkg/types"
)

// fakeExtractor implements pdftext.Extractor with canned pages per file name.
type fakeExtractor struct {
	pages    map[string][]types.PageRecord
	failures map[string]error
	calls    []string
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) ([]types.PageRecord, error) {
	name := filepath.Base(path)
	f.calls = append(f.calls, name)
	if err, ok := f.failures[name]; ok {
		return nil, err
	}
	return f.pages[name], nil
}

func pagesOf(texts ...string) []types.PageRecord {
	pages := make([]types.PageRecord, len(texts))
	for i, t := range texts {
		pages[i] = types.NewPageRecord(i+1, t)
	}
	return pages
}

// setupInput writes persona.json and empty placeholder PDFs into a temp dir.
func setupInput(t *testing.T, personaJSON string, docs ...string) string {
	t.Helper()
	dir := t.TempDir()
	if personaJSON != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "persona.json"), []byte(personaJSON), 0o644))
	}
	for _, d := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, d), []byte("%PDF-1.4"), 0o644))
	}
	return dir
}

func personaWithTask(task string) string {
	data, _ := json.Marshal(map[string]any{
		"persona":        map[string]string{"role": "Travel Planner"},
		"job_to_be_done": map[string]string{"task": task},
	})
	return string(data)
}

var fixedNow = func() time.Time { return time.Date(2025, 7, 10, 15, 31, 22, 0, time.Local) }

func TestRun_ParisScenario(t *testing.T) {
	dir := setupInput(t, personaWithTask("Plan a trip to Paris for 4 college friends"), "paris.pdf")
	ex := &fakeExtractor{pages: map[string][]types.PageRecord{
		"paris.pdf": pagesOf("WELCOME TO PARIS\nThis is the best trip for college friends and friends of friends."),
	}}

	var log bytes.Buffer
	r := &Runner{Extractor: ex, Config: types.PipelineConfig{InputDir: dir}, Out: &log, Now: fixedNow}
	out, summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"paris.pdf"}, out.Metadata.InputDocuments)
	assert.JSONEq(t, `"Travel Planner"`, string(out.Metadata.Persona))
	assert.Equal(t, "Plan a trip to Paris for 4 college friends", out.Metadata.JobToBeDone)
	assert.Equal(t, "2025-07-10T15:31:22", out.Metadata.ProcessingTimestamp)

	require.Len(t, out.ExtractedSections, 1)
	assert.Equal(t, types.ExtractedSection{
		Document: "paris.pdf", SectionTitle: "WELCOME TO PARIS", ImportanceRank: 1, PageNumber: 1,
	}, out.ExtractedSections[0])

	require.Len(t, out.SubsectionAnalysis, 1)
	assert.Equal(t, types.SubsectionAnalysis{
		Document:    "paris.pdf",
		RefinedText: "This is the best trip for college friends and friends of friends.",
		PageNumber:  1,
	}, out.SubsectionAnalysis[0])

	assert.Equal(t, Summary{Extracted: 1}, summary)
	assert.Contains(t, log.String(), "extracted paris.pdf (1 sections)")
	assert.Contains(t, log.String(), "Batch summary: 1 extracted, 0 empty, 0 failed (total: 1)")
}

func TestRun_EmptyTaskUsesSupplementalTerms(t *testing.T) {
	dir := setupInput(t, `{"persona": "Student", "job_to_be_done": {}}`, "guide.pdf")
	ex := &fakeExtractor{pages: map[string][]types.PageRecord{
		"guide.pdf": pagesOf("Paris museums", "Cheap Hotel options"),
	}}

	r := &Runner{Extractor: ex, Config: types.PipelineConfig{InputDir: dir}, Now: fixedNow}
	out, _, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.JSONEq(t, `"Student"`, string(out.Metadata.Persona))
	assert.Equal(t, "", out.Metadata.JobToBeDone)
	require.Len(t, out.ExtractedSections, 1, "only the page with a supplemental term scores")
	assert.Equal(t, 2, out.ExtractedSections[0].PageNumber)
	assert.Equal(t, "Cheap Hotel options", out.SubsectionAnalysis[0].RefinedText)
}

func TestRun_TopFiveSections(t *testing.T) {
	var texts []string
	for i := 1; i <= 8; i++ {
		// Page i mentions "hotel" i times, so later pages score higher.
		texts = append(texts, strings.TrimSpace(strings.Repeat("hotel\n", i)))
	}
	dir := setupInput(t, personaWithTask("hotel"), "hotels.pdf")
	ex := &fakeExtractor{pages: map[string][]types.PageRecord{"hotels.pdf": pagesOf(texts...)}}

	r := &Runner{Extractor: ex, Config: types.PipelineConfig{InputDir: dir}, Now: fixedNow}
	out, _, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, out.ExtractedSections, 5)
	require.Len(t, out.SubsectionAnalysis, 5)
	for i, s := range out.ExtractedSections {
		assert.Equal(t, i+1, s.ImportanceRank)
		assert.Equal(t, 8-i, s.PageNumber, "descending score order")
		assert.Equal(t, s.PageNumber, out.SubsectionAnalysis[i].PageNumber)
		assert.Equal(t, s.Document, out.SubsectionAnalysis[i].Document)
		assert.Equal(t, title.Fallback, s.SectionTitle)
	}
}

func TestRun_MaxSectionsConfigurable(t *testing.T) {
	dir := setupInput(t, personaWithTask("museum"), "a.pdf")
	ex := &fakeExtractor{pages: map[string][]types.PageRecord{
		"a.pdf": pagesOf("museum", "museum", "museum"),
	}}

	r := &Runner{Extractor: ex, Config: types.PipelineConfig{InputDir: dir, MaxSections: 2}, Now: fixedNow}
	out, _, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, out.ExtractedSections, 2)
	assert.Equal(t, 1, out.ExtractedSections[0].PageNumber, "ties keep page order")
	assert.Equal(t, 2, out.ExtractedSections[1].PageNumber)
}

func TestRun_DocumentOrderAndFiltering(t *testing.T) {
	dir := setupInput(t, personaWithTask("trip"), "b.pdf", "a.pdf", "notes.txt", "C.PDF")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0o755))

	ex := &fakeExtractor{pages: map[string][]types.PageRecord{
		"a.pdf": pagesOf("trip to Nice"),
		"b.pdf": pagesOf("trip to Lyon"),
	}}

	r := &Runner{Extractor: ex, Config: types.PipelineConfig{InputDir: dir}, Now: fixedNow}
	out, summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf", "b.pdf"}, ex.calls)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, out.Metadata.InputDocuments)
	require.Len(t, out.ExtractedSections, 2)
	assert.Equal(t, "a.pdf", out.ExtractedSections[0].Document)
	assert.Equal(t, "b.pdf", out.ExtractedSections[1].Document)
	assert.Equal(t, 1, out.ExtractedSections[1].ImportanceRank, "ranks restart per document")
	assert.Equal(t, 2, summary.Total())
}

func TestRun_NoRelevantContent(t *testing.T) {
	dir := setupInput(t, personaWithTask("opera"), "blank.pdf")
	ex := &fakeExtractor{pages: map[string][]types.PageRecord{
		"blank.pdf": pagesOf("\n  \n", ""),
	}}

	var log bytes.Buffer
	r := &Runner{Extractor: ex, Config: types.PipelineConfig{InputDir: dir}, Out: &log, Now: fixedNow}
	out, summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"blank.pdf"}, out.Metadata.InputDocuments)
	assert.Empty(t, out.ExtractedSections)
	assert.NotNil(t, out.ExtractedSections, "empty list, not null, in JSON")
	assert.Empty(t, out.SubsectionAnalysis)
	assert.Equal(t, Summary{Empty: 1}, summary)
	assert.Contains(t, log.String(), "no relevant sections in blank.pdf")
}

func TestRun_ReadFailureAborts(t *testing.T) {
	dir := setupInput(t, personaWithTask("trip"), "a.pdf", "b.pdf", "c.pdf")
	ex := &fakeExtractor{
		pages:    map[string][]types.PageRecord{"a.pdf": pagesOf("trip"), "c.pdf": pagesOf("trip")},
		failures: map[string]error{"b.pdf": errors.New("malformed xref")},
	}

	r := &Runner{Extractor: ex, Config: types.PipelineConfig{InputDir: dir}, Now: fixedNow}
	out, _, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, out)

	var readErr *PdfReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, "b.pdf", readErr.Document)
	assert.Contains(t, err.Error(), "malformed xref")
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, ex.calls, "processing stops at the failing document")
}

func TestRun_IsolateFailures(t *testing.T) {
	dir := setupInput(t, personaWithTask("trip"), "a.pdf", "b.pdf", "c.pdf")
	ex := &fakeExtractor{
		pages:    map[string][]types.PageRecord{"a.pdf": pagesOf("trip"), "c.pdf": pagesOf("trip")},
		failures: map[string]error{"b.pdf": errors.New("malformed xref")},
	}

	var log bytes.Buffer
	r := &Runner{Extractor: ex, Config: types.PipelineConfig{InputDir: dir, IsolateFailures: true}, Out: &log, Now: fixedNow}
	out, summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Extracted: 2, Failed: 1}, summary)
	assert.True(t, summary.HasFailures())
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf"}, out.Metadata.InputDocuments)
	require.Len(t, out.ExtractedSections, 2)
	assert.Equal(t, "c.pdf", out.ExtractedSections[1].Document)
	assert.Contains(t, log.String(), "failed  b.pdf: malformed xref")
}

func TestRun_MissingInputs(t *testing.T) {
	t.Run("input directory", func(t *testing.T) {
		r := &Runner{Extractor: &fakeExtractor{}, Config: types.PipelineConfig{InputDir: filepath.Join(t.TempDir(), "nope")}}
		_, _, err := r.Run(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingInput)
	})

	t.Run("persona file", func(t *testing.T) {
		dir := setupInput(t, "", "a.pdf")
		ex := &fakeExtractor{}
		r := &Runner{Extractor: ex, Config: types.PipelineConfig{InputDir: dir}}
		_, _, err := r.Run(context.Background())
		require.Error(t, err)

		var missing *MissingInputError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, filepath.Join(dir, "persona.json"), missing.Path)
		assert.Empty(t, ex.calls, "no document is processed")
	})

	t.Run("malformed persona is not a missing input", func(t *testing.T) {
		dir := setupInput(t, "{not json", "a.pdf")
		r := &Runner{Extractor: &fakeExtractor{}, Config: types.PipelineConfig{InputDir: dir}}
		_, _, err := r.Run(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrMissingInput)
	})
}

func TestRun_Canceled(t *testing.T) {
	dir := setupInput(t, personaWithTask("trip"), "a.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Extractor: &fakeExtractor{}, Config: types.PipelineConfig{InputDir: dir}}
	_, _, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_CustomSupplementalKeywords(t *testing.T) {
	dir := setupInput(t, personaWithTask(""), "menu.pdf")
	ex := &fakeExtractor{pages: map[string][]types.PageRecord{
		"menu.pdf": pagesOf("hotel bar", "Vegan Menu"),
	}}

	cfg := types.PipelineConfig{InputDir: dir, Keywords: types.KeywordConfig{Supplemental: []string{"vegan"}}}
	r := &Runner{Extractor: ex, Config: cfg, Now: fixedNow}
	out, _, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, out.ExtractedSections, 1)
	assert.Equal(t, 2, out.ExtractedSections[0].PageNumber)
	assert.Equal(t, "Vegan Menu", out.ExtractedSections[0].SectionTitle)
}

func TestAnalyzeDocument_ParallelLists(t *testing.T) {
	pages := pagesOf(
		"GETTING AROUND\nTake the metro for every trip.",
		"nothing",
		"Restaurants:\nA restaurant near the hotel\nanother restaurant",
	)
	kws := []string{"trip", "restaurant", "hotel"}

	sections, analyses := AnalyzeDocument("doc.pdf", pages, kws, 5)
	require.Len(t, sections, 2)
	require.Len(t, analyses, 2)

	assert.Equal(t, 3, sections[0].PageNumber)
	assert.Equal(t, "Restaurants:", sections[0].SectionTitle)
	assert.Equal(t, "A restaurant near the hotel", analyses[0].RefinedText)

	assert.Equal(t, 1, sections[1].PageNumber)
	assert.Equal(t, "GETTING AROUND", sections[1].SectionTitle)
	assert.Equal(t, "Take the metro for every trip.", analyses[1].RefinedText)

	for i := range sections {
		assert.Equal(t, i+1, sections[i].ImportanceRank)
		assert.Equal(t, sections[i].PageNumber, analyses[i].PageNumber)
	}
}

func TestWriteOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	out := &types.Output{
		Metadata: types.Metadata{
			InputDocuments:      []string{"a.pdf"},
			Persona:             json.RawMessage(`"Food & Drink <Critic>"`),
			JobToBeDone:         "Review bars",
			ProcessingTimestamp: "2025-07-10T15:31:22",
		},
		ExtractedSections:  []types.ExtractedSection{{Document: "a.pdf", SectionTitle: "Bars & Pubs", ImportanceRank: 1, PageNumber: 2}},
		SubsectionAnalysis: []types.SubsectionAnalysis{{Document: "a.pdf", RefinedText: "Best bars", PageNumber: 2}},
	}

	path, err := WriteOutput(dir, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "output.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "\n  \"metadata\": {\n", "two-space indentation")
	assert.Contains(t, content, `"Bars & Pubs"`, "HTML characters are not escaped")
	assert.Contains(t, content, `"persona": "Food & Drink <Critic>"`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"metadata", "extracted_sections", "subsection_analysis"} {
		assert.Contains(t, decoded, key)
	}
	section := decoded["extracted_sections"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{
		"document": "a.pdf", "section_title": "Bars & Pubs", "importance_rank": float64(1), "page_number": float64(2),
	}, section)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteOutput_EmptyLists(t *testing.T) {
	dir := t.TempDir()
	out := &types.Output{
		Metadata:           types.Metadata{InputDocuments: []string{}, Persona: json.RawMessage(`"x"`)},
		ExtractedSections:  []types.ExtractedSection{},
		SubsectionAnalysis: []types.SubsectionAnalysis{},
	}
	path, err := WriteOutput(dir, out)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"extracted_sections": []`)
	assert.NotContains(t, string(data), "null")
}

func ExampleSummary_Total() {
	s := Summary{Extracted: 3, Empty: 1, Failed: 1}
	fmt.Println(s.Total(), s.HasFailures())
	// Output: 5 true
}
