// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// TimestampLayout is the format of Metadata.ProcessingTimestamp.
const TimestampLayout = "2006-01-02T15:04:05"

// Output is the document written to output.json.
type Output struct {
	Metadata           Metadata             `json:"metadata" yaml:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections" yaml:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis" yaml:"subsection_analysis"`
}

// Metadata describes the inputs of a run.
type Metadata struct {
	// InputDocuments lists the PDF filenames in processing order.
	InputDocuments []string `json:"input_documents" yaml:"input_documents"`

	// Persona is the persona's role when one is given, otherwise the raw
	// persona value from persona.json.
	Persona json.RawMessage `json:"persona" yaml:"-"`

	// JobToBeDone is the task text.
	JobToBeDone string `json:"job_to_be_done" yaml:"job_to_be_done"`

	// ProcessingTimestamp is the local run time in TimestampLayout.
	ProcessingTimestamp string `json:"processing_timestamp" yaml:"processing_timestamp"`
}

// ExtractedSection is one ranked section of a document.
type ExtractedSection struct {
	Document       string `json:"document" yaml:"document"`
	SectionTitle   string `json:"section_title" yaml:"section_title"`
	ImportanceRank int    `json:"importance_rank" yaml:"importance_rank"`
	PageNumber     int    `json:"page_number" yaml:"page_number"`
}

// SubsectionAnalysis holds the representative line chosen for a section.
// Entries are index-aligned with ExtractedSection entries.
type SubsectionAnalysis struct {
	Document    string `json:"document" yaml:"document"`
	RefinedText string `json:"refined_text" yaml:"refined_text"`
	PageNumber  int    `json:"page_number" yaml:"page_number"`
}
