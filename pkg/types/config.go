// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

const (
	// DefaultInputDir holds persona.json and the PDFs to analyse.
	DefaultInputDir = "/app/input"
	// DefaultOutputDir receives output.json.
	DefaultOutputDir = "/app/output"
	// DefaultMaxSections is the number of ranked sections kept per document.
	DefaultMaxSections = 5
)

// ExtractionBackend identifies the PDF text extraction tool.
type ExtractionBackend string

const (
	BackendLedongthuc ExtractionBackend = "ledongthuc"
	BackendPdfcpu     ExtractionBackend = "pdfcpu"
	BackendPdftotext  ExtractionBackend = "pdftotext"
)

// ExtractionConfig holds settings for the text extraction stage.
type ExtractionConfig struct {
	// Backend selects the extractor: ledongthuc, pdfcpu, or pdftotext.
	Backend ExtractionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Image is the container image used by the pdftotext backend.
	Image string `json:"image,omitempty" yaml:"image,omitempty" mapstructure:"image"`
}

// KeywordConfig holds settings for keyword derivation. Stopwords are fixed
// at build time and are not part of the configuration.
type KeywordConfig struct {
	// Supplemental replaces the built-in supplemental keyword list when set.
	Supplemental []string `json:"supplemental,omitempty" yaml:"supplemental,omitempty" mapstructure:"supplemental"`
}

// HistoryConfig holds settings for the optional run history database.
type HistoryConfig struct {
	// DBPath is the SQLite database file. Empty disables history.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty" mapstructure:"db_path"`
}

// PipelineConfig groups all settings of a pipeline run.
type PipelineConfig struct {
	// InputDir contains persona.json and the *.pdf documents.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir is where output.json is written.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// MaxSections is the number of top sections reported per document (default 5).
	MaxSections int `json:"max_sections" yaml:"max_sections" mapstructure:"max_sections"`

	// IsolateFailures keeps processing the remaining documents when one
	// document cannot be read. By default the first failure aborts the run.
	IsolateFailures bool `json:"isolate_failures" yaml:"isolate_failures" mapstructure:"isolate_failures"`

	Keywords   KeywordConfig    `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	History    HistoryConfig    `json:"history" yaml:"history" mapstructure:"history"`
}
