// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"
)

// ErrMissingInput matches every *MissingInputError with errors.Is.
var ErrMissingInput = errors.New("missing input")

// MissingInputError reports that the input directory or persona.json is
// absent. It aborts a run before any document is processed.
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing input %s: %v", e.Path, e.Err)
}

func (e *MissingInputError) Unwrap() []error {
	return []error{ErrMissingInput, e.Err}
}

// PdfReadError reports a document that could not be opened or parsed.
type PdfReadError struct {
	Document string
	Err      error
}

func (e *PdfReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Document, e.Err)
}

func (e *PdfReadError) Unwrap() error { return e.Err }
