// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/section-digest/pkg/types"
)

// OutputFileName is the result file written to the output directory.
const OutputFileName = "output.json"

// WriteOutput writes out as indented JSON to dir/output.json, creating dir
// if needed, and returns the file path. The file is written to a temporary
// name first so that a failed write never leaves a partial output.json.
func WriteOutput(dir string, out *types.Output) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".output-*.json")
	if err != nil {
		return "", fmt.Errorf("creating temporary output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("creating temporary output: %w", err)
	}

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encoding output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing output: %w", err)
	}

	path := filepath.Join(dir, OutputFileName)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
