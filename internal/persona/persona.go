// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package persona loads persona.json, which names the persona a run is
// tailored for and the task that drives keyword derivation.
package persona

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/section-digest/pkg/types"
)

// FileName is the persona file expected in the input directory.
const FileName = "persona.json"

// Load reads dir/persona.json. A missing file returns an error wrapping
// fs.ErrNotExist. The persona and job_to_be_done fields are required; a
// missing task is treated as an empty task.
func Load(dir string) (types.PersonaFile, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PersonaFile{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes persona file content.
func Parse(data []byte) (types.PersonaFile, error) {
	var raw struct {
		Persona     json.RawMessage `json:"persona"`
		JobToBeDone json.RawMessage `json:"job_to_be_done"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.PersonaFile{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if isAbsent(raw.Persona) {
		return types.PersonaFile{}, fmt.Errorf("%s: missing \"persona\"", FileName)
	}
	if isAbsent(raw.JobToBeDone) {
		return types.PersonaFile{}, fmt.Errorf("%s: missing \"job_to_be_done\"", FileName)
	}

	var job types.Job
	if err := json.Unmarshal(raw.JobToBeDone, &job); err != nil {
		return types.PersonaFile{}, fmt.Errorf("%s: job_to_be_done: %w", FileName, err)
	}

	return types.PersonaFile{Persona: raw.Persona, JobToBeDone: job}, nil
}

// Label returns the value echoed as metadata.persona: the "role" of an
// object persona when present, otherwise the persona value itself.
func Label(p json.RawMessage) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(p, &obj); err == nil {
		if role, ok := obj["role"]; ok {
			return role
		}
	}
	return p
}

// Role returns the persona label as plain text, for display and storage.
func Role(p json.RawMessage) string {
	label := Label(p)
	var s string
	if err := json.Unmarshal(label, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, label); err != nil {
		return string(label)
	}
	return buf.String()
}

func isAbsent(m json.RawMessage) bool {
	return len(m) == 0 || bytes.Equal(m, []byte("null"))
}

