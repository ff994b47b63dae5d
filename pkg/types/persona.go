// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// PersonaFile is the decoded content of persona.json.
type PersonaFile struct {
	// Persona is either a string or an object carrying a "role" field.
	// It is kept raw because only its label is echoed into the output.
	Persona json.RawMessage `json:"persona"`

	JobToBeDone Job `json:"job_to_be_done"`
}

// Job describes what the persona wants to accomplish.
type Job struct {
	// Task is the free-text task description. It is the sole input to
	// keyword derivation.
	Task string `json:"task"`
}
