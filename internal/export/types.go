// Package export runs report exporters: external executables that receive a
// finished interview report as JSON on stdin and render or deliver it in
// whatever format they implement.
package export

import "encoding/json"

// Manifest describes an exporter's metadata and capabilities.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
	// Formats lists output formats the exporter produces, e.g. "markdown".
	Formats []string `json:"formats"`
}

// Request represents the payload sent to an exporter.
type Request struct {
	InterviewID string          `json:"interview_id"`
	Report      json.RawMessage `json:"report"`
	Feedback    json.RawMessage `json:"feedback"`
	OutputDir   string          `json:"output_dir"`
}

// Response represents the result of an exporter run.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	// Path is where the exporter wrote its output, if it wrote a file.
	Path string `json:"path,omitempty"`
}

// Exporter represents a discovered exporter with its manifest and location.
type Exporter struct {
	Manifest   Manifest
	Path       string
	Executable string
}
