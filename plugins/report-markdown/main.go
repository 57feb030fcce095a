// Package main renders a finished interview report as a Markdown file.
// It reads the exporter request as JSON on stdin and writes the result path
// back on stdout.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Request represents the input from the exporter executor.
type Request struct {
	InterviewID string          `json:"interview_id"`
	Report      json.RawMessage `json:"report"`
	Feedback    json.RawMessage `json:"feedback"`
	OutputDir   string          `json:"output_dir"`
}

// Response represents the output to the exporter executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Path    string `json:"path,omitempty"`
}

// Report mirrors the engine's report payload.
type Report struct {
	PostureScore     float64  `json:"posture_score"`
	MovementScore    float64  `json:"movement_score"`
	AudioScore       float64  `json:"audio_score"`
	PresenceScore    float64  `json:"presence_score"`
	OverallScore     float64  `json:"overall_score"`
	ConsistencyScore float64  `json:"consistency_score"`
	Trend            string   `json:"trend"`
	Strengths        []string `json:"strengths"`
	ImprovementAreas []string `json:"improvement_areas"`
	TotalSamples     int      `json:"total_samples"`
	ElapsedMinutes   float64  `json:"elapsed_minutes"`
}

// Feedback mirrors the engine's qualitative feedback payload.
type Feedback struct {
	Posture  string `json:"posture"`
	Movement string `json:"movement"`
	Audio    string `json:"audio"`
	Presence string `json:"presence"`
	Overall  string `json:"overall"`
	Summary  string `json:"summary"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeError(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	path, err := render(req)
	if err != nil {
		writeError(err.Error())
		return
	}

	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Path: path})
}

func render(req Request) (string, error) {
	var report Report
	if err := json.Unmarshal(req.Report, &report); err != nil {
		return "", fmt.Errorf("failed to parse report: %w", err)
	}

	var feedback Feedback
	if err := json.Unmarshal(req.Feedback, &feedback); err != nil {
		return "", fmt.Errorf("failed to parse feedback: %w", err)
	}

	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(req.OutputDir, fmt.Sprintf("interview-%s.md", req.InterviewID))
	if err := os.WriteFile(path, []byte(format(req.InterviewID, report, feedback)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

func format(id string, r Report, f Feedback) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Interview Report\n\n")
	fmt.Fprintf(&b, "- Interview: `%s`\n", id)
	fmt.Fprintf(&b, "- Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Duration: %.1f minutes (%d samples)\n\n", r.ElapsedMinutes, r.TotalSamples)

	fmt.Fprintf(&b, "## Scores\n\n")
	fmt.Fprintf(&b, "| Dimension | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Posture | %.1f / 10 |\n", r.PostureScore)
	fmt.Fprintf(&b, "| Movement | %.1f / 10 |\n", r.MovementScore)
	fmt.Fprintf(&b, "| Voice | %.1f / 10 |\n", r.AudioScore)
	fmt.Fprintf(&b, "| Presence | %.1f / 10 |\n", r.PresenceScore)
	fmt.Fprintf(&b, "| **Overall** | **%.1f / 10** |\n\n", r.OverallScore)

	fmt.Fprintf(&b, "Consistency: %.1f / 10, trend %s.\n\n", r.ConsistencyScore, r.Trend)

	if len(r.Strengths) > 0 {
		fmt.Fprintf(&b, "## Strengths\n\n")
		for _, s := range r.Strengths {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}

	if len(r.ImprovementAreas) > 0 {
		fmt.Fprintf(&b, "## Areas to Improve\n\n")
		for _, s := range r.ImprovementAreas {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Feedback\n\n")
	fmt.Fprintf(&b, "- Posture: %s\n", f.Posture)
	fmt.Fprintf(&b, "- Movement: %s\n", f.Movement)
	fmt.Fprintf(&b, "- Voice: %s\n", f.Audio)
	fmt.Fprintf(&b, "- Presence: %s\n\n", f.Presence)
	fmt.Fprintf(&b, "%s\n", f.Summary)

	return b.String()
}

func writeError(msg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: msg})
}
