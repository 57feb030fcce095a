package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// Executor runs exporters with timeout support.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an Executor with the given per-run timeout.
func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{timeout: timeout}
}

// Execute runs an exporter with the given request and returns its response.
// The request travels as JSON on stdin; stdout is parsed as a Response.
func (e *Executor) Execute(exporter *Exporter, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, exporter.Executable)
	cmd.Dir = exporter.Path

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("exporter timed out after %v", e.timeout)
	}

	if err != nil {
		stderrStr := stderr.String()
		if stderrStr != "" {
			return nil, fmt.Errorf("exporter failed: %w, stderr: %s", err, stderrStr)
		}
		return nil, fmt.Errorf("exporter failed: %w", err)
	}

	var response Response
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse exporter response: %w, stdout: %s", err, stdout.String())
	}

	return &response, nil
}
