package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"
)

// FaceMeshDetector implements Detector using a Python face-landmark subprocess.
// Frames travel to the service as length-prefixed JPEG, observations come back
// as one JSON line per frame.
type FaceMeshDetector struct {
	config  Config
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	mu      sync.Mutex
	started bool
}

// NewFaceMeshDetector creates a new face-landmark detector.
// The subprocess is not started until Init is called.
func NewFaceMeshDetector(config Config) (*FaceMeshDetector, error) {
	scriptPath := findFaceMeshScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("facemesh_service.py not found")
	}

	return &FaceMeshDetector{
		config: config,
	}, nil
}

// Init starts the subprocess. It may be slow; callers are expected to run it
// off the sampling path.
func (d *FaceMeshDetector) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ensureStarted()
}

// Detect analyzes a frame and returns a face observation.
func (d *FaceMeshDetector) Detect(frame *gocv.Mat) (FaceObservation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return FaceObservation{}, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return FaceObservation{}, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return FaceObservation{}, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return FaceObservation{}, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return FaceObservation{}, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Faces []jsonFace `json:"faces"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return FaceObservation{}, fmt.Errorf("parse response: %w", err)
	}

	return d.toObservation(response.Faces), nil
}

// toObservation maps the best-scoring detected face onto the observation
// contract. Box coordinates from the service are normalized to [0,1].
func (d *FaceMeshDetector) toObservation(faces []jsonFace) FaceObservation {
	obs := FaceObservation{Kind: KindFaceMesh}

	var best *jsonFace
	for i := range faces {
		if best == nil || faces[i].Score > best.Score {
			best = &faces[i]
		}
	}

	if best == nil || best.Score < d.config.MinConfidence {
		return obs
	}

	obs.Present = true
	obs.Confidence = best.Score
	obs.SizeRatio = best.Box.Width * best.Box.Height
	obs.HorizontalOffset = (best.Box.X + best.Box.Width/2) - 0.5
	obs.VerticalOffset = (best.Box.Y + best.Box.Height/2) - 0.5
	obs.Centered = abs(obs.HorizontalOffset) <= d.config.CenterTolerance &&
		abs(obs.VerticalOffset) <= d.config.CenterTolerance
	obs.DistanceOK = obs.SizeRatio >= d.config.MinFaceRatio &&
		obs.SizeRatio <= d.config.MaxFaceRatio

	return obs
}

// Kind returns KindFaceMesh.
func (d *FaceMeshDetector) Kind() Kind {
	return KindFaceMesh
}

// Close shuts down the subprocess.
func (d *FaceMeshDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *FaceMeshDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	scriptPath := findFaceMeshScript()
	if scriptPath == "" {
		return fmt.Errorf("facemesh_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, scriptPath)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start facemesh service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	return nil
}

func findFaceMeshScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/facemesh_service.py",
		"../scripts/facemesh_service.py",
		filepath.Join(execDir, "scripts/facemesh_service.py"),
		filepath.Join(os.Getenv("HOME"), ".abhinaya/scripts/facemesh_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".abhinaya/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonFace represents the JSON structure from the Python service.
type jsonFace struct {
	Box    jsonBox     `json:"box"`
	Score  float64     `json:"score"`
	Points []jsonPoint `json:"points"`
}

type jsonBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}
