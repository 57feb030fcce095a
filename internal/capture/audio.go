package capture

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// Default microphone settings. 16 kHz mono PCM16 is plenty for the
// volume/clarity analysis the engine performs.
const (
	DefaultSampleRate    = 16000
	DefaultChannels      = 1
	DefaultChunkDuration = 2 // seconds of audio per pulled chunk
)

// ErrAudioNotOpen is returned when trying to read from a source that is not open.
var ErrAudioNotOpen = errors.New("audio source is not open")

// Chunk holds one window of PCM16 audio pulled from an AudioSource.
type Chunk struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// Duration returns the length of the chunk in seconds.
func (c Chunk) Duration() float64 {
	if c.SampleRate == 0 || c.Channels == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate*c.Channels)
}

// AudioSource defines the interface for microphone capture implementations.
type AudioSource interface {
	Open() error
	Close() error
	ReadChunk() (Chunk, error)
	IsOpen() bool
}

// micSource captures audio by running an arecord subprocess and reading raw
// PCM16 from its stdout. The subprocess keeps the device open between chunks
// so consecutive reads are contiguous audio.
type micSource struct {
	device     string
	sampleRate int
	channels   int
	chunkSecs  int
	cmd        *exec.Cmd
	stdout     io.ReadCloser
	mu         sync.Mutex
	running    bool
}

// NewMicSource creates an AudioSource backed by the system microphone.
// An empty device string selects the default capture device.
func NewMicSource(device string) AudioSource {
	return &micSource{
		device:     device,
		sampleRate: DefaultSampleRate,
		channels:   DefaultChannels,
		chunkSecs:  DefaultChunkDuration,
	}
}

// Open starts the capture subprocess.
func (s *micSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	args := []string{
		"-q",
		"-f", "S16_LE",
		"-r", fmt.Sprintf("%d", s.sampleRate),
		"-c", fmt.Sprintf("%d", s.channels),
		"-t", "raw",
	}
	if s.device != "" {
		args = append(args, "-D", s.device)
	}

	cmd := exec.Command("arecord", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start audio capture: %w", err)
	}

	s.cmd = cmd
	s.stdout = stdout
	s.running = true

	return nil
}

// Close stops the capture subprocess and releases the device.
func (s *micSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	s.stdout.Close()

	if s.cmd != nil && s.cmd.Process != nil {
		s.cmd.Process.Kill()
		s.cmd.Wait()
	}
	s.cmd = nil
	s.stdout = nil

	return nil
}

// ReadChunk reads one chunk worth of PCM16 audio from the device.
func (s *micSource) ReadChunk() (Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return Chunk{}, ErrAudioNotOpen
	}

	n := s.sampleRate * s.channels * s.chunkSecs
	raw := make([]byte, n*2)
	if _, err := io.ReadFull(s.stdout, raw); err != nil {
		return Chunk{}, fmt.Errorf("read audio: %w", err)
	}

	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(raw[i*2]) | int16(raw[i*2+1])<<8
	}

	return Chunk{
		Samples:    samples,
		SampleRate: s.sampleRate,
		Channels:   s.channels,
	}, nil
}

// IsOpen returns true if the capture subprocess is running.
func (s *micSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
