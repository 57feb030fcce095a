package capture

import (
	"math"
	"sync"
)

// MockAudioSource generates synthetic audio (silence or a sine tone) for testing.
type MockAudioSource struct {
	frequency  float64 // Hz, 0 = silence
	amplitude  float64 // 0.0 to 1.0
	sampleRate int
	chunkSecs  int
	phase      float64
	err        error
	mu         sync.Mutex
	running    bool
}

// NewMockAudioSource creates a mock source producing silence.
func NewMockAudioSource() *MockAudioSource {
	return &MockAudioSource{
		sampleRate: DefaultSampleRate,
		chunkSecs:  DefaultChunkDuration,
	}
}

// SetTone configures the mock to generate a sine wave.
func (s *MockAudioSource) SetTone(frequency, amplitude float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frequency = frequency
	s.amplitude = amplitude
}

// SetError sets the error that will be returned by ReadChunk.
func (s *MockAudioSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MockAudioSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	return nil
}

func (s *MockAudioSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

func (s *MockAudioSource) ReadChunk() (Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return Chunk{}, ErrAudioNotOpen
	}
	if s.err != nil {
		return Chunk{}, s.err
	}

	n := s.sampleRate * s.chunkSecs
	samples := make([]int16, n)
	if s.frequency > 0 {
		for i := range samples {
			v := s.amplitude * math.Sin(2*math.Pi*s.frequency*s.phase/float64(s.sampleRate))
			samples[i] = int16(v * 32767)
			s.phase++
			if s.phase >= float64(s.sampleRate) {
				s.phase = 0
			}
		}
	}

	return Chunk{
		Samples:    samples,
		SampleRate: s.sampleRate,
		Channels:   1,
	}, nil
}

func (s *MockAudioSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
