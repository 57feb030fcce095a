package capture

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gocv.io/x/gocv"
)

// Acquisition errors surfaced to the caller. The manager never retries on its
// own; a caller may call RequestAccess again after a failure.
var (
	ErrPermissionDenied  = errors.New("capture permission denied")
	ErrDeviceUnavailable = errors.New("capture device unavailable")
	ErrDeviceBusy        = errors.New("capture device busy")
)

// SessionState represents the lifecycle state of the shared capture session.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateRequesting SessionState = "requesting"
	StateActive     SessionState = "active"
	StateFailed     SessionState = "failed"
)

// SessionManager owns the single shared camera+microphone pair and hands out
// reference-counted handles. The underlying devices are opened on the first
// request and closed only when the last handle is released.
type SessionManager struct {
	camera Camera
	audio  AudioSource
	mu     sync.Mutex
	state  SessionState
	refs   int
}

// NewSessionManager creates a SessionManager over the given devices.
func NewSessionManager(camera Camera, audio AudioSource) *SessionManager {
	return &SessionManager{
		camera: camera,
		audio:  audio,
		state:  StateIdle,
	}
}

// RequestAccess acquires the shared capture devices and returns a handle.
// While the session is already active, no new hardware request is made; the
// reference count is incremented and a handle to the same devices is returned.
func (m *SessionManager) RequestAccess() (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateActive {
		m.refs++
		return &Handle{manager: m}, nil
	}

	m.state = StateRequesting

	if err := m.camera.Open(); err != nil {
		m.state = StateFailed
		return nil, classifyAcquisition(err)
	}

	if err := m.audio.Open(); err != nil {
		m.camera.Close()
		m.state = StateFailed
		return nil, classifyAcquisition(err)
	}

	m.state = StateActive
	m.refs = 1

	return &Handle{manager: m}, nil
}

// State returns the current session state.
func (m *SessionManager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Refs returns the number of outstanding handles.
func (m *SessionManager) Refs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refs
}

// release decrements the reference count and closes the devices when it
// reaches zero. Releasing an idle session is a no-op.
func (m *SessionManager) release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.refs == 0 {
		return
	}

	m.refs--
	if m.refs > 0 {
		return
	}

	m.camera.Close()
	m.audio.Close()
	m.state = StateIdle
}

// classifyAcquisition maps a device open error onto the acquisition taxonomy.
func classifyAcquisition(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "permission") || strings.Contains(msg, "denied"):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case strings.Contains(msg, "busy") || strings.Contains(msg, "in use"):
		return fmt.Errorf("%w: %v", ErrDeviceBusy, err)
	default:
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
}

// Handle is a reference-counted view onto the shared capture session.
// Release is idempotent per handle.
type Handle struct {
	manager  *SessionManager
	mu       sync.Mutex
	released bool
}

// ErrHandleReleased is returned when pulling from a released handle.
var ErrHandleReleased = errors.New("capture handle released")

// PullFrame reads one video frame from the shared camera.
// The caller is responsible for closing the returned Mat.
func (h *Handle) PullFrame() (*gocv.Mat, error) {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return nil, ErrHandleReleased
	}
	h.mu.Unlock()

	return h.manager.camera.ReadFrame()
}

// PullAudio reads one audio chunk from the shared microphone.
func (h *Handle) PullAudio() (Chunk, error) {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return Chunk{}, ErrHandleReleased
	}
	h.mu.Unlock()

	return h.manager.audio.ReadChunk()
}

// Release gives up this handle's reference. Calling Release more than once
// has no effect beyond the first call.
func (h *Handle) Release() {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return
	}
	h.released = true
	h.mu.Unlock()

	h.manager.release()
}
