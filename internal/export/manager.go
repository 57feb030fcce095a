package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrExporterNotFound is returned when a requested exporter cannot be found.
var ErrExporterNotFound = errors.New("exporter not found")

// Manager manages exporter discovery and access.
type Manager struct {
	exporterDir string
	exporters   map[string]*Exporter
	mu          sync.RWMutex
}

// NewManager creates a Manager scanning the given directory.
func NewManager(exporterDir string) *Manager {
	return &Manager{
		exporterDir: exporterDir,
		exporters:   make(map[string]*Exporter),
	}
}

// Discover scans the exporter directory for exporter.json manifests.
// Each subdirectory is expected to be one exporter.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.exporters = make(map[string]*Exporter)

	info, err := os.Stat(m.exporterDir)
	if os.IsNotExist(err) {
		return nil // No exporter directory, nothing to discover
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.exporterDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		exporterPath := filepath.Join(m.exporterDir, entry.Name())
		manifestPath := filepath.Join(exporterPath, "exporter.json")

		if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
			continue
		}

		manifestData, err := os.ReadFile(manifestPath)
		if err != nil {
			continue // Skip exporters we can't read
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			continue // Skip exporters with invalid JSON
		}

		m.exporters[manifest.Name] = &Exporter{
			Manifest:   manifest,
			Path:       exporterPath,
			Executable: filepath.Join(exporterPath, manifest.Executable),
		}
	}

	return nil
}

// Get returns an exporter by name.
// Returns ErrExporterNotFound if the exporter does not exist.
func (m *Manager) Get(name string) (*Exporter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exporter, ok := m.exporters[name]
	if !ok {
		return nil, ErrExporterNotFound
	}

	return exporter, nil
}

// List returns a slice of all discovered exporters.
func (m *Manager) List() []*Exporter {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exporters := make([]*Exporter, 0, len(m.exporters))
	for _, exporter := range m.exporters {
		exporters = append(exporters, exporter)
	}

	return exporters
}
