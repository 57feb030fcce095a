package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root, name, content string) {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create exporter dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "exporter.json"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()

	writeManifest(t, root, "markdown", `{
		"name": "report-markdown",
		"version": "1.0.0",
		"description": "Markdown reports",
		"executable": "report-markdown",
		"formats": ["markdown"]
	}`)
	writeManifest(t, root, "json-dump", `{
		"name": "json-dump",
		"version": "0.2.0",
		"executable": "json-dump.sh",
		"formats": ["json"]
	}`)

	// Directories without a manifest and stray files are ignored
	if err := os.MkdirAll(filepath.Join(root, "not-an-exporter"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("docs"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if got := len(m.List()); got != 2 {
		t.Errorf("discovered %d exporters, want 2", got)
	}

	exporter, err := m.Get("report-markdown")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if exporter.Manifest.Version != "1.0.0" {
		t.Errorf("version = %s, want 1.0.0", exporter.Manifest.Version)
	}
	wantExec := filepath.Join(root, "markdown", "report-markdown")
	if exporter.Executable != wantExec {
		t.Errorf("executable = %s, want %s", exporter.Executable, wantExec)
	}
}

func TestManager_DiscoverMissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover of a missing directory should not fail: %v", err)
	}
	if len(m.List()) != 0 {
		t.Errorf("discovered %d exporters, want 0", len(m.List()))
	}
}

func TestManager_DiscoverInvalidManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "broken", `{not json`)

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(m.List()) != 0 {
		t.Errorf("discovered %d exporters, want 0 for a broken manifest", len(m.List()))
	}
}

func TestManager_GetMissing(t *testing.T) {
	m := NewManager(t.TempDir())
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if _, err := m.Get("nope"); !errors.Is(err, ErrExporterNotFound) {
		t.Errorf("error = %v, want ErrExporterNotFound", err)
	}
}

func TestManager_RediscoverReplaces(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "markdown", `{"name":"report-markdown","executable":"x"}`)

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if err := os.RemoveAll(filepath.Join(root, "markdown")); err != nil {
		t.Fatal(err)
	}
	if err := m.Discover(); err != nil {
		t.Fatalf("second Discover failed: %v", err)
	}
	if len(m.List()) != 0 {
		t.Errorf("exporters after removal = %d, want 0", len(m.List()))
	}
}
