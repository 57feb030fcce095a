package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ayusman/abhinaya/internal/analysis"
	"github.com/ayusman/abhinaya/internal/app"
	"github.com/ayusman/abhinaya/internal/capture"
	"github.com/ayusman/abhinaya/internal/server"
	"github.com/ayusman/abhinaya/internal/store"
	"github.com/ayusman/abhinaya/internal/tray"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cameraID := flag.Int("camera", 0, "camera device ID")
	audioDevice := flag.String("audio-device", "", "capture device (empty for default)")
	useTray := flag.Bool("tray", false, "run with a system tray icon")
	flag.Parse()

	fmt.Println("Abhinaya - Interview Presence Coach")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".abhinaya")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "abhinaya.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	camera := capture.NewCamera(*cameraID)

	application := app.New(app.Config{
		Store:       st,
		ExporterDir: findExporterDir(dataDir),
		ReportDir:   filepath.Join(dataDir, "reports"),
		CameraID:    *cameraID,
		AudioDevice: *audioDevice,
		Camera:      camera,
	})
	defer application.Stop()

	if err := application.DiscoverExporters(); err != nil {
		log.Printf("Exporter discovery failed: %v", err)
	}

	srv := server.New(server.Config{
		StaticDir: findWebDir(),
		Store:     st,
		App:       application,
		Camera:    camera,
	})

	fmt.Printf("Starting server on %s\n", *addr)

	if *useTray {
		go func() {
			if err := srv.ListenAndServe(*addr); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		}()
		runTray(application, *addr)
		return
	}

	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// runTray blocks on the system tray loop, wiring the toggle to the sampler.
func runTray(application *app.App, addr string) {
	t := tray.New()
	t.OnToggle(func(enabled bool) {
		if enabled {
			application.ResumeAnalysis()
		} else {
			application.PauseAnalysis()
		}
	})
	t.OnDashboard(func() {
		openBrowser("http://localhost" + addr)
	})
	t.OnQuit(func() {
		application.Stop()
	})

	application.OnSample(func(s analysis.Sample) {
		t.SetLastScore(analysis.SampleOverall(s))
	})
	t.Run()
}

// openBrowser opens the given URL in the default browser, best effort.
func openBrowser(url string) {
	cmd := exec.Command("xdg-open", url)
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findExporterDir locates the exporter directory, preferring the repo-local
// plugins folder during development.
func findExporterDir(dataDir string) string {
	candidates := []string{"plugins", "../plugins", filepath.Join(dataDir, "plugins")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}
	return filepath.Join(dataDir, "plugins")
}

// findWebDir searches for the web directory in common locations.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".abhinaya", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
