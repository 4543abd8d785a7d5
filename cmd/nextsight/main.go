package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/stackTD/NextSight-v2/internal/app"
	"github.com/stackTD/NextSight-v2/internal/config"
	"github.com/stackTD/NextSight-v2/internal/server"
	"github.com/stackTD/NextSight-v2/internal/store"
	"github.com/stackTD/NextSight-v2/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to nextsight.yaml")
	noTray := flag.Bool("no-tray", false, "run without the system tray")
	flag.Parse()

	fmt.Println("NextSight - Zone Interaction Demo")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.AuditDBPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.AuditDBPath)
	if err != nil {
		log.Fatalf("Failed to initialize audit store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Options{Config: cfg, Store: st})

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		App:       a,
		Store:     st,
	})
	a.OnEvent = srv.Events().Broadcast

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(cfg.HTTPAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *noTray {
		waitForSignal()
		shutdown(a, srv)
		return
	}

	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnDashboard(func() { openBrowser("http://" + cfg.HTTPAddr + "/") })
	t.OnQuit(func() { shutdown(a, srv) })
	a.OnStatus = func(message, color string) {
		// Update the tray off the frame loop; Stats would otherwise block
		// behind the routing pass that raised this status.
		go func() {
			t.SetStatus(message)
			stats := a.Router().Stats()
			t.SetSessionCounts(stats.TotalPicks, stats.TotalDrops)
		}()
	}

	// Blocks until quit is selected from the menu.
	t.Run()
}

func shutdown(a *app.App, srv *server.Server) {
	fmt.Println("Shutting down")
	a.Stop()
	srv.Events().Close()
}

func waitForSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch
}

// openBrowser opens the given URL with the platform opener.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.nextsight/web.
// Returns the first existing directory or empty string if none found.
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

	homeWebDir := filepath.Join(homeDir, ".nextsight", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
