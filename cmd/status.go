package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/decaylee13/Anatomy-View/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Anatomy-View configuration and server status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfgPath := config.ConfigPath()

	fmt.Printf("Anatomy-View Status\n\n")

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:    %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}
	cfg.ApplyEnv()

	geminiMark := "✗ (GEMINI_API_KEY not set)"
	if cfg.Gemini.APIKey != "" {
		geminiMark = "✓"
	}
	fmt.Printf("Gemini:    %s %s\n", cfg.Gemini.Model, geminiMark)

	switch {
	case !cfg.Dedalus.Enabled:
		fmt.Printf("Dedalus:   disabled\n")
	case cfg.Dedalus.APIKey == "":
		fmt.Printf("Dedalus:   %s ✗ (DEDALUS_API_KEY not set)\n", cfg.Dedalus.Model)
	default:
		fmt.Printf("Dedalus:   %s ✓\n", cfg.Dedalus.Model)
	}
	fmt.Printf("Port:      %d\n\n", cfg.Port)

	probeHealth(cfg.Port)
	return nil
}

// probeHealth checks whether a server is already running locally.
func probeHealth(port int) {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/api/health", port))
	if err != nil {
		fmt.Println("Server:    not running")
		return
	}
	defer resp.Body.Close()

	var health struct {
		Status     string `json:"status"`
		Model      string `json:"model"`
		Configured bool   `json:"configured"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		fmt.Printf("Server:    responded but unreadable (%v)\n", err)
		return
	}
	fmt.Printf("Server:    running (%s, model %s, configured=%t)\n",
		health.Status, health.Model, health.Configured)
}
