package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/h0rv/fetchlist/internal/config"
	"github.com/h0rv/fetchlist/internal/fetch"
	"github.com/h0rv/fetchlist/internal/sanitize"
	"github.com/h0rv/fetchlist/internal/store"
	"github.com/h0rv/fetchlist/internal/tui"
	"github.com/spf13/cobra"
)

var (
	// CLI flags
	configFlag  string
	baseURLFlag string
	pathFlag    string
	tagsFlag    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fetchlist",
		Short: "Searchable, grouped terminal view of a remote item list",
		Long: `fetchlist fetches a JSON array of items, drops the ones without a name,
and shows the rest grouped by list ID.

Type / to search, g to pick a list, r to refresh, ? for all keys.

Settings are read from ~/.config/fetchlist/config.yaml when present.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.config/fetchlist/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "endpoint base URL (default "+fetch.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&pathFlag, "path", "", "endpoint resource path (default "+fetch.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&tagsFlag, "tags", "", "icon assignment: random or round-robin")

	rootCmd.AddCommand(newListCmd(), newGroupsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges the config file with command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Override(baseURLFlag, pathFlag, tagsFlag); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newClient(cfg config.Config) (*fetch.Client, error) {
	client, err := fetch.New(cfg.BaseURL, cfg.Path, fetch.WithUserAgent(cfg.UserAgent))
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func newTagger(cfg config.Config) sanitize.Tagger {
	if cfg.Tags == config.TagsRoundRobin {
		return &sanitize.RoundRobin{}
	}
	return sanitize.Random()
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The UI owns the terminal, so diagnostics go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.LogFile, "fetchlist")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("starting, endpoint %s", client.URL())
	s := store.New(ctx, client, store.WithTagger(newTagger(cfg)))

	app := tui.NewAppModel(ctx, s, client.URL())
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
