package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskdeck/cmd/taskdeck/ui"
	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/logging"
	"taskdeck/internal/session"
)

// Set via -ldflags at release time.
var version = "dev"

var (
	// Global flags
	configPath string
	endpoint   string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd launches the interactive task dashboard.
var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "taskdeck - a terminal client for your task service",
	Long: `taskdeck is a terminal UI for a remote task-management service.

Sign in once and the session persists between runs. Tasks are listed a page
at a time with live search and category filters; create, edit, and delete
from the keyboard.

Run without arguments to start the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		// The TUI owns the terminal, so the logger writes to a file.
		lc := cfg.GetLogging()
		logger, err = logging.New(lc.Level, lc.File)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

// logoutCmd clears the stored session without starting the UI.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := session.NewStore(config.Dir())
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

// versionCmd prints the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the taskdeck version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taskdeck %s\n", version)
	},
}

func runDashboard() error {
	base := cfg.GetAPIEndpoint()
	if endpoint != "" {
		base = endpoint
	}

	client := api.New(base, logger)
	store := session.NewStore(config.Dir())
	styles := ui.NewStyles(ui.ThemeByName(cfg.GetTheme()))

	logger.Info("starting taskdeck",
		zap.String("version", version),
		zap.String("endpoint", base))

	model := newAppModel(client, store, styles, logger, cfg.GetPageSize())
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("ui terminated with error", zap.Error(err))
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the config file")
	rootCmd.Flags().StringVar(&endpoint, "endpoint", "", "override the task service endpoint")

	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
