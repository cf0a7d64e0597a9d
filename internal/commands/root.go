package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/jhennig/stamm/internal/config"
	"github.com/jhennig/stamm/internal/db"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "stamm",
	Short: "A project and time tracking server",
	Long: `stamm is a project/task-tracking server. Users build hierarchical task
trees inside projects and track time per task with a single active timer.
Run 'stamm serve' to start the HTTP API, or use the local subcommands to
administer the database directly.`,
}

// loadConfig resolves the effective configuration for a command run
func loadConfig() (*config.Config, error) {
	return config.Load(configFile)
}

// openDB opens the configured database, running migrations
func openDB() (*gorm.DB, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	gdb, err := db.Open(cfg.DatabasePath, cfg.LogSQL)
	if err != nil {
		return nil, nil, err
	}
	return gdb, cfg, nil
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}
