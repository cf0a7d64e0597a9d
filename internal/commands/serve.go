package commands

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jhennig/stamm/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stamm HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, cfg, err := openDB()
		if err != nil {
			return err
		}

		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.ListenAddr = listen
		}

		gin.SetMode(cfg.GinMode)
		fmt.Printf("Listening on %s (database: %s)\n", cfg.ListenAddr, cfg.DatabasePath)
		return server.New(gdb).Run(cfg.ListenAddr)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := openDB()
		if err != nil {
			return err
		}
		fmt.Printf("✅ Migrations applied to %s\n", cfg.DatabasePath)
		return nil
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Listen address (overrides config)")
}
