package commands

import (
	"github.com/spf13/cobra"

	"github.com/jhennig/stamm/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the active timer in an interactive terminal view",
	Long: `Watch the active timer in an interactive terminal view. The view polls
the stamm server for the current timer and ticks the elapsed time locally
between polls.

Examples:
  stamm watch --server http://localhost:8080 --token <api-token>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL, _ := cmd.Flags().GetString("server")
		token, _ := cmd.Flags().GetString("token")
		return tui.RunWatchTUI(serverURL, token)
	},
}

func init() {
	watchCmd.Flags().String("server", "http://localhost:8080", "Base URL of the stamm server")
	watchCmd.Flags().String("token", "", "API token")
	watchCmd.MarkFlagRequired("token")
}
