package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhennig/stamm/internal/models"
	"github.com/jhennig/stamm/internal/service"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a user's current timer status",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, _, err := openDB()
		if err != nil {
			return err
		}

		email, _ := cmd.Flags().GetString("user")
		user, err := findUserByEmail(gdb, email)
		if err != nil {
			return err
		}

		timer, err := service.NewTimerService(gdb).Active(user.ID)
		if err != nil {
			return err
		}
		if timer == nil {
			fmt.Println("No active timer")
			return nil
		}

		var task models.Task
		if err := gdb.First(&task, "id = ?", timer.TaskID).Error; err != nil {
			return fmt.Errorf("task %s not found", timer.TaskID)
		}

		fmt.Printf("⏱️  Currently tracking: %s\n", task.Title)
		fmt.Printf("Started at: %s\n", timer.StartedAt.Format("15:04:05"))
		fmt.Printf("Elapsed time: %s\n", formatDuration(time.Since(timer.StartedAt)))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stamm %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	statusCmd.Flags().String("user", "", "Email of the user")
	statusCmd.MarkFlagRequired("user")
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
