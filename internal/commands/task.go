package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/jhennig/stamm/internal/models"
	"github.com/jhennig/stamm/internal/parser"
	"github.com/jhennig/stamm/internal/service"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks in the local database",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a task in a project",
	Long: `Create a task in a project, optionally under a parent task.

Examples:
  stamm task add "Write docs" --user me@example.com --project <project-id>
  stamm task add "Review" --user me@example.com --project <id> --parent <task-id> --estimate 1h30m`,
	Args: cobra.ExactArgs(1),
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

		projectID, _ := cmd.Flags().GetString("project")
		parent, _ := cmd.Flags().GetString("parent")
		description, _ := cmd.Flags().GetString("description")
		estimateStr, _ := cmd.Flags().GetString("estimate")
		tagsStr, _ := cmd.Flags().GetString("tags")

		estimate, err := parser.ParseEstimate(estimateStr)
		if err != nil {
			return err
		}

		params := service.CreateTaskParams{
			ProjectID:   projectID,
			Title:       args[0],
			Description: description,
			Estimate:    estimate,
		}
		if parent != "" {
			params.ParentID = &parent
		}
		if tagsStr != "" {
			params.Tags = strings.Split(tagsStr, ",")
		}

		task, err := service.NewTaskService(gdb).Create(user.ID, params)
		if err != nil {
			return err
		}

		fmt.Printf("✅ Created task \"%s\" (id: %s)\n", task.Title, task.ID)
		if task.Estimate != nil {
			fmt.Printf("Estimate: %s\n", parser.FormatEstimate(task.Estimate))
		}
		return nil
	},
}

// findUserByEmail resolves the --user flag for local admin commands
func findUserByEmail(gdb *gorm.DB, email string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("--user is required")
	}
	var user models.User
	if err := gdb.First(&user, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("user %s not found", email)
	}
	return &user, nil
}

func init() {
	taskAddCmd.Flags().String("user", "", "Email of the acting user")
	taskAddCmd.Flags().String("project", "", "Project ID")
	taskAddCmd.Flags().String("parent", "", "Parent task ID")
	taskAddCmd.Flags().String("description", "", "Task description")
	taskAddCmd.Flags().String("estimate", "", "Estimate (minutes, Xm, Xh or XhYm)")
	taskAddCmd.Flags().String("tags", "", "Comma-separated tags")
	taskAddCmd.MarkFlagRequired("user")
	taskAddCmd.MarkFlagRequired("project")
	taskCmd.AddCommand(taskAddCmd)
}
