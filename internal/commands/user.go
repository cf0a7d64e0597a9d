package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhennig/stamm/internal/models"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users in the local database",
}

var userAddCmd = &cobra.Command{
	Use:   "add [email]",
	Short: "Create a user and print their API token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, _, err := openDB()
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		user := models.User{Email: args[0], Name: name}
		if err := gdb.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Printf("✅ Created user %s (id: %s)\n", user.Email, user.ID)
		fmt.Printf("API token: %s\n", user.APIToken)
		return nil
	},
}

func init() {
	userAddCmd.Flags().String("name", "", "Display name")
	userCmd.AddCommand(userAddCmd)
}
