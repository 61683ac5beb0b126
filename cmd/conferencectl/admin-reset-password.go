package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmcoe-ai1/conference-app/pkg/audit"
	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
	gormstore "github.com/pmcoe-ai1/conference-app/pkg/server/store/gorm"
)

// adminResetPasswordCmd represents the admin reset-password command
var adminResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Set a new generated password for an admin",
	Long: `Set a new generated password for an admin account.

The new password will be printed to stdout.

Example:
  conferencectl admin reset-password org@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		database, err := connectDB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password for %s: %v\n", args[0], err)
			os.Exit(1)
		}

		password, err := resetAdminPassword(context.Background(), gormstore.NewAdminsStore(database), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password for %s: %v\n", args[0], err)
			os.Exit(1)
		}
		fmt.Println(password)
	},
}

func init() {
	adminCmd.AddCommand(adminResetPasswordCmd)
}

func resetAdminPassword(ctx context.Context, admins store.AdminsStore, email string) (string, error) {
	admin, err := admins.FindAdminByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("admin not found: %s", email)
	}
	if err != nil {
		return "", err
	}

	password, err := auth.GeneratePassword()
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	if err := admins.UpdateAdminPassword(ctx, admin.ID, hash); err != nil {
		return "", fmt.Errorf("failed to update password: %w", err)
	}

	audit.Log(audit.PasswordEvent{
		Subject:   "conferencectl",
		Target:    admin.Email,
		Operation: audit.PasswordReset,
		Success:   true,
	})
	return password, nil
}
