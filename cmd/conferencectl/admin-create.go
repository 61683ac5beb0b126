package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
	gormstore "github.com/pmcoe-ai1/conference-app/pkg/server/store/gorm"
)

// adminCreateCmd represents the admin create command
var adminCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create an admin account",
	Long: `Create an admin account.

When --password is not given a password is generated and printed to STDOUT.

Example:
  conferencectl admin create org@example.com --name "Program Committee"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		password, _ := cmd.Flags().GetString("password")

		database, err := connectDB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create admin: %v\n", err)
			os.Exit(1)
		}

		admin, generated, err := createAdmin(context.Background(), gormstore.NewAdminsStore(database), args[0], name, password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create admin: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Created admin '%s' (id %d)\n", admin.Email, admin.ID)
		if generated != "" {
			fmt.Printf("Password for %s: %s\n", admin.Email, generated)
		}
	},
}

func init() {
	adminCmd.AddCommand(adminCreateCmd)
	adminCreateCmd.Flags().StringP("name", "n", "", "display name (default: the email)")
	adminCreateCmd.Flags().String("password", "", "initial password (default: generated)")
}

// createAdmin stores a new admin. It returns the generated password when
// password is empty.
func createAdmin(ctx context.Context, admins store.AdminsStore, email, name, password string) (*model.Admin, string, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, "", fmt.Errorf("email is required")
	}
	if name == "" {
		name = email
	}

	var generated string
	if password == "" {
		var err error
		if password, err = auth.GeneratePassword(); err != nil {
			return nil, "", err
		}
		generated = password
	} else if err := auth.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	admin := &model.Admin{Email: email, Name: name, PasswordHash: hash}
	if err := admins.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, "", fmt.Errorf("admin %s already exists", email)
		}
		return nil, "", err
	}
	return admin, generated, nil
}
