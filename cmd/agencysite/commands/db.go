package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"agencysite/internal/database"
	"agencysite/internal/models"
	"agencysite/internal/store"
)

var (
	// create-admin flags
	adminEmail string
	adminName  string
	adminRole  string
)

// migrateCmd applies pending migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		slog.Info("migrations applied")
		return nil
	},
}

// seedCmd creates the settings row and, on an empty database, the
// default admin account
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return database.Seed(cmd.Context(), db)
	},
}

// createAdminCmd adds an account from the command line
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin API account",
	Long: `Create an account for the admin API. The password is read from the
AGENCYSITE_PASSWORD environment variable so it stays out of shell history.
The new user enrols in two-factor authentication on first login.

Examples:
  AGENCYSITE_PASSWORD=... agencysite create-admin --email ops@example.com --name Ops
  AGENCYSITE_PASSWORD=... agencysite create-admin --email ed@example.com --name Ed --role editor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := os.Getenv("AGENCYSITE_PASSWORD")
		if password == "" {
			return errors.New("AGENCYSITE_PASSWORD must be set")
		}
		if strings.TrimSpace(adminName) == "" {
			adminName = adminEmail
		}

		_, db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		user, err := store.NewUserStore(db).Create(cmd.Context(), adminEmail, password, adminName, models.Role(adminRole))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Email, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Login email")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "Display name (defaults to the email)")
	createAdminCmd.Flags().StringVar(&adminRole, "role", string(models.RoleAdmin), "Role: admin or editor")
	_ = createAdminCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(migrateCmd, seedCmd, createAdminCmd)
}
