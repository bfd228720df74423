package cmd

import (
	"errors"
	"os"

	"story-cms/models"
	"story-cms/repositories"
	"story-cms/services"

	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage administrator accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin, or promote an existing user and reset its password",
	Long: `Create an admin account. When the email already belongs to a user, that
user is promoted to admin and its password is replaced.

The password may also be given through STORYCTL_ADMIN_PASSWORD.

Examples:
  storyctl admin create --email admin@example.com --name "Site Admin" --password s3cretpass`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminPassword == "" {
			adminPassword = os.Getenv("STORYCTL_ADMIN_PASSWORD")
		}
		if adminEmail == "" || adminPassword == "" {
			return errors.New("--email and --password are required")
		}

		e, err := bootstrap()
		if err != nil {
			return err
		}
		defer e.close()

		ctx, cancel := withTimeout(cmd)
		defer cancel()
		if err := repositories.Migrate(ctx, e.db, e.log); err != nil {
			return err
		}

		users := services.NewUserService(repositories.NewUserRepository(e.db), repositories.NewPostRepository(e.db), nil, e.log)
		user, err := users.EnsureAdmin(ctx, models.CreateUserRequest{
			FullName: adminName,
			Email:    adminEmail,
			Password: adminPassword,
			Role:     models.RoleAdmin,
		})
		if err != nil {
			return err
		}

		cmd.Printf("admin ready: %s (%s)\n", *user.Email, user.ID)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	adminCreateCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (min 8 characters)")

	adminCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(adminCmd)
}
