package cmd

import (
	"story-cms/repositories"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema",
	Long: `Auto-migrate users and posts, ensure the fallback contributor exists and,
on postgres, install the delete_post_by_id procedure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		cmd.Println("migration complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
