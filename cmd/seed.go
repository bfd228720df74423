package cmd

import (
	"fmt"

	"story-cms/repositories"
	"story-cms/seed"

	"github.com/spf13/cobra"
)

var (
	seedWriters        int
	seedPostsPerWriter int
	seedValue          int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo writers and posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap()
		if err != nil {
			return err
		}
		defer e.close()
		if e.cfg.IsProduction() {
			return fmt.Errorf("refusing to seed a %s database", e.cfg.Env)
		}

		ctx, cancel := withTimeout(cmd)
		defer cancel()
		if err := repositories.Migrate(ctx, e.db, e.log); err != nil {
			return err
		}

		res, err := seed.Run(ctx, e.db, seed.Options{
			Writers:        seedWriters,
			PostsPerWriter: seedPostsPerWriter,
			Seed:           seedValue,
		}, e.log)
		if err != nil {
			return err
		}
		cmd.Printf("seeded %d writers and %d posts (password %q)\n", res.Users, res.Posts, seed.DefaultPassword)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedWriters, "writers", 3, "Number of writers to create")
	seedCmd.Flags().IntVar(&seedPostsPerWriter, "posts", 5, "Posts per writer")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "Random seed (0 for random)")
	rootCmd.AddCommand(seedCmd)
}
