package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"story-cms/cache"
	"story-cms/client"
	"story-cms/models"
	"story-cms/repositories"
	"story-cms/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	deleteServer   string
	deleteToken    string
	deleteEmail    string
	deletePassword string
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Moderate posts",
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete a post with the moderation fallback strategies",
	Long: `Delete a post the way the moderation dashboard does: first through the
server's direct-delete endpoint, then with equality, match, procedure and
select-then-delete attempts against the database.

The direct endpoint is skipped when --server is empty. It authenticates with
--token, or logs in with --email and --password. The token may also be given
through STORYCTL_TOKEN.

Examples:
  storyctl posts delete 7c1e... --email admin@example.com --server http://localhost:8080 --password s3cretpass
  storyctl posts delete 7c1e... --email admin@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if deleteEmail == "" {
			return errors.New("--email of an admin account is required")
		}
		if deleteToken == "" {
			deleteToken = os.Getenv("STORYCTL_TOKEN")
		}

		e, err := bootstrap()
		if err != nil {
			return err
		}
		defer e.close()

		ctx, cancel := withTimeout(cmd)
		defer cancel()

		session, err := operatorSession(ctx, e.db, deleteEmail)
		if err != nil {
			return err
		}
		ctx = models.WithSession(ctx, session)

		var remote services.RemoteDeleter
		if deleteServer != "" {
			c, err := remoteClient(ctx, deleteServer, deleteToken, deleteEmail, deletePassword)
			if err != nil {
				return err
			}
			remote = c
		}

		redisClient := cache.NewRedisClient(ctx, e.cfg.RedisURL, e.log)
		if redisClient != nil {
			defer redisClient.Close()
		}
		postCache := cache.NewPostCache(redisClient, 0, e.log)

		result, err := deletePost(ctx, e.db, remote, postCache, e.log, args[0])
		if err != nil {
			var exhausted *models.ErrorDeleteExhausted
			if errors.As(err, &exhausted) {
				for _, f := range exhausted.Failures {
					cmd.PrintErrf("  %s: %v\n", f.Strategy, f.Err)
				}
			}
			return err
		}
		cmd.Printf("deleted %s via %s\n", result.PostID, result.Strategy)
		return nil
	},
}

func init() {
	postsDeleteCmd.Flags().StringVar(&deleteServer, "server", "", "Base URL of a running server for the direct-delete endpoint")
	postsDeleteCmd.Flags().StringVar(&deleteToken, "token", "", "Bearer token for --server")
	postsDeleteCmd.Flags().StringVar(&deleteEmail, "email", "", "Admin email acting as moderator")
	postsDeleteCmd.Flags().StringVar(&deletePassword, "password", "", "Admin password, used to log in to --server when no token is given")

	postsCmd.AddCommand(postsDeleteCmd)
	rootCmd.AddCommand(postsCmd)
}

// operatorSession builds the admin session the moderation service expects
// from a user row.
func operatorSession(ctx context.Context, db *gorm.DB, email string) (*models.Session, error) {
	user, err := repositories.NewUserRepository(db).GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("no user with email %s", email)
		}
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%s is not an admin", email)
	}
	return &models.Session{UserID: user.ID, Email: email, Role: user.Role}, nil
}

func remoteClient(ctx context.Context, server, token, email, password string) (*client.Client, error) {
	c := client.New(server, token)
	if token != "" {
		return c, nil
	}
	if password == "" {
		return nil, errors.New("--token or --password is required with --server")
	}
	auth, err := c.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login to %s failed: %w", server, err)
	}
	return c.WithToken(auth.Token), nil
}

func deletePost(ctx context.Context, db *gorm.DB, remote services.RemoteDeleter, postCache *cache.PostCache, log *zap.Logger, postID string) (*services.DeleteResult, error) {
	postRepo := repositories.NewPostRepository(db)
	moderation := services.NewModerationService(postRepo, remote, postCache, log)
	return moderation.Delete(ctx, postID)
}
