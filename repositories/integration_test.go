//go:build integration
// +build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"story-cms/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupPostgres starts a disposable postgres and returns a migrated handle.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("storycms"),
		tcpostgres.WithUsername("storycms"),
		tcpostgres.WithPassword("storycms"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, Migrate(ctx, db, zap.NewNop()))
	return db
}

func TestPostgresDeleteProcedure(t *testing.T) {
	db := setupPostgres(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "writer@example.com", models.RoleWriter)
	post := createPost(t, db, author, "Procedure", models.StatusPublished, "Travel")

	n, err := repo.CallDeleteProcedure(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.CallDeleteProcedure(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	// migrating twice replaces the function in place
	require.NoError(t, Migrate(ctx, db, zap.NewNop()))
}

func TestPostgresMissingProcedureIsClassified(t *testing.T) {
	db := setupPostgres(t)
	require.NoError(t, db.Exec("DROP FUNCTION delete_post_by_id(TEXT)").Error)

	_, err := NewPostRepository(db).CallDeleteProcedure(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.True(t, IsUndefinedFunction(err))
}

func TestPostgresDeleteShapes(t *testing.T) {
	db := setupPostgres(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "writer@example.com", models.RoleWriter)

	shapes := map[string]func(context.Context, string) (int64, error){
		"equality":   repo.DeleteByEquality,
		"match":      repo.DeleteByMatch,
		"expression": repo.DeleteByExpression,
	}
	for name, del := range shapes {
		t.Run(name, func(t *testing.T) {
			post := createPost(t, db, author, name, models.StatusDraft, "Food")

			n, err := del(ctx, post.ID)
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)

			n, err = del(ctx, post.ID)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}

	_, err := repo.FindID(ctx, uuid.NewString())
	assert.True(t, IsNotFound(err))
}

func TestPostgresStatusCompareAndSwap(t *testing.T) {
	db := setupPostgres(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "writer@example.com", models.RoleWriter)
	post := createPost(t, db, author, "CAS", models.StatusPending, "Food")

	require.NoError(t, repo.UpdateStatus(ctx, post.ID, post.Version, models.StatusPublished, nil))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, post.ID, post.Version, models.StatusRejected, strPtr("late")), ErrStaleVersion)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, got.Status)
	assert.Equal(t, post.Version+1, got.Version)
}

func TestPostgresUniqueEmail(t *testing.T) {
	db := setupPostgres(t)
	repo := NewUserRepository(db)
	createUser(t, db, "dup@example.com", models.RoleWriter)

	err := repo.Create(context.Background(), &models.User{Email: strPtr("dup@example.com")})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}
