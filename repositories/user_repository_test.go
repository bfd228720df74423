package repositories

import (
	"context"
	"testing"

	"story-cms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCreatesFallbackAuthorOnce(t *testing.T) {
	db := setupSQLite(t)
	ctx := context.Background()

	require.NoError(t, EnsureFallbackAuthor(ctx, db))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", models.FallbackAuthorID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository(t *testing.T) {
	db := setupSQLite(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	writer := createUser(t, db, "writer@example.com", models.RoleWriter)
	createUser(t, db, "admin@example.com", models.RoleAdmin)

	got, err := repo.GetByEmail(ctx, "writer@example.com")
	require.NoError(t, err)
	assert.Equal(t, writer.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, IsNotFound(err))

	dup := &models.User{Email: strPtr("writer@example.com")}
	assert.True(t, IsUniqueViolation(repo.Create(ctx, dup)))

	total, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "fallback author is not counted")

	writers, err := repo.Count(ctx, models.RoleWriter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), writers)

	n, err := repo.UpdateRole(ctx, writer.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	n, err = repo.Delete(ctx, writer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
