package services

import (
	"context"
	"testing"
	"time"

	"story-cms/cache"
	"story-cms/models"
	"story-cms/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) UserService {
	return NewUserService(repositories.NewUserRepository(db), repositories.NewPostRepository(db), nil, zap.NewNop())
}

func TestCreateUser(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	svc := newUserService(db)

	user, err := svc.CreateUser(sessionCtx(admin), models.CreateUserRequest{
		FullName: "New Person", Email: "New@Example.com", Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleWriter, user.Role)
	assert.Equal(t, "new@example.com", *user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough")))

	_, err = svc.CreateUser(sessionCtx(admin), models.CreateUserRequest{FullName: "Dup", Email: "new@example.com"})
	var conflict *models.ErrorConflict
	assert.ErrorAs(t, err, &conflict)

	_, err = svc.CreateUser(sessionCtx(admin), models.CreateUserRequest{FullName: "Bad", Email: "bad@example.com", Role: "editor"})
	assertValidationError(t, err)
}

func TestUpdateRole(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	writer := seedUser(t, db, "writer@example.com", models.RoleWriter)
	svc := newUserService(db)

	promoted, err := svc.UpdateRole(sessionCtx(admin), writer.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	demoted, err := svc.UpdateRole(sessionCtx(admin), writer.ID, models.RoleWriter)
	require.NoError(t, err)
	assert.Equal(t, models.RoleWriter, demoted.Role)

	_, err = svc.UpdateRole(sessionCtx(admin), admin.ID, models.RoleWriter)
	var conflict *models.ErrorConflict
	assert.ErrorAs(t, err, &conflict)

	_, err = svc.UpdateRole(sessionCtx(admin), uuid.NewString(), models.RoleAdmin)
	var notFound *models.ErrorNotFound
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.UpdateRole(sessionCtx(writer), admin.ID, models.RoleWriter)
	var forbidden *models.ErrorForbidden
	assert.ErrorAs(t, err, &forbidden)
}

func TestUpdateRoleRefreshesAuthorCards(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	writer := seedUser(t, db, "writer@example.com", models.RoleWriter)
	seedPost(t, db, writer, "on-the-road", models.StatusPublished)

	_, client := newTestRedis(t)
	postCache := cache.NewPostCache(client, time.Minute, zap.NewNop())
	postRepo := repositories.NewPostRepository(db)
	blog := NewBlogService(postRepo, postCache, zap.NewNop())
	users := NewUserService(repositories.NewUserRepository(db), postRepo, postCache, zap.NewNop())

	before, err := blog.GetBySlug(context.Background(), "on-the-road")
	require.NoError(t, err)
	require.Len(t, before.Authors, 1)
	assert.Equal(t, "Writer", before.Authors[0].Role)

	_, err = users.UpdateRole(sessionCtx(admin), writer.ID, models.RoleAdmin)
	require.NoError(t, err)

	after, err := blog.GetBySlug(context.Background(), "on-the-road")
	require.NoError(t, err)
	assert.Equal(t, "Admin", after.Authors[0].Role)
}

func TestDeleteUserRestrictsOwners(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	author := seedUser(t, db, "author@example.com", models.RoleWriter)
	idle := seedUser(t, db, "idle@example.com", models.RoleWriter)
	post := seedPost(t, db, author, "owned", models.StatusDraft)
	svc := newUserService(db)
	ctx := sessionCtx(admin)

	err := svc.DeleteUser(ctx, author.ID)
	var conflict *models.ErrorConflict
	require.ErrorAs(t, err, &conflict)
	assert.True(t, postExists(t, db, post.ID))

	require.NoError(t, svc.DeleteUser(ctx, idle.ID))
	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", idle.ID).Count(&n).Error)
	assert.Zero(t, n)

	assert.ErrorAs(t, svc.DeleteUser(ctx, admin.ID), &conflict)
	assert.ErrorAs(t, svc.DeleteUser(ctx, models.FallbackAuthorID), &conflict)

	var notFound *models.ErrorNotFound
	assert.ErrorAs(t, svc.DeleteUser(ctx, uuid.NewString()), &notFound)
}

func TestEnsureAdmin(t *testing.T) {
	db := setupDB(t)
	existing := seedUser(t, db, "boss@example.com", models.RoleWriter)
	svc := newUserService(db)

	user, err := svc.EnsureAdmin(context.Background(), models.CreateUserRequest{Email: "boss@example.com", Password: "new-password"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", existing.ID).Error)
	assert.Equal(t, models.RoleAdmin, stored.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")))

	created, err := svc.EnsureAdmin(context.Background(), models.CreateUserRequest{FullName: "Fresh", Email: "fresh@example.com", Password: "pw-12345"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, created.Role)
}

func TestListUsersHidesFallbackAuthor(t *testing.T) {
	db := setupDB(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	users, err := newUserService(db).ListUsers(sessionCtx(admin))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, admin.ID, users[0].ID)
}
