package services

import (
	"context"
	"strings"

	"story-cms/cache"
	"story-cms/models"
	"story-cms/repositories"

	"go.uber.org/zap"
)

type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	EnsureAdmin(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	userRepo repositories.UserRepository
	postRepo repositories.PostRepository
	cache    *cache.PostCache
	log      *zap.Logger
}

// NewUserService builds the user admin service. postCache may be nil.
func NewUserService(userRepo repositories.UserRepository, postRepo repositories.PostRepository, postCache *cache.PostCache, log *zap.Logger) UserService {
	return &userService{userRepo: userRepo, postRepo: postRepo, cache: postCache, log: log}
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, models.NewInternalError("Failed to list users", err)
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.create(ctx, req)
}

func (s *userService) create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	role := models.NormalizeRole(req.Role)
	if !role.Valid() {
		return nil, models.NewValidationError("Role must be admin or writer")
	}
	name := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, models.NewValidationError("Email is required")
	}

	user := &models.User{
		FullName: &name,
		Email:    &email,
		Role:     role,
	}
	if bio := strings.TrimSpace(req.Bio); bio != "" {
		user.Bio = &bio
	}
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, models.NewInternalError("Failed to create user", err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, models.NewConflictError("A user with this email already exists")
		}
		return nil, models.NewInternalError("Failed to create user", err)
	}
	s.log.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// EnsureAdmin creates an admin account or upgrades the existing account with
// that email to admin, resetting its password when one is given. It is meant
// for operator tooling and does not require a session.
func (s *userService) EnsureAdmin(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	req.Role = models.RoleAdmin
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return s.create(ctx, req)
		}
		return nil, models.NewInternalError("Failed to look up user", err)
	}

	if existing.Role != models.RoleAdmin {
		if _, err := s.userRepo.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return nil, models.NewInternalError("Failed to promote user", err)
		}
		existing.Role = models.RoleAdmin
	}
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, models.NewInternalError("Failed to set password", err)
		}
		if err := s.userRepo.SetPasswordHash(ctx, existing.ID, hash); err != nil {
			return nil, models.NewInternalError("Failed to set password", err)
		}
		existing.PasswordHash = hash
	}
	s.log.Info("admin ensured", zap.String("user_id", existing.ID))
	return existing, nil
}

func (s *userService) UpdateRole(ctx context.Context, id string, role models.UserRole) (*models.User, error) {
	session, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, models.NewValidationError("Role must be admin or writer")
	}
	if id == session.UserID && role != models.RoleAdmin {
		return nil, models.NewConflictError("You cannot remove your own admin role")
	}
	if id == models.FallbackAuthorID {
		return nil, models.NewConflictError("The community contributor account cannot be changed")
	}

	n, err := s.userRepo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, models.NewInternalError("Failed to update role", err)
	}
	if n == 0 {
		return nil, models.NewNotFoundError("User", id)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, models.NewInternalError("Failed to load user", err)
	}
	// Author cards on public posts carry the role.
	s.cache.Invalidate(ctx)
	s.log.Info("user role changed", zap.String("user_id", id), zap.String("role", string(role)))
	return user, nil
}

// DeleteUser removes a user that owns no posts.
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	session, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	if id == session.UserID {
		return models.NewConflictError("You cannot delete your own account")
	}
	if id == models.FallbackAuthorID {
		return models.NewConflictError("The community contributor account cannot be deleted")
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return models.NewNotFoundError("User", id)
		}
		return models.NewInternalError("Failed to load user", err)
	}

	owned, err := s.postRepo.CountByAuthor(ctx, id)
	if err != nil {
		return models.NewInternalError("Failed to delete user", err)
	}
	if owned > 0 {
		return models.NewConflictError("User still owns posts; delete or reassign them first")
	}

	n, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return models.NewInternalError("Failed to delete user", err)
	}
	if n == 0 {
		return models.NewNotFoundError("User", id)
	}
	s.log.Info("user deleted", zap.String("user_id", id))
	return nil
}
