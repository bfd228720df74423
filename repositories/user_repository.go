package repositories

import (
	"context"

	"story-cms/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Recent(ctx context.Context, limit int) ([]models.User, error)
	Count(ctx context.Context, role models.UserRole) (int64, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) (int64, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("id <> ?", models.FallbackAuthorID).
		Order("created_at desc").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Recent(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("id <> ?", models.FallbackAuthorID).
		Order("created_at desc").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// Count counts real users, optionally restricted to one role. The fallback
// identity is not counted.
func (r *userRepository) Count(ctx context.Context, role models.UserRole) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("id <> ?", models.FallbackAuthorID)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	err := query.Count(&total).Error
	return total, err
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role models.UserRole) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	return res.RowsAffected, res.Error
}

func (r *userRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *userRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	return res.RowsAffected, res.Error
}
