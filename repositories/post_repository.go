package repositories

import (
	"context"
	"time"

	"story-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows post listings. Empty fields do not filter.
type PostFilter struct {
	Status   models.PostStatus
	Category string
	AuthorID string
	Offset   int
	Limit    int
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error)
	ListRelated(ctx context.Context, category, excludeID string, limit int) ([]models.Post, error)
	Recent(ctx context.Context, limit int) ([]models.Post, error)
	Count(ctx context.Context, status models.PostStatus) (int64, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	Update(ctx context.Context, post *models.Post, expectedVersion int) error
	UpdateStatus(ctx context.Context, id string, expectedVersion int, status models.PostStatus, reason *string) error

	// Delete shapes. Each returns the number of rows removed.
	DeleteByEquality(ctx context.Context, id string) (int64, error)
	DeleteByMatch(ctx context.Context, id string) (int64, error)
	DeleteByExpression(ctx context.Context, id string) (int64, error)
	CallDeleteProcedure(ctx context.Context, id string) (int64, error)
	FindID(ctx context.Context, id string) (string, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Where("slug = ? AND status = ?", slug, models.StatusPublished).
		Order("created_at desc").
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error) {
	var (
		posts []models.Post
		total int64
	)

	query := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.Status != models.StatusNone {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", filter.Category)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}
	err := query.Preload("Author").Order("created_at desc").Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) ListRelated(ctx context.Context, category, excludeID string, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Where("status = ? AND category = ? AND id <> ?", models.StatusPublished, category, excludeID).
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Recent(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("Author").
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Count(ctx context.Context, status models.PostStatus) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Post{})
	if status != models.StatusNone {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&total).Error
	return total, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&total).Error
	return total, err
}

// Update writes the editable columns of post if its version still equals
// expectedVersion, and bumps the version.
func (r *postRepository) Update(ctx context.Context, post *models.Post, expectedVersion int) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND version = ?", post.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":            post.Title,
			"slug":             post.Slug,
			"excerpt":          post.Excerpt,
			"content":          post.Content,
			"category":         post.Category,
			"cover_image":      post.CoverImage,
			"status":           post.Status,
			"rejection_reason": post.RejectionReason,
			"featured":         post.Featured,
			"version":          expectedVersion + 1,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	post.Version = expectedVersion + 1
	return nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id string, expectedVersion int, status models.PostStatus, reason *string) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"status":           status,
			"rejection_reason": reason,
			"version":          expectedVersion + 1,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}

func (r *postRepository) DeleteByEquality(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	return res.RowsAffected, res.Error
}

func (r *postRepository) DeleteByMatch(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where(map[string]interface{}{"id": id}).Delete(&models.Post{})
	return res.RowsAffected, res.Error
}

func (r *postRepository) DeleteByExpression(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).
		Delete(&models.Post{})
	return res.RowsAffected, res.Error
}

// CallDeleteProcedure invokes the delete_post_by_id database function, which
// returns the number of rows it removed.
func (r *postRepository) CallDeleteProcedure(ctx context.Context, id string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Raw("SELECT delete_post_by_id(?)", id).Scan(&deleted).Error
	return deleted, err
}

// FindID confirms the post exists and returns its stored id.
func (r *postRepository) FindID(ctx context.Context, id string) (string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", gorm.ErrRecordNotFound
	}
	return ids[0], nil
}
