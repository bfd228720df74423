package services

import (
	"context"
	"errors"
	"strings"

	"story-cms/cache"
	"story-cms/helper"
	"story-cms/models"
	"story-cms/observability"
	"story-cms/repositories"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Direct delete sub-strategy names, in the order they are tried.
const (
	DirectDeleteEquality   = "equality"
	DirectDeleteMatch      = "match"
	DirectDeleteExpression = "expression"
	DirectDeleteConfirmed  = "select_then_delete"
)

var errNoRowsDeleted = errors.New("no rows deleted")

type PostService interface {
	CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, req models.UpdatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetPosts(ctx context.Context, params models.PostListParams) ([]models.Post, int64, error)
	DeletePost(ctx context.Context, id string) error
	DirectDelete(ctx context.Context, id string) (string, error)
}

type postService struct {
	postRepo repositories.PostRepository
	cache    *cache.PostCache
	log      *zap.Logger
}

func NewPostService(postRepo repositories.PostRepository, postCache *cache.PostCache, log *zap.Logger) PostService {
	return &postService{
		postRepo: postRepo,
		cache:    postCache,
		log:      log,
	}
}

func (s *postService) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == models.StatusNone {
		status = models.StatusDraft
	}

	post := &models.Post{
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		Excerpt:    strings.TrimSpace(req.Excerpt),
		Category:   strings.TrimSpace(req.Category),
		CoverImage: req.CoverImage,
		Status:     status,
		AuthorID:   session.UserID,
		Featured:   req.Featured,
	}
	post.Slug = helper.Slugify(post.Title)
	if post.Excerpt == "" && post.Content != "" {
		post.Excerpt = helper.Excerpt(post.Content)
	}

	if err := models.CheckTransition(post, models.StatusNone, status); err != nil {
		return nil, err
	}
	if models.RequiresAdmin(models.StatusNone, status) && !session.IsAdmin() {
		return nil, models.NewForbiddenError("Only admins can publish posts")
	}
	if post.Featured && !session.IsAdmin() {
		return nil, models.NewForbiddenError("Only admins can feature posts")
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError("Failed to create post", err)
	}
	observability.PostTransitions.WithLabelValues("none", string(status)).Inc()
	if status == models.StatusPublished {
		s.cache.Invalidate(ctx)
	}

	s.log.Info("post created",
		zap.String("post_id", post.ID),
		zap.String("author_id", post.AuthorID),
		zap.String("status", string(post.Status)))
	return post, nil
}

func (s *postService) UpdatePost(ctx context.Context, id string, req models.UpdatePostRequest) (*models.Post, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessPost(session, post) {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	from := post.Status
	expectedVersion := post.Version
	if req.Version > 0 {
		if req.Version != post.Version {
			return nil, models.NewConflictError("Post was modified by someone else; reload and try again")
		}
		expectedVersion = req.Version
	}

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
		post.Slug = helper.Slugify(post.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*req.Excerpt)
	}
	if post.Excerpt == "" && post.Content != "" {
		post.Excerpt = helper.Excerpt(post.Content)
	}
	if req.Category != nil {
		post.Category = strings.TrimSpace(*req.Category)
	}
	if req.CoverImage != nil {
		post.CoverImage = *req.CoverImage
	}
	if req.Featured != nil {
		if *req.Featured != post.Featured && !session.IsAdmin() {
			return nil, models.NewForbiddenError("Only admins can feature posts")
		}
		post.Featured = *req.Featured
	}

	to := from
	if req.Status != nil {
		to = *req.Status
	}
	if err := models.CheckTransition(post, from, to); err != nil {
		return nil, err
	}
	if models.RequiresAdmin(from, to) && !session.IsAdmin() {
		return nil, models.NewForbiddenError("Only admins can publish or reject posts")
	}

	post.Status = to
	switch {
	case to == models.StatusRejected && post.RejectionReason == nil:
		reason := models.DefaultRejectionReason
		post.RejectionReason = &reason
	case to != models.StatusRejected:
		post.RejectionReason = nil
	}

	if err := s.postRepo.Update(ctx, post, expectedVersion); err != nil {
		if errors.Is(err, repositories.ErrStaleVersion) {
			return nil, models.NewConflictError("Post was modified by someone else; reload and try again")
		}
		return nil, models.NewInternalError("Failed to update post", err)
	}
	if from != to {
		observability.PostTransitions.WithLabelValues(string(from), string(to)).Inc()
	}
	if from == models.StatusPublished || to == models.StatusPublished {
		s.cache.Invalidate(ctx)
	}

	s.log.Info("post updated",
		zap.String("post_id", post.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Int("version", post.Version))
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccessPost(session, post) {
		return nil, models.NewForbiddenError("You can only view your own posts")
	}
	return post, nil
}

func (s *postService) GetPosts(ctx context.Context, params models.PostListParams) ([]models.Post, int64, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, 0, err
	}
	params.Normalize()

	status := models.PostStatus(params.Status)
	if status != models.StatusNone && !status.Valid() {
		return nil, 0, models.NewValidationError("Invalid status filter")
	}

	filter := repositories.PostFilter{
		Status:   status,
		Category: params.Category,
		AuthorID: params.AuthorID,
		Offset:   params.Offset(),
		Limit:    params.Limit,
	}
	if !session.IsAdmin() {
		filter.AuthorID = session.UserID
	}

	posts, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, models.NewInternalError("Failed to list posts", err)
	}
	return posts, total, nil
}

// DeletePost is the standard delete: it confirms the post exists, then
// removes it with a single equality delete.
func (s *postService) DeletePost(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.postRepo.DeleteByEquality(ctx, post.ID)
	if err != nil {
		return models.NewInternalError("Failed to delete post", err)
	}
	if n == 0 {
		return models.NewNotFoundError("Post", id)
	}

	s.cache.Invalidate(ctx)
	s.log.Info("post deleted", zap.String("post_id", id))
	return nil
}

// DirectDelete tries the equality, match and expression deletes in turn, then
// confirms the row with a select and deletes the confirmed id. It returns the
// name of the sub-strategy that removed the row.
func (s *postService) DirectDelete(ctx context.Context, id string) (method string, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.DirectDelete", attribute.String("post_id", id))
	defer func() { observability.EndSpan(span, err) }()

	if _, err := requireAdmin(ctx); err != nil {
		return "", err
	}
	if strings.TrimSpace(id) == "" {
		return "", models.NewValidationError("Post ID is required")
	}
	if !validPostID(id) {
		return "", models.NewNotFoundError("Post", id)
	}

	attempts := []struct {
		name string
		run  func(context.Context, string) (int64, error)
	}{
		{DirectDeleteEquality, s.postRepo.DeleteByEquality},
		{DirectDeleteMatch, s.postRepo.DeleteByMatch},
		{DirectDeleteExpression, s.postRepo.DeleteByExpression},
	}
	for _, a := range attempts {
		n, err := a.run(ctx, id)
		if err == nil && n > 0 {
			s.deleted(ctx, id, a.name)
			return a.name, nil
		}
		if err == nil {
			err = errNoRowsDeleted
		}
		s.log.Warn("direct delete attempt failed",
			zap.String("post_id", id),
			zap.String("strategy", a.name),
			zap.Error(err))
	}

	confirmedID, err := s.postRepo.FindID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return "", models.NewNotFoundError("Post", id)
		}
		return "", models.NewInternalError("Failed to find post", err)
	}

	n, err := s.postRepo.DeleteByEquality(ctx, confirmedID)
	if err == nil && n == 0 {
		err = errNoRowsDeleted
	}
	if err != nil {
		return "", models.NewInternalError("All deletion methods failed", err)
	}

	s.deleted(ctx, id, DirectDeleteConfirmed)
	return DirectDeleteConfirmed, nil
}

func (s *postService) deleted(ctx context.Context, id, method string) {
	s.cache.Invalidate(ctx)
	s.log.Info("post deleted", zap.String("post_id", id), zap.String("method", method))
}

// validPostID rejects ids that can never match the uuid primary key.
func validPostID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *postService) loadPost(ctx context.Context, id string) (*models.Post, error) {
	if !validPostID(id) {
		return nil, models.NewNotFoundError("Post", id)
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError("Failed to load post", err)
	}
	return post, nil
}
