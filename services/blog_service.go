package services

import (
	"context"
	"strconv"
	"strings"

	"story-cms/cache"
	"story-cms/helper"
	"story-cms/models"
	"story-cms/repositories"

	"go.uber.org/zap"
)

const (
	defaultCoverImage = "/placeholder.svg?height=600&width=800"
	defaultAvatar     = "/placeholder.svg?height=100&width=100"
	defaultCategory   = "general"
	defaultAuthorRole = "Writer"
	defaultAuthorBio  = "Community contributor"
	anonymousAuthorID = "anonymous"
	relatedPostsLimit = 3
	publicDateLayout  = "2006-01-02"
)

// BlogService serves published posts to anonymous readers.
type BlogService interface {
	ListPublished(ctx context.Context, params models.PostListParams) (*models.PublicPostList, error)
	GetBySlug(ctx context.Context, slug string) (*models.PublicPost, error)
	Related(ctx context.Context, slug string) ([]models.PublicPost, error)
	Categories() []string
}

type blogService struct {
	postRepo repositories.PostRepository
	cache    *cache.PostCache
	log      *zap.Logger
}

func NewBlogService(postRepo repositories.PostRepository, postCache *cache.PostCache, log *zap.Logger) BlogService {
	return &blogService{postRepo: postRepo, cache: postCache, log: log}
}

func (s *blogService) ListPublished(ctx context.Context, params models.PostListParams) (*models.PublicPostList, error) {
	params.Normalize()
	category := strings.ToLower(strings.TrimSpace(params.Category))

	var key string
	if s.cache.Enabled() {
		key = s.cache.Key(ctx, "list", category, strconv.Itoa(params.Page), strconv.Itoa(params.Limit))
		var cached models.PublicPostList
		if s.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	posts, total, err := s.postRepo.List(ctx, repositories.PostFilter{
		Status:   models.StatusPublished,
		Category: category,
		Offset:   params.Offset(),
		Limit:    params.Limit,
	})
	if err != nil {
		return nil, models.NewInternalError("Failed to load posts", err)
	}

	out := &models.PublicPostList{
		Posts: make([]models.PublicPost, 0, len(posts)),
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}
	for i := range posts {
		out.Posts = append(out.Posts, ToPublicPost(&posts[i]))
	}

	if key != "" {
		s.cache.Set(ctx, key, out)
	}
	return out, nil
}

func (s *blogService) GetBySlug(ctx context.Context, slug string) (*models.PublicPost, error) {
	var key string
	if s.cache.Enabled() {
		key = s.cache.Key(ctx, "slug", slug)
		var cached models.PublicPost
		if s.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	post, err := s.postRepo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, models.NewNotFoundError("Post", slug)
		}
		return nil, models.NewInternalError("Failed to load post", err)
	}

	out := ToPublicPost(post)
	if key != "" {
		s.cache.Set(ctx, key, out)
	}
	return &out, nil
}

func (s *blogService) Related(ctx context.Context, slug string) ([]models.PublicPost, error) {
	post, err := s.postRepo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, models.NewNotFoundError("Post", slug)
		}
		return nil, models.NewInternalError("Failed to load post", err)
	}

	out := []models.PublicPost{}
	if post.Category == "" {
		return out, nil
	}
	related, err := s.postRepo.ListRelated(ctx, post.Category, post.ID, relatedPostsLimit)
	if err != nil {
		return nil, models.NewInternalError("Failed to load related posts", err)
	}
	for i := range related {
		out = append(out, ToPublicPost(&related[i]))
	}
	return out, nil
}

func (s *blogService) Categories() []string {
	return append([]string(nil), models.SuggestedCategories...)
}

// ToPublicPost shapes a post for readers and fills the display fallbacks.
func ToPublicPost(p *models.Post) models.PublicPost {
	out := models.PublicPost{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		CoverImage:  p.CoverImage,
		Date:        p.CreatedAt.UTC().Format(publicDateLayout),
		ReadingTime: helper.ReadingTime(p.Content),
		Category:    p.Category,
		Featured:    p.Featured,
	}
	if out.Slug == "" {
		out.Slug = helper.Slugify(p.Title)
	}
	if out.Excerpt == "" {
		out.Excerpt = helper.Excerpt(p.Content)
	}
	if out.CoverImage == "" {
		out.CoverImage = defaultCoverImage
	}
	if out.Category == "" {
		out.Category = defaultCategory
	}
	out.Authors = []models.AuthorCard{authorCard(p.Author)}
	return out
}

func authorCard(u *models.User) models.AuthorCard {
	card := models.AuthorCard{
		ID:     anonymousAuthorID,
		Name:   u.DisplayName(),
		Role:   defaultAuthorRole,
		Bio:    defaultAuthorBio,
		Avatar: defaultAvatar,
	}
	if u == nil {
		return card
	}
	card.ID = u.ID
	if u.Role != "" {
		card.Role = strings.ToUpper(string(u.Role[:1])) + string(u.Role[1:])
	}
	if u.Bio != nil && *u.Bio != "" {
		card.Bio = *u.Bio
	}
	if u.AvatarURL != nil && *u.AvatarURL != "" {
		card.Avatar = *u.AvatarURL
	}
	return card
}
