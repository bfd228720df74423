package services

import (
	"context"
	"strings"

	"story-cms/helper"
	"story-cms/models"
	"story-cms/observability"
	"story-cms/repositories"
	"story-cms/storage"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PlaceholderImageURL is used as the cover when the story image upload fails.
const PlaceholderImageURL = "https://picsum.photos/id/237/600/400"

const submissionAccepted = "Your story has been submitted and is pending review."

type SubmissionService interface {
	Submit(ctx context.Context, sub models.StorySubmission, img *models.UploadedImage) (*models.SubmissionResult, error)
}

type submissionService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
	images   ImageService
	log      *zap.Logger
}

func NewSubmissionService(postRepo repositories.PostRepository, userRepo repositories.UserRepository, images ImageService, log *zap.Logger) SubmissionService {
	return &submissionService{
		postRepo: postRepo,
		userRepo: userRepo,
		images:   images,
		log:      log,
	}
}

// Submit turns an anonymous story into a pending post. Validation failures
// leave no side effects; upload and author resolution failures fall back to
// the placeholder image and the fallback author.
func (s *submissionService) Submit(ctx context.Context, sub models.StorySubmission, img *models.UploadedImage) (result *models.SubmissionResult, err error) {
	ctx, span := observability.StartSpan(ctx, "SubmissionService.Submit")
	defer func() { observability.EndSpan(span, err) }()

	sub.Title = strings.TrimSpace(sub.Title)
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	sub.Bio = strings.TrimSpace(sub.Bio)

	if err := validateSubmission(sub); err != nil {
		observability.StorySubmissions.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if _, _, err := ValidateImage(img); err != nil {
		observability.StorySubmissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	coverURL, err := s.images.Upload(ctx, storage.StoryImagesBucket, storage.StoryImagesBucket, *img)
	if err != nil {
		s.log.Warn("story image upload failed, using placeholder", zap.Error(err))
		observability.SubmissionFallbacks.WithLabelValues("placeholder_image").Inc()
		coverURL = PlaceholderImageURL
	}

	authorID := s.resolveAuthor(ctx, sub)
	span.SetAttributes(attribute.String("author_id", authorID))

	post := &models.Post{
		Title:      sub.Title,
		Slug:       helper.Slugify(sub.Title),
		Content:    sub.Content,
		Excerpt:    helper.Excerpt(sub.Content),
		CoverImage: coverURL,
		Status:     models.StatusPending,
		AuthorID:   authorID,
	}
	if err := models.CheckTransition(post, models.StatusNone, models.StatusPending); err != nil {
		return nil, err
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		observability.StorySubmissions.WithLabelValues("failed").Inc()
		return nil, models.NewInternalError("Failed to save your story. Please try again.", err)
	}

	observability.StorySubmissions.WithLabelValues("accepted").Inc()
	observability.PostTransitions.WithLabelValues("none", string(models.StatusPending)).Inc()
	s.log.Info("story submitted",
		zap.String("post_id", post.ID),
		zap.String("author_id", authorID))

	return &models.SubmissionResult{
		Success: true,
		Message: submissionAccepted,
		PostID:  post.ID,
	}, nil
}

func validateSubmission(sub models.StorySubmission) error {
	switch {
	case sub.Title == "":
		return models.NewValidationError("Title is required")
	case strings.TrimSpace(sub.Content) == "":
		return models.NewValidationError("Content is required")
	case sub.Name == "":
		return models.NewValidationError("Name is required")
	case sub.Email == "":
		return models.NewValidationError("Email is required")
	}
	return nil
}

// resolveAuthor finds or creates the writer behind the submission email and
// falls back to the shared contributor identity when neither works.
func (s *submissionService) resolveAuthor(ctx context.Context, sub models.StorySubmission) string {
	existing, err := s.userRepo.GetByEmail(ctx, sub.Email)
	if err == nil {
		return existing.ID
	}
	if !repositories.IsNotFound(err) {
		// A failed lookup still gets a create attempt; the unique index decides.
		s.log.Warn("author lookup failed, creating writer", zap.Error(err))
	}

	user := &models.User{
		FullName: &sub.Name,
		Email:    &sub.Email,
		Role:     models.RoleWriter,
	}
	if sub.Bio != "" {
		user.Bio = &sub.Bio
	}

	err = s.userRepo.Create(ctx, user)
	if err == nil {
		s.log.Info("writer created from submission", zap.String("user_id", user.ID))
		return user.ID
	}
	if !repositories.IsUniqueViolation(err) {
		return s.fallbackAuthor("create failed", err)
	}

	// Someone registered the same email between our lookup and insert.
	existing, err = s.userRepo.GetByEmail(ctx, sub.Email)
	if err != nil {
		return s.fallbackAuthor("re-lookup failed", err)
	}
	return existing.ID
}

func (s *submissionService) fallbackAuthor(reason string, err error) string {
	s.log.Warn("using fallback author for submission", zap.String("reason", reason), zap.Error(err))
	observability.SubmissionFallbacks.WithLabelValues("fallback_author").Inc()
	return models.FallbackAuthorID
}
