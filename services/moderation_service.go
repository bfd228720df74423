package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"story-cms/cache"
	"story-cms/models"
	"story-cms/observability"
	"story-cms/repositories"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Delete strategy names, in the order the moderation delete tries them.
const (
	StrategyDirectEndpoint = "direct_endpoint"
	StrategyEquality       = "equality"
	StrategyMatch          = "match"
	StrategyProcedure      = "procedure"
	StrategyConfirmed      = "select_then_delete"
)

var errProcedureMissing = errors.New("delete procedure is not installed")

// RemoteDeleter calls the dedicated direct-delete endpoint for a post.
type RemoteDeleter interface {
	DirectDelete(ctx context.Context, postID string) error
}

// DeleteStrategy is one attempt at removing a post. Delete returns nil only
// when the post row was actually removed.
type DeleteStrategy struct {
	Name   string
	Delete func(ctx context.Context, postID string) error
}

// DeleteResult names the strategy that removed the post.
type DeleteResult struct {
	PostID   string `json:"post_id"`
	Strategy string `json:"strategy"`
}

type ModerationService interface {
	Approve(ctx context.Context, postID string) (*models.Post, error)
	Reject(ctx context.Context, postID, reason string) (*models.Post, error)
	Delete(ctx context.Context, postID string) (*DeleteResult, error)
	ListPending(ctx context.Context) ([]models.Post, error)
}

type moderationService struct {
	postRepo   repositories.PostRepository
	strategies []DeleteStrategy
	cache      *cache.PostCache
	log        *zap.Logger
}

func NewModerationService(postRepo repositories.PostRepository, remote RemoteDeleter, postCache *cache.PostCache, log *zap.Logger) ModerationService {
	s := &moderationService{
		postRepo: postRepo,
		cache:    postCache,
		log:      log,
	}
	s.strategies = DefaultDeleteStrategies(postRepo, remote)
	return s
}

// DefaultDeleteStrategies builds the ordered delete fallback list. A nil
// remote skips the direct endpoint.
func DefaultDeleteStrategies(postRepo repositories.PostRepository, remote RemoteDeleter) []DeleteStrategy {
	var strategies []DeleteStrategy
	if remote != nil {
		strategies = append(strategies, DeleteStrategy{Name: StrategyDirectEndpoint, Delete: remote.DirectDelete})
	}
	return append(strategies,
		DeleteStrategy{Name: StrategyEquality, Delete: rowsDeleted(postRepo.DeleteByEquality)},
		DeleteStrategy{Name: StrategyMatch, Delete: rowsDeleted(postRepo.DeleteByMatch)},
		DeleteStrategy{Name: StrategyProcedure, Delete: func(ctx context.Context, postID string) error {
			n, err := postRepo.CallDeleteProcedure(ctx, postID)
			if err != nil {
				if repositories.IsUndefinedFunction(err) {
					return fmt.Errorf("%w: %v", errProcedureMissing, err)
				}
				return err
			}
			if n == 0 {
				return errNoRowsDeleted
			}
			return nil
		}},
		DeleteStrategy{Name: StrategyConfirmed, Delete: func(ctx context.Context, postID string) error {
			confirmedID, err := postRepo.FindID(ctx, postID)
			if err != nil {
				return err
			}
			return rowsDeleted(postRepo.DeleteByEquality)(ctx, confirmedID)
		}},
	)
}

func rowsDeleted(del func(context.Context, string) (int64, error)) func(context.Context, string) error {
	return func(ctx context.Context, postID string) error {
		n, err := del(ctx, postID)
		if err != nil {
			return err
		}
		if n == 0 {
			return errNoRowsDeleted
		}
		return nil
	}
}

func (s *moderationService) Approve(ctx context.Context, postID string) (*models.Post, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	post, err := s.transition(ctx, postID, models.StatusPublished, nil)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return post, nil
}

func (s *moderationService) Reject(ctx context.Context, postID, reason string) (*models.Post, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = models.DefaultRejectionReason
	}
	post, err := s.transition(ctx, postID, models.StatusRejected, &reason)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return post, nil
}

// transition moves the post to the target status with a compare-and-swap.
// When the swap loses a race it reloads once: if the winner already produced
// the same outcome the call succeeds, otherwise it retries on the new version.
func (s *moderationService) transition(ctx context.Context, postID string, to models.PostStatus, reason *string) (*models.Post, error) {
	for attempt := 0; attempt < 2; attempt++ {
		post, err := s.postRepo.GetByID(ctx, postID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return nil, models.NewNotFoundError("Post", postID)
			}
			return nil, models.NewInternalError("Failed to load post", err)
		}

		if post.Status == to && sameReason(post.RejectionReason, reason) {
			return post, nil
		}

		from := post.Status
		if err := models.CheckTransition(post, from, to); err != nil {
			return nil, err
		}

		err = s.postRepo.UpdateStatus(ctx, post.ID, post.Version, to, reason)
		if errors.Is(err, repositories.ErrStaleVersion) {
			s.log.Warn("status update lost a race, reloading",
				zap.String("post_id", postID),
				zap.String("to", string(to)))
			continue
		}
		if err != nil {
			return nil, models.NewInternalError("Failed to update post status", err)
		}

		post.Status = to
		post.RejectionReason = reason
		post.Version++
		observability.PostTransitions.WithLabelValues(string(from), string(to)).Inc()
		s.log.Info("post moderated",
			zap.String("post_id", post.ID),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
		return post, nil
	}
	return nil, models.NewConflictError("Post was modified concurrently; refresh and try again")
}

func sameReason(current, next *string) bool {
	if current == nil || next == nil {
		return current == nil && next == nil
	}
	return *current == *next
}

// Delete runs the strategies in order and stops at the first one that removes
// the row. When every strategy fails the result is ErrorDeleteExhausted.
func (s *moderationService) Delete(ctx context.Context, postID string) (result *DeleteResult, err error) {
	ctx, span := observability.StartSpan(ctx, "ModerationService.Delete", attribute.String("post_id", postID))
	defer func() { observability.EndSpan(span, err) }()

	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(postID) == "" {
		return nil, models.NewValidationError("Post ID is required")
	}

	failures := make([]models.StrategyFailure, 0, len(s.strategies))
	for _, strategy := range s.strategies {
		if err := ctx.Err(); err != nil {
			failures = append(failures, models.StrategyFailure{Strategy: strategy.Name, Err: err})
			break
		}

		attemptErr := strategy.Delete(ctx, postID)
		if attemptErr == nil {
			observability.DeleteAttempts.WithLabelValues(strategy.Name, observability.OutcomeSuccess).Inc()
			s.cache.Invalidate(ctx)
			s.log.Info("post deleted", zap.String("post_id", postID), zap.String("strategy", strategy.Name))
			return &DeleteResult{PostID: postID, Strategy: strategy.Name}, nil
		}

		outcome := observability.OutcomeFailure
		if errors.Is(attemptErr, errProcedureMissing) {
			outcome = observability.OutcomeSkipped
			s.log.Info("delete procedure not installed, skipping",
				zap.String("post_id", postID),
				zap.String("strategy", strategy.Name))
		} else {
			s.log.Warn("delete strategy failed",
				zap.String("post_id", postID),
				zap.String("strategy", strategy.Name),
				zap.Error(attemptErr))
		}
		observability.DeleteAttempts.WithLabelValues(strategy.Name, outcome).Inc()
		failures = append(failures, models.StrategyFailure{Strategy: strategy.Name, Err: attemptErr})
	}

	return nil, &models.ErrorDeleteExhausted{PostID: postID, Failures: failures}
}

func (s *moderationService) ListPending(ctx context.Context) ([]models.Post, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	posts, _, err := s.postRepo.List(ctx, repositories.PostFilter{Status: models.StatusPending})
	if err != nil {
		return nil, models.NewInternalError("Failed to list pending posts", err)
	}
	return posts, nil
}

// LocalDirectDeleter serves the direct endpoint strategy in-process.
type LocalDirectDeleter struct {
	Posts PostService
}

func (d LocalDirectDeleter) DirectDelete(ctx context.Context, postID string) error {
	_, err := d.Posts.DirectDelete(ctx, postID)
	return err
}
