package services

import (
	"context"

	"story-cms/models"
	"story-cms/repositories"
)

const recentItemsLimit = 5

type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
}

func NewDashboardService(postRepo repositories.PostRepository, userRepo repositories.UserRepository) DashboardService {
	return &dashboardService{postRepo: postRepo, userRepo: userRepo}
}

func (s *dashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	var (
		stats models.DashboardStats
		err   error
	)
	if stats.TotalPosts, err = s.postRepo.Count(ctx, models.StatusNone); err != nil {
		return nil, models.NewInternalError("Failed to load dashboard", err)
	}
	if stats.PublishedPosts, err = s.postRepo.Count(ctx, models.StatusPublished); err != nil {
		return nil, models.NewInternalError("Failed to load dashboard", err)
	}
	if stats.PendingPosts, err = s.postRepo.Count(ctx, models.StatusPending); err != nil {
		return nil, models.NewInternalError("Failed to load dashboard", err)
	}
	if stats.TotalUsers, err = s.userRepo.Count(ctx, ""); err != nil {
		return nil, models.NewInternalError("Failed to load dashboard", err)
	}
	if stats.Writers, err = s.userRepo.Count(ctx, models.RoleWriter); err != nil {
		return nil, models.NewInternalError("Failed to load dashboard", err)
	}
	if stats.RecentPosts, err = s.postRepo.Recent(ctx, recentItemsLimit); err != nil {
		return nil, models.NewInternalError("Failed to load dashboard", err)
	}
	if stats.RecentUsers, err = s.userRepo.Recent(ctx, recentItemsLimit); err != nil {
		return nil, models.NewInternalError("Failed to load dashboard", err)
	}
	return &stats, nil
}
