package services

import (
	"context"

	"story-cms/models"
)

// requireSession returns the caller's session or an unauthorized error.
func requireSession(ctx context.Context) (*models.Session, error) {
	session := models.SessionFromContext(ctx)
	if session == nil || session.UserID == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	return session, nil
}

// requireAdmin returns the caller's session when the caller is an admin.
func requireAdmin(ctx context.Context) (*models.Session, error) {
	session, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !session.IsAdmin() {
		return nil, models.NewForbiddenError("Admin access required")
	}
	return session, nil
}

// canAccessPost lets admins see everything and writers only their own posts.
func canAccessPost(session *models.Session, post *models.Post) bool {
	return session.IsAdmin() || post.AuthorID == session.UserID
}
