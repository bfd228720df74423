package models

import "time"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type CreatePostRequest struct {
	Title      string     `json:"title" validate:"required,max=255"`
	Excerpt    string     `json:"excerpt" validate:"max=500"`
	Content    string     `json:"content"`
	Category   string     `json:"category" validate:"max=100"`
	CoverImage string     `json:"cover_image" validate:"omitempty,url"`
	Status     PostStatus `json:"status"`
	Featured   bool       `json:"featured"`
}

type UpdatePostRequest struct {
	Title      *string     `json:"title" validate:"omitempty,max=255"`
	Excerpt    *string     `json:"excerpt" validate:"omitempty,max=500"`
	Content    *string     `json:"content"`
	Category   *string     `json:"category" validate:"omitempty,max=100"`
	CoverImage *string     `json:"cover_image" validate:"omitempty,url"`
	Status     *PostStatus `json:"status"`
	Featured   *bool       `json:"featured"`
	// Version enables compare-and-swap; zero means "use the current version".
	Version int `json:"version"`
}

type RejectPostRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// StorySubmission is the anonymous story form. Image is validated separately.
type StorySubmission struct {
	Title   string `form:"title" validate:"required,max=255"`
	Content string `form:"content" validate:"required"`
	Name    string `form:"name" validate:"required,max=255"`
	Email   string `form:"email" validate:"required,email"`
	Bio     string `form:"bio" validate:"max=2000"`
}

// UploadedImage is an image file already read from a multipart form.
type UploadedImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

type SubmissionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	PostID  string `json:"post_id,omitempty"`
}

type CreateUserRequest struct {
	FullName string   `json:"full_name" validate:"required,max=255"`
	Email    string   `json:"email" validate:"required,email"`
	Bio      string   `json:"bio" validate:"max=2000"`
	Role     UserRole `json:"role"`
	Password string   `json:"password" validate:"omitempty,min=8"`
}

type UpdateRoleRequest struct {
	Role UserRole `json:"role" validate:"required"`
}

type PostListParams struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	AuthorID string `form:"author_id"`
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=10"`
}

// Normalize clamps paging values to sane bounds.
func (p *PostListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

func (p PostListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// AuthorCard is the public view of a post author.
type AuthorCard struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

// PublicPost is the shape served by the public blog.
type PublicPost struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Excerpt     string       `json:"excerpt"`
	Content     string       `json:"content"`
	CoverImage  string       `json:"cover_image"`
	Date        string       `json:"date"`
	ReadingTime int          `json:"reading_time"`
	Category    string       `json:"category"`
	Featured    bool         `json:"featured"`
	Authors     []AuthorCard `json:"authors"`
}

type PublicPostList struct {
	Posts []PublicPost `json:"posts"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type DashboardStats struct {
	TotalPosts     int64  `json:"total_posts"`
	PublishedPosts int64  `json:"published_posts"`
	PendingPosts   int64  `json:"pending_posts"`
	TotalUsers     int64  `json:"total_users"`
	Writers        int64  `json:"writers"`
	RecentPosts    []Post `json:"recent_posts"`
	RecentUsers    []User `json:"recent_users"`
}
