// Package seed fills a development database with demo writers and posts.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"story-cms/helper"
	"story-cms/models"
	"story-cms/services"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultPassword = "password123"

type Options struct {
	Writers        int
	PostsPerWriter int
	Password       string
	// Seed makes the generated data reproducible. Zero picks a random seed.
	Seed int64
}

type Result struct {
	Users int
	Posts int
}

// statusCycle spreads demo posts over the lifecycle so every screen has data.
var statusCycle = []models.PostStatus{
	models.StatusPublished,
	models.StatusPublished,
	models.StatusPending,
	models.StatusDraft,
	models.StatusRejected,
}

func Run(ctx context.Context, db *gorm.DB, opts Options, log *zap.Logger) (*Result, error) {
	if opts.Writers <= 0 {
		opts.Writers = 3
	}
	if opts.PostsPerWriter < 0 {
		opts.PostsPerWriter = 0
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(opts.Seed)

	hash, err := services.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < opts.Writers; i++ {
			user := buildWriter(faker, hash)
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("failed to create writer %s: %w", *user.Email, err)
			}
			result.Users++

			for j := 0; j < opts.PostsPerWriter; j++ {
				post := buildPost(faker, user, statusCycle[(i+j)%len(statusCycle)])
				if err := tx.Create(post).Error; err != nil {
					return fmt.Errorf("failed to create post for %s: %w", user.ID, err)
				}
				result.Posts++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("seed complete", zap.Int("users", result.Users), zap.Int("posts", result.Posts))
	return result, nil
}

func buildWriter(faker *gofakeit.Faker, passwordHash string) *models.User {
	name := faker.Name()
	email := strings.ToLower(fmt.Sprintf("%s.%d@%s", faker.Username(), faker.Number(1000, 9999), "example.com"))
	bio := faker.Sentence(12)
	avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", faker.UUID())
	return &models.User{
		FullName:     &name,
		Email:        &email,
		Bio:          &bio,
		AvatarURL:    &avatar,
		Role:         models.RoleWriter,
		PasswordHash: passwordHash,
	}
}

func buildPost(faker *gofakeit.Faker, author *models.User, status models.PostStatus) *models.Post {
	title := strings.TrimSuffix(faker.Sentence(5), ".")
	content := faker.Paragraph(3, 4, 12, "\n\n")
	post := &models.Post{
		Title:      title,
		Slug:       helper.Slugify(title),
		Content:    content,
		Excerpt:    helper.Excerpt(content),
		Category:   models.SuggestedCategories[faker.Number(0, len(models.SuggestedCategories)-1)],
		CoverImage: fmt.Sprintf("https://picsum.photos/seed/%s/800/450", faker.UUID()),
		Status:     status,
		AuthorID:   author.ID,
		Featured:   status == models.StatusPublished && faker.Bool(),
	}
	if status == models.StatusRejected {
		reason := models.DefaultRejectionReason
		post.RejectionReason = &reason
	}
	return post
}
