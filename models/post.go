package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultRejectionReason is recorded when a moderator rejects without a reason.
const DefaultRejectionReason = "Your submission did not meet our guidelines."

// SuggestedCategories is the fixed set offered to authors. Category stays free-form.
var SuggestedCategories = []string{
	"Technology",
	"Health",
	"Travel",
	"Food",
	"Lifestyle",
	"Business",
	"Finance",
	"Education",
}

type Post struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid"`
	Slug            string     `json:"slug" gorm:"index"`
	Title           string     `json:"title" gorm:"not null"`
	Excerpt         string     `json:"excerpt"`
	Content         string     `json:"content" gorm:"type:text"`
	Category        string     `json:"category" gorm:"index"`
	CoverImage      string     `json:"cover_image"`
	Status          PostStatus `json:"status" gorm:"not null;default:'draft';index"`
	RejectionReason *string    `json:"rejection_reason"`
	AuthorID        string     `json:"author_id" gorm:"type:uuid;not null;index"`
	Author          *User      `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Featured        bool       `json:"featured" gorm:"default:false"`
	Version         int        `json:"version" gorm:"not null;default:1"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Version == 0 {
		p.Version = 1
	}
	return nil
}
