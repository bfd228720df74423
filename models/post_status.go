package models

import "fmt"

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPending   PostStatus = "pending"
	StatusPublished PostStatus = "published"
	StatusRejected  PostStatus = "rejected"
)

// StatusNone is the pseudo state of a post that has not been written yet.
const StatusNone PostStatus = ""

var AllStatuses = []PostStatus{StatusDraft, StatusPending, StatusPublished, StatusRejected}

func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// transitions lists, per target state, the states a post may come from.
var transitions = map[PostStatus][]PostStatus{
	StatusDraft:     {StatusNone, StatusDraft, StatusPending, StatusPublished, StatusRejected},
	StatusPending:   {StatusNone, StatusDraft, StatusPending, StatusRejected},
	StatusPublished: {StatusNone, StatusDraft, StatusPending, StatusPublished, StatusRejected},
	StatusRejected:  {StatusPending, StatusRejected},
}

// CanTransition reports whether the lifecycle allows moving from one state to another.
func CanTransition(from, to PostStatus) bool {
	for _, s := range transitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// CheckTransition validates both the edge and the guard of the target state
// against the post as it would be written.
func CheckTransition(p *Post, from, to PostStatus) error {
	if !to.Valid() {
		return NewValidationError(fmt.Sprintf("Invalid status %q", to))
	}
	if !CanTransition(from, to) {
		if from == StatusNone {
			return NewValidationError(fmt.Sprintf("A new post cannot start as %s", to))
		}
		return NewConflictError(fmt.Sprintf("Post cannot move from %s to %s", from, to))
	}

	if p.Title == "" {
		return NewValidationError("Title is required")
	}
	switch to {
	case StatusPending:
		if p.Content == "" {
			return NewValidationError("Content is required")
		}
		if p.AuthorID == "" {
			return NewValidationError("Author is required")
		}
	case StatusPublished:
		if p.AuthorID == "" {
			return NewValidationError("Author is required")
		}
		if from == StatusNone && p.Content == "" {
			return NewValidationError("Content is required")
		}
	}
	return nil
}

// RequiresAdmin reports whether moving into the target state is a moderation action.
func RequiresAdmin(from, to PostStatus) bool {
	if to == StatusRejected {
		return true
	}
	return to == StatusPublished && from != StatusPublished
}
