package models

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, StatusNone.Valid())
	assert.False(t, PostStatus("archived").Valid())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to PostStatus
		ok       bool
	}{
		{StatusNone, StatusDraft, true},
		{StatusNone, StatusPending, true},
		{StatusNone, StatusPublished, true},
		{StatusNone, StatusRejected, false},
		{StatusDraft, StatusPending, true},
		{StatusPending, StatusPublished, true},
		{StatusPending, StatusRejected, true},
		{StatusRejected, StatusPending, true},
		{StatusRejected, StatusPublished, true},
		{StatusPublished, StatusDraft, true},
		{StatusPublished, StatusRejected, false},
		{StatusPublished, StatusPending, false},
		{StatusDraft, StatusRejected, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%q -> %q", tc.from, tc.to)
	}
}

func TestCheckTransitionGuards(t *testing.T) {
	valid := &Post{Title: "t", Content: "c", AuthorID: "a"}

	assert.NoError(t, CheckTransition(valid, StatusDraft, StatusPending))
	assert.NoError(t, CheckTransition(valid, StatusPending, StatusPublished))

	var validation *ErrorValidation
	assert.True(t, errors.As(CheckTransition(&Post{Content: "c", AuthorID: "a"}, StatusNone, StatusDraft), &validation))
	assert.True(t, errors.As(CheckTransition(&Post{Title: "t", AuthorID: "a"}, StatusDraft, StatusPending), &validation))
	assert.True(t, errors.As(CheckTransition(&Post{Title: "t", Content: "c"}, StatusPending, StatusPublished), &validation))
	assert.True(t, errors.As(CheckTransition(&Post{Title: "t", AuthorID: "a"}, StatusNone, StatusPublished), &validation))
	assert.True(t, errors.As(CheckTransition(valid, StatusNone, StatusRejected), &validation))
	assert.True(t, errors.As(CheckTransition(valid, StatusDraft, PostStatus("archived")), &validation))

	var conflict *ErrorConflict
	assert.True(t, errors.As(CheckTransition(valid, StatusPublished, StatusRejected), &conflict))
}

func TestRequiresAdmin(t *testing.T) {
	assert.True(t, RequiresAdmin(StatusPending, StatusPublished))
	assert.True(t, RequiresAdmin(StatusNone, StatusPublished))
	assert.True(t, RequiresAdmin(StatusPending, StatusRejected))
	assert.False(t, RequiresAdmin(StatusPublished, StatusPublished))
	assert.False(t, RequiresAdmin(StatusDraft, StatusPending))
	assert.False(t, RequiresAdmin(StatusPublished, StatusDraft))
}

func TestSessionContext(t *testing.T) {
	assert.Nil(t, SessionFromContext(WithSession(context.Background(), nil)))

	s := &Session{UserID: "u1", Role: RoleAdmin}
	got := SessionFromContext(WithSession(context.Background(), s))
	assert.Same(t, s, got)
	assert.True(t, got.IsAdmin())

	var none *Session
	assert.False(t, none.IsAdmin())
}

func TestDeleteExhaustedMessage(t *testing.T) {
	err := &ErrorDeleteExhausted{PostID: "p1", Failures: []StrategyFailure{
		{Strategy: "equality", Err: errors.New("no rows")},
		{Strategy: "procedure", Err: errors.New("missing")},
	}}
	assert.Equal(t, "all delete strategies failed for post p1 (equality: no rows; procedure: missing)", err.Error())
}
