package models

import (
	"fmt"
	"strings"
)

type ErrorValidation struct {
	Message string
}

func (e *ErrorValidation) Error() string { return e.Message }

type ErrorUnauthorized struct {
	Message string
}

func (e *ErrorUnauthorized) Error() string { return e.Message }

type ErrorForbidden struct {
	Message string
}

func (e *ErrorForbidden) Error() string { return e.Message }

type ErrorNotFound struct {
	Resource string
	ID       string
}

func (e *ErrorNotFound) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

type ErrorConflict struct {
	Message string
}

func (e *ErrorConflict) Error() string { return e.Message }

// ErrorInternalServer carries a user-safe message and the upstream cause,
// which is only meant for logs.
type ErrorInternalServer struct {
	Message string
	Err     error
}

func (e *ErrorInternalServer) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ErrorInternalServer) Unwrap() error { return e.Err }

// StrategyFailure records why one delete strategy did not remove the post.
type StrategyFailure struct {
	Strategy string `json:"strategy"`
	Err      error  `json:"-"`
}

// ErrorDeleteExhausted is returned when every delete strategy failed.
type ErrorDeleteExhausted struct {
	PostID   string
	Failures []StrategyFailure
}

func (e *ErrorDeleteExhausted) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Strategy, f.Err))
	}
	return fmt.Sprintf("all delete strategies failed for post %s (%s)", e.PostID, strings.Join(parts, "; "))
}

func NewValidationError(message string) *ErrorValidation {
	return &ErrorValidation{Message: message}
}

func NewUnauthorizedError(message string) *ErrorUnauthorized {
	return &ErrorUnauthorized{Message: message}
}

func NewForbiddenError(message string) *ErrorForbidden {
	return &ErrorForbidden{Message: message}
}

func NewNotFoundError(resource string, id string) *ErrorNotFound {
	return &ErrorNotFound{Resource: resource, ID: id}
}

func NewConflictError(message string) *ErrorConflict {
	return &ErrorConflict{Message: message}
}

func NewInternalError(message string, err error) *ErrorInternalServer {
	if message == "" {
		message = "Internal server error"
	}
	return &ErrorInternalServer{Message: message, Err: err}
}
