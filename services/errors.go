package services

import (
	"fmt"
	"strings"

	"github.com/MirOrlov/foodgram/models"
)

// CompositionError carries every field-level failure found while validating a
// recipe payload. Checks are collected, not short-circuited, so the client
// gets the full picture in one response.
type CompositionError struct {
	Fields map[string][]string
}

func NewCompositionError() *CompositionError {
	return &CompositionError{Fields: make(map[string][]string)}
}

func (e *CompositionError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *CompositionError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *CompositionError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, messages := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}
	return strings.Join(parts, ", ")
}

// DuplicateRelationError: the (user, target) pair already exists. Surfaced as
// a user-facing conflict, never retried.
type DuplicateRelationError struct {
	Kind    models.RelationKind
	Message string
}

func (e *DuplicateRelationError) Error() string { return e.Message }

// SelfRelationError: a user tried to subscribe to themselves.
type SelfRelationError struct{}

func (e *SelfRelationError) Error() string { return "Нельзя подписаться на самого себя." }

// NotFoundError: the requested entity or relation pair does not exist.
type NotFoundError struct {
	Kind    models.RelationKind
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Страница не найдена."
}

// NotOwnerError: the actor is not the author of the recipe being mutated.
type NotOwnerError struct{}

func (e *NotOwnerError) Error() string {
	return "У вас недостаточно прав для выполнения данного действия."
}
