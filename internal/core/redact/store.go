package redact

import (
	"context"
	"errors"
)

// Sentinel errors for span operations.
var (
	ErrSpanNotFound      = errors.New("redaction span not found")
	ErrInvalidTransition = errors.New("invalid span transition")
	ErrOverlappingSpan   = errors.New("span overlaps an existing span")
	ErrUnknownType       = errors.New("unknown redaction type")
)

// Store defines persistence operations for redaction spans.
// Implementations assign IDs on create and must reject a new span that
// overlaps a committed span of the same document.
type Store interface {
	// CreateSpan persists a new span and returns it with its assigned ID.
	// Returns ErrOverlappingSpan if it overlaps a committed span.
	CreateSpan(ctx context.Context, span Span) (Span, error)

	// UpdateSpan persists lifecycle changes to an existing span.
	// Returns ErrSpanNotFound if the span does not exist.
	UpdateSpan(ctx context.Context, span Span) (Span, error)

	// DeleteSpan removes a span. Returns ErrSpanNotFound if absent.
	DeleteSpan(ctx context.Context, id string) error

	// GetSpan returns a span by ID. Returns ErrSpanNotFound if absent.
	GetSpan(ctx context.Context, id string) (Span, error)

	// ListSpans returns all spans for a document ordered by start offset.
	ListSpans(ctx context.Context, documentID string) ([]Span, error)
}
