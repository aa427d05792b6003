package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caseworks/blackout/internal/core/redact"
	"github.com/caseworks/blackout/internal/data/db"
)

// SpanStore implements redact.Store using SQLite.
type SpanStore struct {
	db *db.DB
}

var _ redact.Store = (*SpanStore)(nil)

// NewSpanStore creates a new SQLite-backed span store.
func NewSpanStore(db *db.DB) *SpanStore {
	return &SpanStore{db: db}
}

// CreateSpan persists a new span. The overlap check and the insert run
// in one transaction so two concurrent creates cannot both pass the
// check.
func (s *SpanStore) CreateSpan(ctx context.Context, span redact.Span) (redact.Span, error) {
	if !span.Type.Valid() {
		return redact.Span{}, redact.ErrUnknownType
	}
	if span.ID == "" {
		span.ID = uuid.NewString()
	}
	if span.CreatedAt.IsZero() {
		span.CreatedAt = time.Now().UTC()
	}

	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var overlapping int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM spans
			WHERE document_id = ? AND start_char < ? AND end_char > ?
			  AND (provenance = ? OR accepted = 1)`,
			span.DocumentID, span.EndChar, span.StartChar, string(redact.ProvenanceManual),
		).Scan(&overlapping)
		if err != nil {
			return fmt.Errorf("failed to check overlap: %w", err)
		}
		if overlapping > 0 {
			return redact.ErrOverlappingSpan
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO spans (id, document_id, start_char, end_char, text, type, provenance, accepted, justification, context_text, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			span.ID, span.DocumentID, span.StartChar, span.EndChar, span.Text,
			string(span.Type), string(span.Provenance), span.Accepted, span.Justification,
			contextText(span), span.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create span: %w", err)
		}
		return nil
	})
	if err != nil {
		return redact.Span{}, err
	}

	return span, nil
}

// UpdateSpan persists lifecycle changes to an existing span.
func (s *SpanStore) UpdateSpan(ctx context.Context, span redact.Span) (redact.Span, error) {
	if !span.Type.Valid() {
		return redact.Span{}, redact.ErrUnknownType
	}

	res, err := s.db.Conn().ExecContext(ctx, `
		UPDATE spans
		SET start_char = ?, end_char = ?, text = ?, type = ?, provenance = ?,
		    accepted = ?, justification = ?, context_text = ?
		WHERE id = ?`,
		span.StartChar, span.EndChar, span.Text, string(span.Type), string(span.Provenance),
		span.Accepted, span.Justification, contextText(span), span.ID,
	)
	if err != nil {
		return redact.Span{}, fmt.Errorf("failed to update span: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return redact.Span{}, fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return redact.Span{}, redact.ErrSpanNotFound
	}

	return span, nil
}

// DeleteSpan removes a span.
func (s *SpanStore) DeleteSpan(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM spans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete span: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return redact.ErrSpanNotFound
	}
	return nil
}

// GetSpan returns a span by ID.
func (s *SpanStore) GetSpan(ctx context.Context, id string) (redact.Span, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, document_id, start_char, end_char, text, type, provenance, accepted, justification, context_text, created_at
		FROM spans WHERE id = ?`, id)

	span, err := scanSpan(row)
	if IsNotFoundError(err) {
		return redact.Span{}, redact.ErrSpanNotFound
	}
	if err != nil {
		return redact.Span{}, fmt.Errorf("failed to get span: %w", err)
	}
	return span, nil
}

// ListSpans returns all spans for a document ordered by start offset.
func (s *SpanStore) ListSpans(ctx context.Context, documentID string) ([]redact.Span, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, document_id, start_char, end_char, text, type, provenance, accepted, justification, context_text, created_at
		FROM spans WHERE document_id = ? ORDER BY start_char, end_char, id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list spans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var spans []redact.Span
	for rows.Next() {
		span, err := scanSpan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan span: %w", err)
		}
		spans = append(spans, span)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read spans: %w", err)
	}

	return spans, nil
}

func contextText(span redact.Span) sql.NullString {
	if span.Context == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: span.Context.Text, Valid: true}
}

func scanSpan(row rowScanner) (redact.Span, error) {
	var (
		span       redact.Span
		spanType   string
		provenance string
		ctxText    sql.NullString
	)

	err := row.Scan(&span.ID, &span.DocumentID, &span.StartChar, &span.EndChar, &span.Text,
		&spanType, &provenance, &span.Accepted, &span.Justification, &ctxText, &span.CreatedAt)
	if err != nil {
		return redact.Span{}, err
	}

	span.Type = redact.Type(spanType)
	span.Provenance = redact.Provenance(provenance)
	if ctxText.Valid {
		span.Context = &redact.Context{Text: ctxText.String}
	}

	return span, nil
}
