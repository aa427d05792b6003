package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caseworks/blackout/internal/core/document"
	"github.com/caseworks/blackout/internal/data/db"
)

// DocumentStore implements document.Store using SQLite.
type DocumentStore struct {
	db *db.DB
}

var _ document.Store = (*DocumentStore)(nil)

// NewDocumentStore creates a new SQLite-backed document store.
func NewDocumentStore(db *db.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// CreateDocument persists a document and returns it with its ID.
func (s *DocumentStore) CreateDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Status == "" {
		doc.Status = document.StatusInReview
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	structureJSON, tablesJSON, err := marshalLayout(doc)
	if err != nil {
		return document.Document{}, err
	}

	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT INTO documents (id, filename, body, structure, tables, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.Text, structureJSON, tablesJSON, string(doc.Status), doc.CreatedAt,
	)
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	return doc, nil
}

// GetDocument returns a document by ID.
func (s *DocumentStore) GetDocument(ctx context.Context, id string) (document.Document, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, filename, body, structure, tables, status, created_at
		FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row)
	if IsNotFoundError(err) {
		return document.Document{}, document.ErrDocumentNotFound
	}
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns all documents ordered by creation time.
func (s *DocumentStore) ListDocuments(ctx context.Context) ([]document.Document, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, filename, body, structure, tables, status, created_at
		FROM documents ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []document.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	return docs, nil
}

// SetStatus updates a document's review status.
func (s *DocumentStore) SetStatus(ctx context.Context, id string, status document.Status) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE documents SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to set document status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return document.ErrDocumentNotFound
	}
	return nil
}

func marshalLayout(doc document.Document) (structure sql.NullString, tables sql.NullString, err error) {
	if len(doc.Structure) > 0 {
		data, err := json.Marshal(doc.Structure)
		if err != nil {
			return structure, tables, fmt.Errorf("failed to marshal structure: %w", err)
		}
		structure = sql.NullString{String: string(data), Valid: true}
	}
	if len(doc.Tables) > 0 {
		data, err := json.Marshal(doc.Tables)
		if err != nil {
			return structure, tables, fmt.Errorf("failed to marshal tables: %w", err)
		}
		tables = sql.NullString{String: string(data), Valid: true}
	}
	return structure, tables, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (document.Document, error) {
	var (
		doc           document.Document
		structureJSON sql.NullString
		tablesJSON    sql.NullString
		status        string
	)

	err := row.Scan(&doc.ID, &doc.Filename, &doc.Text, &structureJSON, &tablesJSON, &status, &doc.CreatedAt)
	if err != nil {
		return document.Document{}, err
	}
	doc.Status = document.Status(status)

	if structureJSON.Valid {
		if err := json.Unmarshal([]byte(structureJSON.String), &doc.Structure); err != nil {
			return document.Document{}, fmt.Errorf("failed to unmarshal structure: %w", err)
		}
	}
	if tablesJSON.Valid {
		if err := json.Unmarshal([]byte(tablesJSON.String), &doc.Tables); err != nil {
			return document.Document{}, fmt.Errorf("failed to unmarshal tables: %w", err)
		}
	}

	return doc, nil
}
