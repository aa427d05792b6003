// Package document holds the extracted document model and the
// region/offset resolver that decomposes a document into renderable,
// offset-addressable regions.
package document

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for document operations.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrTableClipped     = errors.New("table range outside region")
)

// Status tracks a document's position in the review workflow.
type Status string

// Document statuses.
const (
	StatusInReview  Status = "In Review"
	StatusCompleted Status = "Completed"
)

// ElementKind identifies a structural element of the extracted layout.
type ElementKind string

// Structural element kinds.
const (
	ElementHeading   ElementKind = "heading"
	ElementParagraph ElementKind = "paragraph"
	ElementTable     ElementKind = "table"
)

// StructuralElement is one contiguous slice of the extracted layout.
// Elements partition [0, len(text)) and are ordered by Start. A table
// element's range corresponds 1:1 to its table's NERStart/NEREnd.
type StructuralElement struct {
	Kind    ElementKind
	Start   int
	End     int // exclusive
	TableID string
}

// Cell is one offset-addressable table cell. Start/End are absolute
// offsets inside the owning table's reserved range.
type Cell struct {
	Row   int
	Col   int
	Start int
	End   int // exclusive
	Text  string
}

// Table is an extracted table spliced into the document's offset space.
// When Cells is empty the table renders as opaque pre-built markup and
// its reserved range is not offset-addressable.
type Table struct {
	ID         string
	HasBorders bool
	NERStart   int
	NEREnd     int // exclusive
	Cells      []Cell
}

// Document is the extracted text plus optional layout. Text is the
// single source of truth for all offsets.
type Document struct {
	ID        string
	Filename  string
	Text      string
	Structure []StructuralElement // nil when no layout was extracted
	Tables    map[string]Table    // nil when the document has no tables
	Status    Status
	CreatedAt time.Time
}

// Completed reports whether the document has been marked ready for
// disclosure.
func (d Document) Completed() bool {
	return d.Status == StatusCompleted
}

// Store defines persistence operations for documents.
type Store interface {
	// CreateDocument persists a document and returns it with its ID.
	CreateDocument(ctx context.Context, doc Document) (Document, error)

	// GetDocument returns a document by ID.
	// Returns ErrDocumentNotFound if absent.
	GetDocument(ctx context.Context, id string) (Document, error)

	// ListDocuments returns all documents ordered by creation time.
	ListDocuments(ctx context.Context) ([]Document, error)

	// SetStatus updates a document's review status.
	// Returns ErrDocumentNotFound if absent.
	SetStatus(ctx context.Context, id string, status Status) error
}
