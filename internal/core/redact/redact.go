// Package redact holds the redaction span domain model and its lifecycle.
package redact

import "time"

// Type categorizes what kind of sensitive data a span covers.
type Type string

// Known redaction types.
const (
	TypePII    Type = "PII"     // Third-party personally identifiable information
	TypeOpData Type = "OP_DATA" // Operational data
	TypeDSInfo Type = "DS_INFO" // Data subject information
)

// Valid reports whether t is one of the known redaction types.
func (t Type) Valid() bool {
	switch t {
	case TypePII, TypeOpData, TypeDSInfo:
		return true
	}
	return false
}

// Label returns the human-readable name of the redaction type.
func (t Type) Label() string {
	switch t {
	case TypePII:
		return "Third-Party PII"
	case TypeOpData:
		return "Operational Data"
	case TypeDSInfo:
		return "Data Subject Information"
	default:
		return "Unknown"
	}
}

// Types returns all known redaction types in display order.
func Types() []Type {
	return []Type{TypePII, TypeOpData, TypeDSInfo}
}

// Provenance records who created a span.
type Provenance string

// Span provenance values.
const (
	ProvenanceSuggestion Provenance = "SUGGESTION" // produced by the external detector
	ProvenanceManual     Provenance = "MANUAL"     // created by a reviewer
)

// Status is the derived lifecycle state of a span. It is never stored;
// it is computed from provenance, the accepted flag, and the justification.
type Status int

// Span statuses.
const (
	StatusPending Status = iota
	StatusAccepted
	StatusRejected
	StatusManual
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusAccepted:
		return "Accepted"
	case StatusRejected:
		return "Rejected"
	case StatusManual:
		return "Manual"
	default:
		return "Unknown"
	}
}

// Context is reviewer-authored replacement text shown in place of a
// redacted span in the final export.
type Context struct {
	Text string
}

// Span is a character-offset-addressed redaction candidate or confirmed
// redaction. Offsets are end-exclusive and index into the owning
// document's extracted text.
type Span struct {
	ID            string
	DocumentID    string
	StartChar     int
	EndChar       int    // exclusive
	Text          string // snapshot of the covered text, informational only
	Type          Type
	Provenance    Provenance
	Accepted      bool
	Justification string // rejection reason; empty means none
	Context       *Context
	CreatedAt     time.Time
}

// Status derives the lifecycle state from the stored flags.
// Manual spans are always accepted; suggestions are pending until
// accepted or rejected with a justification.
func (s Span) Status() Status {
	if s.Provenance == ProvenanceManual {
		return StatusManual
	}
	if s.Accepted {
		return StatusAccepted
	}
	if s.Justification != "" {
		return StatusRejected
	}
	return StatusPending
}

// Committed reports whether the span should appear in final output
// (accepted suggestion or manual redaction).
func (s Span) Committed() bool {
	st := s.Status()
	return st == StatusAccepted || st == StatusManual
}

// ValidRange reports whether the span's offsets are well formed for a
// document of textLen characters.
func (s Span) ValidRange(textLen int) bool {
	return s.StartChar >= 0 && s.StartChar < s.EndChar && s.EndChar <= textLen
}

// Overlaps reports whether two spans cover any common character.
func (s Span) Overlaps(o Span) bool {
	return s.StartChar < o.EndChar && o.StartChar < s.EndChar
}

// Counts partitions a span set by status. The four counts always sum to
// the size of the span set.
type Counts struct {
	Pending  int
	Accepted int
	Rejected int
	Manual   int
}

// Total returns the number of spans accounted for.
func (c Counts) Total() int {
	return c.Pending + c.Accepted + c.Rejected + c.Manual
}

// CountByStatus tallies spans into their derived status buckets.
func CountByStatus(spans []Span) Counts {
	var c Counts
	for _, s := range spans {
		switch s.Status() {
		case StatusPending:
			c.Pending++
		case StatusAccepted:
			c.Accepted++
		case StatusRejected:
			c.Rejected++
		case StatusManual:
			c.Manual++
		}
	}
	return c
}
