// Package overlay is the document annotation overlay engine: a pure
// projection from spans, view mode, and interaction state to renderable
// marks and runs, plus the inverse mapping from a visual selection back
// to absolute character offsets.
//
// Nothing here holds state between calls. Every public function is
// recomputed in full on each pass and yields identical output for
// identical input.
package overlay

import (
	"errors"
	"sort"

	"github.com/caseworks/blackout/internal/core/document"
	"github.com/caseworks/blackout/internal/core/redact"
)

// ErrEmptySelection is returned when a visual selection is collapsed or
// falls outside the rendered container.
var ErrEmptySelection = errors.New("selection is empty")

// ViewMode selects how committed and in-flight spans render.
type ViewMode string

// View modes.
const (
	ModeReview     ViewMode = "review"      // full interactive editing
	ModeFinal      ViewMode = "final"       // opaque redaction blocks only
	ModeColorCoded ViewMode = "color-coded" // solid blocks colored by type
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	switch m {
	case ModeReview, ModeFinal, ModeColorCoded:
		return true
	}
	return false
}

// MarkKind is the render classification of a mark.
type MarkKind string

// Mark kinds.
const (
	KindSuggestion MarkKind = "suggestion" // pending detector suggestion
	KindAccepted   MarkKind = "accepted"   // accepted suggestion or manual redaction
	KindRejected   MarkKind = "rejected"   // rejected suggestion
	KindPending    MarkKind = "pending"    // uncommitted reviewer selection
)

// ColorKey names a palette family. The rendering backend maps keys to
// concrete colors; the engine only decides which family applies.
type ColorKey string

// Palette families.
const (
	ColorPending   ColorKey = "pending"   // amber, all pending suggestions
	ColorSelection ColorKey = "selection" // amber variant for the live selection
	ColorRejected  ColorKey = "rejected"  // gray
	ColorNeutral   ColorKey = "neutral"   // fallback for unknown types
	ColorPII       ColorKey = "pii"
	ColorOpData    ColorKey = "opdata"
	ColorDSInfo    ColorKey = "dsinfo"
)

// TypeColor maps a redaction type to its palette family.
func TypeColor(t redact.Type) ColorKey {
	switch t {
	case redact.TypePII:
		return ColorPII
	case redact.TypeOpData:
		return ColorOpData
	case redact.TypeDSInfo:
		return ColorDSInfo
	default:
		return ColorNeutral
	}
}

// Style is a backend-independent description of how a mark renders.
type Style struct {
	Color      ColorKey
	Emphasis   bool // saturated fill (accepted marks, or any hovered mark)
	Border     bool // type-colored border, drawn on hover
	Opaque     bool // solid block, foreground equals background
	Selectable bool // text under the mark can be selected
}

// Mark is a derived, render-only projection of a span (or of the live
// pending selection) for one view mode and interaction state. Marks are
// recomputed on every pass, never persisted.
type Mark struct {
	ID        string
	StartChar int
	EndChar   int // exclusive
	Type      redact.Type
	Kind      MarkKind
	Style     Style
}

// PendingSelectionID identifies the transient mark projected from the
// live selection.
const PendingSelectionID = "pending-selection"

// PendingSelection is an uncommitted reviewer selection awaiting type
// assignment. It is not part of the committed span set.
type PendingSelection struct {
	StartChar int
	EndChar   int // exclusive
	Text      string
}

// Projection bundles the inputs of a mark projection pass.
type Projection struct {
	Mode      ViewMode
	HoveredID string
	Pending   *PendingSelection
	// ReviewComplete is true once no pending suggestions remain.
	// Rejected marks then fade from view except while hovered.
	ReviewComplete bool
	// TextLen bounds span offsets; spans outside [0, TextLen) are
	// malformed and dropped.
	TextLen int
}

// ProjectMarks computes the ordered mark list for one render pass.
// Malformed spans are dropped, never fatal; they are returned so the
// caller can log them. Overlapping spans are not resolved here: both
// marks are emitted and nest in render order.
func ProjectMarks(spans []redact.Span, p Projection) (marks []Mark, dropped []redact.Span) {
	for _, s := range spans {
		if !s.ValidRange(p.TextLen) {
			dropped = append(dropped, s)
			continue
		}
		m, ok := projectSpan(s, p)
		if !ok {
			continue
		}
		marks = append(marks, m)
	}

	if p.Mode == ModeReview && p.Pending != nil {
		sel := *p.Pending
		if sel.StartChar >= 0 && sel.StartChar < sel.EndChar && sel.EndChar <= p.TextLen {
			marks = append(marks, Mark{
				ID:        PendingSelectionID,
				StartChar: sel.StartChar,
				EndChar:   sel.EndChar,
				Kind:      KindPending,
				Style:     Style{Color: ColorSelection, Emphasis: true, Selectable: true},
			})
		}
	}

	// Stable: committed spans are non-overlapping, so ties keep the
	// caller's order.
	sort.SliceStable(marks, func(i, j int) bool {
		return marks[i].StartChar < marks[j].StartChar
	})
	return marks, dropped
}

// projectSpan resolves one span's mark for the given pass, or reports
// that the span is filtered out of this view.
func projectSpan(s redact.Span, p Projection) (Mark, bool) {
	m := Mark{
		ID:        s.ID,
		StartChar: s.StartChar,
		EndChar:   s.EndChar,
		Type:      s.Type,
	}

	switch p.Mode {
	case ModeFinal:
		if !s.Committed() {
			return Mark{}, false
		}
		m.Kind = KindAccepted
		m.Style = Style{Color: ColorNeutral, Opaque: true}
		return m, true

	case ModeColorCoded:
		if !s.Committed() {
			return Mark{}, false
		}
		m.Kind = KindAccepted
		m.Style = Style{Color: TypeColor(s.Type), Emphasis: true, Selectable: true}
		return m, true

	default: // review
		hovered := s.ID != "" && s.ID == p.HoveredID

		switch s.Status() {
		case redact.StatusAccepted, redact.StatusManual:
			m.Kind = KindAccepted
			m.Style = reviewStyle(TypeColor(s.Type), true, hovered)
		case redact.StatusPending:
			m.Kind = KindSuggestion
			m.Style = reviewStyle(ColorPending, false, hovered)
		case redact.StatusRejected:
			// Once review is complete, rejected marks only show on hover.
			if p.ReviewComplete && !hovered {
				return Mark{}, false
			}
			m.Kind = KindRejected
			m.Style = reviewStyle(ColorRejected, false, hovered)
		}
		return m, true
	}
}

// reviewStyle applies the review-mode presentation rule: hover swaps
// any mark to the saturated accepted-style fill and draws a
// type-colored border, independent of status.
func reviewStyle(color ColorKey, accepted, hovered bool) Style {
	return Style{
		Color:      color,
		Emphasis:   accepted || hovered,
		Border:     hovered,
		Selectable: true,
	}
}

// MarksForRegion filters marks to those intersecting the region.
func MarksForRegion(marks []Mark, r document.Region) []Mark {
	var out []Mark
	for _, m := range marks {
		if m.StartChar < r.End && m.EndChar > r.Start {
			out = append(out, m)
		}
	}
	return out
}
