package redact

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/caseworks/blackout/internal/core/document"
	"github.com/caseworks/blackout/internal/core/overlay"
	coreredact "github.com/caseworks/blackout/internal/core/redact"
)

func plainDoc(text string) document.Document {
	return document.Document{ID: "doc-1", Filename: "doc.pdf", Text: text, Status: document.StatusInReview}
}

func projectAll(t *testing.T, spans []coreredact.Span, mode overlay.ViewMode, textLen int) []overlay.Mark {
	t.Helper()
	marks, dropped := overlay.ProjectMarks(spans, overlay.Projection{Mode: mode, TextLen: textLen})
	if len(dropped) > 0 {
		t.Fatalf("unexpected dropped spans: %d", len(dropped))
	}
	return marks
}

func TestRenderDocumentRoundTrip(t *testing.T) {
	doc := plainDoc("Hello John Smith,\nwelcome to the hearing.")
	spans := []coreredact.Span{
		{ID: "s1", DocumentID: doc.ID, StartChar: 6, EndChar: 16, Text: "John Smith", Type: coreredact.TypePII, Provenance: coreredact.ProvenanceSuggestion},
	}
	marks := projectAll(t, spans, overlay.ModeReview, len(doc.Text))

	res := renderDocument(doc, marks)

	if got := ansi.Strip(res.content); got != doc.Text {
		t.Errorf("stripped content = %q, want document text", got)
	}
	if res.index.Total() != len(doc.Text) {
		t.Errorf("countable total = %d, want %d", res.index.Total(), len(doc.Text))
	}
}

func TestRenderDocumentMarkLine(t *testing.T) {
	doc := plainDoc("line one\nline two with Jane Doe\nline three")
	spans := []coreredact.Span{
		{ID: "s1", DocumentID: doc.ID, StartChar: 23, EndChar: 31, Text: "Jane Doe", Type: coreredact.TypePII, Provenance: coreredact.ProvenanceSuggestion},
	}
	marks := projectAll(t, spans, overlay.ModeReview, len(doc.Text))

	res := renderDocument(doc, marks)

	if line, ok := res.markLine["s1"]; !ok || line != 1 {
		t.Errorf("markLine[s1] = %d, %v, want line 1", line, ok)
	}
}

func TestRenderTableGrid(t *testing.T) {
	doc := document.Document{
		ID:   "doc-1",
		Text: "before....TTTTTTTTTTafter.....",
		Tables: map[string]document.Table{
			"t1": {
				ID: "t1", HasBorders: true, NERStart: 10, NEREnd: 20,
				Cells: []document.Cell{
					{Row: 0, Col: 0, Start: 10, End: 14, Text: "Name"},
					{Row: 0, Col: 1, Start: 14, End: 17, Text: "Age"},
					{Row: 1, Col: 0, Start: 17, End: 19, Text: "Jo"},
					{Row: 1, Col: 1, Start: 19, End: 20, Text: "9"},
				},
			},
		},
	}

	res := renderDocument(doc, nil)
	plain := ansi.Strip(res.content)

	if !strings.Contains(plain, "Name │ Age") {
		t.Errorf("grid row missing from %q", plain)
	}
	if !strings.Contains(plain, "Jo │ 9") {
		t.Errorf("second grid row missing from %q", plain)
	}
	// reserved range markup is replaced, not duplicated
	if strings.Contains(plain, "TTTTTTTTTT") {
		t.Errorf("raw reserved range leaked into %q", plain)
	}
}

func TestRenderTableOpaqueMarkup(t *testing.T) {
	doc := document.Document{
		ID:   "doc-1",
		Text: "before....| a | b |after.....",
		Tables: map[string]document.Table{
			"t1": {ID: "t1", NERStart: 10, NEREnd: 19},
		},
	}

	res := renderDocument(doc, nil)
	plain := ansi.Strip(res.content)

	if plain != doc.Text {
		t.Errorf("opaque markup should render verbatim, got %q", plain)
	}
	// markup is not countable
	if res.index.Total() != len(doc.Text)-9 {
		t.Errorf("countable total = %d", res.index.Total())
	}
}
