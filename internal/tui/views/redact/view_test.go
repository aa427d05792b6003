package redact

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/caseworks/blackout/internal/core/document"
	"github.com/caseworks/blackout/internal/core/overlay"
	coreredact "github.com/caseworks/blackout/internal/core/redact"
)

// key creates a KeyMsg for testing.
func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter})
	case "esc":
		return tea.KeyPressMsg(tea.Key{Code: tea.KeyEscape})
	case "ctrl+s":
		return tea.KeyPressMsg(tea.Key{Code: 's', Mod: tea.ModCtrl})
	default:
		return tea.KeyPressMsg(tea.Key{Code: rune(s[0]), Text: s})
	}
}

func press(t *testing.T, v View, keys ...string) View {
	t.Helper()
	for _, k := range keys {
		v, _ = v.handleKey(key(k))
	}
	return v
}

// memSpanStore is an in-memory redact.Store for view tests.
type memSpanStore struct {
	spans  map[string]coreredact.Span
	nextID int
}

var _ coreredact.Store = (*memSpanStore)(nil)

func newMemSpanStore() *memSpanStore {
	return &memSpanStore{spans: make(map[string]coreredact.Span)}
}

func (m *memSpanStore) CreateSpan(_ context.Context, span coreredact.Span) (coreredact.Span, error) {
	for _, other := range m.spans {
		if other.DocumentID == span.DocumentID && other.Committed() && span.Overlaps(other) {
			return coreredact.Span{}, coreredact.ErrOverlappingSpan
		}
	}
	if span.ID == "" {
		m.nextID++
		span.ID = fmt.Sprintf("span-%d", m.nextID)
	}
	m.spans[span.ID] = span
	return span, nil
}

func (m *memSpanStore) UpdateSpan(_ context.Context, span coreredact.Span) (coreredact.Span, error) {
	if _, ok := m.spans[span.ID]; !ok {
		return coreredact.Span{}, coreredact.ErrSpanNotFound
	}
	m.spans[span.ID] = span
	return span, nil
}

func (m *memSpanStore) DeleteSpan(_ context.Context, id string) error {
	if _, ok := m.spans[id]; !ok {
		return coreredact.ErrSpanNotFound
	}
	delete(m.spans, id)
	return nil
}

func (m *memSpanStore) GetSpan(_ context.Context, id string) (coreredact.Span, error) {
	span, ok := m.spans[id]
	if !ok {
		return coreredact.Span{}, coreredact.ErrSpanNotFound
	}
	return span, nil
}

func (m *memSpanStore) ListSpans(_ context.Context, documentID string) ([]coreredact.Span, error) {
	var out []coreredact.Span
	for _, span := range m.spans {
		if span.DocumentID == documentID {
			out = append(out, span)
		}
	}
	// stable order by offset
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].StartChar < out[i].StartChar {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

// memDocStore is an in-memory document.Store for view tests.
type memDocStore struct {
	docs map[string]document.Document
}

var _ document.Store = (*memDocStore)(nil)

func newMemDocStore() *memDocStore {
	return &memDocStore{docs: make(map[string]document.Document)}
}

func (m *memDocStore) CreateDocument(_ context.Context, doc document.Document) (document.Document, error) {
	m.docs[doc.ID] = doc
	return doc, nil
}

func (m *memDocStore) GetDocument(_ context.Context, id string) (document.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return document.Document{}, document.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *memDocStore) ListDocuments(_ context.Context) ([]document.Document, error) {
	var out []document.Document
	for _, doc := range m.docs {
		out = append(out, doc)
	}
	return out, nil
}

func (m *memDocStore) SetStatus(_ context.Context, id string, status document.Status) error {
	doc, ok := m.docs[id]
	if !ok {
		return document.ErrDocumentNotFound
	}
	doc.Status = status
	m.docs[id] = doc
	return nil
}

func newTestView(t *testing.T, spans ...coreredact.Span) (View, *memSpanStore, *memDocStore) {
	t.Helper()
	doc := plainDoc("Hello John Smith, welcome to the hearing today.")
	docStore := newMemDocStore()
	if _, err := docStore.CreateDocument(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	spanStore := newMemSpanStore()
	for _, s := range spans {
		if _, err := spanStore.CreateSpan(context.Background(), s); err != nil {
			t.Fatalf("seed span: %v", err)
		}
	}

	stored, err := spanStore.ListSpans(context.Background(), doc.ID)
	if err != nil {
		t.Fatal(err)
	}

	v := New(docStore, spanStore, doc, stored, overlay.ModeReview)
	v.SetSize(100, 30)
	return v, spanStore, docStore
}

func suggestionSpan(id string, start, end int) coreredact.Span {
	return coreredact.Span{
		ID:         id,
		DocumentID: "doc-1",
		StartChar:  start,
		EndChar:    end,
		Text:       "",
		Type:       coreredact.TypePII,
		Provenance: coreredact.ProvenanceSuggestion,
	}
}

func TestAcceptKey(t *testing.T) {
	v, spanStore, _ := newTestView(t, suggestionSpan("s1", 6, 16))

	v = press(t, v, "a")

	span, err := spanStore.GetSpan(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if span.Status() != coreredact.StatusAccepted {
		t.Errorf("status = %v, want Accepted", span.Status())
	}
	if v.counts.Accepted != 1 || v.counts.Pending != 0 {
		t.Errorf("counts = %+v", v.counts)
	}
}

func TestAcceptTwiceShowsNotice(t *testing.T) {
	v, _, _ := newTestView(t, suggestionSpan("s1", 6, 16))

	v = press(t, v, "a", "a")

	if v.notice == "" {
		t.Error("second accept should surface a notice")
	}
}

func TestRejectFlow(t *testing.T) {
	v, spanStore, _ := newTestView(t, suggestionSpan("s1", 6, 16))

	v = press(t, v, "r")
	if v.reasonModal == nil {
		t.Fatal("reason modal should be open")
	}
	if !strings.Contains(ansi.Strip(v.View()), "Reject Suggestion") {
		t.Error("modal title not rendered")
	}

	// empty reason cannot be submitted
	v = press(t, v, "ctrl+s")
	if v.reasonModal == nil {
		t.Fatal("empty reason must not submit")
	}

	for _, c := range "not personal data" {
		v = press(t, v, string(c))
	}
	v = press(t, v, "ctrl+s")
	if v.reasonModal != nil {
		t.Fatal("modal should close on submit")
	}

	span, err := spanStore.GetSpan(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if span.Status() != coreredact.StatusRejected {
		t.Errorf("status = %v, want Rejected", span.Status())
	}
	if span.Justification != "not personal data" {
		t.Errorf("justification = %q", span.Justification)
	}
}

func TestRevertKey(t *testing.T) {
	accepted := suggestionSpan("s1", 6, 16)
	accepted.Accepted = true
	v, spanStore, _ := newTestView(t, accepted)

	v = press(t, v, "u")

	span, err := spanStore.GetSpan(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if span.Status() != coreredact.StatusPending {
		t.Errorf("status = %v, want Pending", span.Status())
	}
	if v.notice != "" {
		t.Errorf("unexpected notice %q", v.notice)
	}
}

func TestRemoveManualNeedsConfirm(t *testing.T) {
	manual := coreredact.NewManual("doc-1", 6, 16, "John Smith", coreredact.TypePII)
	manual.ID = "m1"
	v, spanStore, _ := newTestView(t, manual)

	v = press(t, v, "u")
	if v.confirm == nil {
		t.Fatal("confirm modal should open for manual removal")
	}

	v = press(t, v, "y")
	if _, err := spanStore.GetSpan(context.Background(), "m1"); err == nil {
		t.Error("manual span should be deleted after confirm")
	}
}

func TestChangeTypeAndAccept(t *testing.T) {
	v, spanStore, _ := newTestView(t, suggestionSpan("s1", 6, 16))

	v = press(t, v, "t")
	if v.typePicker == nil {
		t.Fatal("type picker should be open")
	}

	v = press(t, v, "j", "enter") // pick the second type

	span, err := spanStore.GetSpan(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if span.Type != coreredact.TypeOpData {
		t.Errorf("type = %v, want OP_DATA", span.Type)
	}
	if span.Status() != coreredact.StatusManual {
		t.Errorf("status = %v, want Manual (provenance loss on convert)", span.Status())
	}
}

func TestAttachContext(t *testing.T) {
	accepted := suggestionSpan("s1", 6, 16)
	accepted.Accepted = true
	v, spanStore, _ := newTestView(t, accepted)

	v = press(t, v, "c")
	if v.contextModal == nil {
		t.Fatal("context modal should be open")
	}
	for _, c := range "a witness" {
		v = press(t, v, string(c))
	}
	v = press(t, v, "ctrl+s")

	span, err := spanStore.GetSpan(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if span.Context == nil || span.Context.Text != "a witness" {
		t.Errorf("context = %+v", span.Context)
	}
}

func TestModeCycle(t *testing.T) {
	v, _, _ := newTestView(t, suggestionSpan("s1", 6, 16))

	if v.mode != overlay.ModeReview {
		t.Fatalf("start mode = %v", v.mode)
	}
	v = press(t, v, "m")
	if v.mode != overlay.ModeFinal {
		t.Errorf("mode = %v, want final", v.mode)
	}
	v = press(t, v, "m")
	if v.mode != overlay.ModeColorCoded {
		t.Errorf("mode = %v, want color-coded", v.mode)
	}
	v = press(t, v, "m")
	if v.mode != overlay.ModeReview {
		t.Errorf("mode = %v, want review", v.mode)
	}
}

func TestSelectionCreatesManualSpan(t *testing.T) {
	v, spanStore, _ := newTestView(t)

	v = press(t, v, "v")
	if !v.selecting {
		t.Fatal("v should enter selection mode")
	}

	// extend selection over "Hello"
	v = press(t, v, "l", "l", "l", "l")
	if v.pending == nil {
		t.Fatal("pending selection missing")
	}
	if v.pending.StartChar != 0 || v.pending.EndChar != 5 {
		t.Fatalf("pending = [%d,%d), want [0,5)", v.pending.StartChar, v.pending.EndChar)
	}

	v = press(t, v, "enter")
	if v.typePicker == nil {
		t.Fatal("type picker should open on commit")
	}
	v = press(t, v, "enter") // PII

	spans, err := spanStore.ListSpans(context.Background(), "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	got := spans[0]
	if got.StartChar != 0 || got.EndChar != 5 || got.Text != "Hello" {
		t.Errorf("span = %+v", got)
	}
	if got.Status() != coreredact.StatusManual {
		t.Errorf("status = %v, want Manual", got.Status())
	}
	if v.selecting {
		t.Error("selection mode should end after create")
	}
}

func TestSelectionStepsByRune(t *testing.T) {
	doc := plainDoc("José Smith lives here.")
	docStore := newMemDocStore()
	if _, err := docStore.CreateDocument(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	spanStore := newMemSpanStore()

	v := New(docStore, spanStore, doc, nil, overlay.ModeReview)
	v.SetSize(100, 30)

	// three steps from the anchor land on the é, never inside it
	v = press(t, v, "v", "l", "l", "l")
	if v.pending == nil {
		t.Fatal("pending selection missing")
	}
	if v.pending.StartChar != 0 || v.pending.EndChar != 5 {
		t.Fatalf("pending = [%d,%d), want [0,5)", v.pending.StartChar, v.pending.EndChar)
	}
	if v.pending.Text != "José" {
		t.Fatalf("pending text = %q, want %q", v.pending.Text, "José")
	}

	// stepping again skips the continuation byte entirely
	v = press(t, v, "l")
	if v.selCursor != 5 {
		t.Fatalf("cursor = %d, want 5 (the space after José)", v.selCursor)
	}

	// stepping back re-lands on the rune start
	v = press(t, v, "h")
	if v.selCursor != 3 {
		t.Fatalf("cursor = %d, want 3 (start of é)", v.selCursor)
	}

	v = press(t, v, "l", "enter", "enter")
	spans, err := spanStore.ListSpans(context.Background(), "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	got := spans[0]
	if !utf8.ValidString(got.Text) {
		t.Errorf("span text %q is not valid UTF-8", got.Text)
	}
	if got.Text != "José " || got.StartChar != 0 || got.EndChar != 6 {
		t.Errorf("span = %q [%d,%d), want %q [0,6)", got.Text, got.StartChar, got.EndChar, "José ")
	}
}

func TestSelectionOverlapRejected(t *testing.T) {
	accepted := suggestionSpan("s1", 0, 8)
	accepted.Accepted = true
	v, spanStore, _ := newTestView(t, accepted)

	v = press(t, v, "v")
	// anchor starts at hovered span start (0); extend into it
	v = press(t, v, "l", "l", "enter", "enter")

	if v.notice == "" {
		t.Error("overlap should surface a notice")
	}
	spans, _ := spanStore.ListSpans(context.Background(), "doc-1")
	if len(spans) != 1 {
		t.Errorf("no span should be created, got %d", len(spans))
	}
}

func TestSelectionEscCancels(t *testing.T) {
	v, _, _ := newTestView(t)

	v = press(t, v, "v", "l", "l", "esc")
	if v.selecting || v.pending != nil {
		t.Error("esc should clear selection state")
	}
}

func TestFinalizeBlockedWhilePending(t *testing.T) {
	v, _, docStore := newTestView(t, suggestionSpan("s1", 6, 16))

	v = press(t, v, "f")
	if v.confirm != nil {
		t.Fatal("finalize must be blocked while suggestions are pending")
	}
	if v.notice == "" {
		t.Error("expected a notice")
	}

	doc, _ := docStore.GetDocument(context.Background(), "doc-1")
	if doc.Completed() {
		t.Error("document must not be completed")
	}
}

func TestFinalizeAfterReview(t *testing.T) {
	v, _, docStore := newTestView(t, suggestionSpan("s1", 6, 16))

	v = press(t, v, "a", "f")
	if v.confirm == nil {
		t.Fatal("confirm modal should open")
	}
	v = press(t, v, "enter")

	doc, err := docStore.GetDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Completed() {
		t.Error("document should be completed")
	}
}

func TestSidebarCounts(t *testing.T) {
	rejected := suggestionSpan("s2", 20, 27)
	rejected.Justification = "context"
	v, _, _ := newTestView(t, suggestionSpan("s1", 6, 16), rejected)

	out := ansi.Strip(v.View())
	if !strings.Contains(out, "Pending") || !strings.Contains(out, "Rejected") {
		t.Errorf("sidebar sections missing from output")
	}
	if !strings.Contains(out, "total 2") {
		t.Errorf("total count missing from %q", out)
	}
}

func TestHoverNavigation(t *testing.T) {
	v, _, _ := newTestView(t, suggestionSpan("s1", 6, 16), suggestionSpan("s2", 20, 27))

	if v.hoveredID() != "s1" {
		t.Fatalf("initial hover = %q", v.hoveredID())
	}
	v = press(t, v, "j")
	if v.hoveredID() != "s2" {
		t.Errorf("hover after j = %q, want s2", v.hoveredID())
	}
	v = press(t, v, "j")
	if v.hoveredID() != "s2" {
		t.Errorf("hover must clamp at last mark")
	}
	v = press(t, v, "g")
	if v.hoveredID() != "s1" {
		t.Errorf("g should jump to first mark")
	}
}
