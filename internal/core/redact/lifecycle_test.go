package redact

import (
	"errors"
	"testing"
)

func pendingSpan() Span {
	return Span{
		ID:         "s1",
		DocumentID: "d1",
		StartChar:  6,
		EndChar:    16,
		Text:       "John Smith",
		Type:       TypePII,
		Provenance: ProvenanceSuggestion,
	}
}

func TestStatusDerivation(t *testing.T) {
	tests := []struct {
		name string
		span Span
		want Status
	}{
		{
			name: "suggestion with no decision is pending",
			span: Span{Provenance: ProvenanceSuggestion},
			want: StatusPending,
		},
		{
			name: "accepted suggestion",
			span: Span{Provenance: ProvenanceSuggestion, Accepted: true},
			want: StatusAccepted,
		},
		{
			name: "rejected suggestion",
			span: Span{Provenance: ProvenanceSuggestion, Justification: "not sensitive"},
			want: StatusRejected,
		},
		{
			name: "manual span is always manual",
			span: Span{Provenance: ProvenanceManual, Accepted: true},
			want: StatusManual,
		},
		{
			name: "manual span ignores justification",
			span: Span{Provenance: ProvenanceManual, Accepted: true, Justification: "stale"},
			want: StatusManual,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Status(); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccept(t *testing.T) {
	s, err := Accept(pendingSpan())
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if s.Status() != StatusAccepted {
		t.Errorf("got status %v, want Accepted", s.Status())
	}

	// Accepting twice is an invalid transition.
	if _, err := Accept(s); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("double accept: got %v, want ErrInvalidTransition", err)
	}
}

func TestReject(t *testing.T) {
	s, err := Reject(pendingSpan(), "public record")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if s.Status() != StatusRejected {
		t.Errorf("got status %v, want Rejected", s.Status())
	}
	if s.Justification != "public record" {
		t.Errorf("got justification %q", s.Justification)
	}

	if _, err := Reject(pendingSpan(), "   "); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("empty reason: got %v, want ErrInvalidTransition", err)
	}
}

func TestManualSpanTransitions(t *testing.T) {
	manual := NewManual("d1", 0, 5, "Hello", TypeDSInfo)

	if manual.Status() != StatusManual {
		t.Fatalf("NewManual status = %v, want Manual", manual.Status())
	}

	// Rejecting a manual span fails; reverting it fails too. The only
	// exit for a manual span is deletion.
	if _, err := Reject(manual, "reason"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("reject manual: got %v, want ErrInvalidTransition", err)
	}
	if _, err := RevertToPending(manual); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("revert manual: got %v, want ErrInvalidTransition", err)
	}

	_, deleted, err := Resolve(manual)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !deleted {
		t.Error("Resolve on manual span should request deletion")
	}
}

func TestRevertToPending(t *testing.T) {
	accepted, _ := Accept(pendingSpan())
	accepted.Context = &Context{Text: "name withheld"}

	s, err := RevertToPending(accepted)
	if err != nil {
		t.Fatalf("RevertToPending(accepted): %v", err)
	}
	if s.Status() != StatusPending {
		t.Errorf("got status %v, want Pending", s.Status())
	}
	if s.Context != nil {
		t.Error("revert should clear attached context")
	}

	rejected, _ := Reject(pendingSpan(), "duplicate")
	s, err = RevertToPending(rejected)
	if err != nil {
		t.Fatalf("RevertToPending(rejected): %v", err)
	}
	if s.Status() != StatusPending || s.Justification != "" {
		t.Errorf("re-evaluated span = %+v, want pending with no justification", s)
	}

	if _, err := RevertToPending(pendingSpan()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("revert pending: got %v, want ErrInvalidTransition", err)
	}
}

func TestConvertTypeAndAccept(t *testing.T) {
	s, err := ConvertTypeAndAccept(pendingSpan(), TypeOpData)
	if err != nil {
		t.Fatalf("ConvertTypeAndAccept: %v", err)
	}
	if s.Type != TypeOpData {
		t.Errorf("got type %v, want OP_DATA", s.Type)
	}
	// The reviewer takes ownership: the span becomes a manual redaction.
	if s.Status() != StatusManual {
		t.Errorf("got status %v, want Manual", s.Status())
	}
	if s.Provenance != ProvenanceManual {
		t.Errorf("got provenance %v, want MANUAL", s.Provenance)
	}

	accepted, _ := Accept(pendingSpan())
	if _, err := ConvertTypeAndAccept(accepted, TypePII); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("convert accepted: got %v, want ErrInvalidTransition", err)
	}
	if _, err := ConvertTypeAndAccept(pendingSpan(), Type("SECRET")); !errors.Is(err, ErrUnknownType) {
		t.Errorf("convert to unknown type: got %v, want ErrUnknownType", err)
	}
}

func TestAttachContext(t *testing.T) {
	accepted, _ := Accept(pendingSpan())

	s, err := AttachContext(accepted, "a third party")
	if err != nil {
		t.Fatalf("AttachContext: %v", err)
	}
	if s.Context == nil || s.Context.Text != "a third party" {
		t.Errorf("context = %+v", s.Context)
	}

	s, err = AttachContext(s, "")
	if err != nil {
		t.Fatalf("AttachContext clear: %v", err)
	}
	if s.Context != nil {
		t.Error("empty text should clear the context")
	}

	if _, err := AttachContext(pendingSpan(), "x"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("attach to pending: got %v, want ErrInvalidTransition", err)
	}
}

func TestResolveSuggestion(t *testing.T) {
	accepted, _ := Accept(pendingSpan())

	updated, deleted, err := Resolve(accepted)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if deleted {
		t.Error("suggestions revert instead of deleting")
	}
	if updated.Status() != StatusPending {
		t.Errorf("got status %v, want Pending", updated.Status())
	}
}

func TestCountByStatus(t *testing.T) {
	accepted, _ := Accept(pendingSpan())
	rejected, _ := Reject(pendingSpan(), "no")
	spans := []Span{
		pendingSpan(),
		pendingSpan(),
		accepted,
		rejected,
		NewManual("d1", 0, 3, "abc", TypePII),
	}

	c := CountByStatus(spans)
	if c.Pending != 2 || c.Accepted != 1 || c.Rejected != 1 || c.Manual != 1 {
		t.Errorf("counts = %+v", c)
	}
	// The partition always accounts for every span.
	if c.Total() != len(spans) {
		t.Errorf("Total() = %d, want %d", c.Total(), len(spans))
	}
}

func TestValidRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		textLen    int
		want       bool
	}{
		{"in range", 6, 16, 27, true},
		{"zero width", 5, 5, 27, false},
		{"inverted", 16, 6, 27, false},
		{"negative start", -1, 4, 27, false},
		{"past end of text", 20, 30, 27, false},
		{"exactly at end", 20, 27, 27, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Span{StartChar: tt.start, EndChar: tt.end}
			if got := s.ValidRange(tt.textLen); got != tt.want {
				t.Errorf("ValidRange(%d) = %v, want %v", tt.textLen, got, tt.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	a := Span{StartChar: 0, EndChar: 5}
	b := Span{StartChar: 5, EndChar: 10}
	c := Span{StartChar: 4, EndChar: 6}

	if a.Overlaps(b) {
		t.Error("adjacent spans do not overlap")
	}
	if !a.Overlaps(c) || !b.Overlaps(c) {
		t.Error("expected overlap with straddling span")
	}
}
