package redact

import (
	"fmt"
	"strings"
	"time"
)

// Lifecycle operations are pure: each returns a new span and leaves the
// input untouched. Callers persist the result through a Store.
//
// Suggestion state machine:
//
//	Pending  -> Accepted (Accept)
//	Pending  -> Rejected (Reject)
//	Accepted -> Pending  (RevertToPending)
//	Rejected -> Pending  (RevertToPending)
//	Pending  -> Manual   (ConvertTypeAndAccept, one-shot)
//
// Manual spans have no transitions: they exist or are deleted.

// Accept confirms a pending suggestion.
func Accept(s Span) (Span, error) {
	if s.Status() != StatusPending {
		return Span{}, transitionErr("accept", s)
	}
	s.Accepted = true
	s.Justification = ""
	return s, nil
}

// Reject declines a pending suggestion with a non-empty reason.
func Reject(s Span, reason string) (Span, error) {
	if s.Status() != StatusPending {
		return Span{}, transitionErr("reject", s)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Span{}, fmt.Errorf("%w: reject requires a justification", ErrInvalidTransition)
	}
	s.Accepted = false
	s.Justification = reason
	return s, nil
}

// RevertToPending returns an accepted or rejected suggestion to the
// pending state. It covers both "remove an accepted suggestion" and
// "re-evaluate a rejected suggestion".
func RevertToPending(s Span) (Span, error) {
	st := s.Status()
	if st != StatusAccepted && st != StatusRejected {
		return Span{}, transitionErr("revert", s)
	}
	s.Accepted = false
	s.Justification = ""
	s.Context = nil
	return s, nil
}

// ConvertTypeAndAccept changes a pending suggestion's type and accepts
// it in one step. The span becomes a manual redaction: the reviewer has
// taken ownership of the decision and the detector provenance is
// discarded.
func ConvertTypeAndAccept(s Span, newType Type) (Span, error) {
	if !newType.Valid() {
		return Span{}, fmt.Errorf("%w: %q", ErrUnknownType, newType)
	}
	if s.Status() != StatusPending {
		return Span{}, transitionErr("convert type", s)
	}
	s.Type = newType
	s.Provenance = ProvenanceManual
	s.Accepted = true
	s.Justification = ""
	return s, nil
}

// NewManual builds a reviewer-created redaction from a committed text
// selection. The ID is assigned by the store on create.
func NewManual(documentID string, start, end int, text string, t Type) Span {
	return Span{
		DocumentID: documentID,
		StartChar:  start,
		EndChar:    end,
		Text:       text,
		Type:       t,
		Provenance: ProvenanceManual,
		Accepted:   true,
		CreatedAt:  time.Now(),
	}
}

// AttachContext sets or clears the replacement context on an accepted
// or manual span. An empty text clears the context.
func AttachContext(s Span, text string) (Span, error) {
	st := s.Status()
	if st != StatusAccepted && st != StatusManual {
		return Span{}, transitionErr("attach context", s)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.Context = nil
	} else {
		s.Context = &Context{Text: text}
	}
	return s, nil
}

// Resolve applies the "remove" action: manual spans are deleted
// outright, suggestions revert to pending. It returns the updated span
// and whether the caller should delete instead of update.
func Resolve(s Span) (updated Span, deleted bool, err error) {
	if s.Status() == StatusManual {
		return Span{}, true, nil
	}
	updated, err = RevertToPending(s)
	return updated, false, err
}

func transitionErr(op string, s Span) error {
	return fmt.Errorf("%w: cannot %s a %s span", ErrInvalidTransition, op, strings.ToLower(s.Status().String()))
}
