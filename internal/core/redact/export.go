package redact

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// BlockChar fills redacted ranges in exported text.
const BlockChar = "█"

// FinalText produces the disclosure copy of a document: committed
// spans are replaced by block characters, or by their attached context
// when one is set. Pending and rejected spans pass through untouched.
// Committed spans never overlap, so a single left-to-right pass works.
func FinalText(text string, spans []Span) string {
	committed := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Committed() && s.ValidRange(len(text)) {
			committed = append(committed, s)
		}
	}
	sort.Slice(committed, func(i, j int) bool {
		return committed[i].StartChar < committed[j].StartChar
	})

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, s := range committed {
		if s.StartChar < pos {
			continue
		}
		b.WriteString(text[pos:s.StartChar])
		if s.Context != nil && s.Context.Text != "" {
			b.WriteString(s.Context.Text)
		} else {
			width := utf8.RuneCountInString(text[s.StartChar:s.EndChar])
			b.WriteString(strings.Repeat(BlockChar, width))
		}
		pos = s.EndChar
	}
	b.WriteString(text[pos:])
	return b.String()
}
