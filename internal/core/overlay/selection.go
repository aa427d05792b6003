package overlay

import "fmt"

// Selection is a resolved text selection in absolute document offsets.
type Selection struct {
	Text      string
	StartChar int
	EndChar   int // exclusive
}

// indexEntry maps one countable run: visual is the cumulative count of
// rendered text characters before the run, abs the absolute offset of
// its first character.
type indexEntry struct {
	visual  int
	abs     int
	length  int
	content string
}

// RunIndex is the explicit inverse of the run renderer's layout: a
// run-length index from rendered-text positions back to absolute
// offsets. Table markup contributes no countable characters, so any
// backend that renders runs in order and counts only text/mark content
// agrees with it by construction.
//
// Build one index per render pass and feed it every region's runs in
// render order.
type RunIndex struct {
	entries []indexEntry
	total   int
}

// NewRunIndex returns an empty index for one render pass.
func NewRunIndex() *RunIndex {
	return &RunIndex{}
}

// Add appends a region's runs to the index in render order.
func (ix *RunIndex) Add(runs []Run) {
	for _, r := range runs {
		if r.Kind == RunTable {
			continue
		}
		if len(r.Content) == 0 {
			continue
		}
		ix.entries = append(ix.entries, indexEntry{
			visual:  ix.total,
			abs:     r.Start,
			length:  len(r.Content),
			content: r.Content,
		})
		ix.total += len(r.Content)
	}
}

// Total returns the number of countable rendered characters.
func (ix *RunIndex) Total() int {
	return ix.total
}

// AbsoluteOffset maps a visual position (count of rendered text
// characters preceding it) to an absolute document offset.
func (ix *RunIndex) AbsoluteOffset(visual int) (int, bool) {
	if visual < 0 || visual > ix.total {
		return 0, false
	}
	for _, e := range ix.entries {
		if visual < e.visual+e.length {
			return e.abs + (visual - e.visual), true
		}
	}
	// Position at the very end of the container.
	if n := len(ix.entries); n > 0 && visual == ix.total {
		last := ix.entries[n-1]
		return last.abs + last.length, true
	}
	return 0, false
}

// VisualOffset maps an absolute document offset back to a visual
// position. It reports false when the offset falls inside a reserved
// range with no countable characters.
func (ix *RunIndex) VisualOffset(abs int) (int, bool) {
	for _, e := range ix.entries {
		if abs >= e.abs && abs < e.abs+e.length {
			return e.visual + (abs - e.abs), true
		}
	}
	if n := len(ix.entries); n > 0 {
		last := ix.entries[n-1]
		if abs == last.abs+last.length {
			return ix.total, true
		}
	}
	return 0, false
}

// CharAt returns the rendered character at a visual position.
func (ix *RunIndex) CharAt(visual int) (byte, bool) {
	for _, e := range ix.entries {
		if visual >= e.visual && visual < e.visual+e.length {
			return e.content[visual-e.visual], true
		}
	}
	return 0, false
}

// TranslateSelection converts a visual selection within the rendered
// container into absolute character offsets, the exact inverse of the
// render pass that produced the index. visualStart and visualEnd count
// rendered text characters from the top of the container.
func (ix *RunIndex) TranslateSelection(visualStart, visualEnd int) (Selection, error) {
	if visualStart >= visualEnd {
		return Selection{}, ErrEmptySelection
	}
	if visualStart < 0 || visualEnd > ix.total {
		return Selection{}, fmt.Errorf("%w: outside rendered container", ErrEmptySelection)
	}

	start, ok := ix.AbsoluteOffset(visualStart)
	if !ok {
		return Selection{}, ErrEmptySelection
	}
	// Resolve the end from the last selected character so a selection
	// ending at a run boundary never swallows a following reserved
	// range.
	end, ok := ix.AbsoluteOffset(visualEnd - 1)
	if !ok {
		return Selection{}, ErrEmptySelection
	}
	end++

	return Selection{
		Text:      ix.slice(visualStart, visualEnd),
		StartChar: start,
		EndChar:   end,
	}, nil
}

// slice reassembles the rendered text between two visual positions.
func (ix *RunIndex) slice(from, to int) string {
	var out []byte
	for _, e := range ix.entries {
		if e.visual+e.length <= from || e.visual >= to {
			continue
		}
		lo := 0
		if from > e.visual {
			lo = from - e.visual
		}
		hi := e.length
		if to < e.visual+e.length {
			hi = to - e.visual
		}
		out = append(out, e.content[lo:hi]...)
	}
	return string(out)
}
