package overlay

import (
	"github.com/caseworks/blackout/internal/core/document"
)

// RunKind identifies the kind of a rendered run.
type RunKind int

// Run kinds.
const (
	RunText RunKind = iota
	RunMark
	RunTable
)

// Run is one slice of a region's rendered output. Text and mark runs
// carry the exact source characters they cover; table runs stand in
// for a table's reserved range and carry no countable text.
type Run struct {
	Kind    RunKind
	Content string // covered source text; empty for table runs
	Mark    *Mark  // set for mark runs
	TableID string // set for table runs
	Start   int    // absolute offset of the first covered character
	End     int    // exclusive
}

// RenderRuns walks a region's text against its marks and emits the
// ordered run sequence. marks must be the region-relevant subset (see
// MarksForRegion) in start order.
//
// For plainText regions of an unstructured document, gaps between
// marks are additionally scanned against the document's tables: a
// table range inside a gap becomes a TableRun the first time the pass
// encounters it (tracked by seen) and is skipped on every later
// encounter, with the cursor advancing past the reserved range either
// way.
//
// Round trip: concatenating the Content of all text and mark runs
// reproduces the region's source text exactly, minus any table
// reserved ranges replaced by table runs. Overlapping marks (malformed
// input) are both emitted and may double-cover characters; they are
// deliberately not resolved here.
func RenderRuns(doc document.Document, region document.Region, marks []Mark, seen document.TableSet) []Run {
	if region.Kind == document.RegionTableOpaque {
		return []Run{{Kind: RunTable, TableID: region.TableID, Start: region.Start, End: region.End}}
	}

	// Tables are spliced only when scanning unstructured text; with
	// structure present, tables already expanded into their own regions.
	var tables []document.Table
	if region.Kind == document.RegionPlainText && len(doc.Structure) == 0 {
		tables = document.TablesInRange(doc, region.Start, region.End)
	}

	var runs []Run
	cursor := region.Start

	for _, m := range marks {
		if m.StartChar > cursor {
			runs = appendGap(runs, doc, cursor, m.StartChar, tables, seen)
		}

		start := m.StartChar
		if start < region.Start {
			start = region.Start
		}
		end := m.EndChar
		if end > region.End {
			end = region.End
		}
		if start < end {
			mark := m
			runs = append(runs, Run{
				Kind:    RunMark,
				Content: doc.Text[start:end],
				Mark:    &mark,
				Start:   start,
				End:     end,
			})
		}
		if end > cursor {
			cursor = end
		}
	}

	if cursor < region.End {
		runs = appendGap(runs, doc, cursor, region.End, tables, seen)
	}
	return runs
}

// appendGap emits the text between marks, interleaving table runs for
// any reserved range the gap crosses.
func appendGap(runs []Run, doc document.Document, start, end int, tables []document.Table, seen document.TableSet) []Run {
	cursor := start
	for _, tbl := range tables {
		if tbl.NEREnd <= cursor || tbl.NERStart >= end {
			continue
		}
		head := tbl.NERStart
		if head < cursor {
			head = cursor
		}
		if head > cursor {
			runs = append(runs, textRun(doc, cursor, head))
		}
		tail := tbl.NEREnd
		if tail > end {
			tail = end
		}
		if !seen.Seen(tbl.ID) {
			seen.Mark(tbl.ID)
			runs = append(runs, Run{Kind: RunTable, TableID: tbl.ID, Start: head, End: tail})
		}
		// Re-encounters skip the markup but still advance past the
		// reserved range.
		cursor = tail
	}
	if cursor < end {
		runs = append(runs, textRun(doc, cursor, end))
	}
	return runs
}

func textRun(doc document.Document, start, end int) Run {
	return Run{Kind: RunText, Content: doc.Text[start:end], Start: start, End: end}
}

// RenderPass resolves a document's regions and renders all of them with
// one shared table accumulator, returning the runs per region in order.
// This is the full projection the orchestrator runs on every change.
func RenderPass(doc document.Document, marks []Mark) [][]Run {
	seen := document.NewTableSet()
	regions := document.ResolveRegions(doc, seen)

	out := make([][]Run, 0, len(regions))
	for _, region := range regions {
		out = append(out, RenderRuns(doc, region, MarksForRegion(marks, region), seen))
	}
	return out
}
