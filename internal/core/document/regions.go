package document

import "sort"

// RegionKind identifies the unit of rendering a region maps to.
type RegionKind string

// Region kinds.
const (
	RegionHeading     RegionKind = "heading"
	RegionParagraph   RegionKind = "paragraph"
	RegionTableCell   RegionKind = "tableCell"
	RegionTableOpaque RegionKind = "tableOpaque" // pre-built markup, not offset-addressable
	RegionPlainText   RegionKind = "plainText"
)

// Region is a contiguous, offset-addressable slice of the document used
// as the unit of rendering. For tableOpaque regions the covered text is
// reserved by the table and renders as markup instead of text.
type Region struct {
	Kind    RegionKind
	Start   int
	End     int // exclusive
	TableID string
	Row     int
	Col     int
}

// Len returns the number of characters the region covers.
func (r Region) Len() int {
	return r.End - r.Start
}

// Addressable reports whether the region's characters participate in
// offset-based selection and marking.
func (r Region) Addressable() bool {
	return r.Kind != RegionTableOpaque
}

// TableSet is a caller-scoped accumulator of tables already
// materialized during one render pass. Passing it explicitly keeps the
// resolver reusable across renders: a fresh set per pass, shared by
// every region of that pass.
type TableSet map[string]struct{}

// NewTableSet returns an empty per-pass accumulator.
func NewTableSet() TableSet {
	return TableSet{}
}

// Seen reports whether the table was already materialized this pass.
func (ts TableSet) Seen(id string) bool {
	_, ok := ts[id]
	return ok
}

// Mark records the table as materialized.
func (ts TableSet) Mark(id string) {
	ts[id] = struct{}{}
}

// ResolveRegions decomposes a document into ordered renderable regions.
//
// Without structure the whole text is a single plainText region; any
// embedded tables are spliced in later by the run renderer using the
// same TableSet. With structure, each element becomes a region, and a
// table element expands into one region per cell, or a single opaque
// region when the table carries no cell offsets.
func ResolveRegions(doc Document, seen TableSet) []Region {
	if len(doc.Structure) == 0 {
		if len(doc.Text) == 0 {
			return nil
		}
		return []Region{{Kind: RegionPlainText, Start: 0, End: len(doc.Text)}}
	}

	var regions []Region
	for _, el := range doc.Structure {
		switch el.Kind {
		case ElementHeading:
			regions = append(regions, Region{Kind: RegionHeading, Start: el.Start, End: el.End})
		case ElementTable:
			tbl, ok := doc.Tables[el.TableID]
			if !ok {
				// Structure references a table that was never extracted;
				// fall back to plain text so nothing disappears.
				regions = append(regions, Region{Kind: RegionPlainText, Start: el.Start, End: el.End})
				continue
			}
			if seen.Seen(tbl.ID) {
				continue
			}
			seen.Mark(tbl.ID)
			regions = append(regions, expandTable(tbl, el)...)
		default:
			regions = append(regions, Region{Kind: RegionParagraph, Start: el.Start, End: el.End})
		}
	}
	return regions
}

// expandTable turns a table into cell regions, clipped to the structural
// element's range, or a single opaque region when no cells are known.
func expandTable(tbl Table, el StructuralElement) []Region {
	if len(tbl.Cells) == 0 {
		return []Region{{
			Kind:    RegionTableOpaque,
			Start:   clampOffset(tbl.NERStart, el),
			End:     clampOffset(tbl.NEREnd, el),
			TableID: tbl.ID,
		}}
	}

	regions := make([]Region, 0, len(tbl.Cells))
	for _, cell := range tbl.Cells {
		start := clampOffset(cell.Start, el)
		end := clampOffset(cell.End, el)
		if start >= end {
			continue
		}
		regions = append(regions, Region{
			Kind:    RegionTableCell,
			Start:   start,
			End:     end,
			TableID: tbl.ID,
			Row:     cell.Row,
			Col:     cell.Col,
		})
	}
	return regions
}

func clampOffset(off int, el StructuralElement) int {
	if off < el.Start {
		return el.Start
	}
	if off > el.End {
		return el.End
	}
	return off
}

// TablesInRange returns the document's tables whose reserved range
// intersects [start, end), clipped to it and ordered by NERStart.
// Used by the run renderer to splice tables into unstructured text.
func TablesInRange(doc Document, start, end int) []Table {
	if len(doc.Tables) == 0 {
		return nil
	}

	var tables []Table
	for _, tbl := range doc.Tables {
		if tbl.NERStart >= end || tbl.NEREnd <= start {
			continue
		}
		clipped := tbl
		if clipped.NERStart < start {
			clipped.NERStart = start
		}
		if clipped.NEREnd > end {
			clipped.NEREnd = end
		}
		tables = append(tables, clipped)
	}
	sort.Slice(tables, func(i, j int) bool {
		if tables[i].NERStart != tables[j].NERStart {
			return tables[i].NERStart < tables[j].NERStart
		}
		return tables[i].ID < tables[j].ID
	})
	return tables
}
