package redact

import (
	"sort"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/caseworks/blackout/internal/core/document"
	"github.com/caseworks/blackout/internal/core/overlay"
	"github.com/caseworks/blackout/internal/core/styles"
)

// renderResult is one full render pass over a document.
type renderResult struct {
	content  string              // styled text for the viewport
	index    *overlay.RunIndex   // visual -> absolute offset index
	markLine map[string]int      // mark ID -> 0-indexed line of its first run
	runs     [][]overlay.Run     // per-region runs, render order
	regions  []document.Region
}

// renderDocument runs resolve -> render over every region with one
// shared table accumulator and assembles the styled content, the run
// index, and the line position of every mark.
func renderDocument(doc document.Document, marks []overlay.Mark) renderResult {
	seen := document.NewTableSet()
	regions := document.ResolveRegions(doc, seen)

	res := renderResult{
		index:    overlay.NewRunIndex(),
		markLine: make(map[string]int),
		regions:  regions,
	}

	var styled strings.Builder
	line := 0

	for _, region := range regions {
		runs := overlay.RenderRuns(doc, region, overlay.MarksForRegion(marks, region), seen)
		res.index.Add(runs)
		res.runs = append(res.runs, runs)

		base := regionStyle(region)
		for _, run := range runs {
			switch run.Kind {
			case overlay.RunMark:
				if _, ok := res.markLine[run.Mark.ID]; !ok {
					res.markLine[run.Mark.ID] = line
				}
				styled.WriteString(styleLines(styles.MarkStyle(run.Mark.Style), run.Content))
				line += strings.Count(run.Content, "\n")
			case overlay.RunTable:
				markup := renderTable(doc, run)
				styled.WriteString(styleLines(tableTextStyle(), markup))
				line += strings.Count(markup, "\n")
			default:
				styled.WriteString(styleLines(base, run.Content))
				line += strings.Count(run.Content, "\n")
			}
		}
	}

	res.content = styled.String()
	return res
}

// Render produces the styled document text without the surrounding
// chrome, for non-interactive output.
func Render(doc document.Document, marks []overlay.Mark) string {
	return renderDocument(doc, marks).content
}

// styleLines styles each line separately so a run spanning newlines
// never drags styling across line boundaries in the viewport.
func styleLines(st lipgloss.Style, s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = st.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

// renderTable turns a table's reserved range into display markup. With
// cells present it renders a row grid; without them the pre-built
// markup text is shown verbatim.
func renderTable(doc document.Document, run overlay.Run) string {
	tbl, ok := doc.Tables[run.TableID]
	if !ok || len(tbl.Cells) == 0 {
		return doc.Text[run.Start:run.End]
	}

	rows := make(map[int][]document.Cell)
	maxRow := 0
	for _, cell := range tbl.Cells {
		rows[cell.Row] = append(rows[cell.Row], cell)
		if cell.Row > maxRow {
			maxRow = cell.Row
		}
	}

	sep := "  "
	if tbl.HasBorders {
		sep = " │ "
	}

	var out []string
	for r := 0; r <= maxRow; r++ {
		cells := rows[r]
		sort.Slice(cells, func(i, j int) bool { return cells[i].Col < cells[j].Col })
		texts := make([]string, 0, len(cells))
		for _, c := range cells {
			texts = append(texts, c.Text)
		}
		out = append(out, strings.Join(texts, sep))
	}
	return strings.Join(out, "\n")
}
