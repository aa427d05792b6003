package redact

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/caseworks/blackout/internal/core/document"
	coreredact "github.com/caseworks/blackout/internal/core/redact"
	"github.com/caseworks/blackout/internal/core/styles"
)

// renderSidebar renders the status panel: the document, its review
// state, and the four-way span partition.
func renderSidebar(doc document.Document, counts coreredact.Counts, height int) string {
	var b strings.Builder

	b.WriteString(styles.SidebarHeaderStyle.Render(styles.IconDocument + doc.Filename))
	b.WriteString("\n")

	status := string(doc.Status)
	if doc.Completed() {
		status = styles.IconComplete + status
	}
	b.WriteString(styles.SidebarCountStyle.Render(status))
	b.WriteString("\n\n")

	b.WriteString(styles.SidebarHeaderStyle.Render("Redactions"))
	b.WriteString("\n")

	sections := []struct {
		icon  string
		label string
		count int
	}{
		{styles.IconPending, "Pending", counts.Pending},
		{styles.IconAccepted, "Accepted", counts.Accepted},
		{styles.IconRejected, "Rejected", counts.Rejected},
		{styles.IconManual, "Manual", counts.Manual},
	}
	for _, s := range sections {
		line := fmt.Sprintf("%s%-9s %d", s.icon, s.label, s.count)
		b.WriteString(styles.SidebarItemStyle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.SidebarCountStyle.Render(fmt.Sprintf("total %d", counts.Total())))

	panel := lipgloss.NewStyle().
		Width(sidebarWidth - 2).
		Height(height).
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(styles.ColorSurface)

	return panel.Render(b.String())
}
