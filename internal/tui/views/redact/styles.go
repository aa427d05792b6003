package redact

import (
	lipgloss "charm.land/lipgloss/v2"

	"github.com/caseworks/blackout/internal/core/document"
	"github.com/caseworks/blackout/internal/core/styles"
)

// Styles resolve against the active palette at render time so theme
// switches take effect without rebuilding the view.

func headingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(styles.ColorPrimary)
}

func tableTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.ColorMuted)
}

func noticeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.ColorWarning).Bold(true)
}

func regionStyle(r document.Region) lipgloss.Style {
	switch r.Kind {
	case document.RegionHeading:
		return headingStyle()
	case document.RegionTableCell, document.RegionTableOpaque:
		return tableTextStyle()
	default:
		return lipgloss.NewStyle().Foreground(styles.ColorForeground)
	}
}

const sidebarWidth = 30
