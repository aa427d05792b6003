package redact

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/caseworks/blackout/internal/core/overlay"
	"github.com/caseworks/blackout/internal/core/styles"
)

// renderStatusBar renders the bottom bar: view mode badge, hover or
// selection info, a transient notice, and the key hints.
func (v View) renderStatusBar() string {
	mode := styles.StatusBarModeStyle.Render(strings.ToUpper(string(v.mode)))

	var info string
	switch {
	case v.notice != "":
		info = noticeStyle().Render(v.notice)
	case v.selecting:
		info = fmt.Sprintf("select %d chars", v.selectionWidth())
	case v.hoveredSpan() != nil:
		s := v.hoveredSpan()
		info = fmt.Sprintf("[%d,%d) %s %s", s.StartChar, s.EndChar, s.Type, s.Status())
	}

	var hints string
	if v.selecting {
		hints = "h/l/w/b: extend • enter: redact • esc: cancel"
	} else {
		hints = "j/k: marks • v: select • a/r/u/t/c • m: mode • f: finalize"
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top,
		mode,
		" ",
		styles.StatusBarStyle.Render(info),
	)
	hint := styles.StatusBarKeyStyle.Render(hints)

	gap := v.width - lipgloss.Width(bar) - lipgloss.Width(hint)
	if gap < 1 {
		return bar
	}
	return bar + strings.Repeat(" ", gap) + hint
}

// nextMode cycles review -> final -> color-coded -> review.
func nextMode(m overlay.ViewMode) overlay.ViewMode {
	switch m {
	case overlay.ModeReview:
		return overlay.ModeFinal
	case overlay.ModeFinal:
		return overlay.ModeColorCoded
	default:
		return overlay.ModeReview
	}
}
