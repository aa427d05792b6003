package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/caseworks/blackout/internal/core/overlay"
)

// markColors maps projection color keys onto the active palette.
var markColors map[overlay.ColorKey]color.Color

func rebuildMarkStyles(p Palette) {
	markColors = map[overlay.ColorKey]color.Color{
		overlay.ColorPending:   p.Warning,
		overlay.ColorSelection: p.Secondary,
		overlay.ColorRejected:  p.Muted,
		overlay.ColorNeutral:   p.Foreground,
		overlay.ColorPII:       p.Success,
		overlay.ColorOpData:    p.Primary,
		overlay.ColorDSInfo:    p.Purple,
	}
}

// MarkColor returns the terminal color for a projection color key.
func MarkColor(key overlay.ColorKey) color.Color {
	if c, ok := markColors[key]; ok {
		return c
	}
	return CurrentPalette.Foreground
}

// MarkStyle builds a lipgloss style from a projection style. Opaque marks
// render foreground and background in the same ink so the covered text is
// unreadable on screen, matching how a finalized redaction appears.
func MarkStyle(s overlay.Style) lipgloss.Style {
	c := MarkColor(s.Color)
	if s.Opaque {
		return lipgloss.NewStyle().Foreground(c).Background(c)
	}

	st := lipgloss.NewStyle().
		Foreground(CurrentPalette.Background).
		Background(c)
	if s.Emphasis {
		st = st.Bold(true)
	}
	if s.Border {
		st = st.Underline(true)
	}
	return st
}
