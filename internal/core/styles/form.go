package styles

import (
	"image/color"

	"github.com/charmbracelet/huh"
	huhgloss "github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// FormTheme returns a huh form theme matching the active palette. huh
// still renders through lipgloss v1, so colors cross over as hex
// strings.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := huhColor(ColorPrimary)
	fg := huhColor(ColorForeground)
	muted := huhColor(ColorMuted)
	errc := huhColor(ColorError)

	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(primary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(fg)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(primary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(primary)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(errc)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(errc)

	t.Blurred.Title = t.Blurred.Title.Foreground(muted)
	t.Blurred.Description = t.Blurred.Description.Foreground(muted)

	return t
}

func huhColor(c color.Color) huhgloss.Color {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return huhgloss.Color("")
	}
	return huhgloss.Color(cc.Hex())
}
