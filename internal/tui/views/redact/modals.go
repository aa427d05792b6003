package redact

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/caseworks/blackout/internal/core/overlay"
	coreredact "github.com/caseworks/blackout/internal/core/redact"
	"github.com/caseworks/blackout/internal/core/styles"
)

// TextModal is a multiline text entry dialog used for rejection
// reasons and context text.
type TextModal struct {
	input     textarea.Model
	title     string
	preview   string // covered text shown above the input
	required  bool   // submit refused while empty
	submitted bool
	cancelled bool
}

// NewTextModal creates a text entry modal. When required is true an
// empty value cannot be submitted.
func NewTextModal(title, preview, initial string, required bool) TextModal {
	ta := textarea.New()
	ta.Placeholder = "Type here..."
	ta.SetHeight(4)
	ta.SetWidth(50)
	ta.Focus()
	if initial != "" {
		ta.SetValue(initial)
	}

	return TextModal{
		input:    ta,
		title:    title,
		preview:  clipPreview(preview),
		required: required,
	}
}

// clipPreview keeps the covered-text preview to a single short line.
func clipPreview(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}

// Update handles input. ctrl+s submits, esc cancels.
func (m TextModal) Update(msg tea.Msg) (TextModal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+s":
			if m.required && strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}
			m.submitted = true
			return m, nil
		case "esc":
			m.cancelled = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the modal content.
func (m TextModal) View() string {
	parts := []string{styles.ModalTitleStyle.Render(m.title)}
	if m.preview != "" {
		previewStyle := lipgloss.NewStyle().Foreground(styles.ColorMuted).Italic(true)
		parts = append(parts, previewStyle.Render(m.preview))
	}
	parts = append(parts,
		m.input.View(),
		styles.ModalHelpStyle.Render("ctrl+s: save • esc: cancel"),
	)
	return strings.Join(parts, "\n")
}

// Submitted returns true once the value was submitted.
func (m TextModal) Submitted() bool { return m.submitted }

// Cancelled returns true once the modal was dismissed.
func (m TextModal) Cancelled() bool { return m.cancelled }

// Value returns the entered text.
func (m TextModal) Value() string { return m.input.Value() }

// TypePicker selects one redaction type.
type TypePicker struct {
	title     string
	types     []coreredact.Type
	cursor    int
	selected  bool
	cancelled bool
}

// NewTypePicker creates a picker over all known redaction types.
func NewTypePicker(title string, initial coreredact.Type) TypePicker {
	p := TypePicker{title: title, types: coreredact.Types()}
	for i, t := range p.types {
		if t == initial {
			p.cursor = i
		}
	}
	return p
}

// Update handles picker navigation.
func (p TypePicker) Update(msg tea.Msg) (TypePicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if p.cursor < len(p.types)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "enter":
		p.selected = true
	case "esc":
		p.cancelled = true
	}
	return p, nil
}

// View renders the type list with each entry in its mark color.
func (p TypePicker) View() string {
	parts := []string{styles.ModalTitleStyle.Render(p.title)}
	for i, t := range p.types {
		label := t.Label()
		entry := lipgloss.NewStyle().
			Foreground(styles.MarkColor(overlay.TypeColor(t))).
			Render(label)
		if i == p.cursor {
			entry = "> " + entry
		} else {
			entry = "  " + entry
		}
		parts = append(parts, entry)
	}
	parts = append(parts, styles.ModalHelpStyle.Render("enter: select • esc: cancel"))
	return strings.Join(parts, "\n")
}

// Selected returns true once a type was chosen.
func (p TypePicker) Selected() bool { return p.selected }

// Cancelled returns true once the picker was dismissed.
func (p TypePicker) Cancelled() bool { return p.cancelled }

// Value returns the chosen type.
func (p TypePicker) Value() coreredact.Type { return p.types[p.cursor] }

// ConfirmModal is a simple yes/no confirmation dialog.
type ConfirmModal struct {
	message   string
	confirmed bool
	cancelled bool
}

// NewConfirmModal creates a new confirmation modal.
func NewConfirmModal(message string) ConfirmModal {
	return ConfirmModal{message: message}
}

// Update handles input for the confirmation modal.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		m.confirmed = true
	case "n", "N", "esc":
		m.cancelled = true
	}
	return m, nil
}

// View renders the confirmation modal.
func (m ConfirmModal) View() string {
	prompt := lipgloss.NewStyle().Foreground(styles.ColorPrimary).Bold(true).Render("Continue? (y/n)")
	return m.message + "\n" + prompt
}

// Confirmed returns true if user confirmed.
func (m ConfirmModal) Confirmed() bool { return m.confirmed }

// Cancelled returns true if user cancelled.
func (m ConfirmModal) Cancelled() bool { return m.cancelled }

// overlayModal composes a modal over the base view, centered, using
// the lipgloss layer compositor.
func overlayModal(base, content string, width, height int) string {
	modal := styles.ModalStyle.Background(styles.ColorBackground).Render(content)

	modalW := lipgloss.Width(modal)
	modalH := lipgloss.Height(modal)
	x := (width - modalW) / 2
	y := (height - modalH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	bgLayer := lipgloss.NewLayer(base)
	modalLayer := lipgloss.NewLayer(modal)
	modalLayer.X(x).Y(y).Z(1)

	compositor := lipgloss.NewCompositor(bgLayer, modalLayer)
	return compositor.Render()
}
