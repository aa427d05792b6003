// Package tui hosts the bubbletea program shell around the review view.
package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/caseworks/blackout/internal/core/document"
	"github.com/caseworks/blackout/internal/core/overlay"
	coreredact "github.com/caseworks/blackout/internal/core/redact"
	redactview "github.com/caseworks/blackout/internal/tui/views/redact"
)

// Deps carries everything the review program needs.
type Deps struct {
	Documents document.Store
	Spans     coreredact.Store

	Doc       document.Document
	DocSpans  []coreredact.Span
	StartMode overlay.ViewMode
}

// Model is the top-level tea.Model. It owns quit handling and window
// sizing and forwards everything else to the review view.
type Model struct {
	view     redactview.View
	quitting bool
}

// New creates the program model.
func New(deps Deps) Model {
	return Model{
		view: redactview.New(deps.Documents, deps.Spans, deps.Doc, deps.DocSpans, deps.StartMode),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.view.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.view.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		// Quit keys apply only when no modal or selection is active,
		// so q stays typeable inside text inputs.
		if !m.view.Busy() {
			switch msg.String() {
			case "ctrl+c", "q":
				m.quitting = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	return tea.NewView(m.view.View())
}
