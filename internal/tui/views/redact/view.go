package redact

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/caseworks/blackout/internal/core/document"
	"github.com/caseworks/blackout/internal/core/logging"
	"github.com/caseworks/blackout/internal/core/overlay"
	coreredact "github.com/caseworks/blackout/internal/core/redact"
	"github.com/caseworks/blackout/internal/data/stores"
)

// confirmAction identifies what an open confirmation modal decides.
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmRemoveManual
	confirmFinalize
)

// View manages the review screen for one document.
type View struct {
	docStore  document.Store
	spanStore coreredact.Store

	doc    document.Document
	spans  []coreredact.Span
	counts coreredact.Counts

	mode   overlay.ViewMode
	render renderResult

	selectable []overlay.Mark // navigable marks in render order
	cursor     int            // index into selectable; -1 when none

	selecting bool
	selAnchor int // visual offset, inclusive
	selCursor int // visual offset, inclusive
	pending   *overlay.PendingSelection

	reasonModal  *TextModal
	contextModal *TextModal
	typePicker   *TypePicker
	confirm      *ConfirmModal
	confirmWhat  confirmAction
	pickerCreate bool // picker creates a new span instead of converting

	notice string

	viewport viewport.Model
	width    int
	height   int
}

// New creates a review view over one document and its spans.
func New(docStore document.Store, spanStore coreredact.Store, doc document.Document, spans []coreredact.Span, mode overlay.ViewMode) View {
	if !mode.Valid() {
		mode = overlay.ModeReview
	}
	v := View{
		docStore:  docStore,
		spanStore: spanStore,
		doc:       doc,
		spans:     spans,
		mode:      mode,
		cursor:    -1,
		viewport:  viewport.New(),
	}
	v.refresh()
	if len(v.selectable) > 0 {
		v.cursor = 0
		v.refresh()
	}
	return v
}

// Init implements tea.Model.
func (v View) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport = viewport.New(
		viewport.WithWidth(max(width-sidebarWidth, 10)),
		viewport.WithHeight(max(height-1, 1)),
	)
	v.viewport.SetContent(v.render.content)
}

// Busy reports whether a modal or the selection mode is consuming
// keystrokes.
func (v View) Busy() bool {
	return v.selecting ||
		v.confirm != nil ||
		v.reasonModal != nil ||
		v.contextModal != nil ||
		v.typePicker != nil
}

// hoveredID returns the ID of the mark under the cursor.
func (v View) hoveredID() string {
	if v.cursor >= 0 && v.cursor < len(v.selectable) {
		return v.selectable[v.cursor].ID
	}
	return ""
}

// hoveredSpan returns the span under the cursor, or nil.
func (v View) hoveredSpan() *coreredact.Span {
	id := v.hoveredID()
	if id == "" {
		return nil
	}
	for i := range v.spans {
		if v.spans[i].ID == id {
			return &v.spans[i]
		}
	}
	return nil
}

// refresh re-runs the whole pipeline: counts, projection, render,
// index, viewport content. Called after every state change.
func (v *View) refresh() {
	v.counts = coreredact.CountByStatus(v.spans)

	proj := overlay.Projection{
		Mode:           v.mode,
		HoveredID:      v.hoveredID(),
		Pending:        v.pending,
		ReviewComplete: v.counts.Pending == 0,
		TextLen:        len(v.doc.Text),
	}
	marks, dropped := overlay.ProjectMarks(v.spans, proj)
	if len(dropped) > 0 {
		logger := logging.Component("tui.redact")
		logger.Warn().
			Str("document_id", v.doc.ID).
			Int("dropped", len(dropped)).
			Msg("dropped malformed spans from projection")
	}

	hovered := v.hoveredID()
	v.selectable = v.selectable[:0]
	for _, m := range marks {
		if m.Style.Selectable && m.ID != overlay.PendingSelectionID {
			v.selectable = append(v.selectable, m)
		}
	}

	// Keep the cursor on the same span across refreshes when possible.
	v.cursor = -1
	for i, m := range v.selectable {
		if m.ID == hovered {
			v.cursor = i
			break
		}
	}
	if v.cursor == -1 && len(v.selectable) > 0 {
		v.cursor = 0
	}

	v.render = renderDocument(v.doc, marks)
	v.viewport.SetContent(v.render.content)
}

// reload refetches the document's spans from the store.
func (v *View) reload() {
	spans, err := v.spanStore.ListSpans(context.Background(), v.doc.ID)
	if err != nil {
		v.notice = "failed to reload spans: " + err.Error()
		return
	}
	v.spans = spans
	v.refresh()
}

// scrollToCursor keeps the hovered mark's line inside the viewport.
func (v *View) scrollToCursor() {
	line, ok := v.render.markLine[v.hoveredID()]
	if !ok {
		return
	}
	visible := v.viewport.VisibleLineCount()
	switch {
	case line < v.viewport.YOffset():
		v.viewport.SetYOffset(line)
	case line >= v.viewport.YOffset()+visible:
		v.viewport.SetYOffset(line - visible + 1)
	}
}

// Update handles messages.
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v View) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	v.notice = ""

	// Modal priority: confirm > reason > context > type picker.
	if v.confirm != nil {
		return v.updateConfirm(msg)
	}
	if v.reasonModal != nil {
		return v.updateReasonModal(msg)
	}
	if v.contextModal != nil {
		return v.updateContextModal(msg)
	}
	if v.typePicker != nil {
		return v.updateTypePicker(msg)
	}

	if v.selecting {
		return v.handleSelectionKey(msg)
	}

	switch msg.String() {
	case "j", "down":
		v.moveCursor(1)
	case "k", "up":
		v.moveCursor(-1)
	case "g":
		v.setCursor(0)
	case "G":
		v.setCursor(len(v.selectable) - 1)
	case "ctrl+d":
		v.viewport.HalfPageDown()
	case "ctrl+u":
		v.viewport.HalfPageUp()
	case "m":
		v.mode = nextMode(v.mode)
		v.refresh()
	case "v":
		v.enterSelection()
	case "a":
		v.acceptHovered()
	case "r":
		v.openRejectModal()
	case "u":
		v.resolveHovered()
	case "t":
		v.openTypePicker(false)
	case "c":
		v.openContextModal()
	case "f":
		v.requestFinalize()
	}
	return v, nil
}

func (v *View) moveCursor(delta int) {
	if len(v.selectable) == 0 {
		return
	}
	v.setCursor(v.cursor + delta)
}

func (v *View) setCursor(i int) {
	if len(v.selectable) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(v.selectable) {
		i = len(v.selectable) - 1
	}
	v.cursor = i
	v.refresh()
	v.scrollToCursor()
}

// Mutations on the hovered span. Invalid transitions surface as a
// status bar notice and leave the span untouched.

func (v *View) acceptHovered() {
	span := v.hoveredSpan()
	if span == nil {
		return
	}
	updated, err := coreredact.Accept(*span)
	if err != nil {
		v.notice = err.Error()
		return
	}
	v.persist(updated)
}

func (v *View) openRejectModal() {
	span := v.hoveredSpan()
	if span == nil {
		return
	}
	if span.Status() != coreredact.StatusPending {
		v.notice = "only pending suggestions can be rejected"
		return
	}
	modal := NewTextModal("Reject Suggestion", span.Text, "", true)
	v.reasonModal = &modal
}

func (v *View) resolveHovered() {
	span := v.hoveredSpan()
	if span == nil {
		return
	}
	if span.Status() == coreredact.StatusManual {
		modal := NewConfirmModal("Remove this manual redaction?")
		v.confirm = &modal
		v.confirmWhat = confirmRemoveManual
		return
	}

	updated, deleted, err := coreredact.Resolve(*span)
	if err != nil {
		v.notice = err.Error()
		return
	}
	if deleted {
		v.deleteSpan(span.ID)
		return
	}
	v.persist(updated)
}

func (v *View) openTypePicker(create bool) {
	if !create {
		span := v.hoveredSpan()
		if span == nil {
			return
		}
		if span.Status() != coreredact.StatusPending {
			v.notice = "only pending suggestions can change type"
			return
		}
		picker := NewTypePicker("Change Type and Accept", span.Type)
		v.typePicker = &picker
		v.pickerCreate = false
		return
	}

	picker := NewTypePicker("New Redaction Type", coreredact.TypePII)
	v.typePicker = &picker
	v.pickerCreate = true
}

func (v *View) openContextModal() {
	span := v.hoveredSpan()
	if span == nil {
		return
	}
	status := span.Status()
	if status != coreredact.StatusAccepted && status != coreredact.StatusManual {
		v.notice = "context requires an accepted or manual redaction"
		return
	}
	initial := ""
	if span.Context != nil {
		initial = span.Context.Text
	}
	modal := NewTextModal("Replacement Context", span.Text, initial, false)
	v.contextModal = &modal
}

func (v *View) requestFinalize() {
	if v.doc.Completed() {
		v.notice = "document already completed"
		return
	}
	if v.counts.Pending > 0 {
		v.notice = "pending suggestions remain"
		return
	}
	modal := NewConfirmModal("Mark this document as completed?")
	v.confirm = &modal
	v.confirmWhat = confirmFinalize
}

// persist writes a span update and reloads.
func (v *View) persist(span coreredact.Span) {
	if _, err := v.spanStore.UpdateSpan(context.Background(), span); err != nil {
		v.notice = storeNotice("save", err)
		return
	}
	v.reload()
}

func (v *View) deleteSpan(id string) {
	if err := v.spanStore.DeleteSpan(context.Background(), id); err != nil {
		v.notice = storeNotice("remove", err)
		return
	}
	v.reload()
}

// storeNotice maps a store error to a status bar message. A busy
// database is transient, so it gets a retry hint instead of the raw
// driver error.
func storeNotice(op string, err error) string {
	if stores.IsBusyError(err) {
		return op + " failed: database is busy, try again"
	}
	return op + " failed: " + err.Error()
}

// Modal updates.

func (v View) updateConfirm(msg tea.Msg) (View, tea.Cmd) {
	modal, cmd := v.confirm.Update(msg)
	v.confirm = &modal

	if modal.Confirmed() {
		what := v.confirmWhat
		v.confirm = nil
		v.confirmWhat = confirmNone

		switch what {
		case confirmRemoveManual:
			if span := v.hoveredSpan(); span != nil {
				v.deleteSpan(span.ID)
			}
		case confirmFinalize:
			ctx := context.Background()
			if err := v.docStore.SetStatus(ctx, v.doc.ID, document.StatusCompleted); err != nil {
				v.notice = "finalize failed: " + err.Error()
				return v, cmd
			}
			v.doc.Status = document.StatusCompleted
			v.refresh()
		}
		return v, cmd
	}
	if modal.Cancelled() {
		v.confirm = nil
		v.confirmWhat = confirmNone
	}
	return v, cmd
}

func (v View) updateReasonModal(msg tea.Msg) (View, tea.Cmd) {
	modal, cmd := v.reasonModal.Update(msg)
	v.reasonModal = &modal

	if modal.Submitted() {
		v.reasonModal = nil
		if span := v.hoveredSpan(); span != nil {
			updated, err := coreredact.Reject(*span, modal.Value())
			if err != nil {
				v.notice = err.Error()
				return v, cmd
			}
			v.persist(updated)
		}
		return v, cmd
	}
	if modal.Cancelled() {
		v.reasonModal = nil
	}
	return v, cmd
}

func (v View) updateContextModal(msg tea.Msg) (View, tea.Cmd) {
	modal, cmd := v.contextModal.Update(msg)
	v.contextModal = &modal

	if modal.Submitted() {
		v.contextModal = nil
		if span := v.hoveredSpan(); span != nil {
			updated, err := coreredact.AttachContext(*span, modal.Value())
			if err != nil {
				v.notice = err.Error()
				return v, cmd
			}
			v.persist(updated)
		}
		return v, cmd
	}
	if modal.Cancelled() {
		v.contextModal = nil
	}
	return v, cmd
}

func (v View) updateTypePicker(msg tea.Msg) (View, tea.Cmd) {
	picker, cmd := v.typePicker.Update(msg)
	v.typePicker = &picker

	if picker.Selected() {
		v.typePicker = nil
		if v.pickerCreate {
			v.createFromSelection(picker.Value())
		} else if span := v.hoveredSpan(); span != nil {
			updated, err := coreredact.ConvertTypeAndAccept(*span, picker.Value())
			if err != nil {
				v.notice = err.Error()
				return v, cmd
			}
			v.persist(updated)
		}
		return v, cmd
	}
	if picker.Cancelled() {
		v.typePicker = nil
		if v.pickerCreate {
			v.exitSelection()
		}
	}
	return v, cmd
}

// Selection mode.

func (v *View) enterSelection() {
	if v.mode != overlay.ModeReview {
		v.notice = "selection requires review mode"
		return
	}
	if v.render.index.Total() == 0 {
		v.notice = "nothing selectable"
		return
	}

	start := 0
	if span := v.hoveredSpan(); span != nil {
		if visual, ok := v.render.index.VisualOffset(span.StartChar); ok {
			start = visual
		}
	}
	v.selecting = true
	v.selAnchor = start
	v.selCursor = start
	v.updatePending()
}

func (v *View) exitSelection() {
	v.selecting = false
	v.pending = nil
	v.refresh()
}

// updatePending translates the visual selection to absolute offsets
// and reprojects with the pending mark. The cursor sits on the first
// byte of a rune, so the exclusive end extends past the whole rune.
func (v *View) updatePending() {
	lo, hi := v.selAnchor, v.selCursor
	if lo > hi {
		lo, hi = hi, lo
	}
	sel, err := v.render.index.TranslateSelection(lo, hi+v.runeWidthAt(hi))
	if err != nil {
		v.pending = nil
	} else {
		v.pending = &overlay.PendingSelection{
			StartChar: sel.StartChar,
			EndChar:   sel.EndChar,
			Text:      sel.Text,
		}
	}
	v.refresh()
}

func (v View) selectionWidth() int {
	if v.pending == nil {
		return 0
	}
	return v.pending.EndChar - v.pending.StartChar
}

func (v View) handleSelectionKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.exitSelection()
	case "h", "left":
		v.moveSelection(-1)
	case "l", "right":
		v.moveSelection(1)
	case "w":
		v.selCursor = v.nextWord(v.selCursor)
		v.updatePending()
	case "b":
		v.selCursor = v.prevWord(v.selCursor)
		v.updatePending()
	case "j", "down":
		v.selCursor = v.nextLine(v.selCursor)
		v.updatePending()
	case "k", "up":
		v.selCursor = v.prevLine(v.selCursor)
		v.updatePending()
	case "enter":
		if v.pending == nil {
			v.notice = "empty selection"
			return v, nil
		}
		v.openTypePicker(true)
	}
	return v, nil
}

// moveSelection steps the cursor one rune. The index is byte granular,
// so continuation bytes are skipped in the movement direction.
func (v *View) moveSelection(delta int) {
	total := v.render.index.Total()
	next := v.selCursor + delta
	for next >= 0 && next < total {
		c, ok := v.render.index.CharAt(next)
		if ok && !utf8.RuneStart(c) {
			next += delta
			continue
		}
		break
	}
	if next < 0 || next >= total {
		return
	}
	v.selCursor = next
	v.updatePending()
}

// runeWidthAt returns the byte length of the rune starting at the
// given visual offset.
func (v View) runeWidthAt(visual int) int {
	total := v.render.index.Total()
	width := 1
	for visual+width < total {
		c, ok := v.render.index.CharAt(visual + width)
		if !ok || utf8.RuneStart(c) {
			break
		}
		width++
	}
	return width
}

// Word and line motions scan the countable rendered text through the
// index, so they never land inside a reserved table range.

func (v View) nextWord(from int) int {
	total := v.render.index.Total()
	i := from
	for i < total-1 {
		i++
		c, ok := v.render.index.CharAt(i)
		if ok && (c == ' ' || c == '\n') {
			continue
		}
		prev, _ := v.render.index.CharAt(i - 1)
		if prev == ' ' || prev == '\n' {
			return i
		}
	}
	return total - 1
}

func (v View) prevWord(from int) int {
	i := from
	for i > 0 {
		i--
		c, ok := v.render.index.CharAt(i)
		if !ok || c == ' ' || c == '\n' {
			continue
		}
		if i == 0 {
			return 0
		}
		prev, _ := v.render.index.CharAt(i - 1)
		if prev == ' ' || prev == '\n' {
			return i
		}
	}
	return 0
}

func (v View) nextLine(from int) int {
	total := v.render.index.Total()
	for i := from; i < total-1; i++ {
		c, _ := v.render.index.CharAt(i)
		if c == '\n' {
			return i + 1
		}
	}
	return total - 1
}

func (v View) prevLine(from int) int {
	lineStart := 0
	prevStart := 0
	for i := 0; i < from; i++ {
		c, _ := v.render.index.CharAt(i)
		if c == '\n' {
			prevStart = lineStart
			lineStart = i + 1
		}
	}
	if lineStart == 0 {
		return 0
	}
	return prevStart
}

func (v *View) createFromSelection(t coreredact.Type) {
	sel := v.pending
	v.exitSelection()
	if sel == nil {
		return
	}

	span := coreredact.NewManual(v.doc.ID, sel.StartChar, sel.EndChar, sel.Text, t)
	if !span.ValidRange(len(v.doc.Text)) {
		v.notice = "selection outside document"
		return
	}

	_, err := v.spanStore.CreateSpan(context.Background(), span)
	switch {
	case errors.Is(err, coreredact.ErrOverlappingSpan):
		v.notice = "overlaps an existing redaction"
	case err != nil:
		v.notice = storeNotice("create", err)
	default:
		v.reload()
	}
}

// View renders the screen.
func (v View) View() string {
	contentHeight := max(v.height-1, 1)

	docPane := v.viewport.View()
	docLines := strings.Split(docPane, "\n")
	if len(docLines) > contentHeight {
		docLines = docLines[:contentHeight]
	}
	docPane = strings.Join(docLines, "\n")

	sidebar := renderSidebar(v.doc, v.counts, contentHeight)
	body := lipgloss.JoinHorizontal(lipgloss.Top, docPane, sidebar)

	base := body + "\n" + v.renderStatusBar()

	switch {
	case v.confirm != nil:
		return overlayModal(base, v.confirm.View(), v.width, v.height)
	case v.reasonModal != nil:
		return overlayModal(base, v.reasonModal.View(), v.width, v.height)
	case v.contextModal != nil:
		return overlayModal(base, v.contextModal.View(), v.width, v.height)
	case v.typePicker != nil:
		return overlayModal(base, v.typePicker.View(), v.width, v.height)
	}
	return base
}
