// Package tui is an interactive terminal front end for the contact directory.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gitlab.com/dirk.krummacker/contact-directory/internal/directory"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
)

// focus tells which part of the screen receives key presses.
type focus int

const (
	focusFilters focus = iota
	focusGrid
	focusEdit
	focusConfirm
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle   = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("245"))
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	confirmStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// columnWidths follows the field order of model.Fields.
var columnWidths = []int{12, 12, 24, 12, 10, 20, 14, 12, 8}

// refreshMsg is sent after every asynchronous operation on the directory.
type refreshMsg struct {
	err error
}

// Notice collects alerts raised by the search panel. It is safe for concurrent use because
// panel callbacks run inside bubbletea commands.
type Notice struct {
	mu  sync.Mutex
	msg string
}

// Alert stores a message until the next Take.
func (n *Notice) Alert(msg string) {
	n.mu.Lock()
	n.msg = msg
	n.mu.Unlock()
}

// Take returns and clears the stored message.
func (n *Notice) Take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	msg := n.msg
	n.msg = ""
	return msg
}

// Label turns a field name like zipCode into the heading ZIP CODE.
func Label(field string) string {
	var b strings.Builder
	for _, r := range field {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// Model is the bubbletea model of the directory screen.
type Model struct {
	ctx    context.Context
	app    *directory.App
	notice *Notice

	focus   focus
	filters []textinput.Model
	field   int
	table   table.Model
	pager   paginator.Model
	editor  textinput.Model
	edited  int
	status  string
	isAlert bool
}

// New builds the screen. The notice must be the one that receives the panel alerts of app.
func New(ctx context.Context, app *directory.App, notice *Notice) Model {
	filters := make([]textinput.Model, len(model.Fields))
	for i, field := range model.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 100
		ti.Width = 30
		if field == model.Dob {
			ti.Placeholder = "YYYY-MM-DD"
		}
		filters[i] = ti
	}
	filters[0].Focus()

	columns := []table.Column{{Title: "", Width: 3}}
	for i, field := range model.Fields {
		columns = append(columns, table.Column{Title: Label(field), Width: columnWidths[i]})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(12),
	)

	pager := paginator.New()
	pager.Type = paginator.Dots

	editor := textinput.New()
	editor.Width = 30

	return Model{
		ctx:     ctx,
		app:     app,
		notice:  notice,
		focus:   focusFilters,
		filters: filters,
		table:   t,
		pager:   pager,
		editor:  editor,
	}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.run(func() error {
		return m.app.Coordinator.Reload(m.ctx)
	}))
}

// run executes fn in a command and reports back with a refreshMsg.
func (m Model) run(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{err: fn()}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.refresh(msg.err)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusFilters:
			return m.updateFilters(msg)
		case focusGrid:
			return m.updateGrid(msg)
		case focusEdit:
			return m.updateEditor(msg)
		case focusConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

// refresh copies the directory state into the widgets.
func (m *Model) refresh(err error) {
	m.status, m.isAlert = "", false
	if alert := m.notice.Take(); alert != "" {
		m.status, m.isAlert = alert, true
	} else if err != nil {
		m.status = "Request failed: " + err.Error()
	}
	m.table.SetRows(m.rows())
	m.pager.TotalPages = m.app.Grid.PageCount()
	m.pager.Page = m.app.Grid.Page()
}

// rows renders the grid rows, showing the draft for the row in edit mode.
func (m Model) rows() []table.Row {
	editingID, editing := m.app.Grid.Editing()
	draft := m.app.Grid.Draft()
	var rows []table.Row
	for _, c := range m.app.Grid.Rows() {
		shown, mark := c, "[ ]"
		if editing && c.Id == editingID {
			shown, mark = draft, "[x]"
		}
		row := table.Row{mark}
		for _, field := range model.Fields {
			row = append(row, shown.Get(field))
		}
		rows = append(rows, row)
	}
	return rows
}

// visibleIndex maps the position among the visible filters to the index in model.Fields.
func (m Model) visibleIndex(pos int) int {
	visible := m.app.Panel.VisibleFields()
	field := visible[pos%len(visible)]
	for i, f := range model.Fields {
		if f == field {
			return i
		}
	}
	return 0
}

// moveFilterFocus focuses the visible filter input delta steps away.
func (m *Model) moveFilterFocus(delta int) tea.Cmd {
	count := len(m.app.Panel.VisibleFields())
	pos := 0
	for i := 0; i < count; i++ {
		if m.visibleIndex(i) == m.field {
			pos = i
		}
	}
	pos = (pos + delta + count) % count
	m.filters[m.field].Blur()
	m.field = m.visibleIndex(pos)
	return m.filters[m.field].Focus()
}

// syncDraft hands the input values to the search panel.
func (m Model) syncDraft() {
	for i, field := range model.Fields {
		m.app.Panel.Set(field, m.filters[i].Value())
	}
}

func (m Model) updateFilters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		cmd := m.moveFilterFocus(1)
		return m, cmd
	case "shift+tab":
		cmd := m.moveFilterFocus(-1)
		return m, cmd
	case "enter":
		m.syncDraft()
		return m, m.run(func() error {
			m.app.Panel.Submit()
			return nil
		})
	case "ctrl+r":
		for i := range m.filters {
			m.filters[i].SetValue("")
		}
		return m, m.run(func() error {
			m.app.Panel.Reset()
			return nil
		})
	case "ctrl+f":
		m.app.Panel.ToggleMoreFilters()
		if !contains(m.app.Panel.VisibleFields(), model.Fields[m.field]) {
			m.filters[m.field].Blur()
			m.field = 0
			cmd := m.filters[0].Focus()
			return m, cmd
		}
		return m, nil
	case "esc", "down":
		m.filters[m.field].Blur()
		m.focus = focusGrid
		m.table.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.filters[m.field], cmd = m.filters[m.field].Update(msg)
	return m, cmd
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.table.Blur()
		m.focus = focusFilters
		cmd := m.filters[m.field].Focus()
		return m, cmd
	case " ", "x":
		if id, ok := m.selectedID(); ok {
			m.app.Grid.Toggle(id)
			m.refresh(nil)
		}
		return m, nil
	case "e", "enter":
		if _, editing := m.app.Grid.Editing(); editing {
			m.focus = focusEdit
			m.openEditor(m.edited)
			cmd := m.editor.Focus()
			return m, cmd
		}
		return m, nil
	case "s":
		if err := m.app.Grid.RequestSave(); err == nil {
			m.focus = focusConfirm
		}
		return m, nil
	case "right", "l", "pgdown":
		return m, m.turnPage(1)
	case "left", "h", "pgup":
		return m, m.turnPage(-1)
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// turnPage asks for the neighbouring page. Nothing happens at the first and the last page.
func (m Model) turnPage(delta int) tea.Cmd {
	page := m.app.Grid.Page() + delta
	if page < 0 || page >= m.app.Grid.PageCount() {
		return nil
	}
	return m.run(func() error { return m.app.Grid.ChangePage(page) })
}

// selectedID returns the id of the row under the cursor.
func (m Model) selectedID() (int64, bool) {
	rows := m.app.Grid.Rows()
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(rows) {
		return 0, false
	}
	return rows[cursor].Id, true
}

// openEditor seeds the cell editor with the draft value of a field.
func (m *Model) openEditor(field int) {
	m.edited = field
	m.editor.Prompt = Label(model.Fields[field]) + ": "
	draft := m.app.Grid.Draft()
	m.editor.SetValue(draft.Get(model.Fields[field]))
	m.editor.CursorEnd()
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.app.Grid.Edit(model.Fields[m.edited], m.editor.Value())
		next := m.edited + 1
		if msg.String() == "shift+tab" {
			next = m.edited - 1 + len(model.Fields)
		}
		m.openEditor(next % len(model.Fields))
		m.refresh(nil)
		return m, nil
	case "enter":
		m.app.Grid.Edit(model.Fields[m.edited], m.editor.Value())
		m.editor.Blur()
		m.focus = focusGrid
		m.refresh(nil)
		return m, nil
	case "esc":
		m.editor.Blur()
		m.focus = focusGrid
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.focus = focusGrid
		return m, m.run(func() error { return m.app.Grid.Confirm(m.ctx, true) })
	case "n", "N", "esc":
		m.focus = focusGrid
		return m, m.run(func() error { return m.app.Grid.Confirm(m.ctx, false) })
	}
	return m, nil
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Contact-Search App"))
	b.WriteString("\n\n")

	for _, field := range m.app.Panel.VisibleFields() {
		for i, f := range model.Fields {
			if f == field {
				b.WriteString(labelStyle.Render(Label(field)) + " " + m.filters[i].View() + "\n")
			}
		}
	}
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")
	state := m.app.Coordinator.Snapshot()
	pageInfo := fmt.Sprintf("  page %d of %d, %d contacts", m.pager.Page+1, m.pager.TotalPages, state.Total)
	if state.Loading {
		pageInfo += " (loading)"
	}
	b.WriteString(m.pager.View() + pageInfo + "\n")

	switch m.focus {
	case focusEdit:
		b.WriteString(m.editor.View() + "\n")
	case focusConfirm:
		b.WriteString(confirmStyle.Render("Save changes to this contact? (y/n)") + "\n")
	}

	if m.status != "" {
		if m.isAlert {
			b.WriteString(alertStyle.Render(m.status) + "\n")
		} else {
			b.WriteString(m.status + "\n")
		}
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	switch m.focus {
	case focusFilters:
		more := "more filters"
		if len(m.app.Panel.VisibleFields()) > len(model.PrimaryFields) {
			more = "less filters"
		}
		help := "tab: next field • enter: search • ctrl+f: " + more + " • esc: results"
		if m.app.Panel.HasActiveFilter() {
			help += " • ctrl+r: reset"
		}
		return help
	case focusGrid:
		return "space: select row • e: edit cells • s: save • ←/→: page • /: filters • q: quit"
	case focusEdit:
		return "tab: next cell • enter: done • esc: discard cell"
	}
	return "y: save • n: cancel edit"
}

func contains(slice []string, str string) bool {
	for _, v := range slice {
		if v == str {
			return true
		}
	}
	return false
}
