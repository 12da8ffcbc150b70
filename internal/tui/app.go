package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeanpaul/contactbook/internal/contact"
	"github.com/jeanpaul/contactbook/internal/export"
	"github.com/jeanpaul/contactbook/internal/render"
)

// Contacts is the part of contact.Service the TUI drives.
type Contacts interface {
	Add(name, phone, email, address string) (contact.Contact, error)
	List() ([]contact.Contact, error)
	Search(field, query string) ([]contact.Contact, error)
	Edit(index int, name, phone, email, address string) (contact.Contact, error)
	Delete(index int) (contact.Contact, error)
	Validator() contact.Validator
}

// Exporter writes the collection to a file and returns its path.
type Exporter interface {
	Export(format export.Format) (string, error)
}

type screen int

const (
	screenMenu screen = iota
	screenTable
	screenForm
)

const (
	msgBadPhone = "Invalid phone number. Please enter a valid 10-digit phone number."
	msgBadEmail = "Invalid email address. Please enter a valid email address."
)

var contactLabels = []string{"Name", "Phone", "Email", "Address"}

// Model is the interactive contact book.
type Model struct {
	width  int
	height int

	screen  screen
	pending action // which operation the open form belongs to
	editing int    // 1-based index chosen for edit, 0 while asking for it

	menu  MenuModel
	table table.Model
	form  form

	// snapshot of the collection shown while choosing an index
	contacts []contact.Contact

	status    string
	statusErr bool
	diff      string

	svc      Contacts
	exporter Exporter

	quitting bool
}

func NewModel(svc Contacts, exporter Exporter) Model {
	t := table.New(table.WithFocused(true), table.WithHeight(10))
	s := table.DefaultStyles()
	s.Header = s.Header.BorderForeground(DarkGreen).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(Black).Background(Green)
	t.SetStyles(s)

	return Model{
		menu:     NewMenuModel(),
		table:    t,
		svc:      svc,
		exporter: exporter,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width, msg.Height/2)
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(max(msg.Height/2, 5))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenTable:
			return m.updateTable(msg)
		case screenForm:
			return m.updateForm(msg)
		}
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "enter":
		return m.dispatch(m.menu.Selected())
	case "esc", "q":
		return m.quit()
	case "1", "2", "3", "4", "5", "6", "7", "8":
		n, _ := strconv.Atoi(key)
		return m.dispatch(action(n))
	}
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.screen = screenMenu
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenMenu
		return m, nil
	case "tab", "down":
		return m, m.form.next()
	case "shift+tab", "up":
		return m, m.form.prev()
	case "enter":
		if !m.form.last() {
			return m, m.form.next()
		}
		return m.submit()
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

// dispatch runs a menu action, opening a form when it needs input.
func (m Model) dispatch(a action) (tea.Model, tea.Cmd) {
	m.status, m.statusErr, m.diff = "", false, ""
	m.pending = a
	m.editing = 0

	switch a {
	case actionAdd:
		return m.openForm(contactLabels, nil)

	case actionView:
		contacts, err := m.svc.List()
		if err != nil {
			return m.fail(err)
		}
		if len(contacts) == 0 {
			return m.info("No contacts available.")
		}
		m.showTable(contacts)
		return m, nil

	case actionSearch:
		contacts, err := m.svc.List()
		if err != nil {
			return m.fail(err)
		}
		if len(contacts) == 0 {
			return m.info("No contacts available to search.")
		}
		return m.openForm([]string{"Search by (name/email/phone)", "Query"}, []string{"name", ""})

	case actionEdit, actionDelete:
		contacts, err := m.svc.List()
		if err != nil {
			return m.fail(err)
		}
		if len(contacts) == 0 {
			verb := "edit"
			if a == actionDelete {
				verb = "delete"
			}
			return m.info("No contacts available to " + verb + ".")
		}
		m.contacts = contacts
		m.setRows(contacts)
		return m.openForm([]string{"Contact number"}, []string{fmt.Sprintf("1-%d", len(contacts))})

	case actionExportCSV:
		return m.export(export.FormatCSV)

	case actionExportXLSX:
		return m.export(export.FormatXLSX)

	case actionExit:
		return m.quit()
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	switch m.pending {
	case actionAdd:
		name, phone, email, address := m.form.value(0), m.form.value(1), m.form.value(2), m.form.value(3)
		v := m.svc.Validator()
		if !contact.ValidatePhone(phone) {
			return m.reprompt(1, msgBadPhone)
		}
		if !v.ValidEmail(email) {
			return m.reprompt(2, msgBadEmail)
		}
		if _, err := m.svc.Add(name, phone, email, address); err != nil {
			return m.fail(err)
		}
		return m.info("Contact added successfully!")

	case actionSearch:
		field := strings.TrimSpace(m.form.value(0))
		if field == "" {
			field = string(contact.FieldName)
		}
		found, err := m.svc.Search(field, m.form.value(1))
		if errors.Is(err, contact.ErrInvalidField) {
			return m.reprompt(0, "Invalid search field. Use name, email or phone.")
		}
		if err != nil {
			return m.fail(err)
		}
		if len(found) == 0 {
			return m.info("No contacts found.")
		}
		m.showTable(found)
		return m, nil

	case actionEdit:
		if m.editing == 0 {
			idx, ok := m.chooseIndex()
			if !ok {
				return m.reprompt(0, "Invalid contact number.")
			}
			m.editing = idx
			cur := m.contacts[idx-1]
			return m.openForm(contactLabels, []string{cur.Name, cur.Phone, cur.Email, cur.Address})
		}
		return m.submitEdit()

	case actionDelete:
		idx, ok := m.chooseIndex()
		if !ok {
			return m.reprompt(0, "Invalid contact number.")
		}
		if _, err := m.svc.Delete(idx); err != nil {
			return m.fail(err)
		}
		return m.info("Contact deleted successfully!")
	}
	return m, nil
}

func (m Model) submitEdit() (tea.Model, tea.Cmd) {
	before := m.contacts[m.editing-1]
	after, err := m.svc.Edit(m.editing, m.form.value(0), m.form.value(1), m.form.value(2), m.form.value(3))
	var verr *contact.ValidationError
	if errors.As(err, &verr) {
		if verr.Field == contact.FieldPhone {
			return m.reprompt(1, msgBadPhone)
		}
		return m.reprompt(2, msgBadEmail)
	}
	if err != nil {
		return m.fail(err)
	}
	next, cmd := m.info("Contact updated successfully!")
	mm := next.(Model)
	mm.diff = render.Diff(before, after)
	return mm, cmd
}

// chooseIndex parses the 1-based number typed into the index form.
func (m Model) chooseIndex() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(m.form.value(0)))
	if err != nil || n < 1 || n > len(m.contacts) {
		return 0, false
	}
	return n, true
}

func (m Model) export(format export.Format) (tea.Model, tea.Cmd) {
	path, err := m.exporter.Export(format)
	if errors.Is(err, contact.ErrNoData) {
		return m.info("No contacts to export.")
	}
	if err != nil {
		return m.fail(err)
	}
	return m.info(fmt.Sprintf("Contacts exported to %s successfully!", path))
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m Model) openForm(labels, placeholders []string) (tea.Model, tea.Cmd) {
	m.form = newForm(labels, placeholders)
	m.screen = screenForm
	return m, m.form.inputs[0].Focus()
}

// reprompt keeps the form open, clears the rejected field and focuses it.
func (m Model) reprompt(field int, msg string) (tea.Model, tea.Cmd) {
	m.status, m.statusErr = msg, true
	m.form.inputs[field].SetValue("")
	return m, m.form.setFocus(field)
}

func (m Model) info(msg string) (tea.Model, tea.Cmd) {
	m.status, m.statusErr = msg, false
	m.screen = screenMenu
	return m, nil
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.status, m.statusErr = "Error: "+err.Error(), true
	m.screen = screenMenu
	return m, nil
}

func (m *Model) showTable(contacts []contact.Contact) {
	m.setRows(contacts)
	m.screen = screenTable
}

func (m *Model) setRows(contacts []contact.Contact) {
	width := max((m.width-10)/4, 12)
	cols := []table.Column{{Title: "#", Width: 4}}
	for _, h := range contact.Header {
		cols = append(cols, table.Column{Title: h, Width: width})
	}
	rows := make([]table.Row, 0, len(contacts))
	for i, c := range contacts {
		rows = append(rows, append(table.Row{strconv.Itoa(i + 1)}, c.Row()...))
	}
	// Columns first: SetRows renders against the current column set.
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var body string
	help := "↑/↓: move  •  enter: select  •  1-8: shortcut  •  esc: quit"
	switch m.screen {
	case screenMenu:
		body = m.menu.View()
	case screenTable:
		body = BoxStyle.Render(m.table.View())
		help = "↑/↓: scroll  •  esc: back"
	case screenForm:
		body = m.form.view()
		if m.pending == actionEdit || m.pending == actionDelete {
			body = lipgloss.JoinVertical(lipgloss.Left, BoxStyle.Render(m.table.View()), body)
		}
		if m.pending == actionEdit && m.editing > 0 {
			body += HelpStyle.Render("Leave a field empty to keep the current value.") + "\n"
		}
		help = "tab: next field  •  enter: confirm  •  esc: back"
	}

	parts := []string{BannerStyle.Render(Banner), body}
	if m.status != "" {
		style := SuccessStyle
		if m.statusErr {
			style = ErrorStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	if m.diff != "" {
		parts = append(parts, DiffStyle.Render(m.diff))
	}
	parts = append(parts, HelpStyle.Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
