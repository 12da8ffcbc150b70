package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// action identifies a main menu entry.
type action int

const (
	actionAdd action = iota + 1
	actionView
	actionSearch
	actionEdit
	actionDelete
	actionExportCSV
	actionExportXLSX
	actionExit
)

type item struct {
	title, desc string
	action      action
}

func (i item) Title() string       { return strconv.Itoa(int(i.action)) + ". " + i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

type MenuModel struct {
	list list.Model
}

func NewMenuModel() MenuModel {
	items := []list.Item{
		item{title: "Add Contact", desc: "Create a new contact", action: actionAdd},
		item{title: "View Contacts", desc: "List every contact", action: actionView},
		item{title: "Search Contact", desc: "Find by name, email or phone", action: actionSearch},
		item{title: "Edit Contact", desc: "Change a contact by its number", action: actionEdit},
		item{title: "Delete Contact", desc: "Remove a contact by its number", action: actionDelete},
		item{title: "Export to CSV", desc: "Write all contacts to a CSV file", action: actionExportCSV},
		item{title: "Export to XLSX", desc: "Write all contacts to a spreadsheet", action: actionExportXLSX},
		item{title: "Exit", desc: "Quit the contact book", action: actionExit},
	}

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(Green).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(Green).PaddingLeft(1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.Foreground(DimGreen)

	l := list.New(items, d, 40, 20)
	l.Title = "Contact Book"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = lipgloss.NewStyle().Foreground(Green).Bold(true).MarginLeft(2)

	return MenuModel{list: l}
}

// Selected returns the highlighted action.
func (m MenuModel) Selected() action {
	if it, ok := m.list.SelectedItem().(item); ok {
		return it.action
	}
	return 0
}

func (m *MenuModel) SetSize(w, h int) { m.list.SetSize(w, h) }

func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m MenuModel) View() string {
	return m.list.View()
}
