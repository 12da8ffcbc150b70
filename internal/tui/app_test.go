package tui

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/contactbook/internal/contact"
	"github.com/jeanpaul/contactbook/internal/export"
	"github.com/jeanpaul/contactbook/internal/store"
)

type harness struct {
	t   *testing.T
	m   Model
	svc *contact.Service
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)
	st := store.New(filepath.Join(dir, "contacts.json"), store.WithLogger(logger))
	svc := contact.NewService(st, contact.WithLogger(logger))
	exp := export.New(svc, export.Options{
		CSVPath:  filepath.Join(dir, "contacts.csv"),
		XLSXPath: filepath.Join(dir, "contacts.xlsx"),
		Sheet:    "Contacts",
	}, logger)

	h := &harness{t: t, m: NewModel(svc, exp), svc: svc, dir: dir}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	next, _ := h.m.Update(msg)
	h.m = next.(Model)
}

func (h *harness) key(s string) {
	h.t.Helper()
	switch s {
	case "enter":
		h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "down":
		h.send(tea.KeyMsg{Type: tea.KeyDown})
	default:
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
}

// fill types each value into the focused field and confirms it.
func (h *harness) fill(values ...string) {
	h.t.Helper()
	for _, v := range values {
		if v != "" {
			h.key(v)
		}
		h.key("enter")
	}
}

func (h *harness) list() []contact.Contact {
	h.t.Helper()
	contacts, err := h.svc.List()
	require.NoError(h.t, err)
	return contacts
}

func TestAddContact(t *testing.T) {
	h := newHarness(t)

	h.key("1")
	require.Equal(t, screenForm, h.m.screen)
	h.fill("Alice", "0123456789", "alice@example.com", "1 Main St")

	assert.Equal(t, screenMenu, h.m.screen)
	assert.Equal(t, "Contact added successfully!", h.m.status)
	assert.Equal(t, []contact.Contact{{Name: "Alice", Phone: "0123456789", Email: "alice@example.com", Address: "1 Main St"}}, h.list())
}

func TestAddRepromptsInvalidPhone(t *testing.T) {
	h := newHarness(t)

	h.key("1")
	h.fill("Alice", "12345", "alice@example.com", "1 Main St")

	assert.Equal(t, screenForm, h.m.screen)
	assert.Equal(t, msgBadPhone, h.m.status)
	assert.True(t, h.m.statusErr)
	assert.Equal(t, 1, h.m.form.focus)
	assert.Empty(t, h.m.form.value(1))
	assert.Empty(t, h.list())

	// Phone again, then through email and address which keep their values.
	h.fill("0123456789", "", "")
	assert.Equal(t, "Contact added successfully!", h.m.status)
	require.Len(t, h.list(), 1)
	assert.Equal(t, "1 Main St", h.list()[0].Address)
}

func TestAddRepromptsInvalidEmail(t *testing.T) {
	h := newHarness(t)

	h.key("1")
	h.fill("Bob", "0123456789", "not-an-email", "")

	assert.Equal(t, msgBadEmail, h.m.status)
	assert.Equal(t, 2, h.m.form.focus)
	assert.Empty(t, h.list())
}

func TestViewContacts(t *testing.T) {
	h := newHarness(t)

	h.key("2")
	assert.Equal(t, screenMenu, h.m.screen)
	assert.Equal(t, "No contacts available.", h.m.status)

	_, err := h.svc.Add("Alice", "0123456789", "alice@example.com", "")
	require.NoError(t, err)

	h.key("2")
	require.Equal(t, screenTable, h.m.screen)
	rows := h.m.table.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0][0])
	assert.Equal(t, "Alice", rows[0][1])
	assert.Contains(t, h.m.View(), "Alice")

	h.key("esc")
	assert.Equal(t, screenMenu, h.m.screen)
}

func TestSearch(t *testing.T) {
	h := newHarness(t)

	h.key("3")
	assert.Equal(t, "No contacts available to search.", h.m.status)

	_, err := h.svc.Add("Alice", "0123456789", "alice@example.com", "")
	require.NoError(t, err)
	_, err = h.svc.Add("Bob", "9876543210", "bob@example.org", "")
	require.NoError(t, err)

	h.key("3")
	h.fill("email", "EXAMPLE.ORG")
	require.Equal(t, screenTable, h.m.screen)
	require.Len(t, h.m.table.Rows(), 1)
	assert.Equal(t, "Bob", h.m.table.Rows()[0][1])

	h.key("esc")
	h.key("3")
	h.fill("address", "x")
	assert.Equal(t, screenForm, h.m.screen)
	assert.Equal(t, 0, h.m.form.focus)
	assert.True(t, h.m.statusErr)

	h.fill("phone", "555")
	assert.Equal(t, screenMenu, h.m.screen)
	assert.Equal(t, "No contacts found.", h.m.status)
}

func TestEditKeepsBlankFields(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Add("Alice", "0123456789", "alice@example.com", "1 Main St")
	require.NoError(t, err)

	h.key("4")
	h.fill("7")
	assert.Equal(t, "Invalid contact number.", h.m.status)

	h.fill("1")
	require.Equal(t, 1, h.m.editing)
	h.fill("", "", "", "2 High St")

	assert.Equal(t, "Contact updated successfully!", h.m.status)
	assert.Contains(t, h.m.diff, "+Address: 2 High St")
	assert.Equal(t, []contact.Contact{{Name: "Alice", Phone: "0123456789", Email: "alice@example.com", Address: "2 High St"}}, h.list())
}

func TestEditRepromptsInvalidPhone(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Add("Alice", "0123456789", "alice@example.com", "")
	require.NoError(t, err)

	h.key("4")
	h.fill("1")
	h.fill("", "12", "", "")

	assert.Equal(t, msgBadPhone, h.m.status)
	assert.Equal(t, 1, h.m.form.focus)
	assert.Equal(t, "0123456789", h.list()[0].Phone)
}

func TestDelete(t *testing.T) {
	h := newHarness(t)

	h.key("5")
	assert.Equal(t, "No contacts available to delete.", h.m.status)

	_, err := h.svc.Add("Alice", "0123456789", "alice@example.com", "")
	require.NoError(t, err)
	_, err = h.svc.Add("Bob", "9876543210", "bob@example.org", "")
	require.NoError(t, err)

	h.key("5")
	h.fill("abc")
	assert.Equal(t, "Invalid contact number.", h.m.status)
	h.fill("1")

	assert.Equal(t, "Contact deleted successfully!", h.m.status)
	contacts := h.list()
	require.Len(t, contacts, 1)
	assert.Equal(t, "Bob", contacts[0].Name)
}

func TestExport(t *testing.T) {
	h := newHarness(t)

	h.key("6")
	assert.Equal(t, "No contacts to export.", h.m.status)

	_, err := h.svc.Add("Alice", "0123456789", "alice@example.com", "")
	require.NoError(t, err)

	h.key("6")
	assert.Contains(t, h.m.status, "contacts.csv")
	assert.FileExists(t, filepath.Join(h.dir, "contacts.csv"))

	h.key("7")
	assert.Contains(t, h.m.status, "contacts.xlsx")
	info, err := os.Stat(filepath.Join(h.dir, "contacts.xlsx"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestMenuNavigation(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, actionAdd, h.m.menu.Selected())
	h.key("down")
	assert.Equal(t, actionView, h.m.menu.Selected())

	h.key("enter")
	assert.Equal(t, "No contacts available.", h.m.status)

	h.key("1")
	h.key("esc")
	assert.Equal(t, screenMenu, h.m.screen)
	assert.False(t, h.m.quitting)

	h.key("8")
	assert.True(t, h.m.quitting)
	assert.Empty(t, h.m.View())
}
