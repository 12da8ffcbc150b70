package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/contactbook/internal/contact"
)

var alice = contact.Contact{Name: "Alice", Phone: "0123456789", Email: "alice@example.com", Address: "1 Main St"}

func TestTable(t *testing.T) {
	got := Table([]contact.Contact{alice}, false)
	want := "| Name | Phone | Email | Address |\n" +
		"| --- | --- | --- | --- |\n" +
		"| Alice | 0123456789 | alice@example.com | 1 Main St |\n"
	assert.Equal(t, want, got)
}

func TestTable_Numbered(t *testing.T) {
	bob := contact.Contact{Name: "Bob | Jr", Address: "a\nb"}
	got := Table([]contact.Contact{alice, bob}, true)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| # | Name | Phone | Email | Address |", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "| 1 | Alice |"))
	assert.Equal(t, `| 2 | Bob \| Jr |  |  | a b |`, lines[3])
}

func TestTable_DoesNotMutateHeader(t *testing.T) {
	Table(nil, true)
	assert.Equal(t, []string{"Name", "Phone", "Email", "Address"}, contact.Header)
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown(Table([]contact.Contact{alice}, true), 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "alice@example.com")
}

func TestDiff(t *testing.T) {
	after := alice
	after.Address = "2 High St"

	d := Diff(alice, after)
	assert.Contains(t, d, "--- before")
	assert.Contains(t, d, "+++ after")
	assert.Contains(t, d, "-Address: 1 Main St")
	assert.Contains(t, d, "+Address: 2 High St")
	assert.NotContains(t, d, "-Name")

	assert.Empty(t, Diff(alice, alice))
}
