package export

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/contactbook/internal/contact"
)

type staticList []contact.Contact

func (s staticList) List() ([]contact.Contact, error) { return s, nil }

var contacts = staticList{
	{Name: "Alice", Phone: "0123456789", Email: "alice@example.com", Address: "1 Main St, Springfield"},
	{Name: `Bob "Bobby" Jones`, Phone: "9876543210", Email: "bob@example.org", Address: "line one\nline two"},
}

func newExporter(t *testing.T, src Lister) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	return New(src, Options{
		CSVPath:  filepath.Join(dir, "contacts.csv"),
		XLSXPath: filepath.Join(dir, "contacts.xlsx"),
	}, slog.New(slog.DiscardHandler)), dir
}

func TestExportCSV(t *testing.T) {
	e, dir := newExporter(t, contacts)

	path, err := e.ExportCSV()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "contacts.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// CRLF mode also normalizes newlines inside quoted fields
	want := "Name,Phone,Email,Address\r\n" +
		"Alice,0123456789,alice@example.com,\"1 Main St, Springfield\"\r\n" +
		"\"Bob \"\"Bobby\"\" Jones\",9876543210,bob@example.org,\"line one\r\nline two\"\r\n"
	assert.Equal(t, want, string(data))
}

func TestExportCSV_Overwrites(t *testing.T) {
	e, _ := newExporter(t, contacts[:1])
	require.NoError(t, os.WriteFile(e.opts.CSVPath, []byte(strings.Repeat("old\n", 100)), 0644))

	_, err := e.ExportCSV()
	require.NoError(t, err)
	data, err := os.ReadFile(e.opts.CSVPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old")
}

func TestExportCSV_NoData(t *testing.T) {
	e, _ := newExporter(t, staticList{})

	_, err := e.ExportCSV()
	assert.ErrorIs(t, err, contact.ErrNoData)
	_, statErr := os.Stat(e.opts.CSVPath)
	assert.True(t, os.IsNotExist(statErr), "no file is written")
}

func TestExportXLSX(t *testing.T) {
	e, _ := newExporter(t, contacts)

	path, err := e.ExportXLSX()
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Contacts"}, f.GetSheetList())
	rows, err := f.GetRows("Contacts")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, contact.Header, rows[0])
	assert.Equal(t, contacts[0].Row(), rows[1])
	assert.Equal(t, "0123456789", rows[1][1], "leading zero kept")
}

func TestExportXLSX_NoData(t *testing.T) {
	e, _ := newExporter(t, staticList{})
	_, err := e.ExportXLSX()
	assert.ErrorIs(t, err, contact.ErrNoData)
	_, statErr := os.Stat(e.opts.XLSXPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_Format(t *testing.T) {
	e, _ := newExporter(t, contacts)

	path, err := e.Export(FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, e.opts.XLSXPath, path)

	_, err = e.Export("pdf")
	assert.Error(t, err)
}
