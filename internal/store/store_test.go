package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/contactbook/internal/contact"
)

var sample = []contact.Contact{
	{Name: "Alice", Phone: "0123456789", Email: "alice@example.com", Address: "1 Main St, \"Apt\" <2>"},
	{Name: "Bob", Phone: "9876543210", Email: "bob@example.org", Address: ""},
	{Name: "Bob", Phone: "9876543210", Email: "bob@example.org", Address: ""},
	{Name: "Zoë", Phone: "5555555555", Email: "zoe@example.net", Address: "Straße 3"},
}

func quiet() Option { return WithLogger(slog.New(slog.DiscardHandler)) }

func TestLoad_MissingFile(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "contacts.json"), quiet())
	got, err := st.Load()
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))

	got, err := New(path, quiet()).Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad_MalformedIsEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"syntax":        `[{"name": "Alice",`,
		"object":        `{"name": "Alice"}`,
		"null":          `null`,
		"missing key":   `[{"name": "Alice", "phone": "0123456789", "email": "a@b.com"}]`,
		"non-string":    `[{"name": "Alice", "phone": 123, "email": "a@b.com", "address": ""}]`,
		"array of ints": `[1, 2, 3]`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "contacts.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))

			got, err := New(path, quiet()).Load()
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestLoad_TrustsStoredValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	body := `[{"name": "", "phone": "12", "email": "nope", "address": "x", "extra": true}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	got, err := New(path, quiet()).Load()
	require.NoError(t, err)
	assert.Equal(t, []contact.Contact{{Phone: "12", Email: "nope", Address: "x"}}, got)
}

func TestLoad_Quarantine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0644))

	st := New(path, quiet(), WithQuarantine(true))
	_, err := st.Load()
	require.NoError(t, err)
	_, err = st.Load()
	require.NoError(t, err)

	matches, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	kept, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, `{broken`, string(kept))
}

func TestLoad_ReadErrorIsIO(t *testing.T) {
	dir := t.TempDir()
	// a directory at the store path cannot be read as a file
	_, err := New(dir, quiet()).Load()
	assert.ErrorIs(t, err, contact.ErrIO)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nested", "contacts.json"), quiet())
	require.NoError(t, st.Save(sample))

	got, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	before, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	require.NoError(t, st.Save(got))
	after, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestSave_Format(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "contacts.json"), quiet())
	require.NoError(t, st.Save(sample[1:2]))

	data, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	want := "[\n" +
		"    {\n" +
		"        \"name\": \"Bob\",\n" +
		"        \"phone\": \"9876543210\",\n" +
		"        \"email\": \"bob@example.org\",\n" +
		"        \"address\": \"\"\n" +
		"    }\n" +
		"]\n"
	assert.Equal(t, want, string(data))
}

func TestSave_EmptyCollection(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "contacts.json"), quiet())
	require.NoError(t, st.Save(nil))

	data, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestSave_UnwritableIsIO(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.json")
	st := New(path, quiet())
	require.NoError(t, st.Save(sample[:1]))

	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	err := st.Save(sample)
	assert.ErrorIs(t, err, contact.ErrIO)

	got, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, sample[:1], got, "failed save leaves the previous content")
}

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(sample)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<2>`)
	assert.Contains(t, string(data), `Straße`)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}
