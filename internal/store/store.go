// Package store persists the contact collection as a single pretty-printed
// JSON file. Every Save rewrites the whole file; there are no partial writes.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jeanpaul/contactbook/internal/contact"
	"github.com/jeanpaul/contactbook/internal/schema"
)

// fileSchema describes the persisted collection. Extra keys are tolerated
// and dropped on the next save.
var fileSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []string{"name", "phone", "email", "address"},
		"properties": map[string]any{
			"name":    map[string]any{"type": "string"},
			"phone":   map[string]any{"type": "string"},
			"email":   map[string]any{"type": "string"},
			"address": map[string]any{"type": "string"},
		},
	},
}

// Ensure File implements contact.Store
var _ contact.Store = (*File)(nil)

// File is a contact.Store backed by one JSON file.
type File struct {
	path       string
	quarantine bool
	schema     *schema.Validator
	logger     *slog.Logger
}

// Option configures a File store.
type Option func(*File)

// WithQuarantine keeps a copy of malformed file content next to the store
// before it is treated as empty.
func WithQuarantine(on bool) Option {
	return func(f *File) { f.quarantine = on }
}

func WithLogger(l *slog.Logger) Option {
	return func(f *File) {
		if l != nil {
			f.logger = l
		}
	}
}

// New returns a store for path. The file need not exist yet.
func New(path string, opts ...Option) *File {
	f := &File{
		path:   path,
		schema: schema.NewValidator(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the file this store reads and writes.
func (f *File) Path() string { return f.path }

// Load reads the collection. A missing, empty or malformed file yields an
// empty collection; any other read failure is an ErrIO.
func (f *File) Load() ([]contact.Contact, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []contact.Contact{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", contact.ErrIO, f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []contact.Contact{}, nil
	}

	contacts, err := f.decode(data)
	if err != nil {
		f.logger.Warn("contact file is malformed, treating it as empty", "path", f.path, "err", err)
		if f.quarantine {
			f.keepCorrupt(data)
		}
		return []contact.Contact{}, nil
	}
	return contacts, nil
}

// Decode parses data in the persisted format.
func Decode(data []byte) ([]contact.Contact, error) {
	return New("").decode(data)
}

func (f *File) decode(data []byte) ([]contact.Contact, error) {
	if err := f.schema.Validate(fileSchema, data); err != nil {
		return nil, err
	}
	var contacts []contact.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []contact.Contact{}
	}
	return contacts, nil
}

// Save overwrites the file with the full collection. The data goes to a
// temporary file in the same directory first, so a failed save leaves the
// previous content intact.
func (f *File) Save(contacts []contact.Contact) error {
	data, err := Encode(contacts)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", contact.ErrIO, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create %s: %w", contact.ErrIO, dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", contact.ErrIO, f.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", contact.ErrIO, f.path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", contact.ErrIO, f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: write %s: %w", contact.ErrIO, f.path, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("%w: write %s: %w", contact.ErrIO, f.path, err)
	}

	f.logger.Debug("contacts saved", "path", f.path, "count", len(contacts))
	return nil
}

// Encode renders contacts in the persisted format: a JSON array with
// four-space indentation and no HTML escaping.
func Encode(contacts []contact.Contact) ([]byte, error) {
	if contacts == nil {
		contacts = []contact.Contact{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(contacts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// keepCorrupt copies malformed content to <path>.corrupt-<uuid>. The name is
// derived from the content, so loading the same bad file twice writes one copy.
func (f *File) keepCorrupt(data []byte) {
	id := uuid.NewSHA1(uuid.NameSpaceOID, data)
	dst := fmt.Sprintf("%s.corrupt-%s", f.path, id)
	if _, err := os.Stat(dst); err == nil {
		return
	}
	if err := os.WriteFile(dst, data, 0600); err != nil {
		f.logger.Warn("could not keep a copy of the malformed contact file", "path", dst, "err", err)
		return
	}
	f.logger.Warn("kept a copy of the malformed contact file", "path", dst)
}
