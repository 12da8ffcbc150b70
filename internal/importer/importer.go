// Package importer reads contacts back from CSV, XLSX and JSON files so
// they can be appended to the collection.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/contactbook/internal/contact"
	"github.com/jeanpaul/contactbook/internal/store"
)

// ErrNoColumns is returned when a table header names none of the contact fields.
var ErrNoColumns = errors.New("no name, phone, email or address column in header")

// Expand resolves glob patterns (including **) to a sorted, de-duplicated
// list of files. A pattern that matches nothing is an error.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(p); err != nil {
				return nil, fmt.Errorf("no files match %q", p)
			}
			matches = []string{p}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	slices.Sort(files)
	return files, nil
}

// ReadFile reads contacts from path, choosing the parser by extension.
func ReadFile(path string) ([]contact.Contact, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		cs, err := ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return cs, nil
	case ".xlsx":
		return readExcel(path)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		cs, err := store.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return cs, nil
	}
	return nil, fmt.Errorf("%s: unsupported file type (want .csv, .xlsx or .json)", path)
}

// ReadAll reads every file in order and concatenates the results.
func ReadAll(paths []string) ([]contact.Contact, error) {
	var all []contact.Contact
	for _, p := range paths {
		cs, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		all = append(all, cs...)
	}
	return all, nil
}

// ReadCSV reads a table whose first record is a header.
func ReadCSV(r io.Reader) ([]contact.Contact, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

// readExcel reads the first sheet of a workbook.
func readExcel(path string) ([]contact.Contact, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: sheet %s: %w", path, sheets[0], err)
	}
	cs, err := fromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cs, nil
}

// fromRows maps rows to contacts using the header in rows[0]. Header names
// match case-insensitively; missing columns and short rows give empty values.
func fromRows(rows [][]string) ([]contact.Contact, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	found := false
	for _, k := range []string{"name", "phone", "email", "address"} {
		if _, ok := cols[k]; ok {
			found = true
		}
	}
	if !found {
		return nil, ErrNoColumns
	}

	cell := func(row []string, key string) string {
		i, ok := cols[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var cs []contact.Contact
	for _, row := range rows[1:] {
		c := contact.Contact{
			Name:    cell(row, "name"),
			Phone:   cell(row, "phone"),
			Email:   cell(row, "email"),
			Address: cell(row, "address"),
		}
		if c == (contact.Contact{}) {
			continue
		}
		cs = append(cs, c)
	}
	return cs, nil
}
