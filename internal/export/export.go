// Package export writes the contact collection to tabular files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/contactbook/internal/contact"
)

// Lister supplies the collection to export. *contact.Service satisfies it.
type Lister interface {
	List() ([]contact.Contact, error)
}

type Options struct {
	CSVPath  string
	XLSXPath string
	Sheet    string
}

// Exporter writes the current collection to fixed output paths,
// overwriting whatever is there.
type Exporter struct {
	src    Lister
	opts   Options
	logger *slog.Logger
}

func New(src Lister, opts Options, logger *slog.Logger) *Exporter {
	if opts.Sheet == "" {
		opts.Sheet = "Contacts"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{src: src, opts: opts, logger: logger}
}

// Format is an export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Export writes the collection in format and returns the written path.
func (e *Exporter) Export(format Format) (string, error) {
	switch format {
	case FormatCSV, "":
		return e.ExportCSV()
	case FormatXLSX:
		return e.ExportXLSX()
	}
	return "", fmt.Errorf("unknown export format %q (must be csv or xlsx)", format)
}

// ExportCSV writes a Name,Phone,Email,Address header and one row per
// contact. It fails with ErrNoData, writing nothing, when the collection
// is empty.
func (e *Exporter) ExportCSV() (string, error) {
	contacts, err := e.load()
	if err != nil {
		return "", err
	}

	f, err := os.Create(e.opts.CSVPath)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %w", contact.ErrIO, e.opts.CSVPath, err)
	}
	if err := WriteCSV(f, contacts); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: write %s: %w", contact.ErrIO, e.opts.CSVPath, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", contact.ErrIO, e.opts.CSVPath, err)
	}

	e.logger.Info("contacts exported", "format", FormatCSV, "path", e.opts.CSVPath, "count", len(contacts))
	return e.opts.CSVPath, nil
}

// WriteCSV writes contacts as CSV with CRLF record terminators.
func WriteCSV(w io.Writer, contacts []contact.Contact) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(contact.Header); err != nil {
		return err
	}
	for _, c := range contacts {
		if err := cw.Write(c.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX writes the same table as ExportCSV to a single-sheet workbook.
// Every cell is a string so phone numbers keep their leading zeros.
func (e *Exporter) ExportXLSX() (string, error) {
	contacts, err := e.load()
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := e.opts.Sheet
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return "", fmt.Errorf("export xlsx: %w", err)
	}
	if err := writeRow(f, sheet, 1, contact.Header); err != nil {
		return "", err
	}
	for i, c := range contacts {
		if err := writeRow(f, sheet, i+2, c.Row()); err != nil {
			return "", err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("export xlsx: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return "", fmt.Errorf("export xlsx: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "D", 28); err != nil {
		return "", fmt.Errorf("export xlsx: %w", err)
	}

	if err := f.SaveAs(e.opts.XLSXPath); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", contact.ErrIO, e.opts.XLSXPath, err)
	}

	e.logger.Info("contacts exported", "format", FormatXLSX, "path", e.opts.XLSXPath, "count", len(contacts))
	return e.opts.XLSXPath, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	return nil
}

func (e *Exporter) load() ([]contact.Contact, error) {
	contacts, err := e.src.List()
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, contact.ErrNoData
	}
	return contacts, nil
}
