// Package workbook moves section tables in and out of Excel workbooks.
//
// Export writes one sheet per section, titled like the section, with the
// table columns as header. Import reads sheets with the same layout and
// feeds every row through the section's add form, so validation and clinic
// name resolution apply exactly as for manual entry.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"mediio-admin/internal/section"
	"mediio-admin/internal/store"
)

// IDHeader heads the first exported column. Import ignores it.
const IDHeader = "ID"

// ErrBusy is returned when a section has an open form or pending delete.
var ErrBusy = errors.New("workbook: section is busy")

// Export writes all rows of every section to w. Search queries are ignored.
func Export(w io.Writer, sections []section.Section) error {
	file := xlsx.NewFile()
	for _, sec := range sections {
		sheet, err := file.AddSheet(sec.Title())
		if err != nil {
			return fmt.Errorf("add sheet %s: %w", sec.Title(), err)
		}
		cols := sec.Columns()

		header := sheet.AddRow()
		header.AddCell().SetString(IDHeader)
		for _, col := range cols {
			header.AddCell().SetString(col.Title)
		}

		for _, r := range sec.AllRows() {
			row := sheet.AddRow()
			row.AddCell().SetString(r.ID)
			for _, col := range cols {
				row.AddCell().SetString(r.Values[col.Key])
			}
		}
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ImportOptions tunes Import.
type ImportOptions struct {
	// DryRun validates rows without saving them.
	DryRun bool
	// MaxErrors aborts the import once exceeded. Defaults to 50.
	MaxErrors int
}

// RowError describes a rejected row. Row is 1-based like in Excel.
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type SheetSummary struct {
	Name     string     `json:"name"`
	Section  string     `json:"section"`
	Inserted int        `json:"inserted"`
	Skipped  int        `json:"skipped"`
	Errors   int        `json:"errors"`
	Warnings int        `json:"warnings"`
	Samples  []RowError `json:"samples,omitempty"`
}

type Summary struct {
	Sheets   []SheetSummary `json:"sheets"`
	Inserted int            `json:"inserted"`
	Skipped  int            `json:"skipped"`
	Errors   int            `json:"errors"`
	Warnings int            `json:"warnings"`
	DryRun   bool           `json:"dry_run"`
}

const maxSamples = 10

// Import reads the workbook from r and adds its rows to the matching
// sections. Sheets that match no section title are skipped.
func Import(ctx context.Context, r io.Reader, sections []section.Section, opts ImportOptions) (Summary, error) {
	summary := Summary{DryRun: opts.DryRun}
	if opts.MaxErrors == 0 {
		opts.MaxErrors = 50
	}

	// xlsx needs random access, so read everything first
	data, err := io.ReadAll(r)
	if err != nil {
		return summary, fmt.Errorf("failed to read Excel file: %w", err)
	}
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return summary, fmt.Errorf("failed to open Excel file: %w", err)
	}

	for _, sheet := range xlFile.Sheets {
		sec := match(sheet.Name, sections)
		if sec == nil {
			continue
		}
		if sec.State() != section.Browsing {
			return summary, fmt.Errorf("%w: %s", ErrBusy, sec.Name())
		}

		ss, err := processSheet(ctx, sheet, sec, opts)
		summary.Sheets = append(summary.Sheets, ss)
		summary.Inserted += ss.Inserted
		summary.Skipped += ss.Skipped
		summary.Errors += ss.Errors
		summary.Warnings += ss.Warnings
		if err != nil {
			return summary, err
		}

		if summary.Errors > opts.MaxErrors {
			return summary, fmt.Errorf("too many errors (%d), stopping import", summary.Errors)
		}
	}
	return summary, nil
}

func match(sheetName string, sections []section.Section) section.Section {
	name := strings.TrimSpace(sheetName)
	for _, sec := range sections {
		if strings.EqualFold(name, sec.Title()) || strings.EqualFold(name, sec.Name()) {
			return sec
		}
	}
	return nil
}

// headerKeys maps upper-cased header texts to form field keys. A header may
// name the field key, its form label or the matching table column title.
func headerKeys(sec section.Section) map[string]string {
	keys := make(map[string]string)
	fields := make(map[string]bool)
	for _, f := range sec.Fields() {
		fields[f.Key] = true
		keys[strings.ToUpper(f.Key)] = f.Key
		keys[strings.ToUpper(f.Label)] = f.Key
	}
	for _, col := range sec.Columns() {
		if fields[col.Key] {
			keys[strings.ToUpper(col.Title)] = col.Key
		}
	}
	return keys
}

// processSheet imports the data rows of one sheet. It only fails when the
// section stops accepting rows, e.g. because an operator opened its form.
func processSheet(ctx context.Context, sheet *xlsx.Sheet, sec section.Section, opts ImportOptions) (SheetSummary, error) {
	summary := SheetSummary{Name: sheet.Name, Section: sec.Name()}
	sample := func(row int, msg string) {
		if len(summary.Samples) < maxSamples {
			summary.Samples = append(summary.Samples, RowError{Sheet: sheet.Name, Row: row, Message: msg})
		}
	}

	headerRow, err := sheet.Row(0)
	if err != nil {
		summary.Errors++
		sample(1, "Failed to read header row: "+err.Error())
		return summary, nil
	}

	known := headerKeys(sec)
	colKeys := make(map[int]string)
	for colIdx := 0; colIdx < sheet.MaxCol; colIdx++ {
		name := strings.ToUpper(strings.TrimSpace(headerRow.GetCell(colIdx).String()))
		if key, ok := known[name]; ok {
			colKeys[colIdx] = key
		}
	}
	if len(colKeys) == 0 {
		summary.Errors++
		sample(1, "no known columns in header row")
		return summary, nil
	}

	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		row, err := sheet.Row(rowIdx)
		if err != nil {
			break
		}

		values := make(map[string]string, len(colKeys))
		empty := true
		for colIdx, key := range colKeys {
			v := strings.TrimSpace(row.GetCell(colIdx).String())
			values[key] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			summary.Skipped++
			continue
		}

		warnings, err := importRow(ctx, sec, values, opts.DryRun)
		if err != nil {
			if errors.Is(err, section.ErrInvalidState) {
				return summary, fmt.Errorf("%w: %s", ErrBusy, sec.Name())
			}
			var verr *validationError
			if errors.As(err, &verr) {
				summary.Errors++
				sample(rowIdx+1, verr.Error())
				continue
			}
			if errors.Is(err, store.ErrPersist) {
				// stored in memory, just not on disk yet
				summary.Inserted++
				summary.Warnings++
				sample(rowIdx+1, err.Error())
				continue
			}
			summary.Errors++
			sample(rowIdx+1, err.Error())
			continue
		}
		summary.Inserted++
		for _, w := range warnings {
			summary.Warnings++
			sample(rowIdx+1, w)
		}
	}
	return summary, nil
}

type validationError struct {
	errs section.Errors
}

func (e *validationError) Error() string {
	parts := make([]string, 0, len(e.errs))
	for k, msg := range e.errs {
		parts = append(parts, k+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// importRow feeds values through the add form. The returned warnings name
// clinic lists that lost entries during name resolution.
func importRow(ctx context.Context, sec section.Section, values map[string]string, dryRun bool) ([]string, error) {
	if err := sec.OpenAdd(); err != nil {
		return nil, err
	}
	for key, v := range values {
		if err := sec.SetField(key, v); err != nil {
			sec.Cancel()
			return nil, err
		}
	}
	warnings := unresolvedClinics(sec, values)

	if dryRun {
		errs := sec.Validate()
		sec.Cancel()
		if len(errs) > 0 {
			return nil, &validationError{errs: errs}
		}
		return warnings, nil
	}
	res, err := sec.Save(ctx)
	if errors.Is(err, section.ErrValidation) {
		sec.Cancel()
		return nil, &validationError{errs: res.Errors}
	}
	return warnings, err
}

// unresolvedClinics compares every clinic list cell with what the open form
// kept after resolution.
func unresolvedClinics(sec section.Section, values map[string]string) []string {
	var warnings []string
	form := sec.Form()
	for _, f := range sec.Fields() {
		if !f.ClinicList {
			continue
		}
		named := countNames(values[f.Key])
		kept := countNames(form.Values[f.Key])
		if kept < named {
			warnings = append(warnings, fmt.Sprintf("%s: %d of %d clinic names did not match exactly one clinic and were dropped", f.Key, named-kept, named))
		}
	}
	return warnings
}

func countNames(list string) int {
	n := 0
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}
