// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sheet reads identifier columns from spreadsheets and writes run
// reports. Files ending in .xlsx go through excelize; files ending in .csv
// are plain comma-separated text with a header row.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/pkg/types"
)

// Report column headers and sheet names.
const (
	ColumnIdentifier = types.DefaultIdentifierColumn
	ColumnError      = "Error"
	ColumnURL        = "PDF_URL"

	SheetFailures  = "Failed Entries"
	SheetSuccesses = "Successful Downloads"
)

// Format is a tabular file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ErrColumnMissing is returned when the header row lacks the requested column.
var ErrColumnMissing = errors.New("column not found")

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (want .xlsx or .csv)", filepath.Ext(path))
	}
}

// ReadIdentifiers loads the whole file at path and returns the values of
// column in row order, one entry per data row. The first row is the header.
// Cells are returned untrimmed; a row too short to reach the column yields "".
func ReadIdentifiers(path, column string) ([]string, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(path)
	case FormatCSV:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("reading %s: %w: %s (file is empty)", path, ErrColumnMissing, column)
	}

	col := -1
	for i, h := range rows[0] {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("reading %s: %w: %s", path, ErrColumnMissing, column)
	}

	ids := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if col < len(row) {
			ids = append(ids, row[col])
		} else {
			ids = append(ids, "")
		}
	}
	return ids, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Raw values keep long application numbers out of scientific notation.
	return f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
}

// WriteFailures writes one (APPLICATION_NUMBER, Error) row per outcome.
func WriteFailures(path string, outcomes []types.Outcome) error {
	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		rows[i] = []string{o.Identifier, o.Reason}
	}
	return writeTable(path, SheetFailures, []string{ColumnIdentifier, ColumnError}, rows)
}

// WriteSuccesses writes one (APPLICATION_NUMBER, PDF_URL) row per outcome.
func WriteSuccesses(path string, outcomes []types.Outcome) error {
	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		rows[i] = []string{o.Identifier, o.SourceURL}
	}
	return writeTable(path, SheetSuccesses, []string{ColumnIdentifier, ColumnURL}, rows)
}

// writeTable replaces the file at path with header followed by rows.
func writeTable(path, sheetName string, header []string, rows [][]string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	switch format {
	case FormatCSV:
		err = writeCSV(path, header, rows)
	default:
		err = writeXLSX(path, sheetName, header, rows)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeXLSX(path, sheetName string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}
	for i, row := range append([][]string{header}, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
