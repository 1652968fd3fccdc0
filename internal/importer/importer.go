// Package importer reads note rows from spreadsheets.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/nihon-flash/internal/service"
)

const (
	columnTags     = "tags"
	columnMnemonic = "mnemonic"
)

var (
	ErrEmptySheet = errors.New("sheet has no header row")
	ErrBadHeader  = errors.New("invalid header row")
)

// ReadFile reads rows from an .xlsx or .csv file. For workbooks an empty
// sheet name selects the first sheet.
func ReadFile(path, sheet string) (*service.ImportSheet, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open csv file: %w", err)
		}
		defer file.Close()
		return ReadCSV(file)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, sheet)
}

// ReadWorkbook reads rows from an .xlsx stream.
func ReadWorkbook(r io.Reader, sheet string) (*service.ImportSheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, sheet)
}

// ReadCSV reads rows from a comma-separated stream with a header line.
func ReadCSV(r io.Reader) (*service.ImportSheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(records)
}

func readWorkbook(f *excelize.File, sheet string) (*service.ImportSheet, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows of sheet %q: %w", sheet, err)
	}
	return parseRows(rows)
}

// parseRows maps every row after the header to field values and keeps the
// field columns in header order. Line numbers are 1-based sheet rows; blank
// rows are skipped.
func parseRows(rows [][]string) (*service.ImportSheet, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	sheet := &service.ImportSheet{}
	header := make([]string, len(rows[0]))
	seen := make(map[string]bool, len(rows[0]))
	for i, cell := range rows[0] {
		name := strings.TrimSpace(cell)
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrBadHeader, i+1)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrBadHeader, name)
		}
		seen[key] = true

		switch key {
		case columnTags, columnMnemonic:
			header[i] = key
		default:
			header[i] = name
			sheet.Columns = append(sheet.Columns, name)
		}
	}

	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}

		ir := service.ImportRow{Line: i + 2, Values: make(map[string]string)}
		for col, cell := range row {
			if col >= len(header) {
				break
			}
			value := strings.TrimSpace(cell)
			switch header[col] {
			case columnTags:
				ir.Tags = splitTags(value)
			case columnMnemonic:
				if value != "" {
					ir.Mnemonic = &value
				}
			default:
				if value != "" {
					ir.Values[header[col]] = value
				}
			}
		}
		sheet.Rows = append(sheet.Rows, ir)
	}

	return sheet, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
