package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
)

// ErrNoTable is returned when a source yields no usable table.
var ErrNoTable = errors.New("source: no table found")

// RecognizedColumns is the canonical column list. Columns outside this list
// are ignored; recognized columns missing from the file are excluded from
// processing without error. Availability is checked once per load, not per
// row.
var RecognizedColumns = []string{
	"title",
	"property_type",
	"cleaned_property_type",
	"address",
	"address_detail",
	"city",
	"area",
	"cleaned_area",
	"bedroom",
	"bathroom",
	"guest_number",
	"price_info",
	"property_status",
	"tags",
	"image_url",
	"price",
}

// LoadFile reads a table from a local .xlsx or .csv file.
func LoadFile(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadExcel(f)
	case ".csv":
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported table format: %s", filepath.Ext(path))
	}
}

// ReadExcel parses the first sheet of an xlsx workbook. The first row is the
// header.
func ReadExcel(r io.Reader) (*models.Table, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse xlsx: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoTable
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return fromRows(rows)
}

// ReadCSV parses a comma-separated table. The first row is the header.
func ReadCSV(r io.Reader) (*models.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return fromRows(rows)
}

// ReadBytes parses an in-memory xlsx payload, as delivered by the Drive
// fetcher.
func ReadBytes(data []byte) (*models.Table, error) {
	return ReadExcel(bytes.NewReader(data))
}

func fromRows(rows [][]string) (*models.Table, error) {
	if len(rows) == 0 {
		return nil, ErrNoTable
	}

	header := rows[0]
	recognized := make(map[string]bool, len(RecognizedColumns))
	for _, col := range RecognizedColumns {
		recognized[col] = true
	}

	// Map header position -> canonical column name, keeping only recognized
	// columns and preserving the canonical order for Table.Columns.
	colByPos := make(map[int]string, len(header))
	present := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		name = strings.ReplaceAll(name, " ", "_")
		if recognized[name] && !present[name] {
			colByPos[i] = name
			present[name] = true
		}
	}

	var columns []string
	for _, col := range RecognizedColumns {
		if present[col] {
			columns = append(columns, col)
		}
	}

	table := &models.Table{Columns: columns}
	for _, row := range rows[1:] {
		cells := make(map[string]string, len(columns))
		for i, pos := range row {
			if col, ok := colByPos[i]; ok {
				cells[col] = pos
			}
		}
		// Skip fully empty rows, a common artifact of exported spreadsheets.
		empty := true
		for _, v := range cells {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, cells)
	}

	return table, nil
}
