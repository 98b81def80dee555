package sales

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ParseUpload parses the raw bytes of an uploaded spreadsheet into a
// RawTable, branching on the filename suffix: .csv, .xlsx or legacy
// .xls. The first non-empty row is the header.
func ParseUpload(data []byte, filename string) (RawTable, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return parseCSV(data)
	case strings.HasSuffix(lower, ".xlsx"):
		return parseXLSX(data)
	case strings.HasSuffix(lower, ".xls"):
		return parseXLS(data)
	default:
		return RawTable{}, fmt.Errorf("unsupported file type: %s", filename)
	}
}

func parseCSV(data []byte) (RawTable, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	return tableFromRows(rows)
}

func parseXLSX(data []byte) (RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return RawTable{}, errors.New("no sheets found in Excel file")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to get rows: %w", err)
	}
	return tableFromRows(rows)
}

func parseXLS(data []byte) (RawTable, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to open xls file: %w", err)
	}
	sheet := book.GetSheet(0)
	if sheet == nil {
		return RawTable{}, errors.New("no sheets found in xls file")
	}
	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		var cells []string
		for j := 0; j <= row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return tableFromRows(rows)
}

// tableFromRows splits raw rows into header and data, skipping leading
// blank rows before the header.
func tableFromRows(rows [][]string) (RawTable, error) {
	start := 0
	for start < len(rows) && isBlankRow(rows[start]) {
		start++
	}
	if start >= len(rows) || len(rows) < start+2 {
		return RawTable{}, errors.New("file must have a header row and at least one data row")
	}
	headers := make([]string, len(rows[start]))
	for i, h := range rows[start] {
		headers[i] = strings.TrimSpace(h)
	}
	return RawTable{Headers: headers, Rows: rows[start+1:]}, nil
}
