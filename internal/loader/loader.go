package loader

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"creditfeatures/internal/dataset"
	"creditfeatures/internal/errors"
)

// Cell values treated as missing in delimited inputs.
var missingTokens = map[string]bool{"": true, "NA": true, "N/A": true, "nan": true, "NaN": true}

// ReadTable loads a delimited tabular file into a Table. CSV and XLSX inputs
// are supported; the format is chosen by file extension. Column kinds are
// inferred per column: if every non-missing cell parses as a number the
// column is numeric, otherwise it is categorical.
func ReadTable(path, name string) (*dataset.Table, error) {
	rows, err := readRows(path, name)
	if err != nil {
		return nil, err
	}

	header := rows[0]
	data := rows[1:]

	slog.Info("loaded input table",
		slog.String("table", name),
		slog.String("path", path),
		slog.Int("rows", len(data)),
		slog.Int("columns", len(header)))

	return buildTable(name, header, data)
}

// readRows returns the raw string cells of a CSV or XLSX file, header first.
// A file without a header row is a parse error.
func readRows(path, name string) ([][]string, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSXRows(path, name)
	default:
		rows, err = readCSVRows(path, name)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.CodeParse, name, "input file has no header row")
	}
	return rows, nil
}

func readCSVRows(path, name string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingFileError(name, path, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.CodeParse, name, "malformed CSV input", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		// Strip a UTF-8 BOM if the producer added one for Excel.
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}
	return rows, nil
}

func readXLSXRows(path, name string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingFileError(name, path, err)
		}
		return nil, errors.Wrap(errors.CodeParse, name, "cannot open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.CodeParse, name, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.CodeParse, name, "cannot read sheet", err)
	}
	// Excel drops trailing empty cells; pad rows to header width.
	if len(rows) > 0 {
		width := len(rows[0])
		for i, row := range rows {
			for len(row) < width {
				row = append(row, "")
			}
			rows[i] = row
		}
	}
	return rows, nil
}

// buildTable infers column kinds and converts the raw cells.
func buildTable(name string, header []string, data [][]string) (*dataset.Table, error) {
	t := dataset.NewTable(name, len(data))

	for col, colName := range header {
		colName = strings.TrimSpace(colName)
		if colName == "" {
			return nil, errors.New(errors.CodeParse, name, fmt.Sprintf("column %d has an empty header", col))
		}

		numeric := true
		for _, row := range data {
			cell := cellAt(row, col)
			if missingTokens[cell] {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
				break
			}
		}

		if numeric {
			vals := make([]float64, len(data))
			for i, row := range data {
				cell := cellAt(row, col)
				if missingTokens[cell] {
					vals[i] = dataset.Missing()
					continue
				}
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, errors.NewParseError(name, i, colName, err)
				}
				vals[i] = v
			}
			if err := t.AddFloats(colName, vals); err != nil {
				return nil, err
			}
			continue
		}

		vals := make([]string, len(data))
		for i, row := range data {
			cell := cellAt(row, col)
			if !missingTokens[cell] {
				vals[i] = cell
			}
		}
		if err := t.AddStrings(colName, vals); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// headerIndex maps column names to positions and reports required columns
// that are absent as a single schema error.
func headerIndex(name string, header []string, required []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaError(name, missing)
	}
	return index, nil
}

// parseFloatCell converts one numeric cell, mapping missing tokens to NaN.
func parseFloatCell(name string, row int, column, cell string) (float64, error) {
	if missingTokens[cell] {
		return dataset.Missing(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, errors.NewParseError(name, row, column, err)
	}
	return v, nil
}

// parseKeyCell converts an applicant identifier cell; keys are mandatory.
func parseKeyCell(name string, row int, column, cell string) (int64, error) {
	v, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return 0, errors.NewParseError(name, row, column, err)
	}
	return v, nil
}
