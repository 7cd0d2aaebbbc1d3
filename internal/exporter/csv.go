package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"creditfeatures/internal/dataset"
)

// CSVWriter persists feature tables as CSV files.
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 BOM so Excel recognises the encoding.
	BOMPrefix bool
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{BOMPrefix: true}
}

// WriteTable writes the table to the given path. The file is written to a
// temporary sibling first and renamed into place, so a failed run never
// leaves a partial output file behind.
func (w *CSVWriter) WriteTable(path string, t *dataset.Table) error {
	slog.Info("writing feature table",
		slog.String("table", t.Name()),
		slog.String("path", path),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumCols()))

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := w.writeFile(tmp, t); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize output: %w", err)
	}
	return nil
}

func (w *CSVWriter) writeFile(path string, t *dataset.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if w.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, t.NumCols())
	for row := 0; row < t.NumRows(); row++ {
		for col, name := range t.ColumnNames() {
			record[col] = formatCell(t.Column(name), row)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", row, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatCell renders one cell. Missing numeric and categorical values render
// as empty cells.
func formatCell(c *dataset.Column, row int) string {
	switch c.Kind {
	case dataset.KindFloat:
		v := c.Floats[row]
		if dataset.IsMissing(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case dataset.KindString:
		return c.Strings[row]
	default:
		return strconv.FormatBool(c.Bools[row])
	}
}
