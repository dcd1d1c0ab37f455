package transactions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ItemsColumn is the header of the column holding the comma-separated items.
	ItemsColumn = "Items"
	// IDColumn is the optional header of the transaction ID column.
	IDColumn = "TransactionID"
)

// ErrMissingItemsColumn is returned when a CSV header has no Items column.
var ErrMissingItemsColumn = errors.New("csv header has no " + ItemsColumn + " column")

// ReadRecords parses CSV content whose first row is a header containing an
// Items column. Each Items cell is split on commas and trimmed; the optional
// TransactionID column is kept as the record ID.
func ReadRecords(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingItemsColumn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	itemsIdx, idIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) {
		case ItemsColumn:
			itemsIdx = i
		case IDColumn:
			idIdx = i
		}
	}
	if itemsIdx < 0 {
		return nil, ErrMissingItemsColumn
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", line, err)
		}
		if itemsIdx >= len(row) {
			return nil, fmt.Errorf("csv row %d has %d fields, missing %s", line, len(row), ItemsColumn)
		}

		rec := Record{Items: SplitItems(row[itemsIdx])}
		if idIdx >= 0 && idIdx < len(row) {
			rec.ID = strings.TrimSpace(row[idIdx])
		}
		records = append(records, rec)
	}

	return records, nil
}

// ReadCSV parses CSV content into a Database with the given name.
func ReadCSV(r io.Reader, name string) (*Database, error) {
	records, err := ReadRecords(r)
	if err != nil {
		return nil, err
	}
	return NewDatabase(name, records), nil
}

// LoadCSVFile reads a CSV file into a Database named after the file.
func LoadCSVFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	db, err := ReadCSV(f, NameFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return db, nil
}

// WriteRecords writes records as CSV with a TransactionID,Items header.
func WriteRecords(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{IDColumn, ItemsColumn}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		if err := writer.Write([]string{rec.ID, strings.Join(rec.Items, ",")}); err != nil {
			return fmt.Errorf("failed to write transaction %s: %w", rec.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SplitItems splits a comma-separated items cell, trimming each item and
// dropping empty ones: "A,,B" yields [A B], not an empty third item.
func SplitItems(cell string) []string {
	parts := strings.Split(cell, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// NameFromPath derives a database name from a CSV path:
// "data/Amazon_transactions.csv" becomes "Amazon".
func NameFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimSuffix(base, "_transactions")
}
