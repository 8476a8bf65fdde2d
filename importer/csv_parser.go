package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// CSVConfig controls how a price list CSV is read
type CSVConfig struct {
	Delimiter     rune // field separator, ',' for the published lists
	SkipEmptyRows bool // drop rows whose cells are all blank
	MaxErrors     int  // abort after this many malformed records, 0 = unlimited
}

// DefaultCSVConfig returns the settings for the published price list files
func DefaultCSVConfig() CSVConfig {
	return CSVConfig{
		Delimiter:     ',',
		SkipEmptyRows: true,
		MaxErrors:     100,
	}
}

// ParsePriceCSVFile reads a price list CSV into raw rows with the default
// configuration.
func ParsePriceCSVFile(filePath string) ([][]string, error) {
	return ParsePriceCSVFileWithConfig(filePath, DefaultCSVConfig())
}

// ParsePriceCSVFileWithConfig reads a price list CSV into raw rows. Rows
// are returned untyped and untrimmed; normalization happens later against
// a key list.
func ParsePriceCSVFileWithConfig(filePath string, config CSVConfig) ([][]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	text, err := decodeCSVBytes(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = config.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	errorCount := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errorCount++
			if config.MaxErrors > 0 && errorCount >= config.MaxErrors {
				return nil, fmt.Errorf("too many malformed CSV records (%d): %w", errorCount, err)
			}
			continue
		}
		if config.SkipEmptyRows && isEmptyRow(record) {
			continue
		}
		rows = append(rows, record)
	}

	return rows, nil
}

// decodeCSVBytes converts file bytes to a UTF-8 string. Input that is not
// valid UTF-8 is decoded as Windows-1252, the other encoding the published
// lists have shipped with.
func decodeCSVBytes(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("failed to decode CSV as Windows-1252: %w", err)
	}
	return string(decoded), nil
}
