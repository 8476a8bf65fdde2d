package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseWorkbookFile opens an Excel workbook and returns the raw rows of
// its first sheet. Price, history and store files all use this reader;
// which columns mean what is decided by the import type downstream.
func ParseWorkbookFile(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in workbook")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	return rows, nil
}

// isEmptyRow reports whether every cell in the row is blank
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
