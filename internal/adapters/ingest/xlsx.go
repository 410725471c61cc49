package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first sheet of a spreadsheet export. Some platforms
// only offer .xlsx downloads; the rows feed the same pipeline as CSV.
func parseXLSX(path string) (*ParsedFile, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &ParsedFile{SourcePath: path, BaseName: baseNameOf(path), Empty: true}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	return buildParsedFile(path, rows), nil
}
