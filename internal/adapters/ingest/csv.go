package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
)

// parseCSV reads one CSV export. Platform exports are often sloppy about
// quoting and trailing columns, so the reader is deliberately lenient.
func parseCSV(path string) (*ParsedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(bufio.NewReader(f))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read export %s: %w", path, err)
	}

	return buildParsedFile(path, all), nil
}

// buildParsedFile turns raw sheet rows into a ParsedFile, shared between the
// CSV and XLSX paths. The first row is always treated as a header; when it
// cannot be matched, the remaining rows get positional column assignment.
func buildParsedFile(path string, all [][]string) *ParsedFile {
	parsed := &ParsedFile{
		SourcePath: path,
		BaseName:   baseNameOf(path),
	}
	if len(all) == 0 {
		parsed.Empty = true
		return parsed
	}

	idx, ok := mapHeader(all[0])
	if !ok {
		idx = positionalIndex()
		parsed.Fallback = true
	}

	for _, cells := range all[1:] {
		if isRowEmpty(cells) {
			continue
		}
		parsed.Rows = append(parsed.Rows, rowFromCells(cells, idx))
	}
	if len(parsed.Rows) == 0 {
		parsed.Empty = true
	}
	return parsed
}
