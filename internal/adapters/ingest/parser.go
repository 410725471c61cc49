package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"anklebreaker/internal/domain/session"
)

// Row is one registrant line from a source export, before classification.
// The last three fields are only present when re-ingesting a table this
// engine already wrote.
type Row struct {
	Name          string
	Email         string
	Phone         string
	RawStatus     string
	RegisteredAt  string
	Notes         string
	DefaultStatus string
	CurrentStatus string
	ReviewerNote  string
}

// ParsedFile is the outcome of parsing one source export.
type ParsedFile struct {
	SourcePath string
	BaseName   string // extension and flag suffix stripped
	Rows       []Row
	Empty      bool

	// Fallback is true when the header row could not be matched against the
	// known column aliases and positional assignment was used instead.
	Fallback bool
}

// Parser reads registration exports into rows.
type Parser interface {
	Parse(path string) (*ParsedFile, error)
}

// SourceParser dispatches on file extension: .csv exports and .xlsx
// spreadsheet exports.
type SourceParser struct{}

// NewSourceParser builds the default parser.
func NewSourceParser() *SourceParser {
	return &SourceParser{}
}

// Parse reads one export file.
// POST: Returns ordered rows; a file with an unrecognizable header still
// parses via positional fallback (ParsedFile.Fallback set), never errors for
// layout alone.
func (p *SourceParser) Parse(path string) (*ParsedFile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSV(path)
	case ".xlsx":
		return parseXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", filepath.Ext(path))
	}
}

// baseNameOf strips the directory, extension, and any flag suffix from a
// source path.
func baseNameOf(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSuffix(name, session.FlagSuffix)
}

// Column aliases seen across registration platforms, matched
// case-insensitively after trimming.
var columnAliases = map[string][]string{
	"name":           {"name", "full name", "attendee", "attendee name", "player", "player name"},
	"email":          {"email", "e-mail", "email address"},
	"phone":          {"phone", "phone number", "mobile", "cell"},
	"status":         {"status", "registration status"},
	"registered":     {"registered", "registered at", "registration date", "signup date", "date"},
	"notes":          {"notes", "note", "comments", "comment"},
	"default_status": {"default status", "default_status"},
	"current_status": {"current status", "current_status"},
	"reviewer_note":  {"reviewer note", "reviewer_note", "review note"},
}

// positionalOrder is the column assignment used when the header row cannot
// be matched: the layout this engine writes, minus the derived columns for
// raw platform exports.
var positionalOrder = []string{
	"name", "email", "phone", "status", "registered", "notes",
	"default_status", "current_status", "reviewer_note",
}

// mapHeader resolves a header row to field -> column index. The header is
// considered matched only when both name and email columns are found.
func mapHeader(header []string) (map[string]int, bool) {
	idx := make(map[string]int)
	for col, raw := range header {
		cell := strings.ToLower(strings.TrimSpace(raw))
		for field, aliases := range columnAliases {
			if _, taken := idx[field]; taken {
				continue
			}
			for _, a := range aliases {
				if cell == a {
					idx[field] = col
					break
				}
			}
		}
	}
	_, hasName := idx["name"]
	_, hasEmail := idx["email"]
	return idx, hasName && hasEmail
}

// positionalIndex returns the fallback field -> column mapping.
func positionalIndex() map[string]int {
	idx := make(map[string]int, len(positionalOrder))
	for i, field := range positionalOrder {
		idx[field] = i
	}
	return idx
}

// rowFromCells builds a Row from one data row using the given column index.
func rowFromCells(cells []string, idx map[string]int) Row {
	get := func(field string) string {
		col, ok := idx[field]
		if !ok || col >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[col])
	}
	return Row{
		Name:          get("name"),
		Email:         get("email"),
		Phone:         get("phone"),
		RawStatus:     get("status"),
		RegisteredAt:  get("registered"),
		Notes:         get("notes"),
		DefaultStatus: get("default_status"),
		CurrentStatus: get("current_status"),
		ReviewerNote:  get("reviewer_note"),
	}
}

// isRowEmpty reports whether every cell is blank.
func isRowEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// timestampLayouts are tried in order when parsing registration timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseTimestamp interprets a registration timestamp string. An
// unparseable or empty value yields the zero time rather than an error;
// timestamps are informational, not load-bearing.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
