package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse_CSVWithAliasedHeader(t *testing.T) {
	path := writeCSV(t, "morning.csv",
		"Attendee Name,E-Mail,Mobile,Registration Status,Signup Date,Comments\n"+
			"A Person,a@example.com,021 555 0101,Confirmed,2026-06-10 08:00,Registration completed\n"+
			",,,,,\n"+
			"B Person,b@example.com,,,,see front desk\n")

	parsed, err := NewSourceParser().Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Fallback || parsed.Empty {
		t.Errorf("fallback=%v empty=%v, want neither", parsed.Fallback, parsed.Empty)
	}
	if parsed.BaseName != "morning" {
		t.Errorf("base name = %q", parsed.BaseName)
	}
	if len(parsed.Rows) != 2 {
		t.Fatalf("rows = %d, want 2 (blank row skipped)", len(parsed.Rows))
	}

	row := parsed.Rows[0]
	if row.Name != "A Person" || row.Email != "a@example.com" {
		t.Errorf("row = %+v", row)
	}
	if row.Phone != "021 555 0101" || row.RawStatus != "Confirmed" {
		t.Errorf("row = %+v", row)
	}
	if row.Notes != "Registration completed" {
		t.Errorf("notes = %q", row.Notes)
	}
}

func TestParse_CSVRoundTripColumns(t *testing.T) {
	// A table this engine wrote carries the derived columns; they come back
	// verbatim.
	path := writeCSV(t, "evening-flag.csv",
		"Name,Email,Phone,Status,Registered At,Notes,Default Status,Current Status,Reviewer Note\n"+
			"B Person,b@example.com,,,,see front desk,other,comped,resolved with organizer\n")

	parsed, err := NewSourceParser().Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.BaseName != "evening" {
		t.Errorf("base name = %q, want flag suffix stripped", parsed.BaseName)
	}
	row := parsed.Rows[0]
	if row.DefaultStatus != "other" || row.CurrentStatus != "comped" {
		t.Errorf("statuses = (%q,%q)", row.DefaultStatus, row.CurrentStatus)
	}
	if row.ReviewerNote != "resolved with organizer" {
		t.Errorf("reviewer note = %q", row.ReviewerNote)
	}
}

func TestParse_UnrecognizedHeaderFallsBackToPositions(t *testing.T) {
	path := writeCSV(t, "odd.csv",
		"Col1,Col2,Col3\n"+
			"A Person,a@example.com,021 555 0101\n")

	parsed, err := NewSourceParser().Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Fallback {
		t.Error("expected positional fallback")
	}
	if len(parsed.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(parsed.Rows))
	}
	if parsed.Rows[0].Name != "A Person" || parsed.Rows[0].Phone != "021 555 0101" {
		t.Errorf("row = %+v", parsed.Rows[0])
	}
}

func TestParse_EmptyCSV(t *testing.T) {
	for name, content := range map[string]string{
		"nothing.csv":    "",
		"headeronly.csv": "Name,Email\n",
	} {
		parsed, err := NewSourceParser().Parse(writeCSV(t, name, content))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !parsed.Empty {
			t.Errorf("%s: expected Empty", name)
		}
	}
}

func TestParse_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "morning.xlsx")
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"Name", "Email", "Notes"},
		{"A Person", "a@example.com", "Added to waitlist"},
	}
	for i, cells := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := wb.SetSheetRow(sheet, cell, &cells); err != nil {
			t.Fatal(err)
		}
	}
	if err := wb.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	parsed, err := NewSourceParser().Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Fallback || parsed.Empty {
		t.Errorf("fallback=%v empty=%v", parsed.Fallback, parsed.Empty)
	}
	if len(parsed.Rows) != 1 || parsed.Rows[0].Notes != "Added to waitlist" {
		t.Errorf("rows = %+v", parsed.Rows)
	}
}

func TestParse_UnsupportedExtension(t *testing.T) {
	if _, err := NewSourceParser().Parse("export.pdf"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-06-10T08:00:00Z", time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)},
		{"2026-06-10 08:00", time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)},
		{"2026-06-10", time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)},
		{"06/10/2026", time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)},
		{"next tuesday", time.Time{}},
		{"", time.Time{}},
	}
	for _, tt := range tests {
		if got := ParseTimestamp(tt.in); !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
