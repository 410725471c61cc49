package orchestrators

import (
	"context"
	"errors"
	"testing"

	"anklebreaker/internal/adapters/ingest"
	"anklebreaker/internal/domain/registrant"
)

func ingestDeps(parser *mockParser) IngestExportsDeps {
	return IngestExportsDeps{
		Parser:     parser,
		Classifier: registrant.NewClassifier(),
		GenerateID: sequentialIDs(),
	}
}

func TestExecuteIngestExports_ClassifiesFreshExport(t *testing.T) {
	parser := &mockParser{files: map[string]*ingest.ParsedFile{
		"morning.csv": {
			BaseName: "morning",
			Rows: []ingest.Row{
				{Name: "A Person", Email: "a@example.com", Notes: "Registration completed"},
				{Name: "B Person", Email: "b@example.com", Notes: "Added to waitlist"},
				{Name: "C Person", Email: "c@example.com", Notes: "see front desk"},
			},
		},
	}}

	result, err := ExecuteIngestExports(context.Background(), IngestExportsInput{Paths: []string{"morning.csv"}}, ingestDeps(parser))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Files) != 1 {
		t.Fatalf("files = %d, want 1", len(result.Files))
	}

	f := result.Files[0]
	if f.ID == "" || f.BaseName != "morning" {
		t.Errorf("file = %+v", f)
	}
	want := []registrant.Status{registrant.StatusRegular, registrant.StatusWaitlist, registrant.StatusOther}
	for i, w := range want {
		if f.Records[i].DefaultStatus != w || f.Records[i].CurrentStatus != w {
			t.Errorf("record %d = (%s,%s), want %s", i, f.Records[i].DefaultStatus, f.Records[i].CurrentStatus, w)
		}
	}
	if !f.IsFlagged() {
		t.Error("file with an unresolved record must be flagged")
	}
}

func TestExecuteIngestExports_StoredStatusesSurviveReingest(t *testing.T) {
	// A table this engine wrote carries both status columns; the stored
	// current status wins even though the notes would classify differently.
	parser := &mockParser{files: map[string]*ingest.ParsedFile{
		"morning-flag.csv": {
			BaseName: "morning",
			Rows: []ingest.Row{
				{
					Name:          "A Person",
					Notes:         "see front desk",
					DefaultStatus: "other",
					CurrentStatus: "comped",
				},
			},
		},
	}}

	result, err := ExecuteIngestExports(context.Background(), IngestExportsInput{Paths: []string{"morning-flag.csv"}}, ingestDeps(parser))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := result.Files[0].Records[0]
	if rec.DefaultStatus != registrant.StatusOther {
		t.Errorf("default = %s, want other", rec.DefaultStatus)
	}
	if rec.CurrentStatus != registrant.StatusComped {
		t.Errorf("current = %s, want comped (never re-derived)", rec.CurrentStatus)
	}
	if result.Files[0].IsFlagged() {
		t.Error("resolved record must not re-flag the file")
	}
}

func TestExecuteIngestExports_WarningsNeverAbortBatch(t *testing.T) {
	parser := &mockParser{
		files: map[string]*ingest.ParsedFile{
			"good.csv":   {BaseName: "good", Rows: []ingest.Row{{Name: "A", Email: "a@example.com"}}},
			"odd.csv":    {BaseName: "odd", Fallback: true, Rows: []ingest.Row{{Name: "B"}}},
			"hollow.csv": {BaseName: "hollow", Empty: true},
		},
		errs: map[string]error{"broken.csv": errors.New("unreadable")},
	}

	result, err := ExecuteIngestExports(context.Background(), IngestExportsInput{
		Paths: []string{"good.csv", "broken.csv", "odd.csv", "hollow.csv"},
	}, ingestDeps(parser))
	if err != nil {
		t.Fatalf("batch aborted: %v", err)
	}

	if len(result.Files) != 3 {
		t.Errorf("files = %d, want 3 (broken entry skipped)", len(result.Files))
	}
	if len(result.Warnings) != 3 {
		t.Fatalf("warnings = %d, want 3", len(result.Warnings))
	}
	paths := map[string]bool{}
	for _, w := range result.Warnings {
		paths[w.Path] = true
	}
	for _, p := range []string{"broken.csv", "odd.csv", "hollow.csv"} {
		if !paths[p] {
			t.Errorf("missing warning for %s", p)
		}
	}
}

func TestExecuteIngestExports_NoPaths(t *testing.T) {
	_, err := ExecuteIngestExports(context.Background(), IngestExportsInput{}, ingestDeps(&mockParser{}))
	if err == nil {
		t.Error("expected error for empty path list")
	}
}
