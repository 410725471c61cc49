package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"anklebreaker/internal/adapters/ingest"
	"anklebreaker/internal/domain/registrant"
	"anklebreaker/internal/domain/session"
)

// IngestExportsInput carries the source export paths to parse.
type IngestExportsInput struct {
	Paths []string
}

// IngestWarning is a non-fatal problem with one source file. Warnings are
// batched per operation and shown once, never per record.
type IngestWarning struct {
	Path    string
	Message string
}

// IngestExportsResult holds the parsed record sets plus batched warnings.
type IngestExportsResult struct {
	Files    []*session.FileRecordSet
	Warnings []IngestWarning
}

// IngestExportsDeps holds external dependencies for export ingestion.
type IngestExportsDeps struct {
	Parser     ingest.Parser
	Classifier *registrant.Classifier
	GenerateID func() string
}

// ExecuteIngestExports parses each source file into an ordered record set,
// classifying default statuses where the export carries none.
// PRE: Input.Paths is non-empty; deps are fully populated.
// POST: Each parsed file yields one record set; layout problems degrade to
// warnings (best-effort column assignment), an unreadable file aborts only
// its own entry, and the batch never aborts as a whole.
// INVARIANT: Re-ingesting a table this engine already wrote preserves its
// stored current statuses; classification never overwrites them.
func ExecuteIngestExports(ctx context.Context, input IngestExportsInput, deps IngestExportsDeps) (IngestExportsResult, error) {
	if len(input.Paths) == 0 {
		return IngestExportsResult{}, fmt.Errorf("no export files given")
	}

	result := IngestExportsResult{}
	for _, path := range input.Paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		parsed, err := deps.Parser.Parse(path)
		if err != nil {
			result.Warnings = append(result.Warnings, IngestWarning{Path: path, Message: err.Error()})
			continue
		}
		if parsed.Fallback {
			result.Warnings = append(result.Warnings, IngestWarning{
				Path:    path,
				Message: "unrecognized column layout; fields assigned by position",
			})
		}
		if parsed.Empty {
			result.Warnings = append(result.Warnings, IngestWarning{Path: path, Message: "export contains no registrants"})
		}

		f := &session.FileRecordSet{
			ID:       deps.GenerateID(),
			BaseName: parsed.BaseName,
		}
		for _, row := range parsed.Rows {
			f.Records = append(f.Records, recordFromRow(row, deps.Classifier))
		}
		result.Files = append(result.Files, f)
	}

	slog.Info("exports_ingested",
		"files", len(result.Files),
		"warnings", len(result.Warnings),
	)
	return result, nil
}

// recordFromRow builds a registrant record, classifying only when the export
// carries no stored statuses.
func recordFromRow(row ingest.Row, classifier *registrant.Classifier) *registrant.Record {
	rec := &registrant.Record{
		Name:         row.Name,
		Email:        row.Email,
		Phone:        row.Phone,
		RawStatus:    row.RawStatus,
		RegisteredAt: ingest.ParseTimestamp(row.RegisteredAt),
		Notes:        row.Notes,
		ReviewerNote: row.ReviewerNote,
	}

	if row.DefaultStatus != "" {
		rec.DefaultStatus = registrant.ParseStatus(row.DefaultStatus)
	} else {
		rec.DefaultStatus = classifier.Classify(row.Notes, row.Name)
	}

	// Current status comes from stored data when present and is never
	// re-derived over it.
	if row.CurrentStatus != "" {
		rec.CurrentStatus = registrant.ParseStatus(row.CurrentStatus)
	} else {
		rec.CurrentStatus = rec.DefaultStatus
	}
	return rec
}
