package orchestrators

import (
	"context"
	"log/slog"

	"anklebreaker/internal/adapters/storage/sessionstore"
	"anklebreaker/internal/domain/session"
)

// PropagateFlagsInput names the session whose topology should be migrated.
type PropagateFlagsInput struct {
	Session *session.Session
}

// RenamedFile records one table rename applied during propagation.
type RenamedFile struct {
	OldName string
	NewName string
}

// PropagateFlagsResult reports what the migration actually changed.
type PropagateFlagsResult struct {
	RenamedFiles  []RenamedFile
	FolderRenamed bool
	OldFolderName string
	NewFolderName string
}

// PropagateFlagsDeps holds external dependencies for flag propagation.
type PropagateFlagsDeps struct {
	SessionStore sessionstore.Store
	Notifier     Notifier
}

// ExecutePropagateFlags is the topology migration: it recomputes every
// derived flag from current record statuses, renames tables and the session
// folder so on-disk names agree with the flags, and persists updated
// metadata. The transition is symmetric — a previously clean file that
// regains a needs-review record gets its flag suffix back, and a cleaned
// file loses it.
// PRE: Input.Session is tracked by the store.
// POST: Either every rename succeeded and all path indexes point at the new
// names, or the operation aborted on the failing file with prior state
// intact; indexes are never rewritten ahead of a successful rename. Already-
// consistent names are left alone (no rename attempted, no error).
func ExecutePropagateFlags(ctx context.Context, input PropagateFlagsInput, deps PropagateFlagsDeps) (PropagateFlagsResult, error) {
	s := input.Session
	result := PropagateFlagsResult{}

	for _, f := range s.Files {
		actual, err := deps.SessionStore.FileName(s.ID, f.ID)
		if err != nil {
			return result, err
		}
		desired := f.FileName()
		if actual == desired {
			continue
		}
		if err := deps.SessionStore.RenameFile(ctx, s.ID, f.ID, desired); err != nil {
			return result, err
		}
		result.RenamedFiles = append(result.RenamedFiles, RenamedFile{OldName: actual, NewName: desired})
	}

	actualFolder, err := deps.SessionStore.FolderName(s.ID)
	if err != nil {
		return result, err
	}
	desiredFolder := s.CanonicalFolderName()
	// A rename target occupied by another session bumps the version, same as
	// collision resolution at creation.
	for desiredFolder != actualFolder && deps.SessionStore.FolderExists(desiredFolder) {
		s.Version++
		desiredFolder = s.CanonicalFolderName()
	}
	if desiredFolder != actualFolder {
		if err := deps.SessionStore.RenameFolder(ctx, s.ID, desiredFolder); err != nil {
			return result, err
		}
		result.FolderRenamed = true
		result.OldFolderName = actualFolder
		result.NewFolderName = desiredFolder
		s.FolderName = desiredFolder
	}

	if err := deps.SessionStore.WriteMetadata(ctx, s); err != nil {
		return result, err
	}

	if len(result.RenamedFiles) > 0 || result.FolderRenamed {
		deps.Notifier.TopologyChanged()
		slog.Info("flags_propagated",
			"folder", s.FolderName,
			"renamed_files", len(result.RenamedFiles),
			"folder_renamed", result.FolderRenamed,
			"flagged", s.Flagged(),
		)
	}
	return result, nil
}
