package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"anklebreaker/internal/adapters/storage/sessionstore"
	"anklebreaker/internal/domain/registrant"
	"anklebreaker/internal/domain/session"
)

// SetStatusInput addresses one record and the status to assign. The record
// is addressed either by position within its file (RecordIndex >= 0) or by
// its (Name, Email) identity — consolidated views must use identity because
// their row order interleaves files.
type SetStatusInput struct {
	Session     *session.Session
	FileID      string
	RecordIndex int // used when >= 0
	Name        string
	Email       string
	NewStatus   registrant.Status
}

// SetStatusResult reports the mutated file and what propagation changed.
type SetStatusResult struct {
	File        *session.FileRecordSet
	Propagation PropagateFlagsResult
}

// SetStatusDeps holds external dependencies for status assignment.
type SetStatusDeps struct {
	SessionStore sessionstore.Store
	Notifier     Notifier
}

// ExecuteSetStatus mutates exactly one record's current status, persists the
// owning table, and runs flag propagation for the session before returning.
// PRE: The session is tracked by the store; NewStatus is a recognized value.
// POST: Only CurrentStatus changed (default statuses are immutable); the
// file's flag state and on-disk name are consistent again when this returns.
func ExecuteSetStatus(ctx context.Context, input SetStatusInput, deps SetStatusDeps) (SetStatusResult, error) {
	f, err := input.Session.FileByID(input.FileID)
	if err != nil {
		return SetStatusResult{}, err
	}

	index := input.RecordIndex
	if index < 0 {
		found, ok := f.FindByIdentity(input.Name, input.Email)
		if !ok {
			return SetStatusResult{}, fmt.Errorf("%w: %s <%s> in %s",
				session.ErrRecordNotFound, input.Name, input.Email, f.BaseName)
		}
		index = found
	}

	if err := f.SetStatus(index, input.NewStatus); err != nil {
		return SetStatusResult{}, err
	}

	if err := deps.SessionStore.WriteFile(ctx, input.Session.ID, f); err != nil {
		return SetStatusResult{}, err
	}

	propagation, err := ExecutePropagateFlags(ctx, PropagateFlagsInput{Session: input.Session}, PropagateFlagsDeps{
		SessionStore: deps.SessionStore,
		Notifier:     deps.Notifier,
	})
	if err != nil {
		return SetStatusResult{}, err
	}

	deps.Notifier.DataChanged()
	slog.Info("status_set",
		"file", f.BaseName,
		"record", index,
		"status", string(input.NewStatus),
		"file_flagged", f.IsFlagged(),
	)
	return SetStatusResult{File: f, Propagation: propagation}, nil
}
