package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"anklebreaker/internal/adapters/storage/sessionstore"
	"anklebreaker/internal/domain/session"
)

// OpenSessionInput names the session folder to load.
type OpenSessionInput struct {
	FolderName string
}

// OpenSessionResult carries the loaded session.
type OpenSessionResult struct {
	Session *session.Session
}

// OpenSessionDeps holds external dependencies for opening a session.
type OpenSessionDeps struct {
	SessionStore sessionstore.Store
	Now          func() time.Time
}

// ExecuteOpenSession loads a session from disk and stamps its last-opened
// time.
// POST: Current statuses come from stored data when present, never
// re-derived from notes; the last-opened timestamp is persisted.
func ExecuteOpenSession(ctx context.Context, input OpenSessionInput, deps OpenSessionDeps) (OpenSessionResult, error) {
	s, err := deps.SessionStore.Load(ctx, input.FolderName)
	if err != nil {
		return OpenSessionResult{}, err
	}

	s.LastOpened = deps.Now()
	if err := deps.SessionStore.WriteMetadata(ctx, s); err != nil {
		return OpenSessionResult{}, err
	}

	slog.Info("session_opened",
		"folder", s.FolderName,
		"club", s.Club,
		"files", len(s.Files),
		"flagged", s.Flagged(),
	)
	return OpenSessionResult{Session: s}, nil
}
