package orchestrators

import (
	"context"
	"log/slog"

	"anklebreaker/internal/adapters/storage/sessionstore"
	"anklebreaker/internal/domain/session"
)

// DeleteSessionInput names the session to destroy.
type DeleteSessionInput struct {
	Session *session.Session
}

// DeleteSessionDeps holds external dependencies for session deletion.
type DeleteSessionDeps struct {
	SessionStore sessionstore.Store
	Notifier     Notifier
}

// ExecuteDeleteSession removes the session's on-disk directory and evicts
// every cached key referencing it. This is the only way a session is
// destroyed; payment archives, it never deletes.
func ExecuteDeleteSession(ctx context.Context, input DeleteSessionInput, deps DeleteSessionDeps) error {
	folder := input.Session.FolderName
	if err := deps.SessionStore.Delete(ctx, input.Session.ID); err != nil {
		return err
	}

	deps.Notifier.TopologyChanged()
	slog.Info("session_deleted", "folder", folder, "club", input.Session.Club)
	return nil
}
