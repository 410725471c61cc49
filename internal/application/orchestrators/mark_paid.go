package orchestrators

import (
	"context"
	"log/slog"

	"anklebreaker/internal/adapters/storage/sessionstore"
	"anklebreaker/internal/domain/session"
)

// MarkPaidInput names the session to archive.
type MarkPaidInput struct {
	Session *session.Session
}

// MarkPaidDeps holds external dependencies for marking a session paid.
type MarkPaidDeps struct {
	SessionStore sessionstore.Store
	Notifier     Notifier
}

// ExecuteMarkPaid marks the session paid. Paid sessions are archived, not
// deleted; only explicit deletion removes them.
// PRE: The session is not already paid.
func ExecuteMarkPaid(ctx context.Context, input MarkPaidInput, deps MarkPaidDeps) error {
	if err := input.Session.MarkPaid(); err != nil {
		return err
	}
	if err := deps.SessionStore.WriteMetadata(ctx, input.Session); err != nil {
		return err
	}

	deps.Notifier.DataChanged()
	slog.Info("session_paid",
		"folder", input.Session.FolderName,
		"club", input.Session.Club,
		"net", input.Session.NetToClub.StringFixed(2),
	)
	return nil
}
