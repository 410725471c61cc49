package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"anklebreaker/internal/adapters/storage/clubregistry"
	"anklebreaker/internal/adapters/storage/sessionstore"
	"anklebreaker/internal/domain/club"
	"anklebreaker/internal/domain/session"
)

// CreateSessionInput carries the finalized import to persist as a session.
type CreateSessionInput struct {
	Club      string
	EventDate string // session.EventDateLayout
	Files     []*session.FileRecordSet
}

// CreateSessionResult reports the created session and its final folder name.
type CreateSessionResult struct {
	Session *session.Session
}

// CreateSessionDeps holds external dependencies for session creation.
type CreateSessionDeps struct {
	SessionStore sessionstore.Store
	ClubRegistry clubregistry.Store
	Notifier     Notifier
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteCreateSession finalizes an import: it builds the session, writes its
// directory (resolving folder-name collisions with a version suffix), and
// registers the club if it is new.
// PRE: Club and EventDate are non-empty; Files came from ExecuteIngestExports.
// POST: The session directory exists with one table per file plus metadata;
// the folder name carries the flag suffix iff any file is flagged.
func ExecuteCreateSession(ctx context.Context, input CreateSessionInput, deps CreateSessionDeps) (CreateSessionResult, error) {
	if err := club.Validate(input.Club); err != nil {
		return CreateSessionResult{}, err
	}
	if _, err := time.Parse(session.EventDateLayout, input.EventDate); err != nil {
		return CreateSessionResult{}, fmt.Errorf("invalid event date %q: want YYYY-MM-DD", input.EventDate)
	}
	if len(input.Files) == 0 {
		return CreateSessionResult{}, fmt.Errorf("session needs at least one ingested file")
	}

	s := session.New(deps.GenerateID(), club.Normalize(input.Club), input.EventDate, deps.Now())
	s.Files = input.Files

	if err := deps.SessionStore.Create(ctx, s); err != nil {
		return CreateSessionResult{}, err
	}

	if err := deps.ClubRegistry.Add(ctx, s.Club); err != nil && !errors.Is(err, club.ErrAlreadyExists) {
		slog.Warn("club_register_failed", "club", s.Club, "err", err)
	}

	deps.Notifier.TopologyChanged()
	slog.Info("session_created",
		"folder", s.FolderName,
		"club", s.Club,
		"date", s.EventDate,
		"files", len(s.Files),
		"flagged", s.Flagged(),
	)
	return CreateSessionResult{Session: s}, nil
}
