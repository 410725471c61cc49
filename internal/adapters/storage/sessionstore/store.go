package sessionstore

import (
	"context"
	"errors"

	domain "anklebreaker/internal/domain/session"
)

// ErrResourceLocked is surfaced after the bounded retry budget for a rename
// or write is exhausted, typically because another process holds the file
// open. The operation is aborted with no partial state applied.
var ErrResourceLocked = errors.New("resource locked")

// ErrNotFound is returned when a session or file is not tracked by the store.
var ErrNotFound = errors.New("session not found")

// Store persists sessions as directories of CSV tables plus a JSON metadata
// record, and keeps the engine's path index for them.
type Store interface {
	// Create writes a new session directory, resolving folder-name
	// collisions with an incrementing version suffix. Mutates the session's
	// FolderName and Version to the names actually used.
	Create(ctx context.Context, s *domain.Session) error

	// Load reconstructs a session from its directory, re-deriving each
	// record's current status from stored data when present, else from its
	// default status.
	Load(ctx context.Context, folderName string) (*domain.Session, error)

	// List enumerates session summaries under the root. Directories with
	// missing or invalid metadata are skipped, never fatal.
	List(ctx context.Context) ([]domain.Summary, error)

	// WriteMetadata persists the session's metadata record.
	WriteMetadata(ctx context.Context, s *domain.Session) error

	// WriteFile rewrites one record set's table under its current on-disk
	// name.
	WriteFile(ctx context.Context, sessionID string, f *domain.FileRecordSet) error

	// FileName returns the name the file currently has on disk.
	FileName(sessionID, fileID string) (string, error)

	// FolderName returns the name the session directory currently has on
	// disk.
	FolderName(sessionID string) (string, error)

	// FolderExists reports whether a directory with the given name exists
	// under the root.
	FolderExists(name string) bool

	// RenameFile renames one table on disk; the path index is rewritten only
	// after the rename succeeds.
	RenameFile(ctx context.Context, sessionID, fileID, newName string) error

	// RenameFolder renames the session directory and rewrites every tracked
	// path to the new root as one logical step.
	RenameFolder(ctx context.Context, sessionID, newName string) error

	// Delete removes the session directory and evicts all cached keys
	// referencing it.
	Delete(ctx context.Context, sessionID string) error
}
