package orchestrators

import (
	"context"
	"log/slog"

	"anklebreaker/internal/adapters/storage/clubregistry"
)

// ManageClubsDeps holds external dependencies for club registry operations.
type ManageClubsDeps struct {
	ClubRegistry clubregistry.Store
}

// ExecuteListClubs returns the registered club names, seeding the registry
// on first run.
func ExecuteListClubs(ctx context.Context, deps ManageClubsDeps) ([]string, error) {
	return deps.ClubRegistry.List(ctx)
}

// ExecuteAddClub registers a new club name.
func ExecuteAddClub(ctx context.Context, name string, deps ManageClubsDeps) error {
	if err := deps.ClubRegistry.Add(ctx, name); err != nil {
		return err
	}
	slog.Info("club_added", "club", name)
	return nil
}

// ExecuteRemoveClub unregisters a club name. Existing sessions for the club
// are untouched.
func ExecuteRemoveClub(ctx context.Context, name string, deps ManageClubsDeps) error {
	if err := deps.ClubRegistry.Remove(ctx, name); err != nil {
		return err
	}
	slog.Info("club_removed", "club", name)
	return nil
}

// ExecuteRenameClub replaces one club name with another in the registry.
func ExecuteRenameClub(ctx context.Context, oldName, newName string, deps ManageClubsDeps) error {
	if err := deps.ClubRegistry.Rename(ctx, oldName, newName); err != nil {
		return err
	}
	slog.Info("club_renamed", "from", oldName, "to", newName)
	return nil
}
