package clubregistry

import "context"

// Store persists the global club registry: a flat, deduplicated list of club
// names independent of any session. Not versioned, not historied.
type Store interface {
	// List returns the registered club names, seeding the registry with the
	// default club on first run.
	List(ctx context.Context) ([]string, error)

	// Add registers a new club name.
	Add(ctx context.Context, name string) error

	// Remove unregisters a club name.
	Remove(ctx context.Context, name string) error

	// Rename replaces one club name with another.
	Rename(ctx context.Context, oldName, newName string) error
}
