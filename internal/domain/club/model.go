package club

import (
	"errors"
	"strings"
)

// DefaultClub seeds the registry on first run so a fresh install always has
// one club to bill against.
const DefaultClub = "Ankle Breakers"

// MaxNameLength bounds user-entered club names.
const MaxNameLength = 100

// Domain errors.
var (
	ErrEmptyName     = errors.New("club name cannot be empty")
	ErrNameTooLong   = errors.New("club name cannot exceed 100 characters")
	ErrAlreadyExists = errors.New("club already registered")
	ErrNotFound      = errors.New("club not registered")
)

// Normalize trims and collapses whitespace in a club name. Registry
// deduplication compares normalized names case-insensitively.
func Normalize(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Validate checks a club name for registry use.
// POST: Returns nil only for a non-empty name within the length bound.
func Validate(name string) error {
	n := Normalize(name)
	if n == "" {
		return ErrEmptyName
	}
	if len(n) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// Equal reports whether two club names refer to the same club.
func Equal(a, b string) bool {
	return strings.EqualFold(Normalize(a), Normalize(b))
}
