package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"anklebreaker/internal/domain/registrant"
)

// FlagSuffix is the reserved token appended to file and folder names whose
// contents still need human review.
const FlagSuffix = "-flag"

// FolderPrefix starts every session folder name under the sessions root.
const FolderPrefix = "Session"

// EventDateLayout is the ISO date format used in folder names and metadata.
const EventDateLayout = "2006-01-02"

// Domain errors.
var (
	ErrFileNotFound   = errors.New("file record set not found in session")
	ErrRecordNotFound = errors.New("registrant record not found")
	ErrInvalidStatus  = errors.New("invalid status value")
	ErrNegativePrice  = errors.New("price cannot be negative")
	ErrEmptyClub      = errors.New("club name cannot be empty")
	ErrAlreadyPaid    = errors.New("session is already marked paid")
)

// FileRecordSet is a named, ordered collection of registrant records backed
// by exactly one on-disk table.
// INVARIANT: BaseName never carries the flag suffix; the on-disk name is
// always derived from current record statuses, never cached.
type FileRecordSet struct {
	ID       string
	BaseName string
	Records  []*registrant.Record
}

// IsFlagged reports whether any record still needs review. Recomputed from
// current data on every call.
func (f *FileRecordSet) IsFlagged() bool {
	for _, r := range f.Records {
		if r.NeedsReview() {
			return true
		}
	}
	return false
}

// FileName returns the table file name the set should have on disk right
// now, including the flag suffix when flagged and the .csv extension.
func (f *FileRecordSet) FileName() string {
	if f.IsFlagged() {
		return f.BaseName + FlagSuffix + ".csv"
	}
	return f.BaseName + ".csv"
}

// SetStatus mutates exactly one record's current status by position.
// PRE: index is within bounds and status is a recognized value.
// POST: Only CurrentStatus changes; DefaultStatus is untouched.
func (f *FileRecordSet) SetStatus(index int, status registrant.Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if index < 0 || index >= len(f.Records) {
		return fmt.Errorf("%w: index %d out of range for %s", ErrRecordNotFound, index, f.BaseName)
	}
	f.Records[index].CurrentStatus = status
	return nil
}

// FindByIdentity returns the position of the record matching the (name,
// email) pair. Consolidated-view edits resolve through this, never through a
// view-local row index.
func (f *FileRecordSet) FindByIdentity(name, email string) (int, bool) {
	for i, r := range f.Records {
		if r.Matches(name, email) {
			return i, true
		}
	}
	return -1, false
}

// StatusCounts tallies records per current status.
func (f *FileRecordSet) StatusCounts() map[registrant.Status]int {
	counts := make(map[registrant.Status]int, len(registrant.AllStatuses))
	for _, r := range f.Records {
		counts[r.CurrentStatus]++
	}
	return counts
}

// FeeSchedule maps a file record set ID to its per-registrant price.
// Partial schedules are legal; a missing entry prices the file at zero.
type FeeSchedule map[string]decimal.Decimal

// PriceFor returns the price for a file, zero when the schedule has no entry.
func (s FeeSchedule) PriceFor(fileID string) (decimal.Decimal, bool) {
	p, ok := s[fileID]
	return p, ok
}

// Set records a price for a file.
// PRE: price is non-negative.
func (s FeeSchedule) Set(fileID string, price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	s[fileID] = price
	return nil
}

// Complete reports whether every file has a price entry. Callers use this to
// block finalization of a partially priced session.
func (s FeeSchedule) Complete(files []*FileRecordSet) bool {
	for _, f := range files {
		if _, ok := s[f.ID]; !ok {
			return false
		}
	}
	return true
}

// Prune drops entries that no longer correspond to a file in the session.
// Stale keys are recoverable state, removed defensively rather than raised.
func (s FeeSchedule) Prune(files []*FileRecordSet) {
	live := make(map[string]bool, len(files))
	for _, f := range files {
		live[f.ID] = true
	}
	for id := range s {
		if !live[id] {
			delete(s, id)
		}
	}
}

// Session is one event's ledger: the ingested record sets, the fee schedule,
// and the payment state.
type Session struct {
	ID         string
	Club       string
	EventDate  string // EventDateLayout
	CreatedAt  time.Time
	LastOpened time.Time
	Paid       bool
	Fees       FeeSchedule
	Files      []*FileRecordSet

	// NetToClub is the last computed net payout total, persisted so the
	// session list can show it without re-reading every table.
	NetToClub decimal.Decimal

	// FolderName is the name the session directory currently has on disk.
	// It trails CanonicalFolderName until a topology migration runs.
	FolderName string

	// Version disambiguates folder-name collisions under the sessions root;
	// 1 means no -vN suffix.
	Version int
}

// New builds an empty session for a club and event date.
func New(id, club, date string, now time.Time) *Session {
	return &Session{
		ID:         id,
		Club:       club,
		EventDate:  date,
		CreatedAt:  now,
		LastOpened: now,
		Version:    1,
		Fees:       make(FeeSchedule),
	}
}

// Flagged reports whether any owned file record set is flagged. Recomputed
// from current data on every call.
func (s *Session) Flagged() bool {
	for _, f := range s.Files {
		if f.IsFlagged() {
			return true
		}
	}
	return false
}

// FlaggedFiles returns the current on-disk names of every flagged file.
func (s *Session) FlaggedFiles() []string {
	var names []string
	for _, f := range s.Files {
		if f.IsFlagged() {
			names = append(names, f.FileName())
		}
	}
	return names
}

// CanonicalFolderName returns the folder name the session should have on
// disk right now: Session-<club>-<date>[-flag][-vN].
func (s *Session) CanonicalFolderName() string {
	name := fmt.Sprintf("%s-%s-%s", FolderPrefix, sanitizeClub(s.Club), s.EventDate)
	if s.Flagged() {
		name += FlagSuffix
	}
	if s.Version > 1 {
		name += fmt.Sprintf("-v%d", s.Version)
	}
	return name
}

// FileByID locates a record set by its surrogate key.
func (s *Session) FileByID(fileID string) (*FileRecordSet, error) {
	for _, f := range s.Files {
		if f.ID == fileID {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
}

// FileByBaseName locates a record set by its canonical (unsuffixed) name.
func (s *Session) FileByBaseName(baseName string) (*FileRecordSet, error) {
	want := strings.TrimSuffix(baseName, ".csv")
	want = strings.TrimSuffix(want, FlagSuffix)
	for _, f := range s.Files {
		if f.BaseName == want {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrFileNotFound, baseName)
}

// MarkPaid archives the session. Paid sessions are never deleted by payment
// flow; only explicit deletion removes them.
func (s *Session) MarkPaid() error {
	if s.Paid {
		return ErrAlreadyPaid
	}
	s.Paid = true
	return nil
}

// Summary is the read-side view of a session used for enumeration without
// loading its tables.
type Summary struct {
	FolderName string
	Club       string
	EventDate  string
	Paid       bool
	Flagged    bool
	NetToClub  decimal.Decimal
	LastOpened time.Time
}

// TrimBaseName strips the extension and flag suffix from an on-disk table
// file name, yielding the canonical base name.
func TrimBaseName(fileName string) string {
	base := strings.TrimSuffix(fileName, ".csv")
	return strings.TrimSuffix(base, FlagSuffix)
}

// sanitizeClub makes a club name safe for use inside a folder name.
func sanitizeClub(club string) string {
	club = strings.TrimSpace(club)
	club = strings.ReplaceAll(club, "/", "_")
	return strings.Join(strings.Fields(club), " ")
}
