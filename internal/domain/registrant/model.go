package registrant

import (
	"strings"
	"time"
)

// Status is the reconciliation status assigned to a registrant.
type Status string

// Recognized status values. StatusOther is the sentinel meaning
// "unclassified / needs human review".
const (
	StatusRegular  Status = "regular"
	StatusManual   Status = "manual"
	StatusComped   Status = "comped"
	StatusRefund   Status = "refund"
	StatusWaitlist Status = "waitlist"
	StatusOther    Status = "other"
)

// AllStatuses lists every recognized status value in display order.
var AllStatuses = []Status{
	StatusRegular,
	StatusManual,
	StatusComped,
	StatusRefund,
	StatusWaitlist,
	StatusOther,
}

// ParseStatus maps a stored string to a Status. Unknown or empty values
// default-fill to StatusOther so data persisted before a status value
// existed loads rather than erroring.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusRegular:
		return StatusRegular
	case StatusManual:
		return StatusManual
	case StatusComped:
		return StatusComped
	case StatusRefund:
		return StatusRefund
	case StatusWaitlist:
		return StatusWaitlist
	default:
		return StatusOther
	}
}

// Valid reports whether s is one of the recognized status values.
func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Record holds one registrant row from an event export.
// INVARIANT: DefaultStatus is computed once at ingestion and never mutated;
// only CurrentStatus is operator-editable.
type Record struct {
	Name          string
	Email         string
	Phone         string
	RawStatus     string
	RegisteredAt  time.Time
	Notes         string
	ReviewerNote  string
	DefaultStatus Status
	CurrentStatus Status
}

// Matches reports whether the record is identified by the given (name, email)
// pair. Cross-file identity uses this pair because positional identity is
// unstable across reloads.
func (r *Record) Matches(name, email string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Name), strings.TrimSpace(name)) &&
		strings.EqualFold(strings.TrimSpace(r.Email), strings.TrimSpace(email))
}

// NeedsReview reports whether the record still carries the sentinel status.
func (r *Record) NeedsReview() bool {
	return r.CurrentStatus == StatusOther
}
