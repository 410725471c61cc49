package registrant

import "strings"

// Phrases the registration platform writes into the notes column. Matching is
// case-insensitive substring containment, no tokenization.
const (
	WaitlistPhrase        = "added to waitlist"
	RegularPhrase         = "registration completed"
	ManualConfirmedPhrase = "manually confirmed by"
)

// DefaultCompNames are registrants comped regardless of what their notes say
// (club staff who play their own events for free).
var DefaultCompNames = []string{
	"Ryan Marvin",
	"Dana Whitfield",
}

// Classifier derives a registrant's default status from the raw export.
type Classifier struct {
	compNames map[string]bool
}

// NewClassifier builds a Classifier comping DefaultCompNames plus any extra
// names from configuration.
func NewClassifier(extraCompNames ...string) *Classifier {
	c := &Classifier{compNames: make(map[string]bool)}
	for _, n := range DefaultCompNames {
		c.compNames[normalizeName(n)] = true
	}
	for _, n := range extraCompNames {
		if key := normalizeName(n); key != "" {
			c.compNames[key] = true
		}
	}
	return c
}

// Classify maps a free-text notes value plus a registrant name to a status.
// The rules apply in strict order and the first match wins; the function is
// pure and total, falling through to StatusOther.
// PRE: notes and name may be empty.
// POST: Returns exactly one recognized Status; identical input always yields
// identical output.
func (c *Classifier) Classify(notes, name string) Status {
	lowered := strings.ToLower(notes)

	switch {
	case c.compNames[normalizeName(name)]:
		return StatusComped
	case strings.Contains(lowered, "comped"):
		return StatusComped
	case strings.Contains(lowered, WaitlistPhrase):
		return StatusWaitlist
	case strings.Contains(lowered, "refund"):
		return StatusRefund
	case strings.Contains(lowered, ManualConfirmedPhrase):
		return StatusManual
	case strings.Contains(lowered, RegularPhrase):
		return StatusRegular
	default:
		return StatusOther
	}
}

// normalizeName lowercases and collapses interior whitespace so comp-list
// membership is insensitive to spacing and case.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
