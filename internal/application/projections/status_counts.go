package projections

import (
	"anklebreaker/internal/domain/registrant"
	"anklebreaker/internal/domain/session"
)

// FileStatusCounts tallies one file's records per current status.
type FileStatusCounts struct {
	FileID   string
	FileName string
	Flagged  bool
	Counts   map[registrant.Status]int
}

// StatusCountsResult holds per-file tallies plus the consolidated view
// across every file in the session.
type StatusCountsResult struct {
	PerFile      []FileStatusCounts
	Consolidated map[registrant.Status]int
}

// GetStatusCounts tallies current statuses for every file in the session.
// Counts are always computed from current data, never cached.
func GetStatusCounts(s *session.Session) StatusCountsResult {
	result := StatusCountsResult{
		Consolidated: make(map[registrant.Status]int, len(registrant.AllStatuses)),
	}
	for _, f := range s.Files {
		counts := f.StatusCounts()
		result.PerFile = append(result.PerFile, FileStatusCounts{
			FileID:   f.ID,
			FileName: f.FileName(),
			Flagged:  f.IsFlagged(),
			Counts:   counts,
		})
		for status, n := range counts {
			result.Consolidated[status] += n
		}
	}
	return result
}
