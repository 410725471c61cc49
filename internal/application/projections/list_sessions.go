package projections

import (
	"context"
	"sort"

	"anklebreaker/internal/domain/session"
)

// SessionLister is the store interface needed by the session list projection.
type SessionLister interface {
	List(ctx context.Context) ([]session.Summary, error)
}

// ListSessionsQuery filters the session list.
type ListSessionsQuery struct {
	IncludePaid bool
	FlaggedOnly bool
	Club        string // empty matches every club
}

// ListSessionsDeps holds dependencies for the session list projection.
type ListSessionsDeps struct {
	SessionStore SessionLister
}

// ListSessions enumerates sessions under the root, most recently opened
// first. Directories that are not valid sessions never appear; the store
// skips them rather than failing enumeration.
func ListSessions(ctx context.Context, query ListSessionsQuery, deps ListSessionsDeps) ([]session.Summary, error) {
	all, err := deps.SessionStore.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []session.Summary
	for _, s := range all {
		if s.Paid && !query.IncludePaid {
			continue
		}
		if query.FlaggedOnly && !s.Flagged {
			continue
		}
		if query.Club != "" && s.Club != query.Club {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastOpened.Equal(out[j].LastOpened) {
			return out[i].LastOpened.After(out[j].LastOpened)
		}
		return out[i].FolderName < out[j].FolderName
	})
	return out, nil
}
