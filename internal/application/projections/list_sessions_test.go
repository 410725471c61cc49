package projections

import (
	"context"
	"testing"
	"time"

	"anklebreaker/internal/domain/session"
)

type stubLister struct {
	summaries []session.Summary
}

func (s *stubLister) List(_ context.Context) ([]session.Summary, error) {
	return s.summaries, nil
}

func summariesFixture() []session.Summary {
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return []session.Summary{
		{FolderName: "Session-Ankle Breakers-2026-05-01", Club: "Ankle Breakers", Paid: true, LastOpened: base.Add(3 * time.Hour)},
		{FolderName: "Session-Ankle Breakers-2026-06-12-flag", Club: "Ankle Breakers", Flagged: true, LastOpened: base.Add(2 * time.Hour)},
		{FolderName: "Session-Hoop Dreams-2026-06-20", Club: "Hoop Dreams", LastOpened: base.Add(1 * time.Hour)},
	}
}

func TestListSessions_HidesPaidByDefault(t *testing.T) {
	lister := &stubLister{summaries: summariesFixture()}

	out, err := ListSessions(context.Background(), ListSessionsQuery{}, ListSessionsDeps{SessionStore: lister})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d sessions, want 2 (paid hidden)", len(out))
	}
	for _, s := range out {
		if s.Paid {
			t.Errorf("paid session %s leaked into default view", s.FolderName)
		}
	}

	out, err = ListSessions(context.Background(), ListSessionsQuery{IncludePaid: true}, ListSessionsDeps{SessionStore: lister})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("got %d sessions with IncludePaid, want 3", len(out))
	}
}

func TestListSessions_OrderAndFilters(t *testing.T) {
	lister := &stubLister{summaries: summariesFixture()}

	out, err := ListSessions(context.Background(), ListSessionsQuery{IncludePaid: true}, ListSessionsDeps{SessionStore: lister})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Most recently opened first.
	for i := 1; i < len(out); i++ {
		if out[i].LastOpened.After(out[i-1].LastOpened) {
			t.Errorf("out of order at %d: %s after %s", i, out[i].FolderName, out[i-1].FolderName)
		}
	}

	out, _ = ListSessions(context.Background(), ListSessionsQuery{FlaggedOnly: true}, ListSessionsDeps{SessionStore: lister})
	if len(out) != 1 || !out[0].Flagged {
		t.Errorf("flagged filter = %v", out)
	}

	out, _ = ListSessions(context.Background(), ListSessionsQuery{Club: "Hoop Dreams"}, ListSessionsDeps{SessionStore: lister})
	if len(out) != 1 || out[0].Club != "Hoop Dreams" {
		t.Errorf("club filter = %v", out)
	}
}
