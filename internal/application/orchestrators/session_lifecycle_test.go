package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"anklebreaker/internal/adapters/storage/sessionstore"
	"anklebreaker/internal/domain/registrant"
	"anklebreaker/internal/domain/session"
)

func TestExecuteOpenSession(t *testing.T) {
	store := newMockSessionStore()
	s := trackedSession(store, registrant.StatusRegular)
	opened := time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC)

	result, err := ExecuteOpenSession(context.Background(), OpenSessionInput{
		FolderName: s.FolderName,
	}, OpenSessionDeps{
		SessionStore: store,
		Now:          func() time.Time { return opened },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Session.LastOpened.Equal(opened) {
		t.Errorf("LastOpened = %v, want %v", result.Session.LastOpened, opened)
	}
	if store.metadataWrites != 1 {
		t.Errorf("metadata writes = %d, want 1", store.metadataWrites)
	}
}

func TestExecuteOpenSession_Missing(t *testing.T) {
	store := newMockSessionStore()

	_, err := ExecuteOpenSession(context.Background(), OpenSessionInput{
		FolderName: "Session-Nobody-2026-01-01",
	}, OpenSessionDeps{SessionStore: store, Now: time.Now})
	if !errors.Is(err, sessionstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExecuteMarkPaid(t *testing.T) {
	store := newMockSessionStore()
	notifier := &recordingNotifier{}
	s := trackedSession(store, registrant.StatusRegular)

	deps := MarkPaidDeps{SessionStore: store, Notifier: notifier}
	if err := ExecuteMarkPaid(context.Background(), MarkPaidInput{Session: s}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Paid {
		t.Error("session not marked paid")
	}
	// Payment archives; the directory stays.
	if len(store.deleted) != 0 {
		t.Error("payment must never delete the session")
	}

	err := ExecuteMarkPaid(context.Background(), MarkPaidInput{Session: s}, deps)
	if !errors.Is(err, session.ErrAlreadyPaid) {
		t.Errorf("expected ErrAlreadyPaid, got %v", err)
	}
	if store.metadataWrites != 1 {
		t.Errorf("metadata writes = %d, want 1", store.metadataWrites)
	}
}

func TestExecuteDeleteSession(t *testing.T) {
	store := newMockSessionStore()
	notifier := &recordingNotifier{}
	s := trackedSession(store, registrant.StatusRegular)

	if err := ExecuteDeleteSession(context.Background(), DeleteSessionInput{Session: s}, DeleteSessionDeps{
		SessionStore: store,
		Notifier:     notifier,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != s.ID {
		t.Errorf("deleted = %v", store.deleted)
	}
	if _, ok := store.sessions[s.ID]; ok {
		t.Error("session still tracked after deletion")
	}
	if notifier.topology != 1 {
		t.Errorf("topology signals = %d, want 1", notifier.topology)
	}
}

func TestClubOperations(t *testing.T) {
	registry := &mockClubRegistry{clubs: []string{"Ankle Breakers"}}
	deps := ManageClubsDeps{ClubRegistry: registry}
	ctx := context.Background()

	if err := ExecuteAddClub(ctx, "Hoop Dreams", deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ExecuteRenameClub(ctx, "Hoop Dreams", "Fast Breaks", deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ExecuteRemoveClub(ctx, "Ankle Breakers", deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clubs, err := ExecuteListClubs(ctx, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clubs) != 1 || clubs[0] != "Fast Breaks" {
		t.Errorf("clubs = %v", clubs)
	}
}
