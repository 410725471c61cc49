package orchestrators

import (
	"context"
	"fmt"

	"anklebreaker/internal/adapters/ingest"
	"anklebreaker/internal/adapters/storage/sessionstore"
	domain "anklebreaker/internal/domain/session"
)

// mockSessionStore implements sessionstore.Store in memory, recording the
// renames and writes orchestrators apply so tests can assert on them.
type mockSessionStore struct {
	sessions  map[string]*domain.Session   // by ID
	folders   map[string]string            // sessionID -> folder name
	fileNames map[string]map[string]string // sessionID -> fileID -> on-disk name
	occupied  map[string]bool              // folder names taken by other sessions

	metadataWrites int
	fileWrites     []string // file IDs
	renamedFiles   []string // "old -> new"
	renamedFolders []string
	deleted        []string

	createErr       error
	writeMetaErr    error
	renameFileErr   error
	renameFolderErr error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{
		sessions:  make(map[string]*domain.Session),
		folders:   make(map[string]string),
		fileNames: make(map[string]map[string]string),
		occupied:  make(map[string]bool),
	}
}

// track registers a session as already persisted, indexing each file under
// its current canonical name.
func (m *mockSessionStore) track(s *domain.Session) {
	m.sessions[s.ID] = s
	m.folders[s.ID] = s.FolderName
	names := make(map[string]string, len(s.Files))
	for _, f := range s.Files {
		names[f.ID] = f.FileName()
	}
	m.fileNames[s.ID] = names
}

// Create implements sessionstore.Store.
// POST: the session and its files are indexed under their canonical names.
func (m *mockSessionStore) Create(_ context.Context, s *domain.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	for m.FolderExists(s.CanonicalFolderName()) {
		s.Version++
	}
	s.FolderName = s.CanonicalFolderName()
	m.track(s)
	return nil
}

// Load implements sessionstore.Store.
func (m *mockSessionStore) Load(_ context.Context, folderName string) (*domain.Session, error) {
	for id, folder := range m.folders {
		if folder == folderName {
			return m.sessions[id], nil
		}
	}
	return nil, sessionstore.ErrNotFound
}

// List implements sessionstore.Store.
func (m *mockSessionStore) List(_ context.Context) ([]domain.Summary, error) {
	var out []domain.Summary
	for id, s := range m.sessions {
		out = append(out, domain.Summary{
			FolderName: m.folders[id],
			Club:       s.Club,
			EventDate:  s.EventDate,
			Paid:       s.Paid,
			Flagged:    s.Flagged(),
			NetToClub:  s.NetToClub,
			LastOpened: s.LastOpened,
		})
	}
	return out, nil
}

// WriteMetadata implements sessionstore.Store.
func (m *mockSessionStore) WriteMetadata(_ context.Context, s *domain.Session) error {
	if m.writeMetaErr != nil {
		return m.writeMetaErr
	}
	m.metadataWrites++
	return nil
}

// WriteFile implements sessionstore.Store.
func (m *mockSessionStore) WriteFile(_ context.Context, sessionID string, f *domain.FileRecordSet) error {
	m.fileWrites = append(m.fileWrites, f.ID)
	return nil
}

// FileName implements sessionstore.Store.
func (m *mockSessionStore) FileName(sessionID, fileID string) (string, error) {
	names, ok := m.fileNames[sessionID]
	if !ok {
		return "", sessionstore.ErrNotFound
	}
	name, ok := names[fileID]
	if !ok {
		return "", sessionstore.ErrNotFound
	}
	return name, nil
}

// FolderName implements sessionstore.Store.
func (m *mockSessionStore) FolderName(sessionID string) (string, error) {
	folder, ok := m.folders[sessionID]
	if !ok {
		return "", sessionstore.ErrNotFound
	}
	return folder, nil
}

// FolderExists implements sessionstore.Store.
func (m *mockSessionStore) FolderExists(name string) bool {
	if m.occupied[name] {
		return true
	}
	for _, folder := range m.folders {
		if folder == name {
			return true
		}
	}
	return false
}

// RenameFile implements sessionstore.Store.
// POST: the index is rewritten only on success.
func (m *mockSessionStore) RenameFile(_ context.Context, sessionID, fileID, newName string) error {
	if m.renameFileErr != nil {
		return m.renameFileErr
	}
	old := m.fileNames[sessionID][fileID]
	m.fileNames[sessionID][fileID] = newName
	m.renamedFiles = append(m.renamedFiles, fmt.Sprintf("%s -> %s", old, newName))
	return nil
}

// RenameFolder implements sessionstore.Store.
func (m *mockSessionStore) RenameFolder(_ context.Context, sessionID, newName string) error {
	if m.renameFolderErr != nil {
		return m.renameFolderErr
	}
	m.folders[sessionID] = newName
	m.renamedFolders = append(m.renamedFolders, newName)
	return nil
}

// Delete implements sessionstore.Store.
func (m *mockSessionStore) Delete(_ context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	delete(m.folders, sessionID)
	delete(m.fileNames, sessionID)
	m.deleted = append(m.deleted, sessionID)
	return nil
}

// recordingNotifier counts signals so tests can assert coarse-grained
// notification behavior.
type recordingNotifier struct {
	topology int
	data     int
}

func (n *recordingNotifier) TopologyChanged() { n.topology++ }
func (n *recordingNotifier) DataChanged()     { n.data++ }

// mockParser implements ingest.Parser from canned results.
type mockParser struct {
	files map[string]*ingest.ParsedFile
	errs  map[string]error
}

func (p *mockParser) Parse(path string) (*ingest.ParsedFile, error) {
	if err := p.errs[path]; err != nil {
		return nil, err
	}
	f, ok := p.files[path]
	if !ok {
		return nil, fmt.Errorf("no canned result for %s", path)
	}
	return f, nil
}

// mockClubRegistry implements clubregistry.Store in memory.
type mockClubRegistry struct {
	clubs  []string
	addErr error
}

func (r *mockClubRegistry) List(_ context.Context) ([]string, error) { return r.clubs, nil }

func (r *mockClubRegistry) Add(_ context.Context, name string) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.clubs = append(r.clubs, name)
	return nil
}

func (r *mockClubRegistry) Remove(_ context.Context, name string) error {
	out := r.clubs[:0]
	for _, c := range r.clubs {
		if c != name {
			out = append(out, c)
		}
	}
	r.clubs = out
	return nil
}

func (r *mockClubRegistry) Rename(_ context.Context, oldName, newName string) error {
	for i, c := range r.clubs {
		if c == oldName {
			r.clubs[i] = newName
		}
	}
	return nil
}

// sequentialIDs returns a GenerateID func yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
