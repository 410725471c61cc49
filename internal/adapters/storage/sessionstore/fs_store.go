package sessionstore

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	domain "anklebreaker/internal/domain/session"
)

// Default retry policy for renames and metadata swaps that can hit external
// contention (another process holding a file open).
const (
	DefaultRetryAttempts = 3
	DefaultRetryBackoff  = 150 * time.Millisecond
)

// FSStore implements Store on a plain directory tree:
//
//	<root>/
//	  Session-<club>-<date>[-flag][-vN]/
//	    csv/<base-name>[-flag].csv
//	    metadata/metadata.json
//
// The store keeps a path index per session (folder name plus fileID -> table
// file name) so callers address files by surrogate key while paths change
// underneath.
type FSStore struct {
	RetryAttempts int
	RetryBackoff  time.Duration

	root       string
	generateID func() string
	index      map[string]*sessionPaths
}

type sessionPaths struct {
	folder string
	files  map[string]string // fileID -> table file name (with extension)
}

// NewFSStore builds a store rooted at the sessions directory.
func NewFSStore(root string, generateID func() string) *FSStore {
	return &FSStore{
		RetryAttempts: DefaultRetryAttempts,
		RetryBackoff:  DefaultRetryBackoff,
		root:          root,
		generateID:    generateID,
		index:         make(map[string]*sessionPaths),
	}
}

// Root returns the sessions root directory.
func (st *FSStore) Root() string {
	return st.root
}

// Create writes a new session directory.
// PRE: s has at least its club, event date, and files populated.
// POST: Folder-name collisions are resolved with -vN; s.FolderName and
// s.Version reflect the names actually used; the path index tracks the
// session.
func (st *FSStore) Create(_ context.Context, s *domain.Session) error {
	if err := os.MkdirAll(st.root, 0o755); err != nil {
		return fmt.Errorf("failed to create sessions root: %w", err)
	}

	// Session folder names are unique under the root.
	for st.FolderExists(s.CanonicalFolderName()) {
		s.Version++
	}
	folder := s.CanonicalFolderName()

	dir := filepath.Join(st.root, folder)
	if err := os.MkdirAll(filepath.Join(dir, csvDirName), 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, metaDirName), 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	paths := &sessionPaths{folder: folder, files: make(map[string]string)}
	for _, f := range s.Files {
		name := f.FileName()
		if err := st.writeTable(filepath.Join(dir, csvDirName, name), f); err != nil {
			return err
		}
		paths.files[f.ID] = name
	}

	s.FolderName = folder
	st.index[s.ID] = paths

	if err := st.WriteMetadata(context.Background(), s); err != nil {
		delete(st.index, s.ID)
		return err
	}
	return nil
}

// Load reconstructs a session from its directory.
// POST: Missing or invalid metadata yields ErrNotFound; current statuses are
// taken from stored data when present, else from default statuses, never
// re-derived from notes.
func (st *FSStore) Load(_ context.Context, folderName string) (*domain.Session, error) {
	dir := filepath.Join(st.root, folderName)
	rec, err := readMetadata(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, folderName, err)
	}

	s := domain.New(st.generateID(), rec.Club, rec.Date, time.Time{})
	s.FolderName = folderName
	s.Version = parseVersion(folderName)
	if info, serr := os.Stat(dir); serr == nil {
		s.CreatedAt = info.ModTime()
	}

	paths := &sessionPaths{folder: folderName, files: make(map[string]string)}
	entries, err := os.ReadDir(filepath.Join(dir, csvDirName))
	if err != nil {
		return nil, fmt.Errorf("failed to read session tables: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		rows, rerr := readTable(filepath.Join(dir, csvDirName, entry.Name()))
		if rerr != nil {
			return nil, rerr
		}
		f := unmarshalTable(st.generateID(), domain.TrimBaseName(entry.Name()), rows)
		s.Files = append(s.Files, f)
		paths.files[f.ID] = entry.Name()
	}

	applyMetadata(s, rec)
	st.index[s.ID] = paths
	return s, nil
}

// List enumerates session summaries under the root.
// POST: Directories with missing or invalid metadata are skipped; a missing
// root yields an empty list.
func (st *FSStore) List(_ context.Context) ([]domain.Summary, error) {
	entries, err := os.ReadDir(st.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions root: %w", err)
	}

	var summaries []domain.Summary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, rerr := readMetadata(filepath.Join(st.root, entry.Name()))
		if rerr != nil {
			// Not a valid session; leave it alone and keep enumerating.
			continue
		}
		summary := domain.Summary{
			FolderName: entry.Name(),
			Club:       rec.Club,
			EventDate:  rec.Date,
			Paid:       rec.Paid,
			Flagged:    rec.Flagged,
		}
		if net, nerr := summaryNet(rec); nerr == nil {
			summary.NetToClub = net
		}
		if rec.LastOpened != "" {
			if t, terr := time.Parse(time.RFC3339, rec.LastOpened); terr == nil {
				summary.LastOpened = t
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// WriteMetadata persists the session's metadata record via a temp file swap
// so a crash never leaves a torn record behind.
func (st *FSStore) WriteMetadata(_ context.Context, s *domain.Session) error {
	paths, ok := st.index[s.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, s.ID)
	}
	metaPath := filepath.Join(st.root, paths.folder, metaDirName, metaFileName)

	data, err := json.MarshalIndent(metadataFromSession(s), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	tmp := metaPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	if err := st.retryRename(tmp, metaPath); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// WriteFile rewrites one record set's table under its current on-disk name.
func (st *FSStore) WriteFile(_ context.Context, sessionID string, f *domain.FileRecordSet) error {
	paths, ok := st.index[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	name, ok := paths.files[f.ID]
	if !ok {
		return fmt.Errorf("%w: file %s", ErrNotFound, f.ID)
	}
	return st.writeTable(filepath.Join(st.root, paths.folder, csvDirName, name), f)
}

// FileName returns the name the file currently has on disk.
func (st *FSStore) FileName(sessionID, fileID string) (string, error) {
	paths, ok := st.index[sessionID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	name, ok := paths.files[fileID]
	if !ok {
		return "", fmt.Errorf("%w: file %s", ErrNotFound, fileID)
	}
	return name, nil
}

// FolderName returns the name the session directory currently has on disk.
func (st *FSStore) FolderName(sessionID string) (string, error) {
	paths, ok := st.index[sessionID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	return paths.folder, nil
}

// FolderExists reports whether a directory with the given name exists under
// the root.
func (st *FSStore) FolderExists(name string) bool {
	info, err := os.Stat(filepath.Join(st.root, name))
	return err == nil && info.IsDir()
}

// RenameFile renames one table on disk.
// POST: The path index is rewritten only after the rename succeeds, so a
// failed rename leaves prior state intact. Renaming to the current name is a
// no-op.
func (st *FSStore) RenameFile(_ context.Context, sessionID, fileID, newName string) error {
	paths, ok := st.index[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	oldName, ok := paths.files[fileID]
	if !ok {
		return fmt.Errorf("%w: file %s", ErrNotFound, fileID)
	}
	if oldName == newName {
		return nil
	}

	csvDir := filepath.Join(st.root, paths.folder, csvDirName)
	if err := st.retryRename(filepath.Join(csvDir, oldName), filepath.Join(csvDir, newName)); err != nil {
		return err
	}
	paths.files[fileID] = newName
	return nil
}

// RenameFolder renames the session directory.
// POST: Every tracked path is rooted at the new folder as one logical step;
// on failure nothing is rewritten. Renaming to the current name is a no-op.
func (st *FSStore) RenameFolder(_ context.Context, sessionID, newName string) error {
	paths, ok := st.index[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	if paths.folder == newName {
		return nil
	}

	if err := st.retryRename(filepath.Join(st.root, paths.folder), filepath.Join(st.root, newName)); err != nil {
		return err
	}
	paths.folder = newName
	return nil
}

// Delete removes the session directory and evicts all cached keys
// referencing it.
func (st *FSStore) Delete(_ context.Context, sessionID string) error {
	paths, ok := st.index[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	if err := os.RemoveAll(filepath.Join(st.root, paths.folder)); err != nil {
		return fmt.Errorf("failed to delete session directory: %w", err)
	}
	delete(st.index, sessionID)
	return nil
}

// writeTable writes one record set as a CSV table.
func (st *FSStore) writeTable(path string, f *domain.FileRecordSet) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(marshalTable(f)); err != nil {
		return fmt.Errorf("failed to write table %s: %w", filepath.Base(path), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write table %s: %w", filepath.Base(path), err)
	}
	return nil
}

// retryRename attempts a rename with a short backoff between attempts, then
// surfaces the named locked-resource error. Contention from another process
// holding the file open is the only expected cause.
func (st *FSStore) retryRename(oldPath, newPath string) error {
	attempts := st.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(st.RetryBackoff)
		}
		if lastErr = os.Rename(oldPath, newPath); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrResourceLocked, filepath.Base(oldPath), lastErr)
}

// readMetadata reads and decodes a session's metadata record.
func readMetadata(sessionDir string) (metadataRecord, error) {
	var rec metadataRecord
	data, err := os.ReadFile(filepath.Join(sessionDir, metaDirName, metaFileName))
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, err
	}
	if rec.Club == "" || rec.Date == "" {
		return rec, fmt.Errorf("metadata missing club or date")
	}
	return rec, nil
}

// readTable reads one CSV table's raw rows.
func readTable(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// parseVersion extracts the -vN collision suffix from a folder name; 1 when
// absent.
func parseVersion(folderName string) int {
	i := strings.LastIndex(folderName, "-v")
	if i < 0 {
		return 1
	}
	n, err := strconv.Atoi(folderName[i+2:])
	if err != nil || n < 2 {
		return 1
	}
	return n
}
