package store

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SnapshotName is the canonical JSON image of the workspace, written next to
// the SQLite index. The index is derived/local-only from git's point of view;
// the snapshot is what gets committed and diffed.
const SnapshotName = "state.json"

// WriteSnapshot serializes db to the workspace snapshot file and returns its
// path. The write is atomic (temp file + rename) so a crashed sync never
// leaves a torn snapshot behind.
func (s Store) WriteSnapshot(db *DB) (string, error) {
	path := filepath.Join(s.Dir, SnapshotName)

	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return "", err
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(s.Dir, SnapshotName+".tmp-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return path, nil
}
