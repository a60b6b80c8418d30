package recommender

import (
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aditsuu/wisatarec/internal/popularity"
	"github.com/aditsuu/wisatarec/internal/preprocess"
	"github.com/aditsuu/wisatarec/internal/similarity"
)

// ErrSnapshotNotFound marks a missing or unopenable snapshot source. It is a
// recoverable condition: callers are expected to fall back to fitting from
// raw data when they see it.
var ErrSnapshotNotFound = errors.New("model snapshot not found")

// snapshotVersion guards against decoding blobs written by an incompatible
// build.
const snapshotVersion = 1

// snapshot is the serialized unit of fitted engine state. Loading one must
// reproduce identical recommendation output to the fit that produced it, so
// it carries everything derived: the enriched table, per-row popularity
// scores, the whole similarity index, and the smoothing constants. Nothing
// is recomputed on load.
type snapshot struct {
	Version   int
	Rows      []preprocess.Row
	PopScores []float64
	Index     *similarity.Index
	Stats     popularity.Stats
}

// Save serializes fitted engine state to path, creating parent directories
// as needed.
func (e *Engine) Save(path string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.ready {
		return ErrNotReady
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file %q: %w", path, err)
	}
	defer f.Close()

	snap := snapshot{
		Version:   snapshotVersion,
		Rows:      e.rows,
		PopScores: e.popScores,
		Index:     e.index,
		Stats:     e.stats,
	}
	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	slog.Debug("Saved model snapshot", "path", path, "attractions", len(e.rows))
	return nil
}

// Load restores engine state from a snapshot at path and transitions the
// engine to ready. A missing or unopenable source yields
// ErrSnapshotNotFound; a blob that cannot be decoded is a different error.
// Either way the engine keeps its previous state on failure.
func (e *Engine) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotNotFound, err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("failed to decode snapshot %q: %w", path, err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("snapshot %q has unsupported version %d", path, snap.Version)
	}
	if snap.Index == nil || len(snap.Rows) == 0 {
		return fmt.Errorf("snapshot %q is incomplete", path)
	}

	e.mu.Lock()
	e.rows = snap.Rows
	e.popScores = snap.PopScores
	e.index = snap.Index
	e.stats = snap.Stats
	e.ready = true
	e.mu.Unlock()

	slog.Debug("Loaded model snapshot", "path", path, "attractions", len(snap.Rows))
	return nil
}
