package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/busybeaver/internal/dto"
	"github.com/aretw0/busybeaver/pkg/domain"
)

// ErrInvalidRunID is returned for run IDs that cannot be used as a directory name.
var ErrInvalidRunID = domain.ErrInvalidRunID

// Store implements ports.ResultStore on the local filesystem.
// Every run is a directory under BasePath holding one JSON file per record.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".busybeaver/runs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".busybeaver", "runs")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return filepath.Join(s.BasePath, runID), nil
}

// Save writes the record atomically: to a temporary file first, synced, then renamed.
func (s *Store) Save(ctx context.Context, runID string, rec domain.Record) error {
	dir, err := s.runDir(runID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure run directory: %w", err)
	}

	data, err := json.MarshalIndent(dto.FromRecord(rec), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	name := strconv.FormatUint(rec.Index, 10)
	tmpFile, err := os.CreateTemp(dir, "tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // gone already after a successful rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Close before rename; Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(dir, name+".json")); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads one record.
func (s *Store) Load(ctx context.Context, runID string, index uint64) (domain.Record, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return domain.Record{}, err
	}
	return s.read(filepath.Join(dir, strconv.FormatUint(index, 10)+".json"))
}

func (s *Store) read(path string) (domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Record{}, domain.ErrResultNotFound
		}
		return domain.Record{}, fmt.Errorf("failed to read record file: %w", err)
	}

	var rec dto.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Record{}, fmt.Errorf("failed to unmarshal record %s: %w", filepath.Base(path), err)
	}
	return rec.ToDomain()
}

// List reads every record of a run, ordered by index.
func (s *Store) List(ctx context.Context, runID string) ([]domain.Record, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Record{}, nil
		}
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	var indices []uint64
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		index, err := strconv.ParseUint(strings.TrimSuffix(name, ".json"), 10, 64)
		if err != nil {
			continue
		}
		indices = append(indices, index)
	}
	slices.Sort(indices)

	recs := make([]domain.Record, 0, len(indices))
	for _, index := range indices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := s.read(filepath.Join(dir, strconv.FormatUint(index, 10)+".json"))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Runs returns the run directories under BasePath.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			runs = append(runs, entry.Name())
		}
	}
	slices.Sort(runs)
	return runs, nil
}

// Delete removes the run directory.
func (s *Store) Delete(ctx context.Context, runID string) error {
	dir, err := s.runDir(runID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}
