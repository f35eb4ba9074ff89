package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/guilbd/analise-apostas/models"
	"github.com/guilbd/analise-apostas/pkg/common"
)

const (
	batchPrefix        = "palpites_"
	batchSuffix        = ".json"
	batchTimestampForm = "20060102_150405"
	batchLabelForm     = "02/01/2006 15:04:05"
)

// BatchStore persists prediction batches as palpites_<timestamp>.json files
// under <dataDir>/palpites. Files are created once per collection run and
// read-only afterwards; deletion belongs to external housekeeping.
type BatchStore struct {
	dir string
}

// NewBatchStore creates the store and its directory.
func NewBatchStore(dataDir string) (*BatchStore, error) {
	dir := filepath.Join(dataDir, "palpites")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create batch directory: %w", err)
	}
	return &BatchStore{dir: dir}, nil
}

// Save writes the batch under a filename encoding the generation time and
// returns that filename.
func (s *BatchStore) Save(batch models.Batch, generatedAt time.Time) (string, error) {
	filename := batchPrefix + generatedAt.Format(batchTimestampForm) + batchSuffix

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode batch: %w", err)
	}

	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write batch file: %w", err)
	}

	return filename, nil
}

// Load reads one stored batch by filename. The filename must be a bare
// palpites_*.json name; path traversal is rejected.
func (s *BatchStore) Load(filename string) (models.Batch, error) {
	if filepath.Base(filename) != filename || !isBatchFilename(filename) {
		return nil, common.ErrInvalidInput
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var batch models.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode batch file: %w", err)
	}
	return batch, nil
}

// HistoryEntry is one row of the history page.
type HistoryEntry struct {
	Filename string `json:"arquivo"`
	Label    string `json:"data"`
}

// List returns up to limit stored batches, newest first. A limit <= 0 lists
// everything.
func (s *BatchStore) List(limit int) ([]HistoryEntry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isBatchFilename(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}

	// Timestamped names sort chronologically, so reverse-lexicographic is
	// newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	history := make([]HistoryEntry, 0, len(names))
	for _, name := range names {
		history = append(history, HistoryEntry{
			Filename: name,
			Label:    ResolveBatchLabel(name),
		})
	}
	return history, nil
}

// ResolveBatchLabel turns a batch filename into its human-readable
// generation date. A filename whose timestamp token does not parse is
// returned unmodified so the history page still loads.
func ResolveBatchLabel(filename string) string {
	generatedAt, err := ParseBatchTimestamp(filename)
	if err != nil {
		return filename
	}
	return generatedAt.Format(batchLabelForm)
}

// ParseBatchTimestamp extracts the generation time encoded in a batch
// filename.
func ParseBatchTimestamp(filename string) (time.Time, error) {
	if !isBatchFilename(filename) {
		return time.Time{}, common.ErrBadBatchName
	}

	token := strings.TrimSuffix(strings.TrimPrefix(filename, batchPrefix), batchSuffix)
	generatedAt, err := time.ParseInLocation(batchTimestampForm, token, time.Local)
	if err != nil {
		return time.Time{}, common.ErrBadBatchName
	}
	return generatedAt, nil
}

func isBatchFilename(name string) bool {
	return strings.HasPrefix(name, batchPrefix) && strings.HasSuffix(name, batchSuffix)
}
