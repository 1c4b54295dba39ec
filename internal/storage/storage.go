package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/atcoder-submissions/internal/submission"
)

var contestIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Storage handles persistence of submission snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance, creating dataDir if needed
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// DataDir returns the expanded data directory
func (s *Storage) DataDir() string {
	return s.dataDir
}

func (s *Storage) snapshotPath(contestID string) (string, error) {
	if !contestIDPattern.MatchString(contestID) {
		return "", fmt.Errorf("invalid contest id: %q", contestID)
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", contestID)), nil
}

// LoadSnapshot loads a contest's snapshot from disk
func (s *Storage) LoadSnapshot(contestID string) (*submission.Snapshot, error) {
	path, err := s.snapshotPath(contestID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return submission.NewSnapshot(contestID), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot submission.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Submissions == nil {
		snapshot.Submissions = make(map[string]*submission.Submission)
	}
	if snapshot.ContestID == "" {
		snapshot.ContestID = contestID
	}

	return &snapshot, nil
}

// SaveSnapshot writes a snapshot to disk, replacing any previous one.
// The file is written to a temporary name first so a crash never leaves a
// truncated snapshot behind.
func (s *Storage) SaveSnapshot(snapshot *submission.Snapshot) error {
	path, err := s.snapshotPath(snapshot.ContestID)
	if err != nil {
		return err
	}

	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	return nil
}

// SaveSubmissions merges submissions into the contest's stored snapshot.
// Returns the number of submissions that were not stored before.
func (s *Storage) SaveSubmissions(contestID string, subs []*submission.Submission) (int, error) {
	snapshot, err := s.LoadSnapshot(contestID)
	if err != nil {
		return 0, fmt.Errorf("loading snapshot: %w", err)
	}

	added := snapshot.Merge(subs)
	if err := s.SaveSnapshot(snapshot); err != nil {
		return 0, err
	}
	return added, nil
}

// ListContests returns the ids of all contests with a stored snapshot
func (s *Storage) ListContests() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dataDir, "snapshot_*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	contests := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), "snapshot_"), ".json")
		if contestIDPattern.MatchString(name) {
			contests = append(contests, name)
		}
	}
	sort.Strings(contests)
	return contests, nil
}
