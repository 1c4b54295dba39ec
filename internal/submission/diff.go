package submission

import (
	"sort"
)

// Snapshot is the set of submissions known for one contest
type Snapshot struct {
	ContestID   string                 `json:"contest_id"`
	Submissions map[string]*Submission `json:"submissions"` // keyed by Submission.Key()
	UpdatedAt   string                 `json:"updated_at"`  // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot for a contest
func NewSnapshot(contestID string) *Snapshot {
	return &Snapshot{
		ContestID:   contestID,
		Submissions: make(map[string]*Submission),
	}
}

// CreateSnapshot builds a snapshot from a list of submissions
func CreateSnapshot(contestID string, subs []*Submission, updatedAt string) *Snapshot {
	snapshot := NewSnapshot(contestID)
	snapshot.Merge(subs)
	snapshot.UpdatedAt = updatedAt
	return snapshot
}

// Merge adds submissions to the snapshot. Later entries replace earlier ones with
// the same id so that re-judged verdicts overwrite pending ones.
// Returns the number of submissions that were not present before.
func (s *Snapshot) Merge(subs []*Submission) int {
	if s.Submissions == nil {
		s.Submissions = make(map[string]*Submission)
	}
	added := 0
	for _, sub := range subs {
		key := sub.Key()
		if _, exists := s.Submissions[key]; !exists {
			added++
		}
		s.Submissions[key] = sub
	}
	return added
}

// Contains reports whether the snapshot already holds a submission
func (s *Snapshot) Contains(sub *Submission) bool {
	if s == nil || s.Submissions == nil {
		return false
	}
	_, ok := s.Submissions[sub.Key()]
	return ok
}

// List returns the snapshot's submissions ordered by id
func (s *Snapshot) List() []*Submission {
	subs := make([]*Submission, 0, len(s.Submissions))
	for _, sub := range s.Submissions {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs
}

// DiffResult contains the submissions that were not in the previous snapshot
type DiffResult struct {
	NewSubmissions []*Submission
	Problems       map[string][]*Submission // new submissions grouped by problem
}

// Diff compares current submissions against a previous snapshot and returns new ones
func Diff(previous *Snapshot, current []*Submission) *DiffResult {
	result := &DiffResult{
		NewSubmissions: make([]*Submission, 0),
		Problems:       make(map[string][]*Submission),
	}

	seen := make(map[uint64]bool)
	for _, sub := range current {
		if previous.Contains(sub) || seen[sub.ID] {
			continue
		}
		seen[sub.ID] = true
		result.NewSubmissions = append(result.NewSubmissions, sub)
		result.Problems[sub.ProblemID] = append(result.Problems[sub.ProblemID], sub)
	}

	sort.Slice(result.NewSubmissions, func(i, j int) bool {
		return result.NewSubmissions[i].ID < result.NewSubmissions[j].ID
	})
	for problem := range result.Problems {
		group := result.Problems[problem]
		sort.Slice(group, func(i, j int) bool {
			return group[i].ID < group[j].ID
		})
	}

	return result
}
