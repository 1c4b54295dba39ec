package submission

import (
	"strconv"
	"time"
)

// Submission is one row of a contest's submissions list
type Submission struct {
	ID            uint64  `json:"id"`
	EpochSecond   uint64  `json:"epoch_second"`
	ProblemID     string  `json:"problem_id"`
	ContestID     string  `json:"contest_id"`
	UserID        string  `json:"user_id"`
	Language      string  `json:"language"`
	Point         float64 `json:"point"`
	Length        uint64  `json:"length"`
	Result        string  `json:"result"`
	ExecutionTime *uint64 `json:"execution_time"` // milliseconds, nil when not judged or not shown
}

// Key returns the snapshot key for the submission
func (s *Submission) Key() string {
	return strconv.FormatUint(s.ID, 10)
}

// SubmittedAt returns the submission time in UTC
func (s *Submission) SubmittedAt() time.Time {
	return time.Unix(int64(s.EpochSecond), 0).UTC()
}

// IsAccepted reports whether the verdict is AC
func (s *Submission) IsAccepted() bool {
	return s.Result == "AC"
}
