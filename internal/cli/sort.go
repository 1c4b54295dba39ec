package cli

import (
	"sort"

	"github.com/pfrederiksen/atcoder-submissions/internal/submission"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByID      SortOrder = "id"
	SortByTime    SortOrder = "time"
	SortByUser    SortOrder = "user"
	SortByProblem SortOrder = "problem"
)

func validSortOrder(order SortOrder) bool {
	switch order {
	case SortByID, SortByTime, SortByUser, SortByProblem:
		return true
	}
	return false
}

// sortSubmissions sorts submissions in place. Ties fall back to id so the
// order is deterministic.
func sortSubmissions(subs []*submission.Submission, order SortOrder) {
	switch order {
	case SortByID:
		sort.SliceStable(subs, func(i, j int) bool {
			return subs[i].ID < subs[j].ID
		})
	case SortByTime:
		sort.SliceStable(subs, func(i, j int) bool {
			if subs[i].EpochSecond != subs[j].EpochSecond {
				return subs[i].EpochSecond < subs[j].EpochSecond
			}
			return subs[i].ID < subs[j].ID
		})
	case SortByUser:
		sort.SliceStable(subs, func(i, j int) bool {
			if subs[i].UserID != subs[j].UserID {
				return subs[i].UserID < subs[j].UserID
			}
			return subs[i].ID < subs[j].ID
		})
	case SortByProblem:
		sort.SliceStable(subs, func(i, j int) bool {
			if subs[i].ProblemID != subs[j].ProblemID {
				return subs[i].ProblemID < subs[j].ProblemID
			}
			return subs[i].ID < subs[j].ID
		})
	}
}

// filterSubmissions keeps submissions matching user and result; empty values match all
func filterSubmissions(subs []*submission.Submission, user, result string) []*submission.Submission {
	filtered := make([]*submission.Submission, 0, len(subs))
	for _, sub := range subs {
		if user != "" && sub.UserID != user {
			continue
		}
		if result != "" && sub.Result != result {
			continue
		}
		filtered = append(filtered, sub)
	}
	return filtered
}
