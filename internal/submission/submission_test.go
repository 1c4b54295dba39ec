package submission

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSubmission_Key(t *testing.T) {
	sub := &Submission{ID: 3176395}
	if got := sub.Key(); got != "3176395" {
		t.Errorf("Key() = %q, want %q", got, "3176395")
	}
}

func TestSubmission_SubmittedAt(t *testing.T) {
	// 2018-09-08 22:39:47+0900
	sub := &Submission{EpochSecond: 1536413987}
	got := sub.SubmittedAt()

	want := time.Date(2018, time.September, 8, 13, 39, 47, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("SubmittedAt() = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("SubmittedAt() location = %v, want UTC", got.Location())
	}
}

func TestSubmission_IsAccepted(t *testing.T) {
	tests := []struct {
		result string
		want   bool
	}{
		{"AC", true},
		{"WA", false},
		{"WJ", false},
		{"3/10 WJ", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			sub := &Submission{Result: tt.result}
			if got := sub.IsAccepted(); got != tt.want {
				t.Errorf("IsAccepted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubmission_JSONExecutionTime(t *testing.T) {
	ms := uint64(52)
	withTime, err := json.Marshal(&Submission{ID: 1, ExecutionTime: &ms})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(withTime), `"execution_time":52`) {
		t.Errorf("expected execution_time 52 in %s", withTime)
	}

	withoutTime, err := json.Marshal(&Submission{ID: 1})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(withoutTime), `"execution_time":null`) {
		t.Errorf("expected execution_time null in %s", withoutTime)
	}
}
