package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/atcoder-submissions/internal/submission"
)

func testSubmissions() []*submission.Submission {
	execTime := uint64(107)
	return []*submission.Submission{
		{ID: 3176395, EpochSecond: 1536413987, ProblemID: "abc107_d", ContestID: "abc107", UserID: "kirika_comp",
			Language: "C++14 (GCC 5.4.1)", Point: 600, Length: 1843, Result: "AC", ExecutionTime: &execTime},
		{ID: 3176390, EpochSecond: 1536413978, ProblemID: "abc107_d", ContestID: "abc107", UserID: "hikaru0907",
			Language: "Rust (1.15.1)", Point: 0, Length: 3012, Result: "CE"},
		{ID: 3176389, EpochSecond: 1536413976, ProblemID: "abc107_a", ContestID: "abc107", UserID: "shiro_23",
			Language: "Ruby (2.3.3)", Point: 100, Length: 48, Result: "AC"},
	}
}

func TestWriteOutput_Text(t *testing.T) {
	subs := testSubmissions()

	tests := []struct {
		name     string
		result   *OutputResult
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:     "no new submissions",
			result:   &OutputResult{},
			contains: []string{"No new submissions found."},
		},
		{
			name:     "no submissions in show-all mode",
			result:   &OutputResult{ShowAll: true},
			contains: []string{"No submissions found."},
		},
		{
			name: "grouped by problem",
			result: &OutputResult{
				Submissions: subs,
				Count:       3,
				ByProblem:   groupByProblem(subs),
			},
			contains: []string{
				"abc107_a (1 new):",
				"abc107_d (2 new):",
				"NEW: 3176395 abc107_d kirika_comp AC 600 (107 ms)",
				"NEW: 3176390 abc107_d hikaru0907 CE 0\n",
				"Total: 3 new across 2 problems",
			},
			excludes: []string{"Language:"},
		},
		{
			name: "flat list with details",
			result: &OutputResult{
				Submissions: subs[:1],
				Count:       1,
				ShowAll:     true,
			},
			verbose: true,
			contains: []string{
				"3176395 abc107_d kirika_comp AC 600 (107 ms)",
				"Time: 2018-09-08T13:39:47Z",
				"Language: C++14 (GCC 5.4.1)",
				"Size: 1843 bytes",
				"Total: 1 submissions",
			},
			excludes: []string{"NEW:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteOutput(&buf, tt.result, FormatText, tt.verbose); err != nil {
				t.Fatalf("WriteOutput() error: %v", err)
			}

			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestWriteOutput_JSON(t *testing.T) {
	result := &OutputResult{
		CheckedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ContestID:   "abc107",
		Submissions: testSubmissions(),
		Count:       3,
	}

	var buf bytes.Buffer
	if err := WriteOutput(&buf, result, FormatJSON, false); err != nil {
		t.Fatalf("WriteOutput() error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["contest_id"] != "abc107" {
		t.Errorf("contest_id = %v, want abc107", decoded["contest_id"])
	}
	if _, ok := decoded["by_problem"]; ok {
		t.Error("empty by_problem should be omitted")
	}

	subs := decoded["submissions"].([]interface{})
	second := subs[1].(map[string]interface{})
	if second["execution_time"] != nil {
		t.Errorf("execution_time = %v, want null", second["execution_time"])
	}
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	if err := WriteOutput(&bytes.Buffer{}, &OutputResult{}, OutputFormat("xml"), false); err == nil {
		t.Error("WriteOutput() expected error for unknown format")
	}
}
