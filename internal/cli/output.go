package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/atcoder-submissions/internal/submission"
	"github.com/spf13/cobra"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt   time.Time                           `json:"checked_at"`
	ContestID   string                              `json:"contest_id"`
	Submissions []*submission.Submission            `json:"submissions"`
	Count       int                                 `json:"count"`
	ByProblem   map[string][]*submission.Submission `json:"by_problem,omitempty"`
	ShowAll     bool                                `json:"show_all,omitempty"`
}

// outputOptions are the flags shared by commands that print submissions
type outputOptions struct {
	format  string
	sortBy  string
	user    string
	result  string
	verbose bool
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&o.sortBy, "sort", "", "Sort by: id, time, user, problem (default: listing order)")
	cmd.Flags().StringVar(&o.user, "user", "", "Only show submissions by this user")
	cmd.Flags().StringVar(&o.result, "result", "", "Only show submissions with this verdict, e.g. AC")
	cmd.Flags().BoolVar(&o.verbose, "verbose", false, "Show language, size and submission time")
}

func (o *outputOptions) outputFormat() OutputFormat {
	return OutputFormat(strings.ToLower(o.format))
}

func (o *outputOptions) validate() error {
	format := o.outputFormat()
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}
	if o.sortBy != "" && !validSortOrder(SortOrder(o.sortBy)) {
		return fmt.Errorf("invalid sort order: %s (must be 'id', 'time', 'user' or 'problem')", o.sortBy)
	}
	return nil
}

// apply filters and sorts submissions according to the flags
func (o *outputOptions) apply(subs []*submission.Submission) []*submission.Submission {
	filtered := filterSubmissions(subs, o.user, o.result)
	if o.sortBy != "" {
		sortSubmissions(filtered, SortOrder(o.sortBy))
	}
	return filtered
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	label := "new"
	prefix := "NEW: "
	if result.ShowAll {
		label = "submissions"
		prefix = ""
	}

	if result.Count == 0 {
		if result.ShowAll {
			fmt.Fprintln(w, "No submissions found.")
		} else {
			fmt.Fprintln(w, "No new submissions found.")
		}
		return nil
	}

	if len(result.ByProblem) > 0 {
		problems := make([]string, 0, len(result.ByProblem))
		for problem := range result.ByProblem {
			problems = append(problems, problem)
		}
		sort.Strings(problems)

		for _, problem := range problems {
			subs := result.ByProblem[problem]
			if len(subs) == 0 {
				continue
			}
			fmt.Fprintf(w, "\n%s (%d %s):\n", problem, len(subs), label)
			for _, sub := range subs {
				fmt.Fprintf(w, "  %s%s\n", prefix, formatSubmission(sub))
				if verbose {
					writeDetails(w, sub, "       ")
				}
			}
		}
		fmt.Fprintf(w, "\nTotal: %d %s across %d problems\n", result.Count, label, len(result.ByProblem))
		return nil
	}

	for _, sub := range result.Submissions {
		fmt.Fprintf(w, "%s%s\n", prefix, formatSubmission(sub))
		if verbose {
			writeDetails(w, sub, "     ")
		}
	}
	fmt.Fprintf(w, "\nTotal: %d %s\n", result.Count, label)

	return nil
}

// formatSubmission renders the one-line summary of a submission
func formatSubmission(sub *submission.Submission) string {
	line := fmt.Sprintf("%d %s %s %s %g", sub.ID, sub.ProblemID, sub.UserID, sub.Result, sub.Point)
	if sub.ExecutionTime != nil {
		line += fmt.Sprintf(" (%d ms)", *sub.ExecutionTime)
	}
	return line
}

func writeDetails(w io.Writer, sub *submission.Submission, indent string) {
	fmt.Fprintf(w, "%sTime: %s\n", indent, sub.SubmittedAt().Format(time.RFC3339))
	if sub.Language != "" {
		fmt.Fprintf(w, "%sLanguage: %s\n", indent, sub.Language)
	}
	fmt.Fprintf(w, "%sSize: %d bytes\n", indent, sub.Length)
}

func groupByProblem(subs []*submission.Submission) map[string][]*submission.Submission {
	groups := make(map[string][]*submission.Submission)
	for _, sub := range subs {
		groups[sub.ProblemID] = append(groups[sub.ProblemID], sub)
	}
	return groups
}

func writePageCount(w io.Writer, count uint32, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, struct {
			PageCount uint32 `json:"page_count"`
		}{count})
	}
	_, err := fmt.Fprintln(w, count)
	return err
}
