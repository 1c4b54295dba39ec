package scraper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/atcoder-submissions/internal/submission"
	"golang.org/x/net/html"
)

// TimestampLayout is the submission time format, e.g. "2018-09-08 22:39:47+0900"
const TimestampLayout = "2006-01-02 15:04:05-0700"

const (
	lengthUnit        = "Byte"
	executionTimeUnit = "ms"
)

// Column is a cell position within a results table row.
// The listing has no header we can bind against, so position is meaning.
type Column int

// Columns in the order they appear in a row. Cells after ColumnExecutionTime
// (memory, detail link) are not read by position.
const (
	ColumnTime Column = iota
	ColumnProblem
	ColumnUser
	ColumnLanguage
	ColumnPoint
	ColumnLength
	ColumnResult
	ColumnExecutionTime
)

// fieldID names the submission id, which is found by link pattern rather than position
const fieldID = "id"

var columnNames = [...]string{
	ColumnTime:          "time",
	ColumnProblem:       "problem",
	ColumnUser:          "user",
	ColumnLanguage:      "language",
	ColumnPoint:         "point",
	ColumnLength:        "length",
	ColumnResult:        "result",
	ColumnExecutionTime: "execution_time",
}

func (c Column) String() string {
	if c < 0 || int(c) >= len(columnNames) {
		return fmt.Sprintf("column %d", int(c))
	}
	return columnNames[c]
}

var errBeforeEpoch = errors.New("timestamp before unix epoch")

// ScrapeSubmissions extracts every row of the first results table in htmlText.
//
// Rows are returned in document order, each tagged with contestID. The first row that
// cannot be fully extracted aborts the call with a *FieldError; no records are returned
// in that case.
func ScrapeSubmissions(htmlText, contestID string) ([]*submission.Submission, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	tbody := doc.Find("tbody").First()
	if tbody.Length() == 0 {
		return nil, ErrNoResultsTable
	}

	rows := tbody.Find("tr")
	subs := make([]*submission.Submission, 0, rows.Length())
	for i := range rows.Nodes {
		sub, err := scrapeRow(rows.Eq(i), i+1, contestID)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	return subs, nil
}

// scrapeRow maps one table row to a submission, reading cells in column order
func scrapeRow(tr *goquery.Selection, row int, contestID string) (*submission.Submission, error) {
	cells := tr.Find("td")
	cell := func(c Column) *goquery.Selection {
		return cells.Eq(int(c))
	}

	epochSecond, err := parseTime(cell(ColumnTime), row)
	if err != nil {
		return nil, err
	}

	problemID, err := linkID(cell(ColumnProblem), row, ColumnProblem)
	if err != nil {
		return nil, err
	}

	userID, err := linkID(cell(ColumnUser), row, ColumnUser)
	if err != nil {
		return nil, err
	}

	language, _ := cellText(cell(ColumnLanguage))

	text, err := requiredText(cell(ColumnPoint), row, ColumnPoint)
	if err != nil {
		return nil, err
	}
	point, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, malformedField(row, ColumnPoint.String(), text, err)
	}

	text, err = requiredText(cell(ColumnLength), row, ColumnLength)
	if err != nil {
		return nil, err
	}
	length, err := parseUnit(text, lengthUnit)
	if err != nil {
		return nil, malformedField(row, ColumnLength.String(), text, err)
	}

	result, err := requiredText(cell(ColumnResult), row, ColumnResult)
	if err != nil {
		return nil, err
	}

	id, err := submissionID(tr, row)
	if err != nil {
		return nil, err
	}

	return &submission.Submission{
		ID:            id,
		EpochSecond:   epochSecond,
		ProblemID:     problemID,
		ContestID:     contestID,
		UserID:        userID,
		Language:      language,
		Point:         point,
		Length:        length,
		Result:        result,
		ExecutionTime: executionTime(cell(ColumnExecutionTime)),
	}, nil
}

func parseTime(sel *goquery.Selection, row int) (uint64, error) {
	text, err := requiredText(sel, row, ColumnTime)
	if err != nil {
		return 0, err
	}
	t, err := time.Parse(TimestampLayout, text)
	if err != nil {
		return 0, malformedField(row, ColumnTime.String(), text, err)
	}
	if t.Unix() < 0 {
		return 0, malformedField(row, ColumnTime.String(), text, errBeforeEpoch)
	}
	return uint64(t.Unix()), nil
}

// linkID returns the last path segment of the first link in the cell
func linkID(sel *goquery.Selection, row int, c Column) (string, error) {
	href, ok := sel.Find("a").First().Attr("href")
	if !ok {
		return "", missingField(row, c.String())
	}
	return lastSegment(href, "/"), nil
}

// submissionID finds the detail link anywhere in the row. Problem and user links
// never end in "submissions/<digits>", so they cannot be mistaken for it.
func submissionID(tr *goquery.Selection, row int) (uint64, error) {
	link := tr.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		return ok && IsSubmissionDetailLink(href)
	}).First()

	href, ok := link.Attr("href")
	if !ok {
		return 0, &FieldError{Kind: ErrPattern, Row: row, Field: fieldID}
	}

	digits := strings.TrimSpace(lastSegment(href, "/"))
	id, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, malformedField(row, fieldID, href, err)
	}
	return id, nil
}

// executionTime is best-effort: any missing or unparseable value yields nil
func executionTime(sel *goquery.Selection) *uint64 {
	text, ok := cellText(sel)
	if !ok {
		return nil
	}
	ms, err := parseUnit(text, executionTimeUnit)
	if err != nil {
		return nil
	}
	return &ms
}

// parseUnit strips a unit marker such as "Byte" and parses what remains
func parseUnit(text, unit string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(strings.ReplaceAll(text, unit, "")), 10, 64)
}

func requiredText(sel *goquery.Selection, row int, c Column) (string, error) {
	text, ok := cellText(sel)
	if !ok {
		return "", missingField(row, c.String())
	}
	return text, nil
}

// cellText returns the first non-blank text node under the selection, trimmed
func cellText(sel *goquery.Selection) (string, bool) {
	for _, n := range sel.Nodes {
		if text, ok := firstText(n); ok {
			return text, true
		}
	}
	return "", false
}

func firstText(n *html.Node) (string, bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if text := strings.TrimSpace(c.Data); text != "" {
				return text, true
			}
			continue
		}
		if c.Type != html.ElementNode {
			continue
		}
		if text, ok := firstText(c); ok {
			return text, true
		}
	}
	return "", false
}
