package scraper

import (
	"regexp"
	"strings"
)

// Link target patterns. Both are anchored to the end of the href.
const (
	// PaginationLinkPattern matches links to a numbered results page, e.g. "?page=12".
	PaginationLinkPattern = `page=\d+$`
	// SubmissionLinkPattern matches links to a submission's detail page,
	// e.g. "/contests/abc107/submissions/3176395".
	SubmissionLinkPattern = `submissions/\d+$`
)

var (
	paginationLinkRe = regexp.MustCompile(PaginationLinkPattern)
	submissionLinkRe = regexp.MustCompile(SubmissionLinkPattern)
)

// IsPaginationLink reports whether href points at a numbered results page
func IsPaginationLink(href string) bool {
	return paginationLinkRe.MatchString(href)
}

// IsSubmissionDetailLink reports whether href points at a single submission
func IsSubmissionDetailLink(href string) bool {
	return submissionLinkRe.MatchString(href)
}

// lastSegment returns the part of s after the final sep, or s if sep is absent
func lastSegment(s, sep string) string {
	return s[strings.LastIndex(s, sep)+1:]
}
