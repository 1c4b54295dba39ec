// Package submission provides the submission record scraped from AtCoder contest
// listings, plus snapshot-based tracking of which submissions have already been seen.
//
// Submissions are keyed by their numeric AtCoder id, which is stable across crawls,
// so a snapshot diff reliably reports only submissions added since the last run.
package submission
