// Package cli implements the command-line interface for atcoder-submissions.
//
// The cli package provides the Cobra-based commands: crawl fetches a contest's
// submissions list and reports submissions added since the last run, parse and pages
// run the scraper offline against saved HTML. It wires config, logging, the AtCoder
// client, the crawler and snapshot storage together.
package cli
