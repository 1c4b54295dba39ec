// Package scraper parses AtCoder contest "submissions" list pages.
//
// It turns already-fetched HTML into submission records and finds the highest page
// number linked from a listing. Both entry points are pure: they never perform I/O,
// keep no state between calls, and are safe to call concurrently on independent input.
// Any deviation from the expected page shape fails the whole call; there are no
// partial results.
package scraper
