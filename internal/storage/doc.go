// Package storage persists per-contest submission snapshots as JSON files.
//
// Each contest is stored in its own snapshot_<contest>.json under the data directory.
// A missing file is not an error: it loads as an empty snapshot, which makes the first
// crawl of a contest report every submission as new.
package storage
