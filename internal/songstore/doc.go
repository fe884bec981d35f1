// Package songstore checkpoints harvested songs in SQLite so an interrupted
// harvest can resume where it stopped. Songs are keyed by title and listed in
// the order they were first stored.
package songstore
