// Package logging assembles structured slog loggers and formatting helpers used
// across lyricgraph commands and pipeline stages.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so stage code can automatically tag log
// lines with run identifiers, stage names, and song titles. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
