// Package fileutil provides crash-safe file writes for the exported tables.
package fileutil
