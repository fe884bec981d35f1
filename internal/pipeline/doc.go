// Package pipeline chains the stages of a lyricgraph run.
//
// Build turns songs into a lyric context graph: each song is normalized and
// scanned on a bounded pool of goroutines, the per-song graphs are collected
// back in catalog order, flattened into rows with a first-title-wins
// accumulator, and regrouped into the album hierarchy.
//
// Runner wires the persisted stages together the way a full run executes
// them: checkpoint store, songs table, lyrics table, lyrics JSON.
package pipeline
