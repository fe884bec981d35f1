// Package lyrics turns scraped lyric text into a lyric context graph.
//
// The pipeline has three steps:
//   - Normalizer cleans one raw lyric block: provider boilerplate, curly quotes,
//     typographic spaces, and long dashes become plain ASCII equivalents.
//   - BuildContexts scans normalized text and records, for every lyric line,
//     the nearest previous line and the immediately following line inside the
//     same section, folding identical (previous, line, next) triples into a
//     multiplicity count.
//   - Flatten and Regroup convert per-song graphs into a row-per-context table
//     and back into an album -> song -> contexts hierarchy.
//
// All functions here are total over their input and safe to call from
// multiple goroutines; each song's Graph is owned by whoever built it.
package lyrics
