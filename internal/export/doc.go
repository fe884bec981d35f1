// Package export reads and writes the persisted forms of a build:
//
//   - the songs table (Title, Album, Lyrics), the hand-off between harvest
//     and build
//   - the lyrics table (Song, Album, Lyric, Previous Lyric, Next Lyric,
//     Multiplicity), one row per context
//   - the lyrics JSON document, album -> song -> contexts
//
// Writers replace files atomically. Readers validate headers and fields and
// fail on the first malformed row.
package export
