// Command lyricgraph harvests an artist's lyrics from Genius and builds the
// lyric context graph from them.
//
//	lyricgraph harvest [--append]   checkpoint accepted songs into the store
//	lyricgraph build                songs table -> lyrics table -> lyrics JSON
//	lyricgraph run [--append]       harvest, export the songs table, build
//	lyricgraph show <title>         context table for one stored song
//	lyricgraph songs [--json]       list stored songs
//	lyricgraph config init|validate
package main
