// Package harvest walks an artist's Genius catalog and checkpoints every
// accepted song, with normalized lyrics, into the song store.
//
// A song is accepted when the artist is its primary artist (or its title is
// explicitly included), its lyrics are marked complete, it has an album (or
// is explicitly included), and its lyric body opens with a recognised
// section marker. Titles already checkpointed are skipped, so a harvest cut
// short by a timeout resumes on the next run.
package harvest
