// Package catalog holds the song record exchanged between harvesting, storage,
// and export, together with the album rules that decide how a provider album
// name is classified and which albums reach the exported songs table.
//
// Rules are read from a JSON file that is reloaded whenever its modification
// time changes. Without a file the built-in defaults apply.
package catalog
