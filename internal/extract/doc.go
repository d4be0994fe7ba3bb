// Package extract turns free-text turns into structured values.
//
// Every function here is pure and total. A value that cannot be parsed is
// reported as absent through a false second return, never as an error, so
// callers can re-prompt without special error handling.
package extract
