// Package dictionary provides the word membership set used to validate
// candidate words.
//
// A Loader resolves the word list once, trying in order:
//
//  1. the cache file (flat, newline-delimited, uppercase)
//  2. the remote word list, bounded by a timeout, written back to the cache
//  3. a built-in list of common English words
//
// Load never fails. Shared guards process-wide at-most-once initialization.
package dictionary
