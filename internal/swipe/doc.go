// Package swipe turns detected letter positions into ranked dictionary words
// and the swipe paths that spell them.
//
// Candidate strings are permutations without repetition of the distinct
// letters present, enumerated lazily from the longest allowed length down.
// Each dictionary hit is realized into a path that never visits the same
// observation twice; duplicate tiles of one letter are separate slots.
// Enumeration stops as soon as MaxResults candidates exist.
package swipe
