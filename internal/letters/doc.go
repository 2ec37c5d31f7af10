// Package letters finds the letter tiles of a word-wheel puzzle in a
// screenshot.
//
// A Pipeline tries detection strategies from most to least specific:
//
//  1. wheel: a circle in the lower half of the screen, glyphs inside it
//  2. grid: squarish tiles in the lower 60%
//  3. fallback: adaptive threshold over the bottom 30%, first six letters
//  4. full_scan: the whole image under several binarizations, pooled
//
// The first strategy to produce at least MinViableCount observations wins.
// Observations closer than DedupeTolerance pixels are merged, keeping the
// more confident one.
//
// Shape finding and character recognition are reached through the
// ShapeDetector and Recognizer interfaces.
package letters
