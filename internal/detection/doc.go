// Package detection provides the shape primitives the letter detector builds
// on: circle finding and connected-component (blob) extraction.
//
// # Circles
//
// FindCircles runs a gradient Hough transform over a Canny edge map. Each
// CirclePreset bounds the radius range and the circumference support a circle
// needs. Callers typically try DefaultPresets in order and stop at the first
// preset that yields a circle.
//
// # Blobs
//
// FindBlobs groups foreground pixels of a binary mask into 8-connected
// components and reports each component's bounding box and pixel count.
// Components smaller than MinBlobPixels are dropped as noise.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
//
// Results are reported in the input image's coordinate space, so inputs with
// a non-zero bounds origin produce offset coordinates.
//
// # Confidence Scores
//
// Circle confidence is the fraction of the expected circumference (2πr)
// covered by edge pixels within one pixel of the detected radius, capped at 1.0.
//
// # Performance Considerations
//
// Circle voting is O(edge pixels × radius range). Inputs are downscaled to
// Detector.MaxWorkingSize before voting to keep this bounded for full-resolution
// screenshots.
package detection
