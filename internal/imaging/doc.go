// Package imaging provides the pixel-level operations the letter detector is
// built from: decoding, cropping, binarization, edge maps, colour analysis,
// and annotation of solved paths.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Rectangles follow
// image.Rectangle semantics: Min is inclusive, Max is exclusive.
//
// Crop returns images whose origin is (0,0). Callers that detect features in a
// crop add the crop rectangle's Min point to map them back into the source.
//
// # Masks
//
// Every Binarizer returns an *image.Gray where Foreground (255) marks
// candidate glyph pixels. Masks are polarity-normalized: when the foreground
// class covers more than half of the image it is inverted, so dark-on-light
// and light-on-dark layouts produce equivalent masks.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and can be called concurrently on different images.
package imaging
