package letters

import (
	"image"

	"github.com/ironsheep/swipe-solver/internal/detection"
)

// ShapeDetector locates circles and glyph-sized regions.
// *detection.Detector satisfies it.
type ShapeDetector interface {
	FindCircles(gray *image.Gray, preset detection.CirclePreset) []detection.Circle
	FindBlobs(mask *image.Gray) []detection.Blob
}

// Recognizer reads the character in a small glyph image. The text it returns
// is untrusted: it may be empty, several characters, or the wrong letter.
// *ocr.Engine satisfies it.
type Recognizer interface {
	RecognizeCharacter(img image.Image) (string, float64, error)
}
