package letters

import (
	"image"
	"image/color"
	"sort"

	"github.com/ironsheep/swipe-solver/internal/detection"
	"github.com/ironsheep/swipe-solver/internal/imaging"
	"github.com/ironsheep/swipe-solver/internal/logging"
)

// GlyphFilter admits blobs whose bounding box looks like a single letter.
// Zero limits are ignored. Side and area limits are inclusive, aspect limits
// exclusive: a box exactly MaxAspect times wider than tall is rejected.
type GlyphFilter struct {
	MinSide   int
	MaxSide   int
	MinArea   int
	MaxArea   int
	MinAspect float64
	MaxAspect float64
}

// Accept reports whether b passes every configured limit.
func (f GlyphFilter) Accept(b detection.Blob) bool {
	w, h := b.Bounds.Dx(), b.Bounds.Dy()
	if f.MinSide > 0 && (w < f.MinSide || h < f.MinSide) {
		return false
	}
	if f.MaxSide > 0 && (w > f.MaxSide || h > f.MaxSide) {
		return false
	}
	area := b.Area()
	if f.MinArea > 0 && area < f.MinArea {
		return false
	}
	if f.MaxArea > 0 && area > f.MaxArea {
		return false
	}
	aspect := b.Aspect()
	if f.MinAspect > 0 && aspect <= f.MinAspect {
		return false
	}
	if f.MaxAspect > 0 && aspect >= f.MaxAspect {
		return false
	}
	return true
}

// largestFirst orders blobs by bounding-box area, keeping scan order on ties.
func largestFirst(blobs []detection.Blob) []detection.Blob {
	sorted := make([]detection.Blob, len(blobs))
	copy(sorted, blobs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area() > sorted[j].Area()
	})
	return sorted
}

// glyphReader turns mask blobs into observations via the recognizer.
type glyphReader struct {
	rec     Recognizer
	minSide int
	margin  int
	log     *logging.Logger
}

// read recognizes the glyph covered by blob. offset maps mask coordinates to
// source image coordinates.
func (r *glyphReader) read(mask *image.Gray, blob detection.Blob, offset image.Point) (Observation, bool) {
	rect := blob.Bounds.Inset(-r.margin).Intersect(mask.Bounds())
	if rect.Empty() {
		return Observation{}, false
	}

	// Black glyph on white, the form Tesseract reads best.
	glyph := image.NewGray(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			v := uint8(255)
			if mask.GrayAt(rect.Min.X+x, rect.Min.Y+y).Y >= 128 {
				v = 0
			}
			glyph.SetGray(x, y, color.Gray{Y: v})
		}
	}

	text, conf, err := r.rec.RecognizeCharacter(imaging.PrepareGlyph(glyph, r.minSide))
	if err != nil {
		r.log.Debug("recognizer failed", "bounds", blob.Bounds, "error", err)
		return Observation{}, false
	}
	letter, ok := normalizeLetter(text)
	if !ok {
		r.log.Debug("discarded recognizer output", "bounds", blob.Bounds, "text", text)
		return Observation{}, false
	}
	// Recognizers that report no confidence get the default.
	if conf <= 0 || conf > 1 {
		conf = 1.0
	}

	c := blob.Center().Add(offset)
	return Observation{Letter: letter, X: c.X, Y: c.Y, Confidence: conf}, true
}
