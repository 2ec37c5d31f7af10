package letters

import (
	"image"

	"github.com/ironsheep/swipe-solver/internal/detection"
	"github.com/ironsheep/swipe-solver/internal/imaging"
)

// Strategy proposes letter observations for a whole screenshot. Coordinates
// are in the input image's space.
type Strategy interface {
	Name() string
	Attempt(img image.Image) []Observation
}

// WheelStrategy looks for the circular letter wheel in the lower half of the
// screen and reads the glyphs inside it.
type WheelStrategy struct {
	Shapes   ShapeDetector
	Presets  []detection.CirclePreset
	Region   float64
	Padding  int
	MaxBlobs int
	Filter   GlyphFilter
	reader   *glyphReader
}

func (s *WheelStrategy) Name() string { return "wheel" }

func (s *WheelStrategy) Attempt(img image.Image) []Observation {
	region := imaging.LowerFraction(img.Bounds(), s.Region)
	crop := imaging.Crop(img, region)
	gray := imaging.Grayscale(crop)

	var circles []detection.Circle
	for _, preset := range s.Presets {
		circles = s.Shapes.FindCircles(gray, preset)
		if len(circles) > 0 {
			s.reader.log.Debug("wheel preset matched", "preset", preset.Name, "circles", len(circles))
			break
		}
	}
	if len(circles) == 0 {
		return nil
	}

	wheel := circles[0]
	for _, c := range circles[1:] {
		if c.Radius > wheel.Radius {
			wheel = c
		}
	}

	square := imaging.PadSquare(wheel.Center, wheel.Radius, s.Padding, crop.Bounds())
	mask := imaging.OtsuMask(imaging.Crop(crop, square))
	offset := region.Min.Add(square.Min)

	candidates := make([]detection.Blob, 0)
	for _, blob := range s.Shapes.FindBlobs(mask) {
		if !s.Filter.Accept(blob) {
			continue
		}
		center := blob.Center().Add(square.Min)
		if imaging.Distance(center, wheel.Center) > float64(wheel.Radius) {
			continue
		}
		candidates = append(candidates, blob)
	}
	candidates = largestFirst(candidates)
	if s.MaxBlobs > 0 && len(candidates) > s.MaxBlobs {
		candidates = candidates[:s.MaxBlobs]
	}

	obs := make([]Observation, 0)
	for _, blob := range candidates {
		if o, ok := s.reader.read(mask, blob, offset); ok {
			obs = append(obs, o)
		}
	}
	return obs
}

// GridStrategy reads squarish tiles from the lower part of the screen without
// assuming a circle.
type GridStrategy struct {
	Shapes   ShapeDetector
	Region   float64
	MaxBlobs int
	Filter   GlyphFilter
	reader   *glyphReader
}

func (s *GridStrategy) Name() string { return "grid" }

func (s *GridStrategy) Attempt(img image.Image) []Observation {
	region := imaging.LowerFraction(img.Bounds(), s.Region)
	mask := imaging.OtsuMask(imaging.Crop(img, region))

	candidates := make([]detection.Blob, 0)
	for _, blob := range s.Shapes.FindBlobs(mask) {
		if s.Filter.Accept(blob) {
			candidates = append(candidates, blob)
		}
	}
	candidates = largestFirst(candidates)
	if s.MaxBlobs > 0 && len(candidates) > s.MaxBlobs {
		candidates = candidates[:s.MaxBlobs]
	}

	obs := make([]Observation, 0)
	for _, blob := range candidates {
		if o, ok := s.reader.read(mask, blob, region.Min); ok {
			obs = append(obs, o)
		}
	}
	return obs
}

// FallbackStrategy segments the bottom strip of the screen with an adaptive
// threshold and stops after a handful of letters.
type FallbackStrategy struct {
	Shapes          ShapeDetector
	Region          float64
	Binarize        imaging.Binarizer
	MaxObservations int
	Filter          GlyphFilter
	reader          *glyphReader
}

func (s *FallbackStrategy) Name() string { return "fallback" }

func (s *FallbackStrategy) Attempt(img image.Image) []Observation {
	region := imaging.LowerFraction(img.Bounds(), s.Region)
	mask := s.Binarize(imaging.Crop(img, region))

	obs := make([]Observation, 0)
	for _, blob := range largestFirst(s.Shapes.FindBlobs(mask)) {
		if !s.Filter.Accept(blob) {
			continue
		}
		if o, ok := s.reader.read(mask, blob, region.Min); ok {
			obs = append(obs, o)
		}
		if s.MaxObservations > 0 && len(obs) >= s.MaxObservations {
			break
		}
	}
	return obs
}

// FullScanStrategy is the last resort: it segments the entire image under
// several binarizations, pools what each one reads and de-duplicates.
type FullScanStrategy struct {
	Shapes          ShapeDetector
	Binarizers      []imaging.Binarizer
	BlobsPerMask    int
	MaxObservations int
	DedupeTolerance float64
	Filter          GlyphFilter
	reader          *glyphReader
}

func (s *FullScanStrategy) Name() string { return "full_scan" }

func (s *FullScanStrategy) Attempt(img image.Image) []Observation {
	crop := imaging.Crop(img, img.Bounds())
	offset := img.Bounds().Min

	pooled := make([]Observation, 0)
	for _, binarize := range s.Binarizers {
		mask := binarize(crop)

		candidates := make([]detection.Blob, 0)
		for _, blob := range s.Shapes.FindBlobs(mask) {
			if s.Filter.Accept(blob) {
				candidates = append(candidates, blob)
			}
		}
		candidates = largestFirst(candidates)
		if s.BlobsPerMask > 0 && len(candidates) > s.BlobsPerMask {
			candidates = candidates[:s.BlobsPerMask]
		}

		for _, blob := range candidates {
			if o, ok := s.reader.read(mask, blob, offset); ok {
				pooled = append(pooled, o)
			}
		}
	}

	obs := Dedupe(pooled, s.DedupeTolerance)
	if s.MaxObservations > 0 && len(obs) > s.MaxObservations {
		obs = obs[:s.MaxObservations]
	}
	return obs
}
