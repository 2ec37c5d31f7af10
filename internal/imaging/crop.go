package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// LowerFraction returns the bottom part of bounds covering the given fraction of
// its height. A fraction of 0.5 is the lower half; values outside (0,1] are
// clamped so the result is never empty for a non-empty input.
func LowerFraction(bounds image.Rectangle, fraction float64) image.Rectangle {
	if fraction <= 0 {
		fraction = 0.01
	}
	if fraction > 1 {
		fraction = 1
	}
	h := bounds.Dy()
	top := bounds.Max.Y - int(float64(h)*fraction)
	if top >= bounds.Max.Y {
		top = bounds.Max.Y - 1
	}
	if top < bounds.Min.Y {
		top = bounds.Min.Y
	}
	return image.Rect(bounds.Min.X, top, bounds.Max.X, bounds.Max.Y)
}

// PadSquare returns the square of half-size radius+padding centred on center,
// clipped to bounds.
func PadSquare(center image.Point, radius, padding int, bounds image.Rectangle) image.Rectangle {
	half := radius + padding
	r := image.Rect(center.X-half, center.Y-half, center.X+half, center.Y+half)
	return r.Intersect(bounds)
}

// Crop extracts rect from img. The returned image has its origin at (0,0), so
// callers add rect.Min to map local coordinates back into img.
//
// rect is clipped to the image bounds; an empty intersection yields an empty image.
func Crop(img image.Image, rect image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, rect.Intersect(img.Bounds()))
}

// PrepareGlyph places a glyph on a white canvas with a margin and upscales it
// so its shorter side is at least minSide pixels. Single-character OCR engines
// recognise small, tightly cropped glyphs poorly; this gives them the quiet
// zone and resolution they expect.
func PrepareGlyph(glyph image.Image, minSide int) *image.NRGBA {
	b := glyph.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return imaging.New(minSide, minSide, color.White)
	}

	scaled := imaging.Clone(glyph)
	short := w
	if h < short {
		short = h
	}
	if short < minSide {
		factor := float64(minSide) / float64(short)
		scaled = imaging.Resize(glyph, int(float64(w)*factor+0.5), int(float64(h)*factor+0.5), imaging.Lanczos)
	}

	sb := scaled.Bounds()
	margin := sb.Dy() / 4
	if margin < 4 {
		margin = 4
	}
	canvas := imaging.New(sb.Dx()+2*margin, sb.Dy()+2*margin, color.White)
	return imaging.PasteCenter(canvas, scaled)
}

// Downscale shrinks img so that its longer side is at most maxSide pixels and
// returns the scale factor applied (1 when no resize was needed).
func Downscale(img image.Image, maxSide int) (image.Image, float64) {
	b := img.Bounds()
	long := b.Dx()
	if b.Dy() > long {
		long = b.Dy()
	}
	if maxSide <= 0 || long <= maxSide {
		return img, 1
	}
	scale := float64(maxSide) / float64(long)
	w := int(float64(b.Dx())*scale + 0.5)
	h := int(float64(b.Dy())*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(img, w, h, imaging.Box), scale
}
