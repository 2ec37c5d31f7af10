package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
	"github.com/anthonynsimon/bild/segment"
)

// Foreground is the mask value marking a foreground (candidate glyph) pixel.
// Background pixels are 0.
const Foreground = 255

// Binarizer turns an image into a foreground mask. The mask has the same
// bounds as the input.
type Binarizer func(img image.Image) *image.Gray

// Grayscale converts img to 8-bit luminance using bild's weighted conversion.
// The result keeps img's bounds.
func Grayscale(img image.Image) *image.Gray {
	lum := effect.Grayscale(img)
	b := img.Bounds()
	lb := lum.Bounds()
	gray := image.NewGray(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			gray.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: lum.RGBAAt(lb.Min.X+x, lb.Min.Y+y).R})
		}
	}
	return gray
}

// OtsuLevel computes the global threshold that maximises between-class variance
// of the luminance histogram. ok is false when the image has a single
// luminance value and therefore nothing to separate.
func OtsuLevel(gray *image.Gray) (level uint8, ok bool) {
	hist := histogram.NewRGBAHistogram(gray)
	bins := hist.R.Bins

	total := 0
	sum := 0.0
	populated := 0
	for i, n := range bins {
		total += n
		sum += float64(i * n)
		if n > 0 {
			populated++
		}
	}
	if total == 0 || populated < 2 {
		return 0, false
	}

	var sumB, best float64
	weightB := 0
	for t, n := range bins {
		weightB += n
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t * n)
		meanB := sumB / float64(weightB)
		meanF := (sum - sumB) / float64(weightF)
		between := float64(weightB) * float64(weightF) * (meanB - meanF) * (meanB - meanF)
		if between > best {
			best = between
			level = uint8(t)
		}
	}
	// segment.Threshold keeps values >= level, Otsu's split is "> t".
	if level < 255 {
		level++
	}
	return level, true
}

// OtsuMask binarizes img with a global Otsu threshold.
func OtsuMask(img image.Image) *image.Gray {
	gray := Grayscale(img)
	level, ok := OtsuLevel(gray)
	if !ok {
		return image.NewGray(gray.Bounds())
	}
	return normalizePolarity(segment.Threshold(gray, level))
}

// AdaptiveMask binarizes img against a Gaussian-weighted local mean. A pixel
// is foreground when it is darker than its neighbourhood mean by more than c.
// block is the neighbourhood size in pixels and should be odd.
func AdaptiveMask(block int, c float64) Binarizer {
	if block < 3 {
		block = 3
	}
	sigma := 0.3*(float64(block-1)*0.5-1) + 0.8
	return func(img image.Image) *image.Gray {
		gray := Grayscale(img)
		local := blur.Gaussian(gray, sigma)

		b := gray.Bounds()
		lb := local.Bounds()
		mask := image.NewGray(b)
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				v := float64(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
				mean := float64(local.RGBAAt(lb.Min.X+x, lb.Min.Y+y).R)
				if v < mean-c {
					mask.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: Foreground})
				}
			}
		}
		return normalizePolarity(mask)
	}
}

// Dilate grows the mask's foreground by radius pixels, closing small gaps in
// broken glyph strokes so each letter segments as one blob.
func Dilate(mask *image.Gray, radius float64) *image.Gray {
	if radius <= 0 {
		return mask
	}
	grown := effect.Dilate(mask, radius)
	b := mask.Bounds()
	gb := grown.Bounds()
	out := image.NewGray(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if grown.RGBAAt(gb.Min.X+x, gb.Min.Y+y).R >= 128 {
				out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: Foreground})
			}
		}
	}
	return out
}

// ForegroundFraction reports the share of mask pixels set to Foreground.
func ForegroundFraction(mask *image.Gray) float64 {
	b := mask.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	on := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y >= 128 {
				on++
			}
		}
	}
	return float64(on) / float64(total)
}

// normalizePolarity inverts mask when foreground is the majority class.
// Glyphs always cover less area than their background, so this makes
// dark-on-light and light-on-dark layouts produce the same mask.
func normalizePolarity(mask *image.Gray) *image.Gray {
	if ForegroundFraction(mask) <= 0.5 {
		return mask
	}
	b := mask.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y < 128 {
				out.SetGray(x, y, color.Gray{Y: Foreground})
			}
		}
	}
	return out
}
