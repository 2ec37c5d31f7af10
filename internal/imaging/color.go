package imaging

import (
	"image"
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorFrequency represents a quantized colour and its share of a region.
type ColorFrequency struct {
	Color      color.RGBA `json:"-"`
	Hex        string     `json:"hex"`
	Percentage float64    `json:"percentage"`
}

// DominantColors returns the count most common colours inside rect, after
// quantizing each channel to 16 levels so near-identical shades group together.
// Results are sorted by frequency, most common first.
func DominantColors(img image.Image, rect image.Rectangle, count int) []ColorFrequency {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() || count <= 0 {
		return nil
	}

	counts := make(map[uint32]int)
	total := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			counts[quantize(img.At(x, y))]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for key, n := range counts {
		c := color.RGBA{R: uint8(key >> 16), G: uint8(key >> 8), B: uint8(key), A: 255}
		colors = append(colors, ColorFrequency{
			Color:      c,
			Hex:        colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex(),
			Percentage: float64(n) / float64(total) * 100,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}
	return colors
}

// ColorDistanceMask marks as foreground every pixel whose CIE Lab distance from
// the image's dominant (background) colour exceeds minDistance. Unlike the
// luminance thresholds it separates glyphs from tiles of similar brightness
// but different hue.
func ColorDistanceMask(minDistance float64) Binarizer {
	return func(img image.Image) *image.Gray {
		b := img.Bounds()
		mask := image.NewGray(b)

		dominant := DominantColors(img, b, 1)
		if len(dominant) == 0 {
			return mask
		}
		bg, _ := colorful.MakeColor(dominant[0].Color)

		// Distances are memoized per quantized colour; screenshots have far
		// fewer distinct colours than pixels.
		memo := make(map[uint32]bool)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				px := img.At(x, y)
				key := quantize(px)
				far, seen := memo[key]
				if !seen {
					c, ok := colorful.MakeColor(px)
					far = ok && c.DistanceLab(bg) > minDistance
					memo[key] = far
				}
				if far {
					mask.SetGray(x, y, color.Gray{Y: Foreground})
				}
			}
		}
		return normalizePolarity(mask)
	}
}

// quantize packs a colour into 0xRRGGBB with each channel reduced to 16 levels.
func quantize(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	r8 := (r >> 8) / 16 * 16
	g8 := (g >> 8) / 16 * 16
	b8 := (b >> 8) / 16 * 16
	return r8<<16 | g8<<8 | b8
}
