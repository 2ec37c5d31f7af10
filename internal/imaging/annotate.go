package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Marker is a labelled point drawn by Annotate.
type Marker struct {
	Point image.Point
	Label string
}

// Trace is a swipe path drawn by Annotate. Steps are numbered from 1.
type Trace struct {
	Points []image.Point
	Color  string // "#RRGGBB" or "#RRGGBBAA"; empty picks from the default palette
}

// DefaultPalette is cycled through for traces without an explicit colour.
var DefaultPalette = []string{"#E6194B", "#3CB44B", "#4363D8", "#F58231", "#911EB4", "#42D4F4"}

// EncodedImage is a PNG rendered as base64 for JSON transports.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Annotate draws markers and traces over a copy of img. Each marker gets a
// ring and a numeric label; each trace is drawn as connected segments with
// its step numbers at every point.
func Annotate(img image.Image, markers []Marker, traces []Trace) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	ring := color.RGBA{255, 215, 0, 255}
	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}

	for _, m := range markers {
		drawRing(result, m.Point, 12, ring)
		if m.Label != "" {
			drawLabel(result, m.Point.X+14, m.Point.Y-14, m.Label, labelColor, bgColor)
		}
	}

	for i, tr := range traces {
		hex := tr.Color
		if hex == "" {
			hex = DefaultPalette[i%len(DefaultPalette)]
		}
		c, err := parseHexColor(hex)
		if err != nil {
			c = color.RGBA{255, 0, 0, 255}
		}
		for j := 1; j < len(tr.Points); j++ {
			drawLine(result, tr.Points[j-1], tr.Points[j], c)
		}
		for j, p := range tr.Points {
			drawLabel(result, p.X+2, p.Y+2, strconv.Itoa(j+1), labelColor, c)
		}
	}

	return result
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// EncodeBase64 renders img as a base64 PNG.
func EncodeBase64(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// drawLine rasterizes the segment a-b with Bresenham's algorithm, two pixels wide.
func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	x, y := a.X, a.Y
	bounds := img.Bounds()
	for {
		for _, p := range [...]image.Point{{x, y}, {x + 1, y}, {x, y + 1}} {
			if p.In(bounds) {
				img.SetRGBA(p.X, p.Y, c)
			}
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// drawRing draws a one-pixel circle outline of radius r around center.
func drawRing(img *image.RGBA, center image.Point, r int, c color.RGBA) {
	bounds := img.Bounds()
	x, y := r, 0
	e := 1 - r
	for x >= y {
		for _, p := range [...]image.Point{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			q := center.Add(p)
			if q.In(bounds) {
				img.SetRGBA(q.X, q.Y, c)
			}
		}
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
}

// drawLabel draws text on a filled box whose top-left corner is (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	box := image.Rect(x-1, y-1, x+width+1, y+face.Height).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y+face.Ascent)
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
