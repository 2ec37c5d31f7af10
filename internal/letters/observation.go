package letters

import (
	"image"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ironsheep/swipe-solver/internal/imaging"
)

// Observation is one detected letter and the pixel position of its centre.
type Observation struct {
	Letter     string  `json:"letter"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Point returns the observation's position.
func (o Observation) Point() image.Point {
	return image.Point{X: o.X, Y: o.Y}
}

// Dedupe collapses observations closer than tolerance pixels to an earlier
// one. The survivor keeps the earlier slot in the output order and the data
// of whichever observation has the higher confidence.
func Dedupe(obs []Observation, tolerance float64) []Observation {
	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		merged := false
		for i := range out {
			if imaging.Distance(o.Point(), out[i].Point()) <= tolerance {
				if o.Confidence > out[i].Confidence {
					out[i] = o
				}
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, o)
		}
	}
	return out
}

// normalizeLetter accepts recognizer output only when it is exactly one
// Latin letter, returning it uppercased.
func normalizeLetter(text string) (string, bool) {
	s := strings.TrimSpace(norm.NFKC.String(text))
	if len(s) != 1 {
		return "", false
	}
	c := s[0]
	switch {
	case c >= 'A' && c <= 'Z':
		return s, true
	case c >= 'a' && c <= 'z':
		return strings.ToUpper(s), true
	}
	return "", false
}

// Ring places the letters of s evenly on a circle, starting at the top and
// going clockwise. Non-letters are skipped. Used when letters are supplied
// directly instead of detected.
func Ring(s string, center image.Point, radius int) []Observation {
	picked := make([]string, 0, len(s))
	for _, r := range s {
		if l, ok := normalizeLetter(string(r)); ok {
			picked = append(picked, l)
		}
	}
	out := make([]Observation, 0, len(picked))
	for i, l := range picked {
		angle := 2*math.Pi*float64(i)/float64(len(picked)) - math.Pi/2
		out = append(out, Observation{
			Letter:     l,
			X:          center.X + int(math.Round(float64(radius)*math.Cos(angle))),
			Y:          center.Y + int(math.Round(float64(radius)*math.Sin(angle))),
			Confidence: 1.0,
		})
	}
	return out
}
