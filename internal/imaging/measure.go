package imaging

import (
	"image"
	"math"
)

// Distance returns the Euclidean distance between two points.
func Distance(a, b image.Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
