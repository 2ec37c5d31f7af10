package imaging

import (
	"image"
	"math"
)

// EdgeMap is the output of Canny-style edge detection on a grayscale image.
//
// All slices are row-major with Width*Height entries and use coordinates
// relative to the source bounds' Min point.
type EdgeMap struct {
	Width  int
	Height int

	// Edge marks pixels that survived non-maximum suppression and hysteresis.
	Edge []bool

	// GX and GY hold the Sobel gradient of the blurred image. Circle finders
	// vote along this direction.
	GX []float64
	GY []float64
}

// At reports whether (x, y) is an edge pixel.
func (e *EdgeMap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= e.Width || y >= e.Height {
		return false
	}
	return e.Edge[y*e.Width+x]
}

// Count returns the number of edge pixels.
func (e *EdgeMap) Count() int {
	n := 0
	for _, v := range e.Edge {
		if v {
			n++
		}
	}
	return n
}

// Edges performs Canny-style edge detection.
//
// # Algorithm
//
//  1. Luminance normalized to 0-1
//  2. Gaussian blur: 5x5 kernel to reduce noise
//  3. Gradient computation: Sobel operators for X and Y gradients
//  4. Non-maximum suppression along the gradient direction
//  5. Hysteresis thresholding: magnitudes above thresholdHigh are kept, those
//     between the thresholds are kept only next to a strong edge
//
// Thresholds are on the 0-255 scale. Clean screenshots work well with 50/150.
func Edges(gray *image.Gray, thresholdLow, thresholdHigh int) *EdgeMap {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	n := width * height

	lum := make([]float64, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			lum[y*width+x] = float64(gray.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y) / 255.0
		}
	}

	blurred := gaussianBlur(lum, width, height)

	gradX := make([]float64, n)
	gradY := make([]float64, n)
	magnitude := make([]float64, n)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					gx += blurred[py*width+px] * sobelX[ky+1][kx+1]
					gy += blurred[py*width+px] * sobelY[ky+1][kx+1]
				}
			}
			i := y*width + x
			gradX[i] = gx
			gradY[i] = gy
			magnitude[i] = math.Sqrt(gx*gx + gy*gy)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, n)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			angle := math.Atan2(gradY[i], gradX[i])
			mag := magnitude[i]

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[i-1]
				n2 = magnitude[i+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[i-width+1]
				n2 = magnitude[i+width-1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[i-width]
				n2 = magnitude[i+width]
			} else {
				n1 = magnitude[i-width-1]
				n2 = magnitude[i+width+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	// Double threshold and edge tracking by hysteresis
	edges := make([]bool, n)
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y*width+x]
			if val >= highThresh {
				edges[y*width+x] = true
			} else if val >= lowThresh {
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						if suppressed[py*width+px] >= highThresh {
							edges[y*width+x] = true
						}
					}
				}
			}
		}
	}

	return &EdgeMap{
		Width:  width,
		Height: height,
		Edge:   edges,
		GX:     gradX,
		GY:     gradY,
	}
}

// gaussianBlur applies a 5x5 Gaussian blur (sigma ≈ 1.4, kernel sum 273).
// Border pixels use clamped (replicated) edge values.
func gaussianBlur(img []float64, width, height int) []float64 {
	kernel := [5][5]float64{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	kernelSum := 273.0

	result := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					sum += img[py*width+px] * kernel[ky+2][kx+2]
				}
			}
			result[y*width+x] = sum / kernelSum
		}
	}
	return result
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
