package detection

import (
	"image"
)

// MinBlobPixels is the smallest connected component FindBlobs reports.
// Anything smaller is treated as noise.
const MinBlobPixels = 10

// Blob is an 8-connected component of foreground mask pixels.
type Blob struct {
	// Bounds encloses the component in mask coordinates.
	Bounds image.Rectangle `json:"bounds"`

	// Pixels is the number of foreground pixels in the component.
	Pixels int `json:"pixels"`
}

// Center returns the centre of the blob's bounding box.
func (b Blob) Center() image.Point {
	return image.Point{
		X: (b.Bounds.Min.X + b.Bounds.Max.X) / 2,
		Y: (b.Bounds.Min.Y + b.Bounds.Max.Y) / 2,
	}
}

// Area returns the area of the bounding box.
func (b Blob) Area() int {
	return b.Bounds.Dx() * b.Bounds.Dy()
}

// Aspect returns width divided by height of the bounding box.
func (b Blob) Aspect() float64 {
	if b.Bounds.Dy() == 0 {
		return 0
	}
	return float64(b.Bounds.Dx()) / float64(b.Bounds.Dy())
}

// FindBlobs groups the mask's foreground pixels (value >= 128) into
// 8-connected components. Components are returned in scan order of their
// first pixel (top to bottom, left to right).
func (d *Detector) FindBlobs(mask *image.Gray) []Blob {
	bounds := mask.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	fg := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fg[y*width+x] = mask.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y >= 128
		}
	}

	visited := make([]bool, width*height)
	blobs := make([]Blob, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !fg[i] || visited[i] {
				continue
			}
			rect, n := floodFill(fg, visited, x, y, width, height)
			if n >= MinBlobPixels {
				blobs = append(blobs, Blob{
					Bounds: rect.Add(bounds.Min),
					Pixels: n,
				})
			}
		}
	}

	return blobs
}

// floodFill performs iterative flood-fill from a starting point.
//
// Uses a stack-based approach (not recursive) to avoid stack overflow
// on large components. Marks visited pixels and returns the component's
// bounding box and pixel count. Uses 8-connectivity (includes diagonal neighbors).
func floodFill(fg, visited []bool, startX, startY, width, height int) (image.Rectangle, int) {
	stack := []image.Point{{X: startX, Y: startY}}
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	count := 0

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		i := p.Y*width + p.X
		if visited[i] || !fg[i] {
			continue
		}

		visited[i] = true
		count++
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}

	return image.Rect(minX, minY, maxX+1, maxY+1), count
}
