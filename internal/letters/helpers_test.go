package letters

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/ironsheep/swipe-solver/internal/detection"
)

// sequenceRecognizer answers with the next letter from a fixed list.
type sequenceRecognizer struct {
	mu      sync.Mutex
	letters []string
	calls   int
}

func (r *sequenceRecognizer) RecognizeCharacter(img image.Image) (string, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	letter := r.letters[r.calls%len(r.letters)]
	r.calls++
	return letter, 0.9, nil
}

// failingRecognizer always errors.
type failingRecognizer struct{}

func (failingRecognizer) RecognizeCharacter(img image.Image) (string, float64, error) {
	return "", 0, errors.New("engine offline")
}

// fixedStrategy returns canned observations, or panics when asked to.
type fixedStrategy struct {
	name   string
	obs    []Observation
	panics bool
	calls  int
}

func (s *fixedStrategy) Name() string { return s.name }

func (s *fixedStrategy) Attempt(img image.Image) []Observation {
	s.calls++
	if s.panics {
		panic("boom")
	}
	return s.obs
}

// stubShapes reports one fixed circle and a fixed set of blobs.
type stubShapes struct {
	circle detection.Circle
	blobs  []detection.Blob
}

func (s stubShapes) FindCircles(*image.Gray, detection.CirclePreset) []detection.Circle {
	return []detection.Circle{s.circle}
}

func (s stubShapes) FindBlobs(*image.Gray) []detection.Blob {
	return s.blobs
}

func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func fillDisc(img *image.RGBA, cx, cy, r int, c color.Color) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
}

// createWheelImage draws a dark wheel of radius 120 centred at (200, 600)
// with four light 20x28 tiles at distance 70 from the centre.
func createWheelImage() (*image.RGBA, []image.Point) {
	img := createTestImage(400, 800, color.White)
	fillDisc(img, 200, 600, 120, color.RGBA{40, 60, 120, 255})

	centers := []image.Point{{200, 530}, {270, 600}, {200, 670}, {130, 600}}
	for _, c := range centers {
		fillRect(img, image.Rect(c.X-10, c.Y-14, c.X+10, c.Y+14), color.White)
	}
	return img, centers
}

func near(p image.Point, targets []image.Point, tol int) bool {
	for _, t := range targets {
		dx, dy := p.X-t.X, p.Y-t.Y
		if dx*dx+dy*dy <= tol*tol {
			return true
		}
	}
	return false
}
