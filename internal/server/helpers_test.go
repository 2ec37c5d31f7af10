package server

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/swipe-solver/internal/dictionary"
	"github.com/ironsheep/swipe-solver/internal/letters"
	"github.com/ironsheep/swipe-solver/internal/ocr"
	"github.com/ironsheep/swipe-solver/internal/solver"
	"github.com/ironsheep/swipe-solver/internal/swipe"
)

// fixedDetector reports the same observations for every image.
type fixedDetector struct {
	obs []letters.Observation
}

func (f fixedDetector) DetectWithTrace(image.Image) ([]letters.Observation, letters.Trace) {
	return f.obs, letters.Trace{Strategy: "fixed", Attempts: []letters.Attempt{{Strategy: "fixed", Count: len(f.obs)}}}
}

type stubOCR struct{}

func (stubOCR) Info() ocr.Info {
	return ocr.Info{Available: true, Version: "5.3.0", Backend: ocr.Backend, Language: "eng"}
}

func partObservations() []letters.Observation {
	return []letters.Observation{
		{Letter: "P", X: 200, Y: 500, Confidence: 0.9},
		{Letter: "A", X: 270, Y: 570, Confidence: 0.9},
		{Letter: "R", X: 200, Y: 640, Confidence: 0.9},
		{Letter: "T", X: 130, Y: 570, Confidence: 0.9},
	}
}

func newTestServer(t *testing.T, obs []letters.Observation) *Server {
	t.Helper()
	dict := dictionary.New(dictionary.SourceFallback, "PART", "TRAP", "TARP", "RAPT", "PAR", "RAP", "TAP", "RAT", "ART")
	s := solver.New(fixedDetector{obs: obs}, dict, swipe.DefaultOptions(), nil)

	opts := DefaultOptions()
	opts.Version = "test"
	opts.UploadDir = filepath.Join(t.TempDir(), "uploads")
	return New(s, dict, stubOCR{}, opts, nil)
}

// createTestImageFile writes a solid PNG and returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "screenshot.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}
