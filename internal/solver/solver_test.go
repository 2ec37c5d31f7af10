package solver

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/swipe-solver/internal/detection"
	"github.com/ironsheep/swipe-solver/internal/dictionary"
	"github.com/ironsheep/swipe-solver/internal/letters"
	"github.com/ironsheep/swipe-solver/internal/swipe"
)

type fixedDetector struct {
	obs   []letters.Observation
	calls int
}

func (f *fixedDetector) DetectWithTrace(img image.Image) ([]letters.Observation, letters.Trace) {
	f.calls++
	return f.obs, letters.Trace{Strategy: "fixed", Attempts: []letters.Attempt{{Strategy: "fixed", Count: len(f.obs)}}}
}

type panicDetector struct{}

func (panicDetector) DetectWithTrace(image.Image) ([]letters.Observation, letters.Trace) {
	panic("boom")
}

type noLetters struct{}

func (noLetters) RecognizeCharacter(image.Image) (string, float64, error) {
	return "", 0, nil
}

func blankImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func tapObservations() []letters.Observation {
	return []letters.Observation{
		{Letter: "T", X: 100, Y: 500, Confidence: 0.9},
		{Letter: "A", X: 200, Y: 420, Confidence: 0.8},
		{Letter: "P", X: 300, Y: 500, Confidence: 0.95},
	}
}

func TestSolveImage_FallbackDictionary(t *testing.T) {
	det := &fixedDetector{obs: tapObservations()}
	s := New(det, dictionary.Fallback(), swipe.DefaultOptions(), nil)

	res := s.SolveImage(blankImage(400, 600))

	require.Len(t, res.Swipes, 3)
	assert.Equal(t, "APT", res.Swipes[0].Word)
	assert.Equal(t, "PAT", res.Swipes[1].Word)
	assert.Equal(t, "TAP", res.Swipes[2].Word)
	assert.Equal(t, []swipe.Step{{X: 100, Y: 500, Letter: "T"}, {X: 200, Y: 420, Letter: "A"}, {X: 300, Y: 500, Letter: "P"}}, res.Swipes[2].Path)
	assert.Equal(t, 1, det.calls)
}

func TestSolveImage_BlankImage(t *testing.T) {
	p := letters.NewPipeline(detection.NewDetector(), noLetters{}, letters.DefaultOptions(), nil)
	s := New(p, dictionary.Fallback(), swipe.DefaultOptions(), nil)

	res := s.SolveImage(blankImage(200, 300))

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"swipes": []}`, string(data))
}

func TestSolveImage_PanicContained(t *testing.T) {
	s := New(panicDetector{}, dictionary.Fallback(), swipe.DefaultOptions(), nil)

	var res Result
	assert.NotPanics(t, func() { res = s.SolveImage(blankImage(10, 10)) })
	assert.NotNil(t, res.Swipes)
	assert.Empty(t, res.Swipes)

	a := s.Analyze(blankImage(10, 10))
	assert.Contains(t, a.Error, "boom")
}

func TestSolveImage_Nil(t *testing.T) {
	det := &fixedDetector{obs: tapObservations()}
	s := New(det, dictionary.Fallback(), swipe.DefaultOptions(), nil)

	res := s.SolveImage(nil)
	assert.Empty(t, res.Swipes)
	assert.Zero(t, det.calls)
}

func TestSolveReader(t *testing.T) {
	det := &fixedDetector{obs: tapObservations()}
	s := New(det, dictionary.Fallback(), swipe.DefaultOptions(), nil)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, blankImage(50, 50)))
	assert.Len(t, s.SolveReader(&buf).Swipes, 3)

	res := s.SolveReader(strings.NewReader("not an image"))
	assert.NotNil(t, res.Swipes)
	assert.Empty(t, res.Swipes)
}

func TestSolveFile_Missing(t *testing.T) {
	det := &fixedDetector{obs: tapObservations()}
	s := New(det, dictionary.Fallback(), swipe.DefaultOptions(), nil)

	res := s.SolveFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Empty(t, res.Swipes)
	assert.Zero(t, det.calls, "no detection for an unreadable file")
}

func TestAnalyze(t *testing.T) {
	det := &fixedDetector{obs: tapObservations()}
	s := New(det, dictionary.Fallback(), swipe.DefaultOptions(), nil)

	a := s.Analyze(blankImage(400, 600))

	assert.NotEmpty(t, a.RequestID)
	assert.Equal(t, 400, a.Width)
	assert.Equal(t, 600, a.Height)
	assert.Equal(t, tapObservations(), a.Observations)
	assert.Equal(t, "fixed", a.Trace.Strategy)
	assert.Len(t, a.Swipes, 3)
	assert.Equal(t, a.Swipes, a.Result().Swipes)

	other := s.Analyze(blankImage(10, 10))
	assert.NotEqual(t, a.RequestID, other.RequestID)
}

func TestWords(t *testing.T) {
	s := New(nil, dictionary.New(dictionary.SourceFallback, "ART", "RAT", "TAR"), swipe.DefaultOptions(), nil)

	res := s.Words(letters.Ring("ART", image.Pt(100, 100), 50))
	require.Len(t, res.Swipes, 3)
	assert.Equal(t, "ART", res.Swipes[0].Word)

	assert.Empty(t, s.Words(nil).Swipes)
}

func TestResultJSON(t *testing.T) {
	res := Result{Swipes: []swipe.Candidate{{
		Word:  "TAP",
		Path:  []swipe.Step{{X: 1, Y: 2, Letter: "T"}, {X: 3, Y: 4, Letter: "A"}, {X: 5, Y: 6, Letter: "P"}},
		Score: 30,
	}}}

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"swipes":[{"word":"TAP","path":[{"x":1,"y":2,"letter":"T"},{"x":3,"y":4,"letter":"A"},{"x":5,"y":6,"letter":"P"}],"score":30}]}`, string(data))
}

func TestAnnotate(t *testing.T) {
	det := &fixedDetector{obs: tapObservations()}
	s := New(det, dictionary.Fallback(), swipe.DefaultOptions(), nil)
	img := blankImage(400, 600)

	a := s.Analyze(img)
	out := Annotate(img, a)

	assert.Equal(t, img.Bounds(), out.Bounds())
	// Midpoint of the first leg of the first path (A -> P).
	assert.NotEqual(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(250, 460))
}
