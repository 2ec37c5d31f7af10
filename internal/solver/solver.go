package solver

import (
	"fmt"
	"image"
	"io"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/ironsheep/swipe-solver/internal/imaging"
	"github.com/ironsheep/swipe-solver/internal/letters"
	"github.com/ironsheep/swipe-solver/internal/logging"
	"github.com/ironsheep/swipe-solver/internal/swipe"
)

// Detector turns an image into letter observations.
type Detector interface {
	DetectWithTrace(img image.Image) ([]letters.Observation, letters.Trace)
}

// Result is the response body of a solve call.
type Result struct {
	Swipes []swipe.Candidate `json:"swipes" yaml:"swipes"`
}

// Empty returns a result with no swipes. Swipes is non-nil so it encodes as
// an empty JSON array.
func Empty() Result {
	return Result{Swipes: []swipe.Candidate{}}
}

// Analysis is a Result plus the detection details behind it.
type Analysis struct {
	RequestID    string                `json:"request_id" yaml:"request_id"`
	Width        int                   `json:"width" yaml:"width"`
	Height       int                   `json:"height" yaml:"height"`
	Observations []letters.Observation `json:"observations" yaml:"observations"`
	Trace        letters.Trace         `json:"trace" yaml:"trace"`
	Swipes       []swipe.Candidate     `json:"swipes" yaml:"swipes"`
	Error        string                `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result drops the diagnostics.
func (a *Analysis) Result() Result {
	if a == nil || a.Swipes == nil {
		return Empty()
	}
	return Result{Swipes: a.Swipes}
}

// Solver runs detection and word synthesis. It never returns an error: any
// failure, including a panic, becomes an empty result and a log line.
//
// A Solver is safe for concurrent use when its Detector is.
type Solver struct {
	detector Detector
	lexicon  swipe.Lexicon
	opts     swipe.Options
	log      *logging.Logger
}

// New creates a Solver. lexicon is shared read-only across calls.
func New(detector Detector, lexicon swipe.Lexicon, opts swipe.Options, log *logging.Logger) *Solver {
	if log == nil {
		log = logging.Nop()
	}
	return &Solver{
		detector: detector,
		lexicon:  lexicon,
		opts:     opts,
		log:      log,
	}
}

// SolveImage solves an already decoded screenshot.
func (s *Solver) SolveImage(img image.Image) Result {
	return s.Analyze(img).Result()
}

// SolveFile loads path and solves it. An unreadable file yields an empty
// result.
func (s *Solver) SolveFile(path string) Result {
	img, err := imaging.LoadFile(path)
	if err != nil {
		s.log.Warn("failed to load screenshot", "path", path, "error", err)
		return Empty()
	}
	return s.SolveImage(img)
}

// SolveReader decodes an image from r and solves it.
func (s *Solver) SolveReader(r io.Reader) Result {
	img, _, err := imaging.Decode(r)
	if err != nil {
		s.log.Warn("failed to decode screenshot", "error", err)
		return Empty()
	}
	return s.SolveImage(img)
}

// Analyze solves img and keeps the observations and detection trace.
func (s *Solver) Analyze(img image.Image) (a *Analysis) {
	a = &Analysis{
		RequestID:    uuid.NewString(),
		Observations: []letters.Observation{},
		Swipes:       []swipe.Candidate{},
	}
	log := s.log.With("request_id", a.RequestID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("solve panicked", "panic", r, "stack", string(debug.Stack()))
			a.Swipes = []swipe.Candidate{}
			a.Error = fmt.Sprintf("internal error: %v", r)
		}
	}()

	if img == nil {
		log.Warn("no image to solve")
		return a
	}
	b := img.Bounds()
	a.Width, a.Height = b.Dx(), b.Dy()

	obs, trace := s.detector.DetectWithTrace(img)
	if obs == nil {
		obs = []letters.Observation{}
	}
	a.Observations, a.Trace = obs, trace
	log.Debug("letters detected", "strategy", trace.Strategy, "count", len(obs))

	a.Swipes = swipe.Synthesize(obs, s.lexicon, s.opts)
	log.Info("solved", "letters", len(obs), "swipes", len(a.Swipes))
	return a
}

// Words synthesizes swipes from observations supplied by the caller instead
// of a screenshot.
func (s *Solver) Words(obs []letters.Observation) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("word synthesis panicked", "panic", r)
			res = Empty()
		}
	}()
	return Result{Swipes: swipe.Synthesize(obs, s.lexicon, s.opts)}
}

// Annotate draws each observation and each swipe path of a over img.
func Annotate(img image.Image, a *Analysis) *image.RGBA {
	markers := make([]imaging.Marker, 0, len(a.Observations))
	for _, o := range a.Observations {
		markers = append(markers, imaging.Marker{Point: o.Point(), Label: o.Letter})
	}
	traces := make([]imaging.Trace, 0, len(a.Swipes))
	for _, c := range a.Swipes {
		points := make([]image.Point, 0, len(c.Path))
		for _, step := range c.Path {
			points = append(points, image.Point{X: step.X, Y: step.Y})
		}
		traces = append(traces, imaging.Trace{Points: points})
	}
	return imaging.Annotate(img, markers, traces)
}
