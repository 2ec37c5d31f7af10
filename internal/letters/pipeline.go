package letters

import (
	"fmt"
	"image"

	"github.com/ironsheep/swipe-solver/internal/detection"
	"github.com/ironsheep/swipe-solver/internal/imaging"
	"github.com/ironsheep/swipe-solver/internal/logging"
)

// Options tunes the pipeline. Zero values fall back to DefaultOptions.
type Options struct {
	// MinViableCount is the number of observations a strategy must produce
	// for the pipeline to stop trying further strategies.
	MinViableCount int `mapstructure:"min_viable_count"`

	// DedupeTolerance is the pixel distance under which two observations are
	// the same tile.
	DedupeTolerance float64 `mapstructure:"dedupe_tolerance"`

	// GlyphMinSide is the short side, in pixels, glyphs are upscaled to
	// before recognition.
	GlyphMinSide int `mapstructure:"glyph_min_side"`

	Presets []detection.CirclePreset `mapstructure:"presets"`
}

// DefaultOptions returns the settings tuned for letter-wheel screenshots.
func DefaultOptions() Options {
	return Options{
		MinViableCount:  3,
		DedupeTolerance: 30,
		GlyphMinSide:    40,
		Presets:         detection.DefaultPresets,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MinViableCount <= 0 {
		o.MinViableCount = def.MinViableCount
	}
	if o.DedupeTolerance <= 0 {
		o.DedupeTolerance = def.DedupeTolerance
	}
	if o.GlyphMinSide <= 0 {
		o.GlyphMinSide = def.GlyphMinSide
	}
	if len(o.Presets) == 0 {
		o.Presets = def.Presets
	}
	return o
}

// Attempt records what one strategy produced.
type Attempt struct {
	Strategy string `json:"strategy"`
	Count    int    `json:"count"`
	Error    string `json:"error,omitempty"`
}

// Trace describes how a detection result was reached.
type Trace struct {
	// Strategy names the strategy whose observations were returned. Empty
	// when the image could not be loaded.
	Strategy string    `json:"strategy"`
	Attempts []Attempt `json:"attempts"`
}

// Pipeline runs strategies in order until one yields MinViableCount
// observations. The last strategy's result is returned as-is when none do.
//
// A Pipeline holds no per-call state and is safe for concurrent use provided
// its ShapeDetector and Recognizer are.
type Pipeline struct {
	Strategies      []Strategy
	MinViableCount  int
	DedupeTolerance float64

	log *logging.Logger
}

// NewPipeline builds the standard chain: wheel, grid, fallback, full scan.
func NewPipeline(shapes ShapeDetector, rec Recognizer, opts Options, log *logging.Logger) *Pipeline {
	opts = opts.withDefaults()
	if log == nil {
		log = logging.Nop()
	}
	reader := &glyphReader{rec: rec, minSide: opts.GlyphMinSide, margin: 2, log: log}

	strategies := []Strategy{
		&WheelStrategy{
			Shapes:   shapes,
			Presets:  opts.Presets,
			Region:   0.5,
			Padding:  20,
			MaxBlobs: 10,
			Filter:   GlyphFilter{MinSide: 15, MaxSide: 100, MinArea: 100, MaxArea: 5000, MinAspect: 0.3, MaxAspect: 3.0},
			reader:   reader,
		},
		&GridStrategy{
			Shapes:   shapes,
			Region:   0.6,
			MaxBlobs: 10,
			Filter:   GlyphFilter{MinSide: 15, MinArea: 200, MaxArea: 8000, MinAspect: 0.2, MaxAspect: 5.0},
			reader:   reader,
		},
		&FallbackStrategy{
			Shapes:          shapes,
			Region:          0.3,
			Binarize:        imaging.AdaptiveMask(11, 2),
			MaxObservations: 6,
			Filter:          GlyphFilter{MinSide: 15, MinArea: 100, MaxArea: 3000, MinAspect: 0.1, MaxAspect: 10},
			reader:          reader,
		},
		&FullScanStrategy{
			Shapes: shapes,
			Binarizers: []imaging.Binarizer{
				imaging.OtsuMask,
				func(img image.Image) *image.Gray { return imaging.Dilate(imaging.AdaptiveMask(11, 2)(img), 1) },
				imaging.ColorDistanceMask(0.25),
			},
			BlobsPerMask:    12,
			MaxObservations: 8,
			DedupeTolerance: opts.DedupeTolerance,
			Filter:          GlyphFilter{MinSide: 15, MinArea: 200, MaxArea: 12000, MinAspect: 0.2, MaxAspect: 5.0},
			reader:          reader,
		},
	}

	return &Pipeline{
		Strategies:      strategies,
		MinViableCount:  opts.MinViableCount,
		DedupeTolerance: opts.DedupeTolerance,
		log:             log,
	}
}

// Detect returns the observations for img. It never fails: problems inside a
// strategy only reduce the number of observations.
func (p *Pipeline) Detect(img image.Image) []Observation {
	obs, _ := p.DetectWithTrace(img)
	return obs
}

// DetectWithTrace is Detect plus a record of which strategies ran.
func (p *Pipeline) DetectWithTrace(img image.Image) ([]Observation, Trace) {
	trace := Trace{Attempts: make([]Attempt, 0, len(p.Strategies))}
	if img == nil || img.Bounds().Empty() {
		return []Observation{}, trace
	}

	result := []Observation{}
	for _, s := range p.Strategies {
		obs, err := p.attempt(s, img)
		obs = Dedupe(obs, p.DedupeTolerance)

		a := Attempt{Strategy: s.Name(), Count: len(obs)}
		if err != nil {
			a.Error = err.Error()
			p.log.Warn("detection strategy failed", "strategy", s.Name(), "error", err)
		}
		trace.Attempts = append(trace.Attempts, a)
		trace.Strategy = s.Name()
		result = obs

		p.log.Debug("detection strategy finished", "strategy", s.Name(), "observations", len(obs))
		if len(obs) >= p.MinViableCount {
			break
		}
	}
	return result, trace
}

// DetectFile loads path and runs Detect. An unreadable file yields an empty
// result without running any strategy.
func (p *Pipeline) DetectFile(path string) []Observation {
	img, err := imaging.LoadFile(path)
	if err != nil {
		p.log.Warn("failed to load image", "path", path, "error", err)
		return []Observation{}
	}
	return p.Detect(img)
}

// attempt runs one strategy, converting a panic into an error.
func (p *Pipeline) attempt(s Strategy, img image.Image) (obs []Observation, err error) {
	defer func() {
		if r := recover(); r != nil {
			obs = nil
			err = fmt.Errorf("strategy %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Attempt(img), nil
}
