package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/swipe-solver/internal/imaging"
)

// Circle represents a detected circular shape.
type Circle struct {
	// Center is the detected center point in source image coordinates.
	Center image.Point `json:"center"`

	// Radius is the detected radius in source image pixels.
	Radius int `json:"radius"`

	// Confidence is the share of the expected circumference backed by edge
	// pixels (0.0 to 1.0).
	Confidence float64 `json:"confidence"`
}

// CirclePreset bounds one circle search. Radii are in source image pixels.
type CirclePreset struct {
	Name      string `json:"name" mapstructure:"name"`
	MinRadius int    `json:"min_radius" mapstructure:"min_radius"`
	MaxRadius int    `json:"max_radius" mapstructure:"max_radius"`

	// Sensitivity is the minimum circumference support a circle needs.
	// Lower values accept broken or partially occluded outlines.
	Sensitivity float64 `json:"sensitivity" mapstructure:"sensitivity"`
}

// DefaultPresets are tried in order until one yields a circle.
var DefaultPresets = []CirclePreset{
	{Name: "strict", MinRadius: 80, MaxRadius: 200, Sensitivity: 0.55},
	{Name: "relaxed", MinRadius: 50, MaxRadius: 260, Sensitivity: 0.45},
	{Name: "loose", MinRadius: 30, MaxRadius: 320, Sensitivity: 0.35},
}

// Detector finds circles and connected components in grayscale images.
// A zero Detector is not usable; construct one with NewDetector.
type Detector struct {
	// MaxWorkingSize caps the longer side of the image used for circle
	// voting. Larger inputs are downscaled first.
	MaxWorkingSize int

	// EdgeLow and EdgeHigh are the Canny hysteresis thresholds (0-255).
	EdgeLow  int
	EdgeHigh int

	// MaxCandidates limits how many accumulator peaks are verified.
	MaxCandidates int
}

// NewDetector returns a Detector with defaults tuned for phone screenshots.
func NewDetector() *Detector {
	return &Detector{
		MaxWorkingSize: 480,
		EdgeLow:        50,
		EdgeHigh:       150,
		MaxCandidates:  20,
	}
}

// FindCircles locates circles whose radius lies in the preset's range.
//
// # Algorithm (gradient Hough transform)
//
//  1. Downscale so the longer side is at most MaxWorkingSize
//  2. Canny edge map with Sobel gradients
//  3. Voting: every edge pixel votes along its gradient direction, in both
//     senses, at each radius in range
//  4. Peaks: a cell's score is the sum of its 5x5 neighbourhood; cells above
//     threshold that are maxima within 5 pixels become candidates
//  5. Radius: the distance histogram of edge pixels from the candidate picks
//     the best-supported radius; support below Sensitivity rejects it
//  6. Duplicate removal and sort by confidence, highest first
//
// Returned centres and radii are in gray's coordinate space.
func (d *Detector) FindCircles(gray *image.Gray, preset CirclePreset) []Circle {
	bounds := gray.Bounds()
	if bounds.Empty() || preset.MaxRadius <= 0 || preset.MaxRadius < preset.MinRadius {
		return nil
	}

	work, scale := imaging.Downscale(gray, d.MaxWorkingSize)
	workGray := imaging.Grayscale(work)
	em := imaging.Edges(workGray, d.EdgeLow, d.EdgeHigh)
	width, height := em.Width, em.Height

	minR := int(math.Floor(float64(preset.MinRadius) * scale))
	maxR := int(math.Ceil(float64(preset.MaxRadius) * scale))
	if minR < 4 {
		minR = 4
	}
	if maxR < minR {
		return nil
	}

	edgePoints := make([]edgePoint, 0, em.Count())
	acc := make([]int, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !em.Edge[i] {
				continue
			}
			edgePoints = append(edgePoints, edgePoint{x, y})

			gx, gy := em.GX[i], em.GY[i]
			mag := math.Hypot(gx, gy)
			if mag == 0 {
				continue
			}
			ux, uy := gx/mag, gy/mag
			for r := minR; r <= maxR; r++ {
				for _, sign := range [2]float64{1, -1} {
					cx := int(math.Round(float64(x) + sign*float64(r)*ux))
					cy := int(math.Round(float64(y) + sign*float64(r)*uy))
					if cx >= 0 && cx < width && cy >= 0 && cy < height {
						acc[cy*width+cx]++
					}
				}
			}
		}
	}
	if len(edgePoints) == 0 {
		return nil
	}

	score := make([]int, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := 0
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					nx, ny := x+dx, y+dy
					if nx >= 0 && nx < width && ny >= 0 && ny < height {
						s += acc[ny*width+nx]
					}
				}
			}
			score[y*width+x] = s
		}
	}

	threshold := int(0.3 * preset.Sensitivity * 2 * math.Pi * float64(minR))
	if threshold < 1 {
		threshold = 1
	}

	type peak struct {
		x, y, score int
	}
	peaks := make([]peak, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := score[y*width+x]
			if s < threshold {
				continue
			}
			isMax := true
			for dy := -5; dy <= 5 && isMax; dy++ {
				for dx := -5; dx <= 5 && isMax; dx++ {
					if dy == 0 && dx == 0 {
						continue
					}
					ny, nx := y+dy, x+dx
					if ny >= 0 && ny < height && nx >= 0 && nx < width {
						if score[ny*width+nx] > s {
							isMax = false
						}
					}
				}
			}
			if isMax {
				peaks = append(peaks, peak{x, y, s})
			}
		}
	}
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].score > peaks[j].score
	})

	circles := make([]Circle, 0)
	hist := make([]int, maxR+2)
	verified := 0
	for _, p := range peaks {
		if d.MaxCandidates > 0 && verified >= d.MaxCandidates {
			break
		}
		verified++

		// The accumulator peak can sit a few pixels off the true centre after
		// resampling; keep the best-supported centre around it.
		cx, cy, bestR, bestSupport := p.x, p.y, 0, 0.0
		for dy := -refineRadius; dy <= refineRadius; dy++ {
			for dx := -refineRadius; dx <= refineRadius; dx++ {
				x, y := p.x+dx, p.y+dy
				if x < 0 || x >= width || y < 0 || y >= height {
					continue
				}
				r, support := radiusSupport(edgePoints, x, y, minR, maxR, hist)
				if support > bestSupport {
					cx, cy, bestR, bestSupport = x, y, r, support
				}
			}
		}
		if bestR == 0 || bestSupport < preset.Sensitivity {
			continue
		}

		circles = append(circles, Circle{
			Center: image.Point{
				X: int(math.Round(float64(cx)/scale)) + bounds.Min.X,
				Y: int(math.Round(float64(cy)/scale)) + bounds.Min.Y,
			},
			Radius:     int(math.Round(float64(bestR) / scale)),
			Confidence: math.Min(bestSupport, 1.0),
		})
	}

	sort.SliceStable(circles, func(i, j int) bool {
		return circles[i].Confidence > circles[j].Confidence
	})

	return filterDuplicateCircles(circles)
}

// refineRadius is how far, in working pixels, a peak's centre may move
// during verification.
const refineRadius = 4

type edgePoint struct{ x, y int }

// radiusSupport histograms edge distances from (cx, cy) and returns the
// radius in [minR, maxR] whose +-1 band covers the largest share of its
// circumference. hist is scratch space of at least maxR+2 entries.
func radiusSupport(edges []edgePoint, cx, cy, minR, maxR int, hist []int) (int, float64) {
	for i := range hist {
		hist[i] = 0
	}
	for _, e := range edges {
		dist := int(math.Round(math.Hypot(float64(e.x-cx), float64(e.y-cy))))
		if dist < len(hist) {
			hist[dist]++
		}
	}

	bestR, bestSupport := 0, 0.0
	for r := minR; r <= maxR; r++ {
		band := hist[r-1] + hist[r] + hist[r+1]
		support := float64(band) / (2 * math.Pi * float64(r))
		if support > bestSupport {
			bestR, bestSupport = r, support
		}
	}
	return bestR, bestSupport
}

// filterDuplicateCircles removes circles with overlapping centers.
//
// Two circles are considered duplicates if the distance between their centers
// is less than the average of their radii. In such cases, only the first
// circle (the higher confidence one, given sorted input) is kept.
func filterDuplicateCircles(circles []Circle) []Circle {
	if len(circles) == 0 {
		return circles
	}

	filtered := make([]Circle, 0)
	for _, c := range circles {
		isDuplicate := false
		for _, f := range filtered {
			if imaging.Distance(c.Center, f.Center) < float64(c.Radius+f.Radius)/2 {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
