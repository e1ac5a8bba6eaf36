package analysis

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// colorSample is one RGB sample drawn from the source buffer.
type colorSample struct {
	r, g, b float64
}

// centroid is a mutable cluster mean. Centroids exist only for the
// duration of one clustering run and are never exposed to callers.
type centroid struct {
	r, g, b float64
	count   int
}

// ColorPaletteResult is the outcome of palette extraction over one image.
type ColorPaletteResult struct {
	// Colors holds exactly the requested number of hex colors in
	// "#RRGGBB" format, one per cluster centroid, in centroid order.
	// Near-duplicate entries are possible when clusters collapse onto
	// similar regions; no deduplication is performed.
	Colors []string `json:"colors"`

	// DominantColor is the centroid of the most populated cluster.
	DominantColor string `json:"dominantColor"`

	// Harmony holds colors derived from DominantColor on the HSL wheel.
	Harmony HarmonyColors `json:"harmony"`
}

// ExtractPalette computes a representative color palette via k-means
// clustering in RGB space.
//
// colorCount must be at least 1; pass analysis.DefaultColorCount for the
// standard palette size. The buffer is read-only and not retained.
//
// # Algorithm
//
//  1. Sampling: every Config.SampleStride-th pixel contributes an RGB
//     sample. A buffer always yields at least one sample.
//  2. Initialization: colorCount centroids are drawn from the samples
//     uniformly at random with replacement.
//  3. Iteration: exactly Config.KMeansIterations rounds of (a) assigning
//     each sample to its nearest centroid by Euclidean distance and
//     (b) recomputing each centroid as the mean of its assigned samples.
//     A centroid whose cluster is empty keeps its previous position
//     rather than vanishing, so exactly colorCount centroids survive.
//
// The iteration budget is fixed; there is no convergence check. Within one
// iteration assignment strictly precedes the centroid update, and iteration
// i+1 sees iteration i's centroids — this is the only ordering constraint
// in the pipeline.
//
// # Determinism
//
// With Config.Seed set, the run is fully deterministic. With a nil seed the
// RNG is seeded from the clock, so cluster order and collapsed-cluster
// placement can differ between runs over the same image.
func ExtractPalette(buf *PixelBuffer, colorCount int, cfg Config) (*ColorPaletteResult, error) {
	if buf == nil || len(buf.Pix) == 0 {
		return nil, fmt.Errorf("empty pixel buffer")
	}
	if colorCount < 1 {
		return nil, fmt.Errorf("color count must be at least 1, got %d", colorCount)
	}
	cfg = cfg.withDefaults()

	samples := samplePixels(buf, cfg.SampleStride)

	var rng *rand.Rand
	if cfg.Seed != nil {
		rng = rand.New(rand.NewSource(*cfg.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	centroids := cluster(samples, colorCount, cfg.KMeansIterations, rng)

	colors := make([]string, len(centroids))
	dominant := 0
	for i, c := range centroids {
		colors[i] = hexRGB(quantize(c.r), quantize(c.g), quantize(c.b))
		if c.count > centroids[dominant].count {
			dominant = i
		}
	}

	d := centroids[dominant]
	return &ColorPaletteResult{
		Colors:        colors,
		DominantColor: colors[dominant],
		Harmony:       harmonyFromRGB(quantize(d.r), quantize(d.g), quantize(d.b)),
	}, nil
}

// samplePixels collects every stride-th pixel as an RGB sample.
// The first pixel is always sampled, so the result is never empty.
func samplePixels(buf *PixelBuffer, stride int) []colorSample {
	step := stride * 4
	samples := make([]colorSample, 0, len(buf.Pix)/step+1)
	for i := 0; i+3 < len(buf.Pix); i += step {
		samples = append(samples, colorSample{
			r: float64(buf.Pix[i]),
			g: float64(buf.Pix[i+1]),
			b: float64(buf.Pix[i+2]),
		})
	}
	return samples
}

// cluster runs the fixed-budget k-means loop and returns exactly k
// centroids with their final assignment counts.
func cluster(samples []colorSample, k, iterations int, rng *rand.Rand) []centroid {
	centroids := make([]centroid, k)
	for i := range centroids {
		s := samples[rng.Intn(len(samples))]
		centroids[i] = centroid{r: s.r, g: s.g, b: s.b}
	}

	assignments := make([]int, len(samples))
	for iter := 0; iter < iterations; iter++ {
		// Assignment phase: nearest centroid by Euclidean distance.
		for i, s := range samples {
			best := 0
			bestDist := math.MaxFloat64
			for j, c := range centroids {
				dr := s.r - c.r
				dg := s.g - c.g
				db := s.b - c.b
				dist := dr*dr + dg*dg + db*db
				if dist < bestDist {
					bestDist = dist
					best = j
				}
			}
			assignments[i] = best
		}

		// Update phase: mean of assigned samples. Empty clusters keep
		// their previous centroid.
		sums := make([]centroid, k)
		for i, s := range samples {
			c := &sums[assignments[i]]
			c.r += s.r
			c.g += s.g
			c.b += s.b
			c.count++
		}
		for j := range centroids {
			if sums[j].count == 0 {
				centroids[j].count = 0
				continue
			}
			n := float64(sums[j].count)
			centroids[j] = centroid{
				r:     sums[j].r / n,
				g:     sums[j].g / n,
				b:     sums[j].b / n,
				count: sums[j].count,
			}
		}
	}

	return centroids
}

// quantize rounds a centroid component back to an 8-bit channel value.
func quantize(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

// hexRGB formats 8-bit components as "#RRGGBB".
func hexRGB(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
