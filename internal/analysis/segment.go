package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Spatial parameters of the rectangle search. The 50px seed grid and the
// 50x50 minimum box size bound the number of candidates on large photos
// while still covering any wall-sized region.
const (
	seedSpacing = 50
	minBoxSize  = 50
)

// Wall-likeness pixel test bounds: mid-brightness, low saturation.
const (
	wallLuminanceMin = 50.0
	wallLuminanceMax = 200.0
	wallMaxSpread    = 50
)

// Fallback region geometry, used when validation rejects every candidate.
const (
	fallbackWidthFrac  = 0.8
	fallbackHeightFrac = 0.6
	fallbackConfidence = 0.5
)

// RegionCandidate is a proposed wall region with its validation confidence.
type RegionCandidate struct {
	Box

	// Confidence is the fraction of pixels in the box that passed the
	// wall-likeness test, in [0, 1]. The synthesized fallback region
	// carries a fixed confidence of 0.5.
	Confidence float64 `json:"confidence"`
}

// WallSegmentationResult is the merged outcome of wall detection over one
// image. It is created fresh per call and has no lifecycle beyond it.
type WallSegmentationResult struct {
	// Mask is a binary raster with the same dimensions as the input
	// buffer, row-major. A pixel is true when it falls inside at least
	// one accepted (or fallback) region.
	Mask []bool `json:"-"`

	// Width and Height are the mask dimensions, matching the input.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Confidence is the arithmetic mean over segment confidences,
	// clamped to [0, 1].
	Confidence float64 `json:"confidence"`

	// Bounds is the component-wise envelope of all segments.
	Bounds Box `json:"bounds"`

	// Segments lists the accepted regions, or the single fallback region
	// when nothing survived validation. Never empty.
	Segments []RegionCandidate `json:"segments"`
}

// SegmentWalls detects the most plausible wall regions in a photo.
//
// The buffer is read-only for the duration of the call and not retained.
// Pass Config{} for default thresholds.
//
// # Algorithm
//
//  1. Edge detection: Sobel gradient magnitude map (see DetectEdges)
//  2. Rectangle search: from seed points on a fixed 50px grid, walk
//     rightward and downward independently until the first edge crossing;
//     the crossing distances become the candidate's width and height.
//     Boxes smaller than 50x50 are discarded.
//  3. Validation: each candidate is scored by the fraction of its pixels
//     that look wall-like (luminance in (50, 200) and channel spread
//     below 50). Candidates under Config.ConfidenceThreshold are dropped.
//  4. Aggregation: surviving candidates are merged into one result with a
//     mean confidence, an envelope bounding box, and an OR'd binary mask.
//
// # Fallback
//
// When no candidate survives validation the function synthesizes a single
// centered region covering 80% x 60% of the image at confidence 0.5.
// Detection weakness therefore never produces an empty result; callers can
// rely on Segments holding at least one entry.
//
// # Limitations
//
// The per-axis edge walk is intentionally approximate. It finds the first
// gradient crossing along each axis separately rather than tracing a real
// contour, so candidate boxes only loosely follow wall boundaries. The
// surrounding product was tuned against this behavior.
func SegmentWalls(buf *PixelBuffer, cfg Config) (*WallSegmentationResult, error) {
	if buf == nil || len(buf.Pix) == 0 {
		return nil, fmt.Errorf("empty pixel buffer")
	}
	cfg = cfg.withDefaults()

	edges := DetectEdges(buf)
	boxes := findRectangles(edges, cfg.EdgeThreshold)

	segments := make([]RegionCandidate, 0, len(boxes))
	for _, box := range boxes {
		conf := validateRegion(buf, box)
		if conf < cfg.ConfidenceThreshold {
			continue
		}
		segments = append(segments, RegionCandidate{Box: box, Confidence: conf})
	}

	if len(segments) == 0 {
		segments = append(segments, fallbackRegion(buf.Width, buf.Height))
	}

	confs := make([]float64, len(segments))
	for i, seg := range segments {
		confs[i] = seg.Confidence
	}

	mask := make([]bool, buf.Width*buf.Height)
	for _, seg := range segments {
		for y := seg.Y; y < seg.Y+seg.Height; y++ {
			row := y * buf.Width
			for x := seg.X; x < seg.X+seg.Width; x++ {
				mask[row+x] = true
			}
		}
	}

	return &WallSegmentationResult{
		Mask:       mask,
		Width:      buf.Width,
		Height:     buf.Height,
		Confidence: clamp01(stat.Mean(confs, nil)),
		Bounds:     envelope(segments),
		Segments:   segments,
	}, nil
}

// findRectangles runs the coarse-grid boundary walk over an edge map.
//
// From each seed on the 50px grid, the walk moves rightward along the row
// and downward along the column until a magnitude above threshold is hit;
// reaching the image border without a crossing counts as a crossing at the
// border. The two distances form the candidate box. Boxes smaller than
// 50x50 in either dimension are dropped as noise.
func findRectangles(edges *EdgeMap, threshold float64) []Box {
	boxes := make([]Box, 0)

	for sy := 0; sy < edges.Height; sy += seedSpacing {
		for sx := 0; sx < edges.Width; sx += seedSpacing {
			x := sx + 1
			for x < edges.Width && edges.at(x, sy) <= threshold {
				x++
			}
			y := sy + 1
			for y < edges.Height && edges.at(sx, y) <= threshold {
				y++
			}

			w := x - sx
			h := y - sy
			if w < minBoxSize || h < minBoxSize {
				continue
			}
			boxes = append(boxes, Box{X: sx, Y: sy, Width: w, Height: h})
		}
	}

	return boxes
}

// validateRegion scores how wall-like a candidate box is.
//
// A pixel passes when its luminance falls strictly inside (50, 200) and the
// spread between its largest and smallest channel is below 50 — flat walls
// photograph as mid-brightness, low-saturation areas. The returned
// confidence is the passing fraction, which is in [0, 1] by construction.
func validateRegion(buf *PixelBuffer, box Box) float64 {
	total := box.Width * box.Height
	if total == 0 {
		return 0
	}

	passed := 0
	for y := box.Y; y < box.Y+box.Height; y++ {
		for x := box.X; x < box.X+box.Width; x++ {
			r, g, b := buf.rgb(x, y)
			lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			if lum <= wallLuminanceMin || lum >= wallLuminanceMax {
				continue
			}
			if int(max3(r, g, b))-int(min3(r, g, b)) < wallMaxSpread {
				passed++
			}
		}
	}

	return float64(passed) / float64(total)
}

// fallbackRegion synthesizes the centered 80% x 60% region returned when
// validation rejects every candidate. Width and height are floored but kept
// at least 1 so the region is valid even for tiny buffers.
func fallbackRegion(width, height int) RegionCandidate {
	w := int(float64(width) * fallbackWidthFrac)
	h := int(float64(height) * fallbackHeightFrac)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return RegionCandidate{
		Box: Box{
			X:      (width - w) / 2,
			Y:      (height - h) / 2,
			Width:  w,
			Height: h,
		},
		Confidence: fallbackConfidence,
	}
}

// envelope returns the component-wise min/max bounding box over segments.
// Callers guarantee segments is non-empty.
func envelope(segments []RegionCandidate) Box {
	minX, minY := segments[0].X, segments[0].Y
	maxX := segments[0].X + segments[0].Width
	maxY := segments[0].Y + segments[0].Height

	for _, seg := range segments[1:] {
		if seg.X < minX {
			minX = seg.X
		}
		if seg.Y < minY {
			minY = seg.Y
		}
		if seg.X+seg.Width > maxX {
			maxX = seg.X + seg.Width
		}
		if seg.Y+seg.Height > maxY {
			maxY = seg.Y + seg.Height
		}
	}

	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// clamp01 constrains a confidence value to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func max3(a, b, c uint8) uint8 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c uint8) uint8 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
