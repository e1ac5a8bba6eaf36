package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Depth grid parameters. The grid is a coarse raster: one cell per
// depthCellSize x depthCellSize pixel block of the source image.
const (
	depthCellSize = 10

	depthUniform = 0.5
	depthMin     = 0.1
	depthMax     = 1.0
)

// PerspectiveCorrection describes the estimated camera tilt.
type PerspectiveCorrection struct {
	// Angle is the tilt in degrees, derived from the gradient of per-row
	// mean depth across rows.
	Angle float64 `json:"angle"`

	// Transform is the 3x3 rotation matrix for Angle, row-major. It is
	// the identity matrix when Angle is zero.
	Transform [3][3]float64 `json:"transform"`
}

// DepthEstimationResult is the outcome of depth estimation over one image.
type DepthEstimationResult struct {
	// DepthMap is a coarse row-major grid of relative depth values, each
	// within [MinDepth, MaxDepth]. One cell covers a 10x10 pixel block of
	// the source image.
	DepthMap [][]float64 `json:"depthMap"`

	// MinDepth and MaxDepth bound the values in DepthMap.
	MinDepth float64 `json:"minDepth"`
	MaxDepth float64 `json:"maxDepth"`

	// Perspective is the estimated tilt correction.
	Perspective PerspectiveCorrection `json:"perspectiveCorrection"`
}

// EstimateDepth produces a relative depth grid and perspective correction
// for an image.
//
// This is a placeholder estimator kept for output-shape compatibility: the
// grid is filled uniformly with 0.5 and the tilt angle — the slope of the
// per-row mean depth fitted across rows — is therefore always zero, making
// the transform the identity matrix. Callers should treat the shape of the
// result as the contract, not its values.
func EstimateDepth(buf *PixelBuffer, cfg Config) (*DepthEstimationResult, error) {
	if buf == nil || len(buf.Pix) == 0 {
		return nil, fmt.Errorf("empty pixel buffer")
	}

	rows := gridCells(buf.Height)
	cols := gridCells(buf.Width)

	depth := make([][]float64, rows)
	for y := range depth {
		depth[y] = make([]float64, cols)
		for x := range depth[y] {
			depth[y][x] = depthUniform
		}
	}

	return &DepthEstimationResult{
		DepthMap:    depth,
		MinDepth:    depthMin,
		MaxDepth:    depthMax,
		Perspective: perspectiveFromDepth(depth),
	}, nil
}

// gridCells returns the number of depth cells covering n pixels, at least 1.
func gridCells(n int) int {
	cells := (n + depthCellSize - 1) / depthCellSize
	if cells < 1 {
		cells = 1
	}
	return cells
}

// perspectiveFromDepth fits a line through the per-row mean depths and
// converts its slope into a tilt angle with the matching rotation matrix.
// A uniform grid yields slope 0, angle 0, and the identity transform.
func perspectiveFromDepth(depth [][]float64) PerspectiveCorrection {
	rowMeans := make([]float64, len(depth))
	rowIdx := make([]float64, len(depth))
	for i, row := range depth {
		rowMeans[i] = stat.Mean(row, nil)
		rowIdx[i] = float64(i)
	}

	var slope float64
	if len(depth) > 1 {
		_, slope = stat.LinearRegression(rowIdx, rowMeans, nil, false)
	}

	angle := math.Atan(slope) * 180 / math.Pi
	rad := math.Atan(slope)
	cos, sin := math.Cos(rad), math.Sin(rad)

	return PerspectiveCorrection{
		Angle: angle,
		Transform: [3][3]float64{
			{cos, -sin, 0},
			{sin, cos, 0},
			{0, 0, 1},
		},
	}
}
