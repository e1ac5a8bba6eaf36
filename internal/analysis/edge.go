package analysis

import "math"

// EdgeMap is a single-channel gradient magnitude map with the same
// dimensions as the buffer it was computed from.
//
// Magnitudes are clamped to [0, 255]. The map is transient: it is scoped
// to one analysis call and discarded on return.
type EdgeMap struct {
	// Mag holds one magnitude per pixel in row-major order.
	Mag []float64

	// Width and Height match the source buffer.
	Width  int
	Height int
}

// at returns the magnitude at (x, y). No bounds checking.
func (e *EdgeMap) at(x, y int) float64 {
	return e.Mag[y*e.Width+x]
}

// DetectEdges computes a Sobel gradient magnitude map for a pixel buffer.
//
// Returns an EdgeMap with the same dimensions as the input. The function is
// pure and deterministic: identical buffers always yield identical maps.
//
// # Algorithm
//
//  1. Grayscale conversion: RGB -> luminance using ITU-R BT.601 weights
//     (0.299*R + 0.587*G + 0.114*B)
//
//  2. Gradient computation: 3x3 Sobel operators for X and Y gradients,
//     magnitude = sqrt(Gx² + Gy²), clamped to [0, 255]
//
// # Boundary Policy
//
// The Sobel kernels are applied to interior pixels only; the outermost
// 1-pixel border is left at zero. This is the documented contract, not an
// oversight: downstream stages rely on the border never registering as an
// edge. Buffers smaller than 3x3 have no interior pixels and produce an
// all-zero map.
func DetectEdges(buf *PixelBuffer) *EdgeMap {
	width, height := buf.Width, buf.Height

	gray := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray[y*width+x] = buf.luminance(x, y)
		}
	}

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	mag := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := gray[(y+ky)*width+(x+kx)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			mag[y*width+x] = math.Min(math.Sqrt(gx*gx+gy*gy), 255)
		}
	}

	return &EdgeMap{Mag: mag, Width: width, Height: height}
}
