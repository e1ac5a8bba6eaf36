// Package analysis implements the wall-detection and palette-extraction
// pipeline that powers the wallsense API.
//
// The pipeline is a set of pure functions over a caller-owned PixelBuffer.
// No function retains state across invocations, blocks on I/O, or mutates
// its input; independent calls over independent buffers are safe to run
// concurrently without locking.
//
// # Pipeline Stages
//
// Wall segmentation composes four stages in dependency order:
//
//  1. Edge detection: grayscale conversion followed by a 3x3 Sobel gradient
//     magnitude map (DetectEdges)
//  2. Rectangle search: a coarse-grid heuristic walk over the edge map
//     producing raw box candidates
//  3. Wall validation: per-candidate confidence scoring from brightness and
//     saturation homogeneity
//  4. Aggregation: merging validated candidates into a single result, with
//     a synthesized fallback region when nothing survives validation
//
// Palette extraction (ExtractPalette) runs k-means clustering over a sampled
// pixel set and derives HSL color harmonies from the dominant cluster. Depth
// estimation (EstimateDepth) is a placeholder that preserves the output
// shape of a real estimator.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with origin at the top-left corner;
// X increases rightward and Y increases downward. Region boxes use an
// inclusive top-left origin with positive width and height, and always lie
// within the source buffer bounds.
//
// # Confidence Scores
//
// Detection results carry confidence scores clamped to [0.0, 1.0]:
//   - 1.0 = every pixel in the region looks wall-like
//   - 0.5 = the fixed confidence assigned to the synthesized fallback region
//   - Candidates below Config.ConfidenceThreshold are rejected
//
// # Degraded Results
//
// A photo with no plausible wall region is not an error. SegmentWalls always
// returns a usable result: when validation rejects every candidate, a single
// centered fallback region covering 80% x 60% of the image is synthesized so
// downstream consumers never have to handle an empty segmentation.
//
// # Known Limitations
//
// The rectangle search walks each axis independently until the first edge
// crossing. It is deliberately approximate and is not contour or
// connected-component detection; the surrounding product was built against
// this heuristic's behavior and depends on its quirks. The depth estimator
// returns a uniform grid and exists only for output-shape compatibility.
package analysis
