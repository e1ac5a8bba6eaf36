package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"

	"github.com/homewall/wallsense/internal/analysis"
)

// segmentRequest is the body of POST /api/segment and /api/depth.
type segmentRequest struct {
	ImageURL string `json:"imageUrl"`
}

// paletteRequest is the body of POST /api/color-palette.
type paletteRequest struct {
	ImageURL   string `json:"imageUrl"`
	ColorCount int    `json:"colorCount"` // 0 means default (5)
}

// segmentationPayload is the wire form of a segmentation result.
// Mask is a base64 PNG the size of the input image.
type segmentationPayload struct {
	Mask         string                     `json:"mask"`
	MaskMimeType string                     `json:"maskMimeType"`
	Width        int                        `json:"width"`
	Height       int                        `json:"height"`
	Confidence   float64                    `json:"confidence"`
	Bounds       analysis.Box               `json:"bounds"`
	Segments     []analysis.RegionCandidate `json:"segments"`
}

// palettePayload is the wire form of a palette result.
type palettePayload struct {
	Colors        []string               `json:"colors"`
	DominantColor string                 `json:"dominantColor"`
	ColorHarmony  analysis.HarmonyColors `json:"colorHarmony"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleSegment implements POST /api/segment.
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	buf, ok := s.decodeImage(w, r, req.ImageURL)
	if !ok {
		return
	}

	result, err := analysis.SegmentWalls(buf, s.cfg)
	if err != nil {
		s.processingError(w, r, "segmentation failed", err)
		return
	}

	mask, err := maskPNG(result)
	if err != nil {
		s.processingError(w, r, "mask encoding failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]segmentationPayload{
		"segmentation": {
			Mask:         mask,
			MaskMimeType: "image/png",
			Width:        result.Width,
			Height:       result.Height,
			Confidence:   result.Confidence,
			Bounds:       result.Bounds,
			Segments:     result.Segments,
		},
	})
}

// handleColorPalette implements POST /api/color-palette.
func (s *Server) handleColorPalette(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req paletteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "imageUrl is required")
		return
	}
	if req.ColorCount == 0 {
		req.ColorCount = analysis.DefaultColorCount
	}
	if req.ColorCount < 1 {
		writeError(w, http.StatusBadRequest, "colorCount must be at least 1")
		return
	}

	buf, ok := s.decodeImage(w, r, req.ImageURL)
	if !ok {
		return
	}

	result, err := analysis.ExtractPalette(buf, req.ColorCount, s.cfg)
	if err != nil {
		s.processingError(w, r, "palette extraction failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]palettePayload{
		"palette": {
			Colors:        result.Colors,
			DominantColor: result.DominantColor,
			ColorHarmony:  result.Harmony,
		},
	})
}

// handleDepth implements POST /api/depth.
func (s *Server) handleDepth(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	buf, ok := s.decodeImage(w, r, req.ImageURL)
	if !ok {
		return
	}

	result, err := analysis.EstimateDepth(buf, s.cfg)
	if err != nil {
		s.processingError(w, r, "depth estimation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*analysis.DepthEstimationResult{
		"depth": result,
	})
}

// decodeRequest validates the method and parses a segmentRequest body.
// On failure it writes the 4xx response and returns ok=false.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*segmentRequest, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}

	var req segmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "imageUrl is required")
		return nil, false
	}
	return &req, true
}

// decodeImage resolves an image reference through the injected decoder.
// Decode failures are processing errors: logged with detail, reported
// generically.
func (s *Server) decodeImage(w http.ResponseWriter, r *http.Request, ref string) (*analysis.PixelBuffer, bool) {
	buf, err := s.decode(r.Context(), ref)
	if err != nil {
		s.processingError(w, r, "image decoding failed", err)
		return nil, false
	}
	return buf, true
}

// processingError logs the detailed error and returns a generic 500.
func (s *Server) processingError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.requestLog(r).WithError(err).Error(msg)
	writeError(w, http.StatusInternalServerError, "image processing failed")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// maskPNG encodes a segmentation mask as a base64 grayscale PNG.
// Wall pixels are white (255), background pixels black (0).
func maskPNG(result *analysis.WallSegmentationResult) (string, error) {
	img := image.NewGray(image.Rect(0, 0, result.Width, result.Height))
	for y := 0; y < result.Height; y++ {
		for x := 0; x < result.Width; x++ {
			if result.Mask[y*result.Width+x] {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode mask image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
