package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/homewall/wallsense/internal/analysis"
	"github.com/homewall/wallsense/internal/source"
)

var hexPattern = regexp.MustCompile(`^#[0-9A-F]{6}$`)

// grayBuffer builds a uniform mid-gray pixel buffer.
func grayBuffer(t *testing.T, width, height int) *analysis.PixelBuffer {
	t.Helper()
	pix := make([]byte, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = 128, 128, 128, 255
	}
	buf, err := analysis.NewPixelBuffer(pix, width, height)
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

// stubDecoder returns a fixed buffer for any reference.
func stubDecoder(buf *analysis.PixelBuffer) source.Decoder {
	return func(ctx context.Context, ref string) (*analysis.PixelBuffer, error) {
		return buf, nil
	}
}

// failingDecoder simulates an unreachable or undecodable image.
func failingDecoder() source.Decoder {
	return func(ctx context.Context, ref string) (*analysis.PixelBuffer, error) {
		return nil, fmt.Errorf("connection refused")
	}
}

// newTestServer builds a Server with a quiet logger.
func newTestServer(t *testing.T, decode source.Decoder) *Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := analysis.DefaultConfig()
	seed := int64(1)
	cfg.Seed = &seed
	return New(decode, cfg, log)
}

// post sends a JSON body to a path and returns the recorded response.
func post(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSegmentEndpoint(t *testing.T) {
	srv := newTestServer(t, stubDecoder(grayBuffer(t, 120, 90)))

	rec := post(t, srv, "/api/segment", `{"imageUrl":"http://example.com/wall.jpg"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Segmentation struct {
			Mask         string                     `json:"mask"`
			MaskMimeType string                     `json:"maskMimeType"`
			Width        int                        `json:"width"`
			Height       int                        `json:"height"`
			Confidence   float64                    `json:"confidence"`
			Bounds       analysis.Box               `json:"bounds"`
			Segments     []analysis.RegionCandidate `json:"segments"`
		} `json:"segmentation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}

	seg := resp.Segmentation
	if seg.Confidence < 0 || seg.Confidence > 1 {
		t.Errorf("confidence out of range: %v", seg.Confidence)
	}
	if len(seg.Segments) == 0 {
		t.Error("segments must not be empty")
	}
	if seg.MaskMimeType != "image/png" {
		t.Errorf("maskMimeType: got %s, want image/png", seg.MaskMimeType)
	}

	raw, err := base64.StdEncoding.DecodeString(seg.Mask)
	if err != nil {
		t.Fatalf("mask is not valid base64: %v", err)
	}
	maskImg, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("mask is not a valid PNG: %v", err)
	}
	if maskImg.Bounds().Dx() != 120 || maskImg.Bounds().Dy() != 90 {
		t.Errorf("mask dimensions: got %dx%d, want 120x90",
			maskImg.Bounds().Dx(), maskImg.Bounds().Dy())
	}
}

func TestColorPaletteEndpoint(t *testing.T) {
	srv := newTestServer(t, stubDecoder(grayBuffer(t, 60, 60)))

	rec := post(t, srv, "/api/color-palette", `{"imageUrl":"x.png","colorCount":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Palette struct {
			Colors        []string `json:"colors"`
			DominantColor string   `json:"dominantColor"`
			ColorHarmony  struct {
				Complementary string    `json:"complementary"`
				Analogous     [2]string `json:"analogous"`
				Triadic       [2]string `json:"triadic"`
			} `json:"colorHarmony"`
		} `json:"palette"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}

	if len(resp.Palette.Colors) != 3 {
		t.Errorf("colors: got %d entries, want 3", len(resp.Palette.Colors))
	}
	for _, c := range resp.Palette.Colors {
		if !hexPattern.MatchString(c) {
			t.Errorf("color %q is not #RRGGBB", c)
		}
	}
	if !hexPattern.MatchString(resp.Palette.ColorHarmony.Complementary) {
		t.Errorf("complementary %q is not #RRGGBB", resp.Palette.ColorHarmony.Complementary)
	}
}

func TestColorPaletteEndpoint_DefaultCount(t *testing.T) {
	srv := newTestServer(t, stubDecoder(grayBuffer(t, 40, 40)))

	rec := post(t, srv, "/api/color-palette", `{"imageUrl":"x.png"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp struct {
		Palette struct {
			Colors []string `json:"colors"`
		} `json:"palette"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp.Palette.Colors) != analysis.DefaultColorCount {
		t.Errorf("colors: got %d entries, want %d", len(resp.Palette.Colors), analysis.DefaultColorCount)
	}
}

func TestDepthEndpoint(t *testing.T) {
	srv := newTestServer(t, stubDecoder(grayBuffer(t, 50, 30)))

	rec := post(t, srv, "/api/depth", `{"imageUrl":"x.png"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp struct {
		Depth struct {
			DepthMap    [][]float64 `json:"depthMap"`
			MinDepth    float64     `json:"minDepth"`
			MaxDepth    float64     `json:"maxDepth"`
			Perspective struct {
				Angle     float64       `json:"angle"`
				Transform [][]float64   `json:"transform"`
			} `json:"perspectiveCorrection"`
		} `json:"depth"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}

	if len(resp.Depth.DepthMap) == 0 {
		t.Fatal("depthMap is empty")
	}
	if resp.Depth.MinDepth != 0.1 || resp.Depth.MaxDepth != 1.0 {
		t.Errorf("depth range: got [%v,%v], want [0.1,1.0]", resp.Depth.MinDepth, resp.Depth.MaxDepth)
	}
	if resp.Depth.Perspective.Angle != 0 {
		t.Errorf("angle: got %v, want 0", resp.Depth.Perspective.Angle)
	}
	if len(resp.Depth.Perspective.Transform) != 3 {
		t.Errorf("transform: got %d rows, want 3", len(resp.Depth.Perspective.Transform))
	}
}

func TestEndpoints_InputErrors(t *testing.T) {
	srv := newTestServer(t, stubDecoder(grayBuffer(t, 10, 10)))

	tests := []struct {
		name string
		path string
		body string
	}{
		{"segment missing imageUrl", "/api/segment", `{}`},
		{"segment malformed body", "/api/segment", `{"imageUrl"`},
		{"palette missing imageUrl", "/api/color-palette", `{"colorCount":3}`},
		{"palette negative count", "/api/color-palette", `{"imageUrl":"x.png","colorCount":-1}`},
		{"depth missing imageUrl", "/api/depth", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, srv, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
			var resp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error JSON: %v", err)
			}
			if resp.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestEndpoints_ProcessingErrors(t *testing.T) {
	srv := newTestServer(t, failingDecoder())

	for _, path := range []string{"/api/segment", "/api/color-palette", "/api/depth"} {
		t.Run(path, func(t *testing.T) {
			rec := post(t, srv, path, `{"imageUrl":"http://example.com/gone.png"}`)
			if rec.Code != http.StatusInternalServerError {
				t.Errorf("status: got %d, want 500", rec.Code)
			}
			// The caller sees a generic message, never decoder internals.
			if strings.Contains(rec.Body.String(), "connection refused") {
				t.Error("error detail leaked to the response body")
			}
		})
	}
}

func TestEndpoints_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, stubDecoder(grayBuffer(t, 10, 10)))

	for _, path := range []string{"/api/segment", "/api/color-palette", "/api/depth"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status: got %d, want 405", rec.Code)
			}
		})
	}
}
