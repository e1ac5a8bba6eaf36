package source

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"

	"github.com/homewall/wallsense/internal/analysis"
)

// Decoder resolves an image reference into a pixel buffer.
//
// ref is either an http(s) URL or a local file path. The returned buffer is
// owned by the caller and safe to hand to any number of concurrent pipeline
// calls.
type Decoder func(ctx context.Context, ref string) (*analysis.PixelBuffer, error)

// New builds the standard Decoder.
//
// Parameters:
//   - client: HTTP client used for URL references. Pass nil to use
//     http.DefaultClient.
//   - maxDim: maximum width or height in pixels. Images exceeding it are
//     downscaled proportionally before analysis, bounding the work every
//     pipeline stage performs. Pass 0 to disable downscaling.
//
// The decoder normalizes every decoded image to tightly packed 8-bit RGBA
// regardless of its source color model.
func New(client *http.Client, maxDim int) Decoder {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context, ref string) (*analysis.PixelBuffer, error) {
		if strings.TrimSpace(ref) == "" {
			return nil, fmt.Errorf("empty image reference")
		}

		img, err := decodeRef(ctx, client, ref)
		if err != nil {
			return nil, err
		}

		if maxDim > 0 {
			img = bounded(img, maxDim)
		}

		return FromImage(img)
	}
}

// decodeRef opens and decodes the referenced image.
func decodeRef(ctx context.Context, client *http.Client, ref string) (image.Image, error) {
	var r io.ReadCloser

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid image URL: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		r = f
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// bounded downscales an image so neither dimension exceeds maxDim,
// preserving aspect ratio. Images already within bounds pass through.
func bounded(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	return transform.Resize(img, nw, nh, transform.Linear)
}

// FromImage converts any image.Image into an analysis.PixelBuffer.
//
// The image is cloned into NRGBA first, so the returned buffer never
// aliases the source image's storage and row padding is stripped.
func FromImage(img image.Image) (*analysis.PixelBuffer, error) {
	nrgba := imaging.Clone(img)
	w := nrgba.Rect.Dx()
	h := nrgba.Rect.Dy()

	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(pix[y*w*4:(y+1)*w*4], nrgba.Pix[y*nrgba.Stride:y*nrgba.Stride+w*4])
	}

	return analysis.NewPixelBuffer(pix, w, h)
}
