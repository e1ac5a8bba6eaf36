package source

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDecoder_LocalFile(t *testing.T) {
	path := writeTestPNG(t, 16, 12, color.NRGBA{R: 10, G: 200, B: 30, A: 255})

	decode := New(nil, 0)
	buf, err := decode(context.Background(), path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if buf.Width != 16 || buf.Height != 12 {
		t.Errorf("dimensions: got %dx%d, want 16x12", buf.Width, buf.Height)
	}
	if buf.Pix[0] != 10 || buf.Pix[1] != 200 || buf.Pix[2] != 30 || buf.Pix[3] != 255 {
		t.Errorf("first pixel: got %v, want [10 200 30 255]", buf.Pix[:4])
	}
}

func TestDecoder_HTTP(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			t.Errorf("encode failed: %v", err)
		}
	}))
	defer srv.Close()

	decode := New(srv.Client(), 0)
	buf, err := decode(context.Background(), srv.URL+"/wall.png")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if buf.Width != 8 || buf.Height != 8 {
		t.Errorf("dimensions: got %dx%d, want 8x8", buf.Width, buf.Height)
	}
}

func TestDecoder_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	decode := New(srv.Client(), 0)
	if _, err := decode(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("expected error for 404 response, got nil")
	}
}

func TestDecoder_Downscale(t *testing.T) {
	path := writeTestPNG(t, 200, 100, color.NRGBA{R: 128, G: 128, B: 128, A: 255})

	decode := New(nil, 50)
	buf, err := decode(context.Background(), path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if buf.Width != 50 || buf.Height != 25 {
		t.Errorf("downscaled dimensions: got %dx%d, want 50x25", buf.Width, buf.Height)
	}
}

func TestDecoder_NoDownscaleWithinBounds(t *testing.T) {
	path := writeTestPNG(t, 40, 30, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	decode := New(nil, 50)
	buf, err := decode(context.Background(), path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if buf.Width != 40 || buf.Height != 30 {
		t.Errorf("dimensions changed: got %dx%d, want 40x30", buf.Width, buf.Height)
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	decode := New(nil, 0)

	tests := []struct {
		name string
		ref  string
	}{
		{"empty reference", ""},
		{"blank reference", "   "},
		{"missing file", filepath.Join(t.TempDir(), "nope.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decode(context.Background(), tt.ref); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDecoder_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	decode := New(nil, 0)
	if _, err := decode(context.Background(), path); err == nil {
		t.Error("expected decode error, got nil")
	}
}

func TestFromImage_StripsRowPadding(t *testing.T) {
	// A sub-image has a stride wider than its row length; the buffer must
	// come out tightly packed anyway.
	base := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for i := range base.Pix {
		base.Pix[i] = 200
	}
	sub := base.SubImage(image.Rect(5, 5, 15, 15))

	buf, err := FromImage(sub)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if buf.Width != 10 || buf.Height != 10 {
		t.Errorf("dimensions: got %dx%d, want 10x10", buf.Width, buf.Height)
	}
	if len(buf.Pix) != 10*10*4 {
		t.Errorf("buffer length: got %d, want %d", len(buf.Pix), 10*10*4)
	}
}

// writeTestPNG encodes a solid-colored PNG into a temp file and returns
// its path.
func writeTestPNG(t *testing.T, width, height int, c color.NRGBA) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}
