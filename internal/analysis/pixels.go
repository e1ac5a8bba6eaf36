package analysis

import "fmt"

// PixelBuffer holds a decoded image as tightly packed 8-bit RGBA bytes.
//
// The buffer is owned by the caller and treated as read-only by every
// pipeline function: no stage mutates or retains it after returning.
// Pixel (x, y) starts at offset (y*Width+x)*4 in Pix.
type PixelBuffer struct {
	// Pix is the raw pixel data in R, G, B, A order, 4 bytes per pixel,
	// rows packed without padding. Length is exactly Width*Height*4.
	Pix []byte

	// Width is the image width in pixels. Always > 0.
	Width int

	// Height is the image height in pixels. Always > 0.
	Height int
}

// NewPixelBuffer wraps raw RGBA bytes in a PixelBuffer after validating
// that the dimensions are positive and match the data length.
//
// The byte slice is referenced, not copied; the caller must not mutate it
// while pipeline calls over the buffer are in flight.
func NewPixelBuffer(pix []byte, width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("pixel data length %d does not match %dx%d RGBA (want %d)",
			len(pix), width, height, width*height*4)
	}
	return &PixelBuffer{Pix: pix, Width: width, Height: height}, nil
}

// rgb returns the 8-bit color components of pixel (x, y).
// No bounds checking is performed; callers iterate within buffer bounds.
func (b *PixelBuffer) rgb(x, y int) (r, g, bl uint8) {
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// luminance returns the ITU-R BT.601 luminance of pixel (x, y) in [0, 255].
// Formula: Y = 0.299*R + 0.587*G + 0.114*B
func (b *PixelBuffer) luminance(x, y int) float64 {
	r, g, bl := b.rgb(x, y)
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)
}

// Box is an axis-aligned rectangle in pixel coordinates.
//
// (X, Y) is the top-left corner (inclusive); Width and Height are always
// positive for boxes produced by this package, and boxes always lie within
// the bounds of the buffer they were derived from.
type Box struct {
	X      int `json:"x"`      // Left edge (inclusive)
	Y      int `json:"y"`      // Top edge (inclusive)
	Width  int `json:"width"`  // Horizontal extent in pixels
	Height int `json:"height"` // Vertical extent in pixels
}
