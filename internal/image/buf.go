// Package image provides the premultiplied pixel buffers that layer rasters
// and composite targets are stored in.
package image

import (
	"errors"
	"image"
	"image/color"
	"math"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive,
	// or when the buffer would exceed MaxBytes.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// MaxBytes caps the pixel storage of a single buffer (4 GiB).
const MaxBytes = 1 << 32

// Buf is an RGBA8 pixel buffer with premultiplied alpha.
//
// Premultiplied storage is what every blend operator works on, so buffers are
// converted once on import and never again until export.
//
// Thread safety: Buf is safe for concurrent reads. Writes require external
// synchronization.
type Buf struct {
	data   []byte
	width  int
	height int
	stride int
}

// NewBuf creates a transparent buffer with the given dimensions.
// Returns ErrInvalidDimensions if width or height is not positive, or if the
// buffer would not fit in MaxBytes.
func NewBuf(width, height int) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if width > math.MaxInt/BytesPerPixel/height {
		return nil, ErrInvalidDimensions
	}
	stride := width * BytesPerPixel
	if uint64(stride)*uint64(height) > MaxBytes {
		return nil, ErrInvalidDimensions
	}
	return &Buf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

// Clone creates a deep copy of the buffer.
func (b *Buf) Clone() *Buf {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &Buf{
		data:   data,
		width:  b.width,
		height: b.height,
		stride: b.stride,
	}
}

// Width returns the buffer width in pixels.
func (b *Buf) Width() int {
	return b.width
}

// Height returns the buffer height in pixels.
func (b *Buf) Height() int {
	return b.height
}

// Stride returns the number of bytes per row.
func (b *Buf) Stride() int {
	return b.stride
}

// Bounds returns the buffer dimensions as (width, height).
func (b *Buf) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw premultiplied pixel data.
func (b *Buf) Data() []byte {
	return b.data
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *Buf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*BytesPerPixel
}

// RGBA returns the premultiplied color at (x, y).
// Returns transparent black if coordinates are out of bounds.
func (b *Buf) RGBA(x, y int) (r, g, bl, a uint8) {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return 0, 0, 0, 0
	}
	p := b.data[off : off+4 : off+4]
	return p[0], p[1], p[2], p[3]
}

// SetRGBA stores a premultiplied color at (x, y).
func (b *Buf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return ErrOutOfBounds
	}
	p := b.data[off : off+4 : off+4]
	p[0], p[1], p[2], p[3] = r, g, bl, a
	return nil
}

// Alpha returns the alpha channel at (x, y), or 0 outside the buffer.
func (b *Buf) Alpha(x, y int) uint8 {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return 0
	}
	return b.data[off+3]
}

// Clear sets all pixels to transparent black.
func (b *Buf) Clear() {
	clear(b.data)
}

// Fill sets every pixel to the given premultiplied color.
func (b *Buf) Fill(r, g, bl, a uint8) {
	if len(b.data) == 0 {
		return
	}
	row := b.data[:b.width*BytesPerPixel]
	for i := 0; i < len(row); i += BytesPerPixel {
		row[i], row[i+1], row[i+2], row[i+3] = r, g, bl, a
	}
	for y := 1; y < b.height; y++ {
		copy(b.data[y*b.stride:], row)
	}
}

// FromStd creates a buffer from a standard library image. Colors are
// converted to premultiplied 8-bit RGBA; *image.RGBA sources are copied
// directly. Returns ErrInvalidDimensions for empty images.
func FromStd(img image.Image) (*Buf, error) {
	bounds := img.Bounds()
	buf, err := NewBuf(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	if rgba, ok := img.(*image.RGBA); ok {
		for y := range buf.height {
			src := rgba.Pix[rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			copy(buf.data[y*buf.stride:(y+1)*buf.stride], src)
		}
		return buf, nil
	}

	for y := range buf.height {
		for x := range buf.width {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			off := y*buf.stride + x*BytesPerPixel
			buf.data[off] = c.R
			buf.data[off+1] = c.G
			buf.data[off+2] = c.B
			buf.data[off+3] = c.A
		}
	}
	return buf, nil
}

// ToRGBA copies the buffer into a premultiplied *image.RGBA.
func (b *Buf) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for y := range b.height {
		copy(img.Pix[y*img.Stride:], b.data[y*b.stride:y*b.stride+b.width*BytesPerPixel])
	}
	return img
}

// ToNRGBA copies the buffer into a straight-alpha *image.NRGBA.
func (b *Buf) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for y := range b.height {
		src := b.data[y*b.stride:]
		dst := img.Pix[y*img.Stride:]
		for x := range b.width {
			off := x * BytesPerPixel
			a := src[off+3]
			dst[off+3] = a
			switch a {
			case 0:
				dst[off], dst[off+1], dst[off+2] = 0, 0, 0
			case 255:
				dst[off], dst[off+1], dst[off+2] = src[off], src[off+1], src[off+2]
			default:
				dst[off] = unpremul(src[off], a)
				dst[off+1] = unpremul(src[off+1], a)
				dst[off+2] = unpremul(src[off+2], a)
			}
		}
	}
	return img
}

// unpremul converts one premultiplied channel to straight alpha.
func unpremul(c, a uint8) uint8 {
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		return 255
	}
	return uint8(v)
}
