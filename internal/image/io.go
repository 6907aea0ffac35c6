package image

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	// bmp and tiff also register their decoders with image.Decode.
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the image format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")
)

// Codec identifies an output encoding.
type Codec uint8

// Supported codecs.
const (
	CodecPNG Codec = iota
	CodecJPEG
	CodecBMP
	CodecTIFF
)

// Encode writes the buffer to w. quality (1-100) only applies to JPEG.
//
// PNG, BMP and TIFF are written with straight alpha. JPEG has no alpha
// channel, so the premultiplied data is written as-is, which is the buffer
// composited over black.
func (b *Buf) Encode(w io.Writer, codec Codec, quality int) error {
	switch codec {
	case CodecPNG:
		if err := png.Encode(w, b.ToNRGBA()); err != nil {
			return fmt.Errorf("image: encode PNG: %w", err)
		}
	case CodecJPEG:
		quality = min(max(quality, 1), 100)
		if err := jpeg.Encode(w, b.ToRGBA(), &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("image: encode JPEG: %w", err)
		}
	case CodecBMP:
		if err := bmp.Encode(w, b.ToNRGBA()); err != nil {
			return fmt.Errorf("image: encode BMP: %w", err)
		}
	case CodecTIFF:
		if err := tiff.Encode(w, b.ToNRGBA(), &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("image: encode TIFF: %w", err)
		}
	default:
		return ErrUnsupportedFormat
	}
	return nil
}

// Decode decodes an image from r, auto-detecting PNG, JPEG, WebP, BMP or TIFF.
func Decode(r io.Reader) (*Buf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStd(img)
}

// Load decodes the image file at path.
func Load(path string) (*Buf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}
