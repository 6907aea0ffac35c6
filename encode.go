package psdcomp

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"

	intImage "github.com/gogpu/psdcomp/internal/image"
)

// Format is an output encoding.
type Format string

// Output formats.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// DefaultQuality is the JPEG quality used when none is given.
const DefaultQuality = 0.92

// ParseFormat parses a format name or file extension such as "png", "jpg"
// or ".tif".
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	}
	return "", &EncodingError{Format: Format(s), Err: intImage.ErrUnsupportedFormat}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	}
	return "application/octet-stream"
}

func (f Format) codec() (intImage.Codec, bool) {
	switch f {
	case FormatPNG:
		return intImage.CodecPNG, true
	case FormatJPEG:
		return intImage.CodecJPEG, true
	case FormatBMP:
		return intImage.CodecBMP, true
	case FormatTIFF:
		return intImage.CodecTIFF, true
	}
	return 0, false
}

// Encode serializes s in the given format. quality in [0, 1] applies to JPEG
// only; values outside that range use DefaultQuality.
//
// Encoding runs on its own goroutine. If ctx is done first, Encode returns
// ctx.Err() and the encoder's result is discarded.
// Encoder failures are returned as *EncodingError.
func Encode(ctx context.Context, s *Surface, format Format, quality float64) ([]byte, error) {
	codec, ok := format.codec()
	if !ok {
		return nil, &EncodingError{Format: format, Err: intImage.ErrUnsupportedFormat}
	}
	if s == nil {
		return nil, &EncodingError{Format: format, Err: errors.New("nil surface")}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		var buf bytes.Buffer
		err := s.buf.Encode(&buf, codec, jpegQuality(quality))
		done <- result{data: buf.Bytes(), err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, &EncodingError{Format: format, Err: r.err}
		}
		return r.data, nil
	}
}

// jpegQuality maps a [0, 1] quality to the encoder's 1-100 scale.
func jpegQuality(q float64) int {
	if math.IsNaN(q) || q < 0 || q > 1 {
		q = DefaultQuality
	}
	return min(max(int(math.Round(q*100)), 1), 100)
}
