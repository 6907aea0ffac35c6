package psdcomp

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/draw"

	intImage "github.com/gogpu/psdcomp/internal/image"
)

// Surface is a premultiplied RGBA8 raster. It implements image.Image.
//
// Layer rasters and composite results are both surfaces. Surfaces returned
// by CompositePSD are shared with the cache and must be treated as read-only.
type Surface struct {
	buf *intImage.Buf
}

var _ image.Image = (*Surface)(nil)

// NewSurface creates a transparent surface.
// Returns *AllocationError if width or height is not positive.
func NewSurface(width, height int) (*Surface, error) {
	buf, err := intImage.NewBuf(width, height)
	if err != nil {
		return nil, &AllocationError{Width: width, Height: height}
	}
	return &Surface{buf: buf}, nil
}

// SurfaceFromImage copies img into a new surface, premultiplying its colors.
// The surface origin is img.Bounds().Min.
func SurfaceFromImage(img image.Image) (*Surface, error) {
	buf, err := intImage.FromStd(img)
	if err != nil {
		b := img.Bounds()
		return nil, &AllocationError{Width: b.Dx(), Height: b.Dy()}
	}
	return &Surface{buf: buf}, nil
}

// DecodeSurface decodes a PNG, JPEG, WebP, BMP or TIFF image into a surface.
func DecodeSurface(r io.Reader) (*Surface, error) {
	buf, err := intImage.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("psdcomp: %w", err)
	}
	return &Surface{buf: buf}, nil
}

// LoadSurface decodes the image file at path into a surface.
func LoadSurface(path string) (*Surface, error) {
	buf, err := intImage.Load(path)
	if err != nil {
		return nil, fmt.Errorf("psdcomp: %w", err)
	}
	return &Surface{buf: buf}, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.buf.Width() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.buf.Height() }

// ColorModel implements image.Image.
func (s *Surface) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.buf.Width(), s.buf.Height())
}

// At implements image.Image. The returned color is premultiplied.
func (s *Surface) At(x, y int) color.Color {
	r, g, b, a := s.buf.RGBA(x, y)
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// RGBAAt returns the premultiplied color at (x, y), or transparent black
// outside the surface.
func (s *Surface) RGBAAt(x, y int) color.RGBA {
	r, g, b, a := s.buf.RGBA(x, y)
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// Set stores c at (x, y). Coordinates outside the surface are ignored.
func (s *Surface) Set(x, y int, c color.Color) {
	p := color.RGBAModel.Convert(c).(color.RGBA)
	_ = s.buf.SetRGBA(x, y, p.R, p.G, p.B, p.A)
}

// Fill sets every pixel to c.
func (s *Surface) Fill(c color.Color) {
	p := color.RGBAModel.Convert(c).(color.RGBA)
	s.buf.Fill(p.R, p.G, p.B, p.A)
}

// Clone returns a deep copy of the surface.
func (s *Surface) Clone() *Surface {
	return &Surface{buf: s.buf.Clone()}
}

// ToNRGBA exports the pixels with straight alpha.
func (s *Surface) ToNRGBA() *image.NRGBA {
	return s.buf.ToNRGBA()
}

// ToRGBA exports the pixels with premultiplied alpha.
func (s *Surface) ToRGBA() *image.RGBA {
	return s.buf.ToRGBA()
}

// Resize returns a copy scaled to width x height with Catmull-Rom resampling.
// Scaling happens on premultiplied data so transparent edges do not bleed.
func (s *Surface) Resize(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, &AllocationError{Width: width, Height: height}
	}
	if width == s.Width() && height == s.Height() {
		return s.Clone(), nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), s.buf.ToRGBA(), s.Bounds(), draw.Src, nil)
	return SurfaceFromImage(dst)
}

// Fit returns a copy scaled down to fit within maxSide pixels on its longest
// side, preserving aspect ratio. Surfaces that already fit are cloned.
func (s *Surface) Fit(maxSide int) (*Surface, error) {
	w, h := s.Width(), s.Height()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return s.Clone(), nil
	}
	if w >= h {
		return s.Resize(maxSide, max(1, h*maxSide/w))
	}
	return s.Resize(max(1, w*maxSide/h), maxSide)
}
