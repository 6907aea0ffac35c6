package psdcomp

import (
	"image/color"
	"testing"
)

// solid returns a w x h surface filled with the straight-alpha color c.
func solid(t *testing.T, w, h int, c color.NRGBA) *Surface {
	t.Helper()
	s, err := NewSurface(w, h)
	if err != nil {
		t.Fatalf("NewSurface(%d, %d): %v", w, h, err)
	}
	s.Fill(c)
	return s
}

// leaf returns a layer painting a w x h block of c at (x, y).
func leaf(t *testing.T, id, x, y, w, h int, c color.NRGBA) *Layer {
	t.Helper()
	return &Layer{
		ID:     id,
		Left:   x,
		Top:    y,
		Right:  x + w,
		Bottom: y + h,
		Raster: solid(t, w, h, c),
	}
}

func samePixels(a, b *Surface) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	for y := range a.Height() {
		for x := range a.Width() {
			if a.RGBAAt(x, y) != b.RGBAAt(x, y) {
				return false
			}
		}
	}
	return true
}

var (
	red         = color.NRGBA{R: 255, A: 255}
	green       = color.NRGBA{G: 255, A: 255}
	blue        = color.NRGBA{B: 255, A: 255}
	white       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	transparent = color.RGBA{}
)
