package blend

import (
	"testing"

	"github.com/gogpu/psdcomp/internal/image"
)

func mustBuf(t *testing.T, w, h int) *image.Buf {
	t.Helper()
	b, err := image.NewBuf(w, h)
	if err != nil {
		t.Fatalf("NewBuf(%d, %d): %v", w, h, err)
	}
	return b
}

func pixel(b *image.Buf, x, y int) [4]uint8 {
	r, g, bl, a := b.RGBA(x, y)
	return [4]uint8{r, g, bl, a}
}

// TestDrawOffset tests that the source lands at the requested offset and is
// clipped to the destination.
func TestDrawOffset(t *testing.T) {
	src := mustBuf(t, 2, 2)
	src.Fill(255, 0, 0, 255)
	dst := mustBuf(t, 4, 4)

	Draw(dst, src, 3, -1, 1, BlendSourceOver)

	tests := []struct {
		x, y int
		want [4]uint8
	}{
		{3, 0, [4]uint8{255, 0, 0, 255}},
		{3, 1, [4]uint8{}},
		{2, 0, [4]uint8{}},
		{0, 0, [4]uint8{}},
	}
	for _, tt := range tests {
		if got := pixel(dst, tt.x, tt.y); got != tt.want {
			t.Errorf("pixel(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

// TestDrawOpacity tests opacity scaling of premultiplied source pixels.
func TestDrawOpacity(t *testing.T) {
	tests := []struct {
		name    string
		opacity float64
		want    [4]uint8
	}{
		{"full", 1, [4]uint8{200, 100, 0, 200}},
		{"half", 0.5, [4]uint8{100, 50, 0, 100}},
		{"quarter", 0.25, [4]uint8{50, 25, 0, 50}},
		{"zero", 0, [4]uint8{}},
		{"negative", -1, [4]uint8{}},
		{"above one clamps", 3, [4]uint8{200, 100, 0, 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := mustBuf(t, 1, 1)
			_ = src.SetRGBA(0, 0, 200, 100, 0, 200)
			dst := mustBuf(t, 1, 1)

			Draw(dst, src, 0, 0, tt.opacity, BlendSourceOver)

			if got := pixel(dst, 0, 0); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDrawBlendMode tests that Draw applies the requested operator.
func TestDrawBlendMode(t *testing.T) {
	src := mustBuf(t, 1, 1)
	src.Fill(128, 128, 128, 255)
	dst := mustBuf(t, 1, 1)
	dst.Fill(128, 128, 128, 255)

	Draw(dst, src, 0, 0, 1, BlendMultiply)

	if got := pixel(dst, 0, 0); got != [4]uint8{64, 64, 64, 255} {
		t.Errorf("multiply = %v, want [64 64 64 255]", got)
	}
}

// TestMask tests destination-in masking with a positioned mask.
func TestMask(t *testing.T) {
	dst := mustBuf(t, 4, 1)
	dst.Fill(200, 100, 50, 255)

	mask := mustBuf(t, 2, 1)
	_ = mask.SetRGBA(0, 0, 0, 0, 0, 255)
	_ = mask.SetRGBA(1, 0, 0, 0, 0, 128)

	Mask(dst, mask, 1, 0)

	tests := []struct {
		x    int
		want [4]uint8
	}{
		{0, [4]uint8{}},
		{1, [4]uint8{200, 100, 50, 255}},
		{2, [4]uint8{100, 50, 25, 128}},
		{3, [4]uint8{}},
	}
	for _, tt := range tests {
		if got := pixel(dst, tt.x, 0); got != tt.want {
			t.Errorf("pixel(%d) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestMaskNilClears(t *testing.T) {
	dst := mustBuf(t, 2, 2)
	dst.Fill(1, 2, 3, 255)

	Mask(dst, nil, 0, 0)

	for _, b := range dst.Data() {
		if b != 0 {
			t.Fatal("Mask with nil mask should clear destination")
		}
	}
}
