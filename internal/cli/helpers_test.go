package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

// writeFixture writes a 4x4 manifest with an opaque red background (id 1)
// and a half-size blue layer (id 2) using an unsupported blend mode.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "bg.png"), 4, 4, color.NRGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(dir, "fg.png"), 2, 2, color.NRGBA{B: 255, A: 255})

	const doc = `width: 4
height: 4
layers:
  - id: 1
    name: Background
    image: bg.png
  - id: 2
    name: Square
    image: fg.png
    blend: dissolve
    left: 1
    top: 1
`
	path := filepath.Join(dir, "doc.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

// testContext returns a context carrying a quiet logger and default config.
func testContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	ctx := withLogger(context.Background(), newLogger(&logs, log.DebugLevel))
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	return withConfig(ctx, cfg), &logs
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}
