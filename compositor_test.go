package psdcomp

import (
	"errors"
	"image/color"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	intImage "github.com/gogpu/psdcomp/internal/image"
)

func TestCompositeSingleLeaf(t *testing.T) {
	doc := &Document{
		Width: 4, Height: 4,
		Children: []*Layer{leaf(t, 1, 1, 1, 2, 2, red)},
	}

	out, err := NewCompositor().CompositePSD(doc)
	if err != nil {
		t.Fatalf("CompositePSD: %v", err)
	}
	if out.Width() != 4 || out.Height() != 4 {
		t.Fatalf("size = %dx%d, want 4x4", out.Width(), out.Height())
	}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{1, 1, color.RGBA{R: 255, A: 255}},
		{2, 2, color.RGBA{R: 255, A: 255}},
		{0, 0, transparent},
		{3, 3, transparent},
	}
	for _, tt := range tests {
		if got := out.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCompositeLayerAlpha(t *testing.T) {
	l := leaf(t, 1, 0, 0, 1, 1, red)
	l.Opacity = Float64(0.5)
	l.FillOpacity = Float64(0.5)
	doc := &Document{Width: 1, Height: 1, Children: []*Layer{l}}

	out, err := NewCompositor().CompositePSD(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.RGBAAt(0, 0), (color.RGBA{R: 64, A: 64}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestCompositeHiddenAndOverrides(t *testing.T) {
	hidden := leaf(t, 1, 0, 0, 1, 1, red)
	hidden.Hidden = true
	doc := &Document{Width: 1, Height: 1, Children: []*Layer{hidden}}
	c := NewCompositor()

	out, err := c.CompositePSD(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.RGBAAt(0, 0); got != transparent {
		t.Errorf("hidden layer painted: %v", got)
	}

	out, err = c.CompositePSD(doc, WithLayerVisibility(VisibilityMap{1: true}))
	if err != nil {
		t.Fatal(err)
	}
	if got := out.RGBAAt(0, 0); got.R != 255 {
		t.Errorf("override did not show layer: %v", got)
	}
}

func TestCompositeHiddenGroup(t *testing.T) {
	group := &Layer{ID: 1, Hidden: true, Children: []*Layer{leaf(t, 2, 0, 0, 1, 1, red)}}
	doc := &Document{Width: 1, Height: 1, Children: []*Layer{group}}

	out, err := NewCompositor().CompositePSD(doc, WithLayerVisibility(VisibilityMap{2: true}))
	if err != nil {
		t.Fatal(err)
	}
	if got := out.RGBAAt(0, 0); got != transparent {
		t.Errorf("child of hidden group painted: %v", got)
	}
}

// render runs one pass over doc, optionally isolating every group.
func render(t *testing.T, doc *Document, forceIsolation bool) *Surface {
	t.Helper()
	out, err := NewSurface(doc.Width, doc.Height)
	if err != nil {
		t.Fatal(err)
	}
	p := &pass{
		applyBlendModes: true,
		pool:            intImage.NewPool(0),
		forceIsolation:  forceIsolation,
	}
	if err := p.renderSiblings(doc.Children, out.buf, true); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestGroupDirectMatchesIsolated(t *testing.T) {
	half := leaf(t, 3, 1, 1, 2, 2, green)
	half.Opacity = Float64(0.5)

	nested := &Layer{ID: 4, BlendMode: "pass through", Children: []*Layer{
		leaf(t, 5, 3, 0, 1, 4, white),
	}}

	doc := &Document{
		Width: 4, Height: 4,
		Children: []*Layer{
			leaf(t, 1, 0, 0, 4, 4, blue),
			{ID: 2, BlendMode: "normal", Children: []*Layer{
				leaf(t, 6, 0, 0, 2, 2, red),
				half,
				nested,
			}},
		},
	}

	direct := render(t, doc, false)
	isolated := render(t, doc, true)
	if !samePixels(direct, isolated) {
		for y := range 4 {
			for x := range 4 {
				if d, i := direct.RGBAAt(x, y), isolated.RGBAAt(x, y); d != i {
					t.Errorf("pixel(%d,%d): direct %v, isolated %v", x, y, d, i)
				}
			}
		}
	}
}

// TestGroupPathsRandomized compares the direct and isolated group paths on
// random backdrops and two normal children. Opaque children must agree
// exactly; translucent ones may differ by one 8-bit rounding step.
func TestGroupPathsRandomized(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	randColor := func(minAlpha int) color.NRGBA {
		return color.NRGBA{
			R: uint8(rng.IntN(256)),
			G: uint8(rng.IntN(256)),
			B: uint8(rng.IntN(256)),
			A: uint8(minAlpha + rng.IntN(256-minAlpha)),
		}
	}

	tests := []struct {
		name      string
		minAlpha  int
		tolerance int
	}{
		{"opaque children", 255, 0},
		{"translucent children", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := range 2000 {
				bg, c1, c2 := randColor(0), randColor(tt.minAlpha), randColor(tt.minAlpha)
				doc := &Document{Width: 1, Height: 1, Children: []*Layer{
					leaf(t, 1, 0, 0, 1, 1, bg),
					{ID: 2, BlendMode: "pass through", Children: []*Layer{
						leaf(t, 3, 0, 0, 1, 1, c1),
						leaf(t, 4, 0, 0, 1, 1, c2),
					}},
				}}

				d := render(t, doc, false).RGBAAt(0, 0)
				iso := render(t, doc, true).RGBAAt(0, 0)
				if !within(d, iso, tt.tolerance) {
					t.Fatalf("case %d bg %v c1 %v c2 %v: direct %v, isolated %v (tolerance %d)",
						i, bg, c1, c2, d, iso, tt.tolerance)
				}
			}
		})
	}
}

// A pass-through group paints its children against the backdrop, so a
// multiply child darkens what lies under the group.
func TestPassThroughGroupBlendsChildrenWithBackdrop(t *testing.T) {
	gray := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	child := leaf(t, 3, 0, 0, 1, 1, gray)
	child.BlendMode = "multiply"
	doc := &Document{Width: 1, Height: 1, Children: []*Layer{
		leaf(t, 1, 0, 0, 1, 1, gray),
		{ID: 2, BlendMode: "pass through", Children: []*Layer{child}},
	}}

	out, err := NewCompositor().CompositePSD(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.RGBAAt(0, 0), (color.RGBA{R: 64, G: 64, B: 64, A: 255}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}

	// Forced isolation flattens the child on transparency first.
	if got, want := render(t, doc, true).RGBAAt(0, 0), (color.RGBA{R: 128, G: 128, B: 128, A: 255}); got != want {
		t.Errorf("isolated pixel = %v, want %v", got, want)
	}
}

func within(a, b color.RGBA, tol int) bool {
	diff := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return diff(a.R, b.R) <= tol && diff(a.G, b.G) <= tol &&
		diff(a.B, b.B) <= tol && diff(a.A, b.A) <= tol
}

func TestGroupIsolation(t *testing.T) {
	t.Run("group opacity applies once", func(t *testing.T) {
		group := &Layer{ID: 1, Opacity: Float64(0.5), Children: []*Layer{
			leaf(t, 2, 0, 0, 1, 1, red),
			leaf(t, 3, 0, 0, 1, 1, red),
		}}
		doc := &Document{Width: 1, Height: 1, Children: []*Layer{group}}

		out, err := NewCompositor().CompositePSD(doc)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := out.RGBAAt(0, 0), (color.RGBA{R: 128, A: 128}); got != want {
			t.Errorf("pixel = %v, want %v", got, want)
		}
	})

	t.Run("group blend mode applies to flattened children", func(t *testing.T) {
		gray := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
		group := &Layer{ID: 2, BlendMode: "multiply", Children: []*Layer{
			leaf(t, 3, 0, 0, 1, 1, gray),
		}}
		doc := &Document{Width: 1, Height: 1, Children: []*Layer{
			leaf(t, 1, 0, 0, 1, 1, gray),
			group,
		}}

		out, err := NewCompositor().CompositePSD(doc)
		if err != nil {
			t.Fatal(err)
		}
		if got := out.RGBAAt(0, 0); got.R != 64 || got.A != 255 {
			t.Errorf("pixel = %v, want multiply result 64", got)
		}
	})
}

func TestCompositeBlendModes(t *testing.T) {
	gray := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	top := leaf(t, 2, 0, 0, 1, 1, gray)
	top.BlendMode = "Multiply"
	doc := &Document{Width: 1, Height: 1, Children: []*Layer{
		leaf(t, 1, 0, 0, 1, 1, gray),
		top,
	}}
	c := NewCompositor()

	tests := []struct {
		name    string
		enabled bool
		want    uint8
	}{
		{"enabled", true, 64},
		{"disabled", false, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.CompositePSD(doc, WithBlendModes(tt.enabled))
			if err != nil {
				t.Fatal(err)
			}
			if got := out.RGBAAt(0, 0); got.R != tt.want {
				t.Errorf("R = %d, want %d", got.R, tt.want)
			}
		})
	}
}

func TestCompositeUnsupportedModeFallsBack(t *testing.T) {
	top := leaf(t, 2, 0, 0, 1, 1, red)
	top.BlendMode = "vivid light"
	doc := &Document{Width: 1, Height: 1, Children: []*Layer{
		leaf(t, 1, 0, 0, 1, 1, blue),
		top,
	}}

	out, err := NewCompositor().CompositePSD(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.RGBAAt(0, 0), (color.RGBA{R: 255, A: 255}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestCompositeNilRaster(t *testing.T) {
	doc := &Document{Width: 2, Height: 2, Children: []*Layer{
		{ID: 1, Left: 0, Top: 0, Right: 2, Bottom: 2},
		{ID: 2, Children: []*Layer{{ID: 3}}},
	}}

	out, err := NewCompositor().CompositePSD(doc)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.RGBAAt(0, 0); got != transparent {
		t.Errorf("pixel = %v, want transparent", got)
	}
}

func TestCompositeCache(t *testing.T) {
	doc := &Document{Width: 2, Height: 2, Children: []*Layer{
		leaf(t, 1, 0, 0, 2, 2, red),
		leaf(t, 2, 0, 0, 1, 1, green),
	}}
	c := NewCompositor()

	first, err := c.CompositePSD(doc)
	if err != nil {
		t.Fatal(err)
	}
	paints := c.Stats().Paints
	if paints == 0 {
		t.Fatal("first render did not paint")
	}

	second, err := c.CompositePSD(doc)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Error("second call should return the cached surface")
	}
	if got := c.Stats().Paints; got != paints {
		t.Errorf("cache hit painted: paints %d -> %d", paints, got)
	}

	// Same resolved visibility shares the entry.
	same, err := c.CompositePSD(doc, WithLayerVisibility(VisibilityMap{2: true, 99: false}))
	if err != nil {
		t.Fatal(err)
	}
	if same != first {
		t.Error("equivalent overrides should hit the cache")
	}

	toggled, err := c.CompositePSD(doc, WithLayerVisibility(VisibilityMap{2: false}))
	if err != nil {
		t.Fatal(err)
	}
	if toggled == first {
		t.Error("toggled override should recompute")
	}
	if c.Stats().Paints == paints {
		t.Error("toggled override did not paint")
	}
	if got := toggled.RGBAAt(0, 0); got.G != 0 || got.R != 255 {
		t.Errorf("toggled pixel = %v, want red", got)
	}

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 2 || stats.Len != 2 {
		t.Errorf("Stats() = %+v, want 2 hits, 2 misses, 2 entries", stats)
	}

	c.ClearCache()
	if c.Stats().Len != 0 {
		t.Error("ClearCache left entries")
	}
	again, err := c.CompositePSD(doc)
	if err != nil {
		t.Fatal(err)
	}
	if again == first {
		t.Error("render after ClearCache returned the old surface")
	}
	if !samePixels(again, first) {
		t.Error("re-render differs from first render")
	}
}

func TestCompositeCacheKeyIncludesOptions(t *testing.T) {
	doc := &Document{Width: 2, Height: 2, Children: []*Layer{leaf(t, 1, 0, 0, 1, 1, red)}}
	c := NewCompositor()

	base, _ := c.CompositePSD(doc)
	tests := []struct {
		name string
		opt  CompositeOption
	}{
		{"blend modes off", WithBlendModes(false)},
		{"background", WithBackground(white)},
		{"viewport", WithViewport(Viewport{Width: 1, Height: 1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.CompositePSD(doc, tt.opt)
			if err != nil {
				t.Fatal(err)
			}
			if out == base {
				t.Error("option should select a different cache entry")
			}
		})
	}
}

func TestCompositeCacheEviction(t *testing.T) {
	doc := &Document{Width: 1, Height: 1, Children: []*Layer{
		{ID: 1}, {ID: 2}, {ID: 3},
	}}
	c := NewCompositor(WithCacheSize(2))

	first, _ := c.CompositePSD(doc, WithLayerVisibility(VisibilityMap{1: false}))
	_, _ = c.CompositePSD(doc, WithLayerVisibility(VisibilityMap{2: false}))
	_, _ = c.CompositePSD(doc, WithLayerVisibility(VisibilityMap{3: false}))

	stats := c.Stats()
	if stats.Len != 2 || stats.Evictions != 1 || stats.Capacity != 2 {
		t.Errorf("Stats() = %+v, want len 2, 1 eviction", stats)
	}

	again, _ := c.CompositePSD(doc, WithLayerVisibility(VisibilityMap{1: false}))
	if again == first {
		t.Error("first-inserted entry should have been evicted")
	}
}

func TestCompositeViewport(t *testing.T) {
	doc := &Document{Width: 4, Height: 4, Children: []*Layer{leaf(t, 1, 2, 2, 1, 1, red)}}
	c := NewCompositor()

	out, err := c.CompositePSD(doc, WithViewport(Viewport{X: 2, Y: 2, Width: 2, Height: 2}))
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 2 || out.Height() != 2 {
		t.Fatalf("size = %dx%d, want 2x2", out.Width(), out.Height())
	}
	if got := out.RGBAAt(0, 0); got.R != 255 {
		t.Errorf("pixel(0,0) = %v, want red", got)
	}
	if got := out.RGBAAt(1, 1); got != transparent {
		t.Errorf("pixel(1,1) = %v, want transparent", got)
	}

	_, err = c.CompositePSD(doc, WithViewport(Viewport{Width: 0, Height: 2}))
	var allocErr *AllocationError
	if !errors.As(err, &allocErr) || allocErr.Width != 0 {
		t.Errorf("zero viewport error = %v, want *AllocationError", err)
	}

	_, err = c.CompositePSD(doc, WithViewport(Viewport{Width: math.MaxInt32 + 1, Height: math.MaxInt32 + 1}))
	if !errors.Is(err, ErrAllocation) {
		t.Errorf("huge viewport error = %v, want ErrAllocation", err)
	}
}

func TestCompositeBackground(t *testing.T) {
	doc := &Document{Width: 2, Height: 1, Children: []*Layer{leaf(t, 1, 0, 0, 1, 1, red)}}
	c := NewCompositor()

	out, err := c.CompositePSD(doc, WithBackgroundString("#00f"))
	if err != nil {
		t.Fatal(err)
	}
	if got := out.RGBAAt(1, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("background pixel = %v, want blue", got)
	}
	if got := out.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("layer pixel = %v, want red over background", got)
	}

	_, err = c.CompositePSD(doc, WithBackgroundString("not-a-color"))
	if !errors.Is(err, ErrInvalidColor) {
		t.Errorf("bad background error = %v, want ErrInvalidColor", err)
	}
}

func TestCompositeErrors(t *testing.T) {
	c := NewCompositor()

	if _, err := c.CompositePSD(nil); !errors.Is(err, ErrNilDocument) {
		t.Errorf("nil document error = %v", err)
	}
	if _, err := c.CompositePSD(&Document{Width: 0, Height: 5}); !errors.Is(err, ErrAllocation) {
		t.Errorf("empty document error = %v, want ErrAllocation", err)
	}
}

func TestCompositeConcurrent(t *testing.T) {
	doc := &Document{Width: 8, Height: 8, Children: []*Layer{
		leaf(t, 1, 0, 0, 8, 8, blue),
		{ID: 2, Opacity: Float64(0.5), Children: []*Layer{leaf(t, 3, 2, 2, 4, 4, red)}},
		leaf(t, 4, 4, 4, 4, 4, green),
	}}
	c := NewCompositor(WithCacheSize(3))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := i%4 + 1
			if _, err := c.CompositePSD(doc, WithLayerVisibility(VisibilityMap{id: false})); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if c.Stats().Len > 3 {
		t.Errorf("Len = %d, want <= 3", c.Stats().Len)
	}
}

func TestCompositeSingleLayer(t *testing.T) {
	l := leaf(t, 1, 5, 5, 3, 2, red)
	l.Hidden = true
	l.Opacity = Float64(0)
	l.BlendMode = "multiply"

	out, err := CompositeSingleLayer(l, WithBackground(white))
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 3 || out.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", out.Width(), out.Height())
	}
	if got := out.RGBAAt(2, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel = %v, want raw red", got)
	}

	empty := &Layer{ID: 2, Right: 2, Bottom: 2}
	out, err = CompositeSingleLayer(empty, WithBackgroundString("white"))
	if err != nil {
		t.Fatal(err)
	}
	if got := out.RGBAAt(1, 1); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("background = %v, want white", got)
	}

	if _, err := CompositeSingleLayer(&Layer{Left: 3, Right: 3, Bottom: 1}); !errors.Is(err, ErrAllocation) {
		t.Errorf("empty bounds error = %v, want ErrAllocation", err)
	}
	if _, err := CompositeSingleLayer(nil); !errors.Is(err, ErrNilLayer) {
		t.Errorf("nil layer error = %v", err)
	}
}
