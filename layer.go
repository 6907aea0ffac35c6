package psdcomp

// Layer is one node of a layer tree.
//
// A layer with children is a group and never paints its own Raster. A leaf
// paints Raster with its top-left corner at (Left, Top) in document
// coordinates; a leaf without a Raster paints nothing.
//
// Layers are read-only inputs: the compositor never modifies them.
type Layer struct {
	// ID identifies the layer in visibility overrides and fingerprints.
	// IDs must be unique within a document.
	ID   int
	Name string

	// Hidden is the authored visibility, replaced by an override if present.
	Hidden bool

	// Opacity and FillOpacity are in [0, 1]. Nil means 1.
	Opacity     *float64
	FillOpacity *float64

	// BlendMode is the mode name as stored in the source document,
	// for example "normal", "pass through" or "color dodge".
	BlendMode string

	// Bounding box in document coordinates.
	Left, Top, Right, Bottom int

	// Clipping clips this layer to the nearest preceding sibling that is
	// not itself clipping.
	Clipping bool

	Children []*Layer
	Raster   *Surface
}

// IsGroup reports whether the layer has children.
func (l *Layer) IsGroup() bool {
	return len(l.Children) > 0
}

// EffectiveAlpha returns the product of opacity and fill opacity.
func (l *Layer) EffectiveAlpha() float64 {
	return fraction(l.Opacity) * fraction(l.FillOpacity)
}

// Width returns Right - Left.
func (l *Layer) Width() int {
	return l.Right - l.Left
}

// Height returns Bottom - Top.
func (l *Layer) Height() int {
	return l.Bottom - l.Top
}

func fraction(v *float64) float64 {
	if v == nil {
		return 1
	}
	return clamp01(*v)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	case v != v: // NaN
		return 0
	}
	return v
}

// Float64 returns a pointer to v, for filling Opacity and FillOpacity.
func Float64(v float64) *float64 {
	return &v
}

// Document is the root of a layer tree.
type Document struct {
	Width, Height int
	Children      []*Layer
}

// Walk calls fn for every layer in pre-order. Walking stops early when fn
// returns false.
func (d *Document) Walk(fn func(l *Layer) bool) {
	var walk func(layers []*Layer) bool
	walk = func(layers []*Layer) bool {
		for _, l := range layers {
			if l == nil {
				continue
			}
			if !fn(l) || !walk(l.Children) {
				return false
			}
		}
		return true
	}
	walk(d.Children)
}

// FindLayer returns the first layer with the given id in pre-order.
func (d *Document) FindLayer(id int) (*Layer, bool) {
	var found *Layer
	d.Walk(func(l *Layer) bool {
		if l.ID == id {
			found = l
			return false
		}
		return true
	})
	return found, found != nil
}
