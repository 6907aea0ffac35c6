package psdcomp

import (
	"fmt"
	"image/color"

	"github.com/gogpu/psdcomp/internal/cache"
)

// Option configures a Compositor during creation.
//
// Example:
//
//	c := psdcomp.NewCompositor(psdcomp.WithCacheSize(10))
type Option func(*compositorOptions)

// compositorOptions holds optional configuration for Compositor creation.
type compositorOptions struct {
	cacheSize int
	poolSize  int
}

// defaultOptions returns the default compositor options.
func defaultOptions() compositorOptions {
	return compositorOptions{
		cacheSize: cache.DefaultCapacity,
		poolSize:  4,
	}
}

// WithCacheSize sets how many composites are kept before the oldest-inserted
// one is evicted. Values below 1 keep the default of 50.
func WithCacheSize(n int) Option {
	return func(o *compositorOptions) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithPool sets how many scratch surfaces of each size are kept for reuse
// between renders. Zero or less means unlimited.
func WithPool(maxPerBucket int) Option {
	return func(o *compositorOptions) {
		o.poolSize = maxPerBucket
	}
}

// CompositeOption configures a single CompositePSD or CompositeSingleLayer call.
type CompositeOption func(*compositeOptions)

// Viewport is a sub-rectangle of the document in document coordinates.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// compositeOptions holds the per-call settings.
type compositeOptions struct {
	overrides       VisibilityMap
	background      color.Color
	applyBlendModes bool
	viewport        *Viewport
	err             error
}

func defaultCompositeOptions() compositeOptions {
	return compositeOptions{applyBlendModes: true}
}

func applyCompositeOptions(opts []CompositeOption) (compositeOptions, error) {
	o := defaultCompositeOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o, o.err
}

// WithLayerVisibility sets runtime visibility overrides.
func WithLayerVisibility(m VisibilityMap) CompositeOption {
	return func(o *compositeOptions) {
		o.overrides = m
	}
}

// WithBackground fills the output with c before any layer is painted.
// A nil color means transparent.
func WithBackground(c color.Color) CompositeOption {
	return func(o *compositeOptions) {
		o.background = c
	}
}

// WithBackgroundString is WithBackground with a CSS color string.
// An unparsable string makes the composite call fail with ErrInvalidColor.
// The empty string means transparent.
func WithBackgroundString(s string) CompositeOption {
	return func(o *compositeOptions) {
		if s == "" {
			o.background = nil
			return
		}
		c, err := ParseColor(s)
		if err != nil {
			o.err = fmt.Errorf("psdcomp: background: %w", err)
			return
		}
		o.background = c
	}
}

// WithBlendModes enables or disables blend modes. When disabled every layer
// and group is painted as normal. Enabled by default.
func WithBlendModes(enabled bool) CompositeOption {
	return func(o *compositeOptions) {
		o.applyBlendModes = enabled
	}
}

// WithViewport renders only the given document rectangle. The output is
// sized to the viewport. By default the whole document is rendered.
func WithViewport(v Viewport) CompositeOption {
	return func(o *compositeOptions) {
		o.viewport = &v
	}
}
