// Package psdcomp composites a tree of pre-rasterized layers into a single
// image.
//
// # Overview
//
// A layer decoder (a PSD reader, the manifest package, or the caller's own
// code) supplies a [Document]: a tree of [Layer] values whose leaves carry
// already-rasterized [Surface] pixels. psdcomp performs only the compositing
// pass: it decides which layers are visible, stacks them in document order
// with their opacity and blend mode, isolates groups, applies clipping masks,
// and caches the result keyed on the resolved visibility state.
//
// # Quick Start
//
//	c := psdcomp.NewCompositor()
//
//	out, err := c.CompositePSD(doc,
//	    psdcomp.WithLayerVisibility(psdcomp.VisibilityMap{7: false}),
//	    psdcomp.WithBackgroundString("#fff"),
//	)
//	if err != nil {
//	    return err
//	}
//
//	png, err := psdcomp.Encode(ctx, out, psdcomp.FormatPNG, psdcomp.DefaultQuality)
//
// # Visibility
//
// A layer is visible when its parent is visible and either the override map
// says so or, absent an override, it is not hidden. Overrides can never show
// a layer below a hidden ancestor.
//
// # Blend Modes
//
// Sixteen modes are recognized by name ("normal", "pass through", "multiply",
// "screen", ... "luminosity"). Names are matched case-insensitively. Modes
// outside that set are painted as normal; [UnsupportedBlendModes] lists them.
//
// # Caching
//
// A [Compositor] keeps the last 50 results (configurable with
// [WithCacheSize]) and evicts the oldest-inserted entry first. Two override
// maps that resolve to the same visible layers share one cache entry.
// Returned surfaces are shared with the cache and must not be modified.
//
// # Pixel Format
//
// Surfaces store 8-bit RGBA with premultiplied alpha. Blend formulas follow
// the W3C Compositing and Blending Level 1 recommendation.
package psdcomp

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
