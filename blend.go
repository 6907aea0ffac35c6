package psdcomp

import (
	"github.com/gogpu/psdcomp/internal/blend"
)

// BlendMode identifies the operator a layer is painted with.
type BlendMode = blend.BlendMode

// Blend modes.
const (
	// BlendNormal paints the source over the backdrop. "normal" and
	// "pass through" both map here, as does every unrecognized name.
	BlendNormal = blend.BlendSourceOver

	// BlendMultiply multiplies source and backdrop. Formula: Cb * Cs
	BlendMultiply = blend.BlendMultiply

	// BlendScreen is inverse multiply. Formula: 1 - (1-Cb) * (1-Cs)
	BlendScreen = blend.BlendScreen

	// BlendOverlay multiplies dark backdrop areas and screens light ones.
	BlendOverlay = blend.BlendOverlay

	// BlendDarken keeps the darker of source and backdrop.
	BlendDarken = blend.BlendDarken

	// BlendLighten keeps the lighter of source and backdrop.
	BlendLighten = blend.BlendLighten

	// BlendColorDodge brightens the backdrop toward the source.
	BlendColorDodge = blend.BlendColorDodge

	// BlendColorBurn darkens the backdrop toward the source.
	BlendColorBurn = blend.BlendColorBurn

	// BlendHardLight is overlay with source and backdrop swapped.
	BlendHardLight = blend.BlendHardLight

	// BlendSoftLight is a softer hard light.
	BlendSoftLight = blend.BlendSoftLight

	// BlendDifference is |Cb - Cs|.
	BlendDifference = blend.BlendDifference

	// BlendExclusion is difference with lower contrast.
	BlendExclusion = blend.BlendExclusion

	// BlendHue takes hue from the source, saturation and luminosity from the backdrop.
	BlendHue = blend.BlendHue

	// BlendSaturation takes saturation from the source.
	BlendSaturation = blend.BlendSaturation

	// BlendColor takes hue and saturation from the source.
	BlendColor = blend.BlendColor

	// BlendLuminosity takes luminosity from the source.
	BlendLuminosity = blend.BlendLuminosity
)

// LookupBlendMode returns the operator for a layer blend-mode name.
// Lookup is case-insensitive. The boolean is false for empty or unrecognized
// names, in which case BlendNormal is returned.
func LookupBlendMode(name string) (BlendMode, bool) {
	return blend.ParseMode(name)
}

// UnsupportedBlendModes returns every distinct non-empty blend-mode name in
// doc that is not recognized, in pre-order first-seen order. Such layers are
// painted as normal. The result is diagnostic only.
func UnsupportedBlendModes(doc *Document) []string {
	if doc == nil {
		return nil
	}
	var modes []string
	seen := make(map[string]struct{})
	doc.Walk(func(l *Layer) bool {
		if l.BlendMode == "" {
			return true
		}
		if _, ok := blend.ParseMode(l.BlendMode); ok {
			return true
		}
		if _, dup := seen[l.BlendMode]; !dup {
			seen[l.BlendMode] = struct{}{}
			modes = append(modes, l.BlendMode)
		}
		return true
	})
	return modes
}

// operator returns the mode a layer is painted with.
func operator(name string, applyBlendModes bool) BlendMode {
	if !applyBlendModes {
		return BlendNormal
	}
	mode, _ := blend.ParseMode(name)
	return mode
}
