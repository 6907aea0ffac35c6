package blend

import (
	"strings"

	"golang.org/x/text/cases"
)

// modeNames maps layer blend-mode names, as written by document decoders,
// to operators. "pass through" is the group default and behaves as normal.
var modeNames = map[string]BlendMode{
	"normal":       BlendSourceOver,
	"pass through": BlendSourceOver,
	"multiply":     BlendMultiply,
	"screen":       BlendScreen,
	"overlay":      BlendOverlay,
	"darken":       BlendDarken,
	"lighten":      BlendLighten,
	"color dodge":  BlendColorDodge,
	"color burn":   BlendColorBurn,
	"hard light":   BlendHardLight,
	"soft light":   BlendSoftLight,
	"difference":   BlendDifference,
	"exclusion":    BlendExclusion,
	"hue":          BlendHue,
	"saturation":   BlendSaturation,
	"color":        BlendColor,
	"luminosity":   BlendLuminosity,
}

// ParseMode looks up a blend mode by name. Names are case-folded and trimmed
// before lookup. The second result is false for empty or unknown names, in
// which case BlendSourceOver is returned.
func ParseMode(name string) (BlendMode, bool) {
	key := normalizeName(name)
	if key == "" {
		return BlendSourceOver, false
	}
	mode, ok := modeNames[key]
	if !ok {
		return BlendSourceOver, false
	}
	return mode, true
}

// normalizeName folds case and trims surrounding space.
// A Caser is stateful, so a fresh one is used per call.
func normalizeName(name string) string {
	return strings.TrimSpace(cases.Fold().String(name))
}

const unknownBlendMode = "unknown"

// String returns the canonical layer-mode name of the blend mode.
func (m BlendMode) String() string {
	switch m {
	case BlendSourceOver:
		return "normal"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	case BlendOverlay:
		return "overlay"
	case BlendDarken:
		return "darken"
	case BlendLighten:
		return "lighten"
	case BlendColorDodge:
		return "color dodge"
	case BlendColorBurn:
		return "color burn"
	case BlendHardLight:
		return "hard light"
	case BlendSoftLight:
		return "soft light"
	case BlendDifference:
		return "difference"
	case BlendExclusion:
		return "exclusion"
	case BlendHue:
		return "hue"
	case BlendSaturation:
		return "saturation"
	case BlendColor:
		return "color"
	case BlendLuminosity:
		return "luminosity"
	case BlendDestinationIn:
		return "destination-in"
	default:
		return unknownBlendMode
	}
}
