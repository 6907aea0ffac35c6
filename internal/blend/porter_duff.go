// Package blend implements the blend operators used to stack layer rasters.
//
// All blend operations work with premultiplied alpha values in the range 0-255.
// Separable and non-separable modes follow the W3C Compositing and Blending
// Level 1 specification, which is also what document editors use for their
// layer blend modes.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// BlendMode identifies a blend operator.
type BlendMode uint8

const (
	// BlendSourceOver is the identity operator: S + D*(1-Sa).
	BlendSourceOver BlendMode = iota

	// Separable blend modes
	BlendMultiply   // B(Cb, Cs) = Cb * Cs
	BlendScreen     // B(Cb, Cs) = 1 - (1-Cb)*(1-Cs)
	BlendOverlay    // HardLight with swapped layers
	BlendDarken     // min(Cb, Cs)
	BlendLighten    // max(Cb, Cs)
	BlendColorDodge // Cb / (1 - Cs)
	BlendColorBurn  // 1 - (1 - Cb) / Cs
	BlendHardLight  // Multiply or Screen depending on source
	BlendSoftLight  // Soft version of HardLight
	BlendDifference // |Cb - Cs|
	BlendExclusion  // Cb + Cs - 2*Cb*Cs

	// Non-separable blend modes
	BlendHue        // Hue of source, saturation and luminosity of backdrop
	BlendSaturation // Saturation of source, hue and luminosity of backdrop
	BlendColor      // Hue and saturation of source, luminosity of backdrop
	BlendLuminosity // Luminosity of source, hue and saturation of backdrop

	// BlendDestinationIn keeps the destination where the source is opaque: D*Sa.
	// It is used for clip masking and has no layer-mode name.
	BlendDestinationIn
)

// BlendFunc is the signature for blend operations.
// All values are premultiplied alpha, 0-255.
// Parameters:
//   - sr, sg, sb, sa: source color (red, green, blue, alpha)
//   - dr, dg, db, da: destination color (red, green, blue, alpha)
//
// Returns: resulting color (r, g, b, a) after blending.
type BlendFunc func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// GetBlendFunc returns the blend function for the given mode.
// Returns blendSourceOver for unknown modes.
func GetBlendFunc(mode BlendMode) BlendFunc {
	switch mode {
	case BlendSourceOver:
		return blendSourceOver
	case BlendDestinationIn:
		return blendDestinationIn

	case BlendMultiply:
		return blendMultiply
	case BlendScreen:
		return blendScreen
	case BlendOverlay:
		return blendOverlay
	case BlendDarken:
		return blendDarken
	case BlendLighten:
		return blendLighten
	case BlendColorDodge:
		return blendColorDodge
	case BlendColorBurn:
		return blendColorBurn
	case BlendHardLight:
		return blendHardLight
	case BlendSoftLight:
		return blendSoftLight
	case BlendDifference:
		return blendDifference
	case BlendExclusion:
		return blendExclusion

	case BlendHue:
		return blendHue
	case BlendSaturation:
		return blendSaturation
	case BlendColor:
		return blendColor
	case BlendLuminosity:
		return blendLuminosity

	default:
		return blendSourceOver
	}
}

// blendSourceOver composites source over destination (default blend mode).
// Formula: S + D * (1 - Sa)
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	if sa == 255 {
		return sr, sg, sb, sa
	}
	invSa := 255 - sa
	return addClamp(sr, mulDiv255(dr, invSa)),
		addClamp(sg, mulDiv255(dg, invSa)),
		addClamp(sb, mulDiv255(db, invSa)),
		addClamp(sa, mulDiv255(da, invSa))
}

// blendDestinationIn shows destination where source is opaque.
// Formula: D * Sa
func blendDestinationIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}
