package blend

import "math"

// Lum returns the luminance of a color using BT.601 coefficients.
// Formula: Lum(r, g, b) = 0.30*r + 0.59*g + 0.11*b
//
// Parameters are normalized float32 values in [0, 1].
func Lum(r, g, b float32) float32 {
	return 0.30*r + 0.59*g + 0.11*b
}

// Sat returns the saturation (max - min) of a color.
func Sat(r, g, b float32) float32 {
	return max(r, g, b) - min(r, g, b)
}

// ClipColor brings out-of-range components back into [0,1] by scaling them
// towards the luminance, which is left unchanged.
func ClipColor(r, g, b float32) (float32, float32, float32) {
	l := Lum(r, g, b)
	n := min(r, g, b)
	x := max(r, g, b)

	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}

	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}

	return r, g, b
}

// SetLum shifts a color to luminance l, then clips it.
func SetLum(r, g, b, l float32) (float32, float32, float32) {
	d := l - Lum(r, g, b)
	return ClipColor(r+d, g+d, b+d)
}

// SetSat rescales a color to saturation s keeping the ordering of its
// components. Grays are returned unchanged.
func SetSat(r, g, b, s float32) (float32, float32, float32) {
	minPtr, midPtr, maxPtr := sortRGB(&r, &g, &b)

	if *maxPtr > *minPtr {
		*midPtr = ((*midPtr - *minPtr) * s) / (*maxPtr - *minPtr)
		*maxPtr = s
		*minPtr = 0
	}

	return r, g, b
}

// sortRGB returns pointers to r, g, b sorted by value (minPtr, midPtr, maxPtr).
func sortRGB(r, g, b *float32) (minPtr, midPtr, maxPtr *float32) {
	switch {
	case *r <= *g && *g <= *b:
		return r, g, b
	case *r <= *b && *b <= *g:
		return r, b, g
	case *b <= *r && *r <= *g:
		return b, r, g
	case *g <= *r && *r <= *b:
		return g, r, b
	case *g <= *b && *b <= *r:
		return g, b, r
	default:
		return b, g, r
	}
}

// hslHue: SetLum(SetSat(Cs, Sat(Cb)), Lum(Cb))
func hslHue(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	r, g, b := SetSat(sr, sg, sb, Sat(dr, dg, db))
	return SetLum(r, g, b, Lum(dr, dg, db))
}

// hslSaturation: SetLum(SetSat(Cb, Sat(Cs)), Lum(Cb))
func hslSaturation(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	r, g, b := SetSat(dr, dg, db, Sat(sr, sg, sb))
	return SetLum(r, g, b, Lum(dr, dg, db))
}

// hslColor: SetLum(Cs, Lum(Cb))
func hslColor(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	return SetLum(sr, sg, sb, Lum(dr, dg, db))
}

// hslLuminosity: SetLum(Cb, Lum(Cs))
func hslLuminosity(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	return SetLum(dr, dg, db, Lum(sr, sg, sb))
}

func blendHue(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslHue)
}

func blendSaturation(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslSaturation)
}

func blendColor(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslColor)
}

func blendLuminosity(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslLuminosity)
}

// nonSeparableBlend applies an HSL blend function with the same general
// formula as separableBlend, in float32 for the color-space math.
func nonSeparableBlend(
	sr, sg, sb, sa, dr, dg, db, da byte,
	blendFunc func(sr, sg, sb, dr, dg, db float32) (float32, float32, float32),
) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	sur := float32(sr) / float32(sa)
	sug := float32(sg) / float32(sa)
	sub := float32(sb) / float32(sa)
	dur := float32(dr) / float32(da)
	dug := float32(dg) / float32(da)
	dub := float32(db) / float32(da)

	blendR, blendG, blendB := blendFunc(sur, sug, sub, dur, dug, dub)

	invSa := 255 - sa
	invDa := 255 - da
	saDa := float32(sa) / 255.0 * float32(da) / 255.0

	finalA := addClamp(sa, mulDiv255(da, invSa))

	finalR := addClamp(mulDiv255(dr, invSa), mulDiv255(sr, invDa))
	finalG := addClamp(mulDiv255(dg, invSa), mulDiv255(sg, invDa))
	finalB := addClamp(mulDiv255(db, invSa), mulDiv255(sb, invDa))

	finalR = addClamp(finalR, toByte(blendR*saDa))
	finalG = addClamp(finalG, toByte(blendG*saDa))
	finalB = addClamp(finalB, toByte(blendB*saDa))

	return finalR, finalG, finalB, finalA
}

// toByte maps a [0,1] value to a rounded byte, clamping out-of-range input.
func toByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(math.Round(float64(v) * 255))
}
