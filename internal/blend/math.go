package blend

// div255 divides x by 255 with round-to-nearest, exact for every product of
// two bytes.
//
// Formula: t = x + 128; (t + (t >> 8)) >> 8
//
// This is Alvy Ray Smith's formula. Exactness matters here: layer stacks are
// re-rendered on every visibility toggle and the fast (x+255)>>8 variant
// drifts by one step per pass.
func div255(x uint32) uint32 {
	t := x + 128
	return (t + (t >> 8)) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255 with rounding.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint32(a) * uint32(b)))
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// unpremultiply converts a premultiplied channel back to straight color.
// alpha must be non-zero.
func unpremultiply(c, alpha byte) byte {
	v := (uint32(c)*255 + uint32(alpha)/2) / uint32(alpha)
	if v > 255 {
		return 255
	}
	return byte(v)
}

// minByte returns the smaller of two bytes.
func minByte(a, b byte) byte {
	if a < b {
		return a
	}
	return b
}

// maxByte returns the larger of two bytes.
func maxByte(a, b byte) byte {
	if a > b {
		return a
	}
	return b
}
