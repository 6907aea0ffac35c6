package blend

import "math"

// separableBlend applies a per-channel blend function with the W3C general
// formula:
//
//	Result = (1 - Sa) * D + (1 - Da) * S + Sa * Da * B(Cs, Cb)
//
// where S and D are premultiplied and B operates on unmultiplied channels.
func separableBlend(sr, sg, sb, sa, dr, dg, db, da byte, blendChan func(s, d byte) byte) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	sur, sug, sub := unpremultiply(sr, sa), unpremultiply(sg, sa), unpremultiply(sb, sa)
	dur, dug, dub := unpremultiply(dr, da), unpremultiply(dg, da), unpremultiply(db, da)

	blendR := blendChan(sur, dur)
	blendG := blendChan(sug, dug)
	blendB := blendChan(sub, dub)

	invSa := 255 - sa
	invDa := 255 - da

	finalA := addClamp(sa, mulDiv255(da, invSa))

	finalR := addClamp(mulDiv255(dr, invSa), mulDiv255(sr, invDa))
	finalG := addClamp(mulDiv255(dg, invSa), mulDiv255(sg, invDa))
	finalB := addClamp(mulDiv255(db, invSa), mulDiv255(sb, invDa))

	saDa := mulDiv255(sa, da)
	finalR = addClamp(finalR, mulDiv255(saDa, blendR))
	finalG = addClamp(finalG, mulDiv255(saDa, blendG))
	finalB = addClamp(finalB, mulDiv255(saDa, blendB))

	return finalR, finalG, finalB, finalA
}

// blendMultiply multiplies source and destination colors.
func blendMultiply(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, mulDiv255)
}

// blendScreen produces a lighter result than multiply.
func blendScreen(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, screenChan)
}

func screenChan(s, d byte) byte {
	return 255 - mulDiv255(255-s, 255-d)
}

// hardLightChan is B(Cb, Cs) for hard light, s is the source channel.
func hardLightChan(s, d byte) byte {
	if s <= 127 {
		return byte(div255(2 * uint32(s) * uint32(d)))
	}
	// Screen(Cb, 2*Cs - 1)
	s2 := 2*uint32(s) - 255
	return byte(255 - div255((255-s2)*(255-uint32(d))))
}

// blendOverlay is HardLight with the layers swapped.
func blendOverlay(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		return hardLightChan(d, s)
	})
}

// blendDarken selects the darker of source and destination.
func blendDarken(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, minByte)
}

// blendLighten selects the lighter of source and destination.
func blendLighten(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, maxByte)
}

// blendColorDodge brightens the destination to reflect the source.
// Formula: if Cb == 0: 0, else if Cs == 1: 1, else: min(1, Cb / (1 - Cs))
func blendColorDodge(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if d == 0 {
			return 0
		}
		if s == 255 {
			return 255
		}
		result := (uint32(d) * 255) / uint32(255-s)
		if result > 255 {
			return 255
		}
		return byte(result)
	})
}

// blendColorBurn darkens the destination to reflect the source.
// Formula: if Cb == 1: 1, else if Cs == 0: 0, else: 1 - min(1, (1 - Cb) / Cs)
func blendColorBurn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if d == 255 {
			return 255
		}
		if s == 0 {
			return 0
		}
		result := (uint32(255-d) * 255) / uint32(s)
		if result > 255 {
			return 0
		}
		return 255 - byte(result)
	})
}

// blendHardLight combines Multiply and Screen based on source.
func blendHardLight(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, hardLightChan)
}

// blendSoftLight is a softer version of HardLight.
func blendSoftLight(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		sf := float64(s) / 255.0
		df := float64(d) / 255.0

		var result float64
		if sf <= 0.5 {
			// Cb - (1 - 2*Cs) * Cb * (1 - Cb)
			result = df - (1-2*sf)*df*(1-df)
		} else {
			// Cb + (2*Cs - 1) * (D(Cb) - Cb)
			var dx float64
			if df <= 0.25 {
				dx = ((16*df-12)*df + 4) * df
			} else {
				dx = math.Sqrt(df)
			}
			result = df + (2*sf-1)*(dx-df)
		}

		if result <= 0 {
			return 0
		}
		if result >= 1 {
			return 255
		}
		return byte(math.Round(result * 255))
	})
}

// blendDifference produces the absolute difference between source and destination.
func blendDifference(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if s > d {
			return s - d
		}
		return d - s
	})
}

// blendExclusion is similar to Difference but with lower contrast.
func blendExclusion(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separableBlend(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		sum := uint32(s) + uint32(d)
		product := 2 * div255(uint32(s)*uint32(d))
		if product >= sum {
			return 0
		}
		diff := sum - product
		if diff > 255 {
			return 255
		}
		return byte(diff)
	})
}
