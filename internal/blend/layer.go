package blend

import (
	"math"

	"github.com/gogpu/psdcomp/internal/image"
)

// Draw composites src onto dst with its top-left corner at (x, y), using the
// given blend mode and opacity. Opacity is clamped to [0, 1] and scales every
// premultiplied source channel. Pixels falling outside dst are skipped.
//
// Thread safety: dst must not be accessed concurrently.
func Draw(dst, src *image.Buf, x, y int, opacity float64, mode BlendMode) {
	if opacity <= 0 || dst == nil || src == nil {
		return
	}
	if opacity > 1 {
		opacity = 1
	}

	blendFunc := GetBlendFunc(mode)
	srcW, srcH := src.Bounds()
	dstW, dstH := dst.Bounds()

	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+srcW, dstW), min(y+srcH, dstH)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	scale := opacity < 1
	srcData := src.Data()
	dstData := dst.Data()

	for dy := y0; dy < y1; dy++ {
		srcRow := (dy-y) * src.Stride()
		dstRow := dy * dst.Stride()

		for dx := x0; dx < x1; dx++ {
			so := srcRow + (dx-x)*image.BytesPerPixel
			sr, sg, sb, sa := srcData[so], srcData[so+1], srcData[so+2], srcData[so+3]

			if scale {
				sr = scaleByte(sr, opacity)
				sg = scaleByte(sg, opacity)
				sb = scaleByte(sb, opacity)
				sa = scaleByte(sa, opacity)
			}
			if sa == 0 && mode != BlendDestinationIn {
				// Every layer operator leaves the backdrop alone here.
				continue
			}

			do := dstRow + dx*image.BytesPerPixel
			d := dstData[do : do+4 : do+4]
			d[0], d[1], d[2], d[3] = blendFunc(sr, sg, sb, sa, d[0], d[1], d[2], d[3])
		}
	}
}

// Mask keeps dst only where mask is opaque. The mask is positioned with its
// top-left corner at (x, y); every dst pixel outside the mask becomes fully
// transparent, pixels inside are scaled by the mask alpha (destination-in).
// A nil mask clears dst entirely.
func Mask(dst, mask *image.Buf, x, y int) {
	if dst == nil {
		return
	}
	if mask == nil {
		dst.Clear()
		return
	}

	dstW, dstH := dst.Bounds()
	dstData := dst.Data()

	for dy := range dstH {
		dstRow := dy * dst.Stride()
		for dx := range dstW {
			ma := mask.Alpha(dx-x, dy-y)
			if ma == 255 {
				continue
			}
			do := dstRow + dx*image.BytesPerPixel
			d := dstData[do : do+4 : do+4]
			if ma == 0 {
				d[0], d[1], d[2], d[3] = 0, 0, 0, 0
				continue
			}
			d[0], d[1], d[2], d[3] = blendDestinationIn(0, 0, 0, ma, d[0], d[1], d[2], d[3])
		}
	}
}

// scaleByte multiplies a channel by an opacity in (0, 1) with rounding.
func scaleByte(v byte, opacity float64) byte {
	return byte(math.Round(float64(v) * opacity))
}
