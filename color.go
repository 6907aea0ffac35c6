package psdcomp

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS color string into a straight-alpha color.
//
// Accepted forms:
//   - "#rgb", "#rgba", "#rrggbb", "#rrggbbaa"
//   - "rgb(r, g, b)" and "rgba(r, g, b, a)" with 0-255 channels and a in [0, 1]
//   - CSS named colors such as "white" or "rebeccapurple"
//   - "transparent"
//
// Errors wrap ErrInvalidColor.
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return color.NRGBA{}, fmt.Errorf("%w: empty string", ErrInvalidColor)
	case v == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(v, "#"):
		return parseHexColor(v[1:], s)
	case strings.HasPrefix(v, "rgb"):
		return parseFuncColor(v, s)
	}
	if c, ok := colornames.Map[v]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHexColor(hex, orig string) (color.NRGBA, error) {
	var digits [8]uint8
	for i := range len(hex) {
		if i >= len(digits) {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
		}
		d, ok := hexDigit(hex[i])
		if !ok {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
		}
		digits[i] = d
	}

	c := color.NRGBA{A: 255}
	switch len(hex) {
	case 3: // RGB
		c.R, c.G, c.B = digits[0]*17, digits[1]*17, digits[2]*17
	case 4: // RGBA
		c.R, c.G, c.B, c.A = digits[0]*17, digits[1]*17, digits[2]*17, digits[3]*17
	case 6: // RRGGBB
		c.R, c.G, c.B = digits[0]<<4|digits[1], digits[2]<<4|digits[3], digits[4]<<4|digits[5]
	case 8: // RRGGBBAA
		c.R, c.G, c.B = digits[0]<<4|digits[1], digits[2]<<4|digits[3], digits[4]<<4|digits[5]
		c.A = digits[6]<<4 | digits[7]
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	return c, nil
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}

// parseFuncColor parses rgb(...) and rgba(...).
func parseFuncColor(v, orig string) (color.NRGBA, error) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	name := strings.TrimSpace(v[:open])
	args := strings.Split(v[open+1:len(v)-1], ",")

	want := 3
	if name == "rgba" {
		want = 4
	} else if name != "rgb" {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	if len(args) != want {
		return color.NRGBA{}, fmt.Errorf("%w: %q: want %d components", ErrInvalidColor, orig, want)
	}

	var ch [3]uint8
	for i := range ch {
		n, err := strconv.Atoi(strings.TrimSpace(args[i]))
		if err != nil || n < 0 || n > 255 {
			return color.NRGBA{}, fmt.Errorf("%w: %q: component %d out of range", ErrInvalidColor, orig, i)
		}
		ch[i] = uint8(n)
	}

	c := color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(args[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return color.NRGBA{}, fmt.Errorf("%w: %q: alpha out of range", ErrInvalidColor, orig)
		}
		c.A = uint8(math.Round(a * 255))
	}
	return c, nil
}
