package blend

import "math"

// rgbTriple is a color in 0..1 float components, used only by the
// non-separable blend modes which operate on all three channels together.
type rgbTriple struct{ r, g, b float32 }

func luminance(t rgbTriple) float32 {
	return 0.2126*t.r + 0.7152*t.g + 0.0722*t.b
}

// rgbToHSL converts a 0..1 RGB triple to hue/saturation/lightness, all in
// 0..1, using the standard max/min formula.
func rgbToHSL(t rgbTriple) (h, s, l float32) {
	max := maxf(t.r, t.g, t.b)
	min := minf(t.r, t.g, t.b)
	delta := max - min

	l = (max + min) / 2

	if abs32(delta) < epsilon {
		return 0, 0, l
	}
	s = delta / (1 - abs32(2*l-1))

	switch {
	case abs32(max-t.r) < epsilon:
		h = mod32((t.g-t.b)/delta, 6)
	case abs32(max-t.g) < epsilon:
		h = (t.b-t.r)/delta + 2
	default:
		h = (t.r-t.g)/delta + 4
	}
	h /= 6
	if h < 0 {
		h++
	}
	return h, s, l
}

// hslToRGB is the inverse of rgbToHSL.
func hslToRGB(h, s, l float32) rgbTriple {
	if abs32(s) < epsilon {
		return rgbTriple{l, l, l}
	}

	var q float32
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	hueToRGB := func(offset float32) float32 {
		tc := h + offset
		if tc < 0 {
			tc++
		}
		if tc > 1 {
			tc--
		}
		switch {
		case tc < 1.0/6:
			return p + (q-p)*6*tc
		case tc < 1.0/2:
			return q
		case tc < 2.0/3:
			return p + (q-p)*(2.0/3-tc)*6
		default:
			return p
		}
	}

	return rgbTriple{
		r: hueToRGB(1.0 / 3),
		g: hueToRGB(0),
		b: hueToRGB(-1.0 / 3),
	}
}

func maxf(vs ...float32) float32 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minf(vs ...float32) float32 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func mod32(a, m float32) float32 {
	return float32(math.Mod(float64(a), float64(m)))
}

// hue/saturation/color/luminosity reassemble an HSL triple from pieces of
// the source and backdrop, per spec.md §4.9: Hue = (H_s, S_b, L_b), etc.
func blendHue(cb, cs rgbTriple) rgbTriple {
	hs, _, _ := rgbToHSL(cs)
	_, sb, lb := rgbToHSL(cb)
	return hslToRGB(hs, sb, lb)
}

func blendSaturation(cb, cs rgbTriple) rgbTriple {
	hb, _, lb := rgbToHSL(cb)
	_, ss, _ := rgbToHSL(cs)
	return hslToRGB(hb, ss, lb)
}

func blendColor(cb, cs rgbTriple) rgbTriple {
	hs, ss, _ := rgbToHSL(cs)
	_, _, lb := rgbToHSL(cb)
	return hslToRGB(hs, ss, lb)
}

func blendLuminosity(cb, cs rgbTriple) rgbTriple {
	hb, sb, _ := rgbToHSL(cb)
	_, _, ls := rgbToHSL(cs)
	return hslToRGB(hb, sb, ls)
}
