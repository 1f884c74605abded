// Package blend implements Photoshop's 27 layer blend modes plus the
// top-down `source over backdrop` compositing formula that uses them.
package blend

import "math"

// Pixel blends a premultiplied-nothing (straight-alpha) source RGBA pixel
// over a backdrop RGBA pixel using mode, returning the composited pixel.
// Both inputs and the output are in 0..255 per channel.
func Pixel(src, backdrop [4]uint8, mode Mode) [4]uint8 {
	cs := toFloat(src)
	cb := toFloat(backdrop)

	alphaS := cs[3]
	alphaB := cb[3]
	alphaO := alphaS + alphaB - alphaS*alphaB

	if alphaO == 0 {
		return [4]uint8{0, 0, 0, 0}
	}

	csTriple := rgbTriple{cs[0], cs[1], cs[2]}
	cbTriple := rgbTriple{cb[0], cb[1], cb[2]}

	var rgb [3]float32
	if co, ok := nonSeparableCo(mode, cbTriple, csTriple, alphaS, alphaB); ok {
		// These six modes bypass composite() entirely: nonSeparableCo
		// already produced the raw 0..255-scale channel values.
		rgb = [3]float32{
			roundAndDivide(co.r, alphaO),
			roundAndDivide(co.g, alphaO),
			roundAndDivide(co.b, alphaO),
		}
	} else {
		mix, ok := separableMix(mode)
		if !ok {
			// Dissolve is the only mode left here; it is not implemented
			// and blending with it is fatal.
			panic("psd: blend mode " + mode.String() + " is not implemented")
		}
		for i := 0; i < 3; i++ {
			b := mix(cb[i], cs[i])
			rgb[i] = composite(cb[i], cs[i], b, alphaS, alphaB, alphaO)
		}
	}

	return [4]uint8{
		clampTrunc255(rgb[0]),
		clampTrunc255(rgb[1]),
		clampTrunc255(rgb[2]),
		toByte(alphaO),
	}
}

// composite applies spec.md's per-channel formula:
//
//	Cout = (((1-ab)*Cs + ab*B(Cb,Cs)) * as + Cb*ab*(1-as)) * 255 / ao
//
// rounded once before the division by alphaO, matching the reference
// decoder's order of operations exactly.
func composite(cb, cs, b, alphaS, alphaB, alphaO float32) float32 {
	v := ((1-alphaB)*cs + alphaB*b) * alphaS
	v += cb * alphaB * (1 - alphaS)
	return roundAndDivide(v*255, alphaO)
}

// nonSeparableCo computes the raw, pre-round channel values (already on a
// 0..255 scale) for the six modes that operate on the whole RGB triple at
// once, bypassing composite() entirely: DarkerColor and LighterColor pick
// one side's triple and scale it by that side's own alpha; the four
// HSL-based modes reassemble a triple and scale it by 255 with no alpha
// multiplication at this stage. ok is false for every separable mode.
func nonSeparableCo(mode Mode, cb, cs rgbTriple, alphaS, alphaB float32) (rgbTriple, bool) {
	scale := func(t rgbTriple, alpha float32) rgbTriple {
		return rgbTriple{t.r * alpha * 255, t.g * alpha * 255, t.b * alpha * 255}
	}
	hsl := func(t rgbTriple) rgbTriple {
		return rgbTriple{t.r * 255, t.g * 255, t.b * 255}
	}

	switch mode {
	case DarkerColor:
		if luminance(cs) < luminance(cb) {
			return scale(cs, alphaS), true
		}
		return scale(cb, alphaB), true
	case LighterColor:
		if luminance(cs) > luminance(cb) {
			return scale(cs, alphaS), true
		}
		return scale(cb, alphaB), true
	case Hue:
		return hsl(blendHue(cb, cs)), true
	case Saturation:
		return hsl(blendSaturation(cb, cs)), true
	case Color:
		return hsl(blendColor(cb, cs)), true
	case Luminosity:
		return hsl(blendLuminosity(cb, cs)), true
	default:
		return rgbTriple{}, false
	}
}

// roundAndDivide rounds v (already on a 0..255 scale) once, clamps it to
// 0..255, then divides by alphaO, matching the reference decoder's
// `r_co.round() / alpha_output`.
func roundAndDivide(v, alphaO float32) float32 {
	rounded := float32(math.Round(float64(v)))
	if rounded < 0 {
		rounded = 0
	}
	if rounded > 255 {
		rounded = 255
	}
	return rounded / alphaO
}

func toFloat(p [4]uint8) [4]float32 {
	return [4]float32{
		float32(p[0]) / 255,
		float32(p[1]) / 255,
		float32(p[2]) / 255,
		float32(p[3]) / 255,
	}
}

// toByte rounds and clamps a 0..1 value into a 0..255 byte. Unlike
// clampTrunc255, this value has no prior rounding applied to it, so
// rounding here is the one and only rounding step.
func toByte(v float32) uint8 {
	r := math.Round(float64(v) * 255)
	if r < 0 {
		r = 0
	}
	if r > 255 {
		r = 255
	}
	return uint8(r)
}

// clampTrunc255 clamps an already-divided 0..255-scale value and
// truncates it, matching the reference decoder's `as u8` cast: the
// rounding happened once already, inside roundAndDivide, before the
// division by alphaO.
func clampTrunc255(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
