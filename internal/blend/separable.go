package blend

import "math"

// epsilon is the tolerance used by ColorBurn/ColorDodge when comparing a
// channel against its 0.0/1.0 endpoints, matching the reference decoder.
const epsilon = 1e-6

func darken(cb, cs float32) float32 {
	if cb < cs {
		return cb
	}
	return cs
}

func lighten(cb, cs float32) float32 {
	if cb > cs {
		return cb
	}
	return cs
}

func multiply(cb, cs float32) float32 {
	return cb * cs
}

func screen(cb, cs float32) float32 {
	return cb + cs - cb*cs
}

func colorBurn(cb, cs float32) float32 {
	if cb >= 1-epsilon {
		return 1
	}
	if cb <= epsilon {
		return 0
	}
	v := 1 - (1-cs)/cb
	if v < 0 {
		return 0
	}
	return v
}

func linearBurn(cb, cs float32) float32 {
	v := cb + cs - 1
	if v < 0 {
		return 0
	}
	return v
}

func colorDodge(cb, cs float32) float32 {
	if cb <= epsilon {
		return 0
	}
	if cs >= 1-epsilon {
		return 1
	}
	v := cb / (1 - cs)
	if v > 1 {
		return 1
	}
	return v
}

func linearDodge(cb, cs float32) float32 {
	v := cb + cs
	if v > 1 {
		return 1
	}
	return v
}

// overlay is hard light with the backdrop and source swapped.
func overlay(cb, cs float32) float32 {
	return hardLight(cs, cb)
}

func hardLight(cb, cs float32) float32 {
	if cs < 0.5 {
		return multiply(cb, 2*cs)
	}
	return screen(cb, 2*cs-1)
}

// softLight uses the W3C compositing-1 formula. Photoshop's own curve is
// proprietary and differs slightly; this is a documented divergence.
func softLight(cb, cs float32) float32 {
	var d float32
	if cb <= 0.25 {
		d = ((16*cb-12)*cb + 4) * cb
	} else {
		d = sqrt32(cb)
	}
	if cs <= 0.5 {
		return cb - (1-2*cs)*cb*(1-cb)
	}
	return cb + (2*cs-1)*(d-cb)
}

func vividLight(cb, cs float32) float32 {
	if cs <= 0.5 {
		return colorBurn(cb, 2*cs)
	}
	return colorDodge(cb, 2*(cs-0.5))
}

func linearLight(cb, cs float32) float32 {
	if cs <= 0.5 {
		return linearBurn(cb, 2*cs)
	}
	return linearDodge(cb, 2*(cs-0.5))
}

func pinLight(cb, cs float32) float32 {
	if cs <= 0.5 {
		return darken(cb, 2*cs)
	}
	return lighten(cb, 2*(cs-0.5))
}

func hardMix(cb, cs float32) float32 {
	if vividLight(cb, cs) >= 0.5 {
		return 1
	}
	return 0
}

func difference(cb, cs float32) float32 {
	return abs32(cb - cs)
}

func exclusion(cb, cs float32) float32 {
	return cb + cs - 2*cb*cs
}

func subtract(cb, cs float32) float32 {
	v := cb - cs
	if v < 0 {
		return 0
	}
	return v
}

func divide(cb, cs float32) float32 {
	if cs > 0 {
		return cb / cs
	}
	return cb
}

// separableMix returns the per-channel mixing function B(Cb,Cs) for mode,
// or ok=false for a non-separable mode (Hue/Saturation/Color/Luminosity),
// the two luminance pickers (DarkerColor/LighterColor), or Dissolve (which
// is not implemented; Pixel panics on it).
func separableMix(mode Mode) (fn func(cb, cs float32) float32, ok bool) {
	switch mode {
	case Normal, PassThrough:
		return func(_, cs float32) float32 { return cs }, true
	case Darken:
		return darken, true
	case Lighten:
		return lighten, true
	case Multiply:
		return multiply, true
	case Screen:
		return screen, true
	case ColorBurn:
		return colorBurn, true
	case ColorDodge:
		return colorDodge, true
	case LinearBurn:
		return linearBurn, true
	case LinearDodge:
		return linearDodge, true
	case Overlay:
		return overlay, true
	case HardLight:
		return hardLight, true
	case SoftLight:
		return softLight, true
	case VividLight:
		return vividLight, true
	case LinearLight:
		return linearLight, true
	case PinLight:
		return pinLight, true
	case HardMix:
		return hardMix, true
	case Difference:
		return difference, true
	case Exclusion:
		return exclusion, true
	case Subtract:
		return subtract, true
	case Divide:
		return divide, true
	default:
		return nil, false
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
