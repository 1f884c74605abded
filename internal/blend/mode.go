package blend

// Mode identifies one of Photoshop's blend modes, including the
// PassThrough mode groups use to mean "no blending of their own."
type Mode int

const (
	PassThrough Mode = iota
	Normal
	Dissolve
	Darken
	Multiply
	ColorBurn
	LinearBurn
	DarkerColor
	Lighten
	Screen
	ColorDodge
	LinearDodge
	LighterColor
	Overlay
	SoftLight
	HardLight
	VividLight
	LinearLight
	PinLight
	HardMix
	Difference
	Exclusion
	Subtract
	Divide
	Hue
	Saturation
	Color
	Luminosity
)

// keys maps the 4-byte ASCII blend-mode signatures found in a layer
// record to their Mode value.
var keys = map[string]Mode{
	"pass": PassThrough,
	"norm": Normal,
	"diss": Dissolve,
	"dark": Darken,
	"mul ": Multiply,
	"idiv": ColorBurn,
	"lbrn": LinearBurn,
	"dkCl": DarkerColor,
	"lite": Lighten,
	"scrn": Screen,
	"div ": ColorDodge,
	"lddg": LinearDodge,
	"lgCl": LighterColor,
	"over": Overlay,
	"sLit": SoftLight,
	"hLit": HardLight,
	"vLit": VividLight,
	"lLit": LinearLight,
	"pLit": PinLight,
	"hMix": HardMix,
	"diff": Difference,
	"smud": Exclusion,
	"fsub": Subtract,
	"fdiv": Divide,
	"hue ": Hue,
	"sat ": Saturation,
	"colr": Color,
	"lum ": Luminosity,
}

// ModeFromKey maps a 4-byte blend-mode signature to a Mode. ok is false
// for an unrecognized key.
func ModeFromKey(key [4]byte) (Mode, bool) {
	m, ok := keys[string(key[:])]
	return m, ok
}

func (m Mode) String() string {
	for k, v := range keys {
		if v == m {
			return k
		}
	}
	return "unknown"
}
