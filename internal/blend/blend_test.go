package blend

import "testing"

func TestPixel_NormalIdentity(t *testing.T) {
	src := [4]uint8{10, 20, 30, 255}
	backdrop := [4]uint8{1, 2, 3, 0}
	got := Pixel(src, backdrop, Normal)
	if got != src {
		t.Fatalf("got %v, want source %v", got, src)
	}
}

func TestPixel_RedOverBlueNormal(t *testing.T) {
	// A semi-transparent red source (alpha 192/255) over an opaque blue
	// backdrop, worked out by hand against the composite formula in
	// spec.md §4.9.
	src := [4]uint8{255, 0, 0, 192}
	backdrop := [4]uint8{0, 0, 255, 255}
	got := Pixel(src, backdrop, Normal)
	want := [4]uint8{192, 0, 63, 255}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPixel_Multiply(t *testing.T) {
	src := [4]uint8{255, 0, 0, 192}
	backdrop := [4]uint8{0, 0, 255, 255}
	got := Pixel(src, backdrop, Multiply)
	want := [4]uint8{0, 0, 63, 255}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPixel_Screen(t *testing.T) {
	src := [4]uint8{255, 0, 0, 192}
	backdrop := [4]uint8{0, 0, 255, 255}
	got := Pixel(src, backdrop, Screen)
	want := [4]uint8{192, 0, 255, 255}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPixel_FullyTransparentBoth(t *testing.T) {
	got := Pixel([4]uint8{10, 20, 30, 0}, [4]uint8{1, 2, 3, 0}, Normal)
	want := [4]uint8{0, 0, 0, 0}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestModeFromKey(t *testing.T) {
	cases := map[string]Mode{
		"norm": Normal,
		"mul ": Multiply,
		"scrn": Screen,
		"over": Overlay,
		"hue ": Hue,
		"lum ": Luminosity,
	}
	for key, want := range cases {
		var k [4]byte
		copy(k[:], key)
		got, ok := ModeFromKey(k)
		if !ok || got != want {
			t.Errorf("ModeFromKey(%q) = %v, %v; want %v, true", key, got, ok, want)
		}
	}
}

func TestModeFromKey_Unknown(t *testing.T) {
	var k [4]byte
	copy(k[:], "zzzz")
	if _, ok := ModeFromKey(k); ok {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestRGBToHSL_Grayscale(t *testing.T) {
	h, s, l := rgbToHSL(rgbTriple{0.5, 0.5, 0.5})
	if h != 0 || s != 0 || l != 0.5 {
		t.Fatalf("got h=%v s=%v l=%v, want 0,0,0.5", h, s, l)
	}
}

func TestHSLRoundTrip(t *testing.T) {
	in := rgbTriple{0.8, 0.2, 0.4}
	h, s, l := rgbToHSL(in)
	out := hslToRGB(h, s, l)
	const tol = 0.01
	if abs32(out.r-in.r) > tol || abs32(out.g-in.g) > tol || abs32(out.b-in.b) > tol {
		t.Fatalf("round trip: got %v, want %v", out, in)
	}
}

func TestPixel_DarkerColorPicksSource(t *testing.T) {
	// Semi-transparent blue over semi-transparent red: blue has the lower
	// luminance, so DarkerColor picks the source triple.
	src := [4]uint8{0, 0, 255, 128}
	backdrop := [4]uint8{255, 0, 0, 128}
	got := Pixel(src, backdrop, DarkerColor)
	want := [4]uint8{0, 0, 170, 192}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPixel_LighterColorPicksBackdrop(t *testing.T) {
	// Same pixels as the DarkerColor case; LighterColor picks the higher
	// luminance triple, the backdrop red, scaled by the backdrop's alpha.
	src := [4]uint8{0, 0, 255, 128}
	backdrop := [4]uint8{255, 0, 0, 128}
	got := Pixel(src, backdrop, LighterColor)
	want := [4]uint8{170, 0, 0, 192}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPixel_Hue(t *testing.T) {
	// Hue = (H_s, S_b, L_b): a fully saturated green source over a fully
	// saturated red backdrop takes on the source's hue entirely.
	src := [4]uint8{0, 255, 0, 128}
	backdrop := [4]uint8{255, 0, 0, 128}
	got := Pixel(src, backdrop, Hue)
	want := [4]uint8{0, 255, 0, 192}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPixel_Saturation(t *testing.T) {
	// Saturation = (H_b, S_s, L_b): backdrop red stays fully saturated
	// against an equally saturated source, so the result is unchanged.
	src := [4]uint8{0, 255, 0, 128}
	backdrop := [4]uint8{255, 0, 0, 128}
	got := Pixel(src, backdrop, Saturation)
	want := [4]uint8{255, 0, 0, 192}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPixel_Color(t *testing.T) {
	// Color = (H_s, S_s, L_b): takes on the source's hue and saturation.
	src := [4]uint8{0, 255, 0, 128}
	backdrop := [4]uint8{255, 0, 0, 128}
	got := Pixel(src, backdrop, Color)
	want := [4]uint8{0, 255, 0, 192}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPixel_Luminosity(t *testing.T) {
	// Luminosity = (H_b, S_b, L_s): backdrop red's hue/saturation combined
	// with the source gray's lightness, then divided by alphaO like every
	// other channel.
	src := [4]uint8{64, 64, 64, 128}
	backdrop := [4]uint8{255, 0, 0, 128}
	got := Pixel(src, backdrop, Luminosity)
	want := [4]uint8{170, 0, 0, 192}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestColorBurnEndpoints(t *testing.T) {
	if v := colorBurn(1, 0.5); v != 1 {
		t.Errorf("colorBurn(1, 0.5) = %v, want 1", v)
	}
	if v := colorBurn(0, 0.5); v != 0 {
		t.Errorf("colorBurn(0, 0.5) = %v, want 0", v)
	}
}

func TestColorDodgeEndpoints(t *testing.T) {
	if v := colorDodge(0, 0.5); v != 0 {
		t.Errorf("colorDodge(0, 0.5) = %v, want 0", v)
	}
	if v := colorDodge(0.5, 1); v != 1 {
		t.Errorf("colorDodge(0.5, 1) = %v, want 1", v)
	}
}
