package compositor

import (
	"testing"

	"github.com/deepteams/psd/internal/blend"
	"github.com/deepteams/psd/internal/layer"
)

func fullCanvasLayer(name string, mode blend.Mode, opacity uint8, channels map[layer.Kind]layer.Data) layer.Layer {
	return layer.Layer{
		Properties: layer.Properties{
			Name:      name,
			Top:       0,
			Left:      0,
			Bottom:    0,
			Right:     0,
			Visible:   true,
			Opacity:   opacity,
			BlendMode: mode,
			PSDWidth:  1,
			PSDHeight: 1,
		},
		Channels: channels,
	}
}

// TestFlatten_TranslucentOverOpaque checks the same semi-transparent-red
// over opaque-blue case blend_test.go already verifies for Pixel itself,
// end to end through a two-layer composite.
func TestFlatten_TranslucentOverOpaque(t *testing.T) {
	top := fullCanvasLayer("top", blend.Normal, 255, map[layer.Kind]layer.Data{
		layer.Red:              {Data: []byte{255}},
		layer.Green:            {Data: []byte{0}},
		layer.Blue:             {Data: []byte{0}},
		layer.TransparencyMask: {Data: []byte{192}},
	})
	bottom := fullCanvasLayer("bottom", blend.Normal, 255, map[layer.Kind]layer.Data{
		layer.Red:   {Data: []byte{0}},
		layer.Green: {Data: []byte{0}},
		layer.Blue:  {Data: []byte{255}},
	})

	got, err := Flatten([]layer.Layer{top, bottom}, 1, 1, nil)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	want := []byte{192, 0, 63, 255}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestFlatten_EarlyBreakOnOpaqueTop checks that a fully opaque top layer
// hides an incompatible/invalid layer beneath it (which would error if
// ever touched), proving the walk stopped before reaching it.
func TestFlatten_EarlyBreakOnOpaqueTop(t *testing.T) {
	top := fullCanvasLayer("top", blend.Normal, 255, map[layer.Kind]layer.Data{
		layer.Red:   {Data: []byte{10}},
		layer.Green: {Data: []byte{20}},
		layer.Blue:  {Data: []byte{30}},
	})
	bottom := fullCanvasLayer("bottom", blend.Normal, 255, map[layer.Kind]layer.Data{
		// No red channel: AssembleRGBA would error if this layer's RGBA()
		// were ever computed.
	})

	got, err := Flatten([]layer.Layer{top, bottom}, 1, 1, nil)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	want := []byte{10, 20, 30, 255}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFlatten_SelectedFilterExcludesLayer(t *testing.T) {
	hidden := fullCanvasLayer("hidden", blend.Normal, 255, map[layer.Kind]layer.Data{
		layer.Red: {Data: []byte{255}},
	})

	got, err := Flatten([]layer.Layer{hidden}, 1, 1, func(idx int, l *layer.Layer) bool {
		return false
	})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	want := []byte{0, 0, 0, 0}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFlatten_InvalidDimensions(t *testing.T) {
	if _, err := Flatten(nil, 0, 1, nil); err == nil {
		t.Fatalf("expected an error for a zero-width composite")
	}
}
