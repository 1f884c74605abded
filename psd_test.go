package psd

import (
	"bytes"
	"image"
	"testing"

	"github.com/deepteams/psd/internal/container"
)

// writeHeader appends the fixed 26-byte file header.
func writeHeader(w *container.Writer, channels uint16, height, width uint32, depth uint16, colorMode uint16) {
	w.WriteBytes([]byte("8BPS"))
	w.WriteUint16(1) // version
	w.WriteBytes(make([]byte, 6))
	w.WriteUint16(channels)
	w.WriteUint32(height)
	w.WriteUint32(width)
	w.WriteUint16(depth)
	w.WriteUint16(colorMode)
}

// buildOnePixelDocument assembles a complete, minimal one-pixel RGB PSD
// document: no color mode data, no image resources, no layers, and a raw
// 1x1 image-data section carrying the given RGB triple.
func buildOnePixelDocument(r, g, b byte) []byte {
	w := container.NewWriter()
	writeHeader(w, 3, 1, 1, 8, 3)

	w.WriteUint32(0) // color mode data section: empty
	w.WriteUint32(0) // image resources section: empty
	w.WriteUint32(0) // layer and mask section: empty

	w.WriteUint16(0) // image data compression: raw
	w.WriteBytes([]byte{r, g, b})

	return w.Bytes()
}

func TestParse_OnePixelRawComposite(t *testing.T) {
	doc, err := Parse(buildOnePixelDocument(200, 100, 50))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Width() != 1 || doc.Height() != 1 {
		t.Fatalf("dimensions = %dx%d, want 1x1", doc.Width(), doc.Height())
	}
	if doc.Depth() != 8 {
		t.Fatalf("depth = %d, want 8", doc.Depth())
	}

	want := []byte{200, 100, 50, 255}
	if got := doc.RGBA(); !bytes.Equal(got, want) {
		t.Fatalf("RGBA = %v, want %v", got, want)
	}
	if got := doc.RGB(); !bytes.Equal(got, []byte{200, 100, 50}) {
		t.Fatalf("RGB = %v, want [200 100 50]", got)
	}
	if doc.Layers().Len() != 0 {
		t.Fatalf("layers = %d, want 0", doc.Layers().Len())
	}
}

func TestDecode_RegistersWithImagePackage(t *testing.T) {
	data := buildOnePixelDocument(10, 20, 30)
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image.Decode: %v", err)
	}
	if format != "psd" {
		t.Fatalf("format = %q, want psd", format)
	}
	c := img.At(0, 0)
	r, g, b, a := c.RGBA()
	// image/color.NRGBA.RGBA returns 16-bit-scaled, premultiplied values.
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 || a>>8 != 255 {
		t.Fatalf("At(0,0) = %v", c)
	}
}

func TestDecodeConfig_ReportsDimensions(t *testing.T) {
	data := buildOnePixelDocument(1, 2, 3)
	cfg, err := DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 1 || cfg.Height != 1 {
		t.Fatalf("config = %+v, want 1x1", cfg)
	}
}

func TestParse_RejectsTruncatedHeader(t *testing.T) {
	if _, err := Parse([]byte("8BPS")); err == nil {
		t.Fatalf("expected an error for a truncated header")
	}
}
