package psd

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	pkgerrors "github.com/pkg/errors"

	"github.com/deepteams/psd/internal/compositor"
	"github.com/deepteams/psd/internal/container"
	"github.com/deepteams/psd/internal/layer"
	"github.com/deepteams/psd/internal/resource"
)

func init() {
	image.RegisterFormat("psd", "8BPS\x00\x01", func(r io.Reader) (image.Image, error) {
		doc, err := Decode(r)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}, DecodeConfig)
}

// Errors returned by the decoder.
var (
	ErrUnsupported = errors.New("psd: unsupported format")
)

// Document is a fully parsed PSD file: its header, layer/group tree,
// image resources, and baked-in final composite.
type Document struct {
	header    container.Header
	layers    *layer.Layers
	groups    *layer.Groups
	resources resource.Resources
	image     imageData
}

// readAll reads all data from r. If r implements Len() int (e.g.
// *bytes.Reader), a single exact-sized allocation is used instead of the
// repeated doublings that io.ReadAll performs.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		n := lr.Len()
		if n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// Decode reads a complete PSD document from r.
func Decode(r io.Reader) (*Document, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "psd: reading data")
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "psd: decoding document")
	}
	return doc, nil
}

// DecodeConfig returns the color model and dimensions of a PSD file
// without decoding layer channel data or the final composite.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(r)
	if err != nil {
		return image.Config{}, pkgerrors.Wrap(err, "psd: reading data")
	}
	sections, err := container.SplitSections(data)
	if err != nil {
		return image.Config{}, pkgerrors.Wrap(err, "psd: splitting sections")
	}
	header, err := container.ParseHeader(container.NewCursor(sections.FileHeader))
	if err != nil {
		return image.Config{}, pkgerrors.Wrap(err, "psd: parsing header")
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      header.Width,
		Height:     header.Height,
	}, nil
}

// Parse decodes a complete PSD document from an in-memory byte slice.
func Parse(data []byte) (*Document, error) {
	sections, err := container.SplitSections(data)
	if err != nil {
		return nil, fmt.Errorf("psd: splitting sections: %w", err)
	}

	header, err := container.ParseHeader(container.NewCursor(sections.FileHeader))
	if err != nil {
		return nil, fmt.Errorf("psd: parsing header: %w", err)
	}

	// ImageResources, like LayerAndMask, is returned with its own 4-byte
	// length prefix still attached; resource.Parse wants just the body.
	resourcesBody := sections.ImageResources
	if len(resourcesBody) >= 4 {
		resourcesBody = resourcesBody[4:]
	}
	res, err := resource.Parse(resourcesBody)
	if err != nil {
		return nil, fmt.Errorf("psd: parsing image resources: %w", err)
	}

	layers, groups, err := layer.Decode(sections.LayerAndMask, uint32(header.Width), uint32(header.Height))
	if err != nil {
		return nil, fmt.Errorf("psd: parsing layer and mask information: %w", err)
	}

	img, err := parseImageData(sections.ImageData, header.Width, header.Height)
	if err != nil {
		return nil, fmt.Errorf("psd: parsing image data: %w", err)
	}

	return &Document{
		header:    header,
		layers:    layers,
		groups:    groups,
		resources: res,
		image:     img,
	}, nil
}

// Width is the document's pixel width.
func (d *Document) Width() int { return d.header.Width }

// Height is the document's pixel height.
func (d *Document) Height() int { return d.header.Height }

// Depth is the document's bit depth per channel (1, 8, 16, or 32).
func (d *Document) Depth() int { return d.header.Depth }

// ColorMode is the document's declared color mode.
func (d *Document) ColorMode() container.ColorMode { return d.header.ColorMode }

// Layers returns the document's bottom-to-top ordered layer list.
func (d *Document) Layers() *layer.Layers { return d.layers }

// Groups returns the document's group tree.
func (d *Document) Groups() *layer.Groups { return d.groups }

// LayerByName looks up a layer by name; if more than one layer shares a
// name, the most recently stored one (closest to the top) wins.
func (d *Document) LayerByName(name string) (*layer.Layer, bool) {
	return d.layers.ByName(name)
}

// GroupIDsInOrder returns group ids in bottom-up closing order.
func (d *Document) GroupIDsInOrder() []uint32 { return d.groups.IDsInOrder() }

// Compression reports how the final image-data section's planes were
// encoded on disk.
func (d *Document) Compression() layer.Compression {
	if d.image.compression == imageDataRLE {
		return layer.CompressionRLE
	}
	return layer.CompressionRaw
}

// Resources returns the parsed subset of the document's image resources
// section (currently just the Slices resource, if present).
func (d *Document) Resources() resource.Resources { return d.resources }

// RGB returns the final composite image (the merged preview Photoshop
// bakes into the file) as tightly packed 3-bytes-per-pixel RGB, with no
// alpha plane — see parseImageData.
func (d *Document) RGB() []byte {
	n := d.header.Width * d.header.Height
	out := make([]byte, n*3)
	for i := 0; i < n; i++ {
		out[i*3] = d.image.red[i]
		out[i*3+1] = d.image.green[i]
		out[i*3+2] = d.image.blue[i]
	}
	return out
}

// RGBA returns the final composite image as 4-bytes-per-pixel RGBA, fully
// opaque (there is no alpha plane in the image-data section).
func (d *Document) RGBA() []byte {
	return d.image.rgba(d.header.Width, d.header.Height)
}

// FlattenLayers composites the layers selected by `selected` (nil selects
// every layer) top-down, honoring opacity and blend mode, and returns the
// result as 4-bytes-per-pixel RGBA.
func (d *Document) FlattenLayers(selected func(idx int, l *layer.Layer) bool) ([]byte, error) {
	topDown := make([]layer.Layer, d.layers.Len())
	n := d.layers.Len()
	for i := 0; i < n; i++ {
		// Layers() is stored bottom-to-top; the compositor wants the
		// topmost layer first.
		topDown[i] = *d.layers.At(n - 1 - i)
	}

	// selected is indexed against the document's own bottom-to-top
	// ordering, so translate compositor's top-down index back before
	// calling through.
	var wrapped func(idx int, l *layer.Layer) bool
	if selected != nil {
		wrapped = func(idx int, l *layer.Layer) bool {
			return selected(n-1-idx, l)
		}
	}

	return compositor.Flatten(topDown, d.header.Width, d.header.Height, wrapped)
}

// Bounds satisfies image.Image.
func (d *Document) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.header.Width, d.header.Height)
}

// ColorModel satisfies image.Image.
func (d *Document) ColorModel() color.Model { return color.NRGBAModel }

// At satisfies image.Image, sampling the baked-in final composite.
func (d *Document) At(x, y int) color.Color {
	b := d.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return color.NRGBA{}
	}
	idx := y*d.header.Width + x
	return color.NRGBA{R: d.image.red[idx], G: d.image.green[idx], B: d.image.blue[idx], A: 255}
}
