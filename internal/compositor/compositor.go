// Package compositor flattens a document's layers into a single RGBA
// image, top layer down, the way Photoshop's own canvas preview does.
package compositor

import (
	"errors"
	"fmt"

	"github.com/deepteams/psd/internal/blend"
	"github.com/deepteams/psd/internal/layer"
	"github.com/deepteams/psd/internal/pool"
)

// ErrInvalidDimensions is returned when width or height is non-positive.
var ErrInvalidDimensions = errors.New("psd: invalid composite dimensions")

type stackedPixel struct {
	pixel [4]uint8
	mode  blend.Mode
}

// Flatten composites layers (top layer first, i.e. index 0 is the
// topmost) into a single width*height*4 RGBA buffer.
//
// Each layer's own RGBA is computed at most once and cached for the
// call's duration. For every output pixel, layers are walked top-down:
// a layer outside its own bounding rectangle is skipped entirely, and the
// walk stops early once a fully opaque pixel (both the layer's own alpha
// and its opacity at 255) is reached, since nothing beneath it can show
// through. The collected pixels are then folded bottom-up with
// blend.Pixel, each one blending as the source over everything beneath
// it already accumulated.
//
// selected, if non-nil, filters which layers participate — the facade
// uses this to drop hidden layers or to flatten an arbitrary subset.
func Flatten(layers []layer.Layer, width, height int, selected func(idx int, l *layer.Layer) bool) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}

	cachedRGBA := make([][]byte, len(layers))
	rgbaFor := func(idx int) ([]byte, error) {
		if cachedRGBA[idx] == nil {
			rgba, err := layers[idx].RGBA()
			if err != nil {
				return nil, fmt.Errorf("psd: compositing layer %q: %w", layers[idx].Name, err)
			}
			cachedRGBA[idx] = rgba
		}
		return cachedRGBA[idx], nil
	}

	scratch := pool.Get(width * height * 4)
	defer pool.Put(scratch)
	for i := range scratch {
		scratch[i] = 0
	}

	stack := make([]stackedPixel, 0, len(layers))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			stack = stack[:0]

			for idx := range layers {
				l := &layers[idx]
				if selected != nil && !selected(idx, l) {
					continue
				}
				if int32(x) < l.Left || int32(x) > l.Right || int32(y) < l.Top || int32(y) > l.Bottom {
					continue
				}

				rgba, err := rgbaFor(idx)
				if err != nil {
					return nil, err
				}

				off := (y*width + x) * 4
				var px [4]uint8
				copy(px[:], rgba[off:off+4])
				applyOpacity(&px, l.Opacity)

				stack = append(stack, stackedPixel{pixel: px, mode: l.BlendMode})

				if px[3] == 255 && l.Opacity == 255 {
					break
				}
			}

			var result [4]uint8
			if n := len(stack); n > 0 {
				result = stack[n-1].pixel
				for i := n - 2; i >= 0; i-- {
					result = blend.Pixel(stack[i].pixel, result, stack[i].mode)
				}
			}

			off := (y*width + x) * 4
			scratch[off], scratch[off+1], scratch[off+2], scratch[off+3] = result[0], result[1], result[2], result[3]
		}
	}

	out := make([]byte, width*height*4)
	copy(out, scratch)
	return out, nil
}

// applyOpacity scales a pixel's alpha by a layer's opacity (0-255).
func applyOpacity(px *[4]uint8, opacity uint8) {
	px[3] = uint8(uint16(px[3]) * uint16(opacity) / 255)
}
