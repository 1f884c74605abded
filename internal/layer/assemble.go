package layer

import "github.com/deepteams/psd/internal/packbits"

// AssembleRGBA interleaves a flat map of same-size channels into an RGBA
// buffer sized width*height*4, honoring the fallback rules: a missing
// green or blue channel reuses red (a single-channel grayscale image), and
// a missing alpha channel means the image is fully opaque.
func AssembleRGBA(width, height int, channels map[Kind]Data) ([]byte, error) {
	red, ok := channels[Red]
	if !ok {
		return nil, ErrMissingChannel
	}

	rgba := make([]byte, width*height*4)

	insertChannel(rgba, Red, red, identityIndex)

	if green, ok := channels[Green]; ok {
		insertChannel(rgba, Green, green, identityIndex)
	} else {
		insertChannel(rgba, Green, red, identityIndex)
	}

	if blue, ok := channels[Blue]; ok {
		insertChannel(rgba, Blue, blue, identityIndex)
	} else {
		insertChannel(rgba, Blue, red, identityIndex)
	}

	if alpha, ok := channels[TransparencyMask]; ok {
		insertChannel(rgba, TransparencyMask, alpha, identityIndex)
	} else {
		for i := 0; i < width*height; i++ {
			rgba[i*4+3] = 255
		}
	}

	return rgba, nil
}

// assembleDocumentRGBA is AssembleRGBA's layer-local variant: it builds a
// buffer the size of the whole document and remaps each of the layer's
// local pixel indices to their document-relative position, silently
// dropping anything that lands outside the document (the layer's bounds
// may legitimately extend past the canvas).
func assembleDocumentRGBA(props Properties, channels map[Kind]Data) ([]byte, error) {
	red, ok := channels[Red]
	if !ok {
		return nil, ErrMissingChannel
	}

	docW := int(props.PSDWidth)
	docH := int(props.PSDHeight)
	layerW := int(props.Width())

	remap := func(idx int) (int, bool) {
		leftInLayer := idx % layerW
		leftInDoc := int(props.Left) + leftInLayer
		topInLayer := idx / layerW
		topInDoc := int(props.Top) + topInLayer

		if leftInDoc < 0 || leftInDoc >= docW || topInDoc < 0 || topInDoc >= docH {
			return 0, false
		}
		return topInDoc*docW + leftInDoc, true
	}

	rgba := make([]byte, docW*docH*4)

	insertChannel(rgba, Red, red, remap)

	if green, ok := channels[Green]; ok {
		insertChannel(rgba, Green, green, remap)
	} else {
		insertChannel(rgba, Green, red, remap)
	}

	if blue, ok := channels[Blue]; ok {
		insertChannel(rgba, Blue, blue, remap)
	} else {
		insertChannel(rgba, Blue, red, remap)
	}

	if alpha, ok := channels[TransparencyMask]; ok {
		insertChannel(rgba, TransparencyMask, alpha, remap)
	} else {
		for i := 0; i < docW*docH; i++ {
			rgba[i*4+3] = 255
		}
	}

	return rgba, nil
}

func identityIndex(idx int) (int, bool) { return idx, true }

// insertChannel decodes (if needed) channel and writes its bytes into
// rgba at offset kind.RGBAOffset(), remapping each source pixel index
// through remap and silently dropping any that remap rejects or that fall
// outside rgba's bounds, matching the reference decoder's defensive
// `get_mut` pattern.
func insertChannel(rgba []byte, kind Kind, channel Data, remap func(int) (int, bool)) {
	offset, ok := kind.RGBAOffset()
	if !ok {
		return
	}

	if !channel.RLE {
		for idx, b := range channel.Data {
			writeChannelByte(rgba, offset, idx, b, remap)
		}
		return
	}

	r := packbits.NewReader(channel.Data)
	idx := 0
	for {
		b, ok := r.ReadByte()
		if !ok {
			return
		}
		writeChannelByte(rgba, offset, idx, b, remap)
		idx++
	}
}

func writeChannelByte(rgba []byte, offset, idx int, b byte, remap func(int) (int, bool)) {
	pixelIdx, ok := remap(idx)
	if !ok {
		return
	}
	target := pixelIdx*4 + offset
	if target < 0 || target >= len(rgba) {
		return
	}
	rgba[target] = b
}
