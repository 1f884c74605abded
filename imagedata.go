package psd

import (
	"fmt"

	"github.com/deepteams/psd/internal/container"
	"github.com/deepteams/psd/internal/packbits"
)

// imageDataCompression mirrors the wire values a channel record uses, kept
// local to this file since the final image-data section is never exposed
// as a layer.Compression value to callers (Document.Compression reports it
// as its own small public enum instead).
type imageDataCompression uint16

const (
	imageDataRaw                  imageDataCompression = 0
	imageDataRLE                  imageDataCompression = 1
	imageDataZipWithoutPrediction imageDataCompression = 2
	imageDataZipWithPrediction    imageDataCompression = 3
)

// imageData holds the final, merged-composite image: the flat R,G,B planes
// (and never alpha — see parseImageData) that make up the document's own
// baked-in preview, independent of any layer.
type imageData struct {
	compression      imageDataCompression
	red, green, blue []byte
}

// parseImageData reads the image-data section (including its own 2-byte
// compression tag): raw or PackBits-RLE R,G,B planes, width*height bytes
// each. A raw section may carry a 4th (alpha) plane; its presence is
// inferred from the section's total length rather than read from any
// explicit channel count, matching the format's own ambiguity here. The
// RLE branch never carries alpha — Photoshop itself never writes one for
// this section's RLE encoding — so only 3*height scanline counts are read.
// Either way the 4th plane, when present, is left undecoded: this
// section's composite is always treated as fully opaque (see rgba below).
func parseImageData(data []byte, width, height int) (imageData, error) {
	c := container.NewCursor(data)

	tag, err := c.ReadUint16()
	if err != nil {
		return imageData{}, err
	}
	compression := imageDataCompression(tag)

	planeSize := width * height
	rest, err := c.Advance(c.Len())
	if err != nil {
		return imageData{}, err
	}

	switch compression {
	case imageDataRaw:
		// A 4th plane (alpha) is sometimes present; like the channel count
		// isn't given directly, it's inferred from the total byte length.
		// The extra plane is still discarded afterward: see rgba below.
		switch {
		case len(rest) == planeSize*3, len(rest) == planeSize*4:
		default:
			return imageData{}, fmt.Errorf("psd: image data: %d bytes doesn't divide evenly into 3 or 4 raw planes of %d", len(rest), planeSize)
		}
		return imageData{
			compression: compression,
			red:         append([]byte(nil), rest[0:planeSize]...),
			green:       append([]byte(nil), rest[planeSize:2*planeSize]...),
			blue:        append([]byte(nil), rest[2*planeSize:3*planeSize]...),
		}, nil

	case imageDataRLE:
		rc := container.NewCursor(rest)
		byteCounts := make([]int, 3*height)
		for i := range byteCounts {
			v, err := rc.ReadUint16()
			if err != nil {
				return imageData{}, err
			}
			byteCounts[i] = int(v)
		}

		sum := func(counts []int) int {
			total := 0
			for _, c := range counts {
				total += c
			}
			return total
		}
		redLen := sum(byteCounts[0:height])
		greenLen := sum(byteCounts[height : 2*height])
		blueLen := sum(byteCounts[2*height : 3*height])

		redRLE, err := rc.Advance(redLen)
		if err != nil {
			return imageData{}, err
		}
		greenRLE, err := rc.Advance(greenLen)
		if err != nil {
			return imageData{}, err
		}
		blueRLE, err := rc.Advance(blueLen)
		if err != nil {
			return imageData{}, err
		}

		red := make([]byte, planeSize)
		packbits.Decode(redRLE, red)
		green := make([]byte, planeSize)
		packbits.Decode(greenRLE, green)
		blue := make([]byte, planeSize)
		packbits.Decode(blueRLE, blue)

		return imageData{compression: compression, red: red, green: green, blue: blue}, nil

	default:
		return imageData{}, fmt.Errorf("psd: image data: zip compression: %w", ErrUnsupported)
	}
}

// rgba interleaves the three decoded planes into an RGBA buffer, treating
// the image as fully opaque (there is no alpha plane, see parseImageData).
func (d imageData) rgba(width, height int) []byte {
	out := make([]byte, width*height*4)
	n := width * height
	for i := 0; i < n; i++ {
		out[i*4] = d.red[i]
		out[i*4+1] = d.green[i]
		out[i*4+2] = d.blue[i]
		out[i*4+3] = 255
	}
	return out
}
