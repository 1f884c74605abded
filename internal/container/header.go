package container

import "fmt"

// Header is the decoded, validated contents of a PSD file header section.
type Header struct {
	ChannelCount int
	Height       int
	Width        int
	Depth        int
	ColorMode    ColorMode
}

func validDepth(d int) bool {
	switch d {
	case 1, 8, 16, 32:
		return true
	default:
		return false
	}
}

// ParseHeader reads and validates the 26-byte file header section:
// signature, version, six reserved bytes, channel count, height, width,
// depth, and color mode.
func ParseHeader(c *Cursor) (Header, error) {
	sig, err := c.Advance(4)
	if err != nil {
		return Header{}, err
	}
	if !signatureMatches(sig) {
		return Header{}, fmt.Errorf("psd: header: %w", ErrInvalidSignature)
	}

	version, err := c.ReadUint16()
	if err != nil {
		return Header{}, err
	}
	if version != 1 {
		return Header{}, fmt.Errorf("psd: header version %d: %w", version, ErrInvalidVersion)
	}

	reserved, err := c.Advance(6)
	if err != nil {
		return Header{}, err
	}
	for _, b := range reserved {
		if b != 0 {
			return Header{}, fmt.Errorf("psd: header: %w", ErrInvalidReserved)
		}
	}

	channels, err := c.ReadUint16()
	if err != nil {
		return Header{}, err
	}
	if channels < 1 || channels > 56 {
		return Header{}, fmt.Errorf("psd: channel count %d: %w", channels, ErrChannelCountOutOfRange)
	}

	height, err := c.ReadUint32()
	if err != nil {
		return Header{}, err
	}
	if height < 1 || height > 30000 {
		return Header{}, fmt.Errorf("psd: height %d: %w", height, ErrHeightOutOfRange)
	}

	width, err := c.ReadUint32()
	if err != nil {
		return Header{}, err
	}
	if width < 1 || width > 30000 {
		return Header{}, fmt.Errorf("psd: width %d: %w", width, ErrWidthOutOfRange)
	}

	depth, err := c.ReadUint16()
	if err != nil {
		return Header{}, err
	}
	if !validDepth(int(depth)) {
		return Header{}, fmt.Errorf("psd: depth %d: %w", depth, ErrInvalidDepth)
	}

	mode, err := c.ReadUint16()
	if err != nil {
		return Header{}, err
	}
	cm := ColorMode(mode)
	if !cm.Valid() {
		return Header{}, fmt.Errorf("psd: color mode %d: %w", mode, ErrInvalidColorMode)
	}

	return Header{
		ChannelCount: int(channels),
		Height:       int(height),
		Width:        int(width),
		Depth:        int(depth),
		ColorMode:    cm,
	}, nil
}
