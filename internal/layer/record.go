package layer

import (
	"fmt"

	"github.com/deepteams/psd/internal/blend"
	"github.com/deepteams/psd/internal/container"
)

var (
	signature8BIM = [4]byte{'8', 'B', 'I', 'M'}
	signature8B64 = [4]byte{'8', 'B', '6', '4'}

	keyUnicodeLayerName      = [4]byte{'l', 'u', 'n', 'i'}
	keySectionDividerSetting = [4]byte{'l', 's', 'c', 't'}
)

// Divider identifies a layer record's role in the group tree, carried by
// the "lsct" additional layer information block.
type Divider int

const (
	DividerOther           Divider = 0
	DividerOpenFolder      Divider = 1
	DividerCloseFolder     Divider = 2
	DividerBoundingSection Divider = 3
)

func parseDivider(v int32) (Divider, bool) {
	switch Divider(v) {
	case DividerOther, DividerOpenFolder, DividerCloseFolder, DividerBoundingSection:
		return Divider(v), true
	default:
		return 0, false
	}
}

type channelLength struct {
	Kind   Kind
	Length uint32
}

// record is one entry of the layer info section's flat layer-record list,
// before channel image data (read separately, afterwards) and before the
// group-stack walk that turns it into Layers and Groups.
type record struct {
	name                     string
	channelLengths           []channelLength
	top, left, bottom, right int32
	visible                  bool
	opacity                  uint8
	clippingBase             bool
	blendMode                blend.Mode
	divider                  Divider
	hasDivider               bool
}

func (r *record) height() int32 { return r.bottom - r.top + 1 }
func (r *record) width() int32  { return r.right - r.left + 1 }

// readRecord reads one layer record: its bounding rectangle, channel
// length table, blend mode, flags, mask/blending-range filler, name, and
// any trailing additional layer information blocks.
func readRecord(c *container.Cursor) (record, error) {
	var r record

	top, err := c.ReadInt32()
	if err != nil {
		return record{}, err
	}
	left, err := c.ReadInt32()
	if err != nil {
		return record{}, err
	}
	bottom, err := c.ReadInt32()
	if err != nil {
		return record{}, err
	}
	if bottom != 0 {
		bottom--
	}
	right, err := c.ReadInt32()
	if err != nil {
		return record{}, err
	}
	if right != 0 {
		right--
	}
	r.top, r.left, r.bottom, r.right = top, left, bottom, right

	channelCount, err := c.ReadUint16()
	if err != nil {
		return record{}, err
	}
	for i := uint16(0); i < channelCount; i++ {
		rawID, err := c.ReadInt16()
		if err != nil {
			return record{}, err
		}
		kind, ok := ParseKind(rawID)
		if !ok {
			return record{}, fmt.Errorf("psd: channel id %d: %w", rawID, ErrInvalidChannel)
		}
		length, err := c.ReadUint32()
		if err != nil {
			return record{}, err
		}
		// The first two bytes of the channel's own data encode its
		// compression; the length here additionally covers those.
		r.channelLengths = append(r.channelLengths, channelLength{Kind: kind, Length: length - 2})
	}

	if _, err := c.Advance(4); err != nil { // blend mode signature, always '8BIM'
		return record{}, err
	}
	keyBytes, err := c.Advance(4)
	if err != nil {
		return record{}, err
	}
	var key [4]byte
	copy(key[:], keyBytes)
	mode, ok := blend.ModeFromKey(key)
	if !ok {
		return record{}, fmt.Errorf("psd: blend mode key %q: %w", key, ErrUnknownBlendMode)
	}
	r.blendMode = mode

	opacity, err := c.ReadUint8()
	if err != nil {
		return record{}, err
	}
	r.opacity = opacity

	clipping, err := c.ReadUint8()
	if err != nil {
		return record{}, err
	}
	r.clippingBase = clipping == 0

	flags, err := c.ReadUint8()
	if err != nil {
		return record{}, err
	}
	r.visible = flags&(1<<1) != 0

	if _, err := c.ReadUint8(); err != nil { // filler
		return record{}, err
	}
	if _, err := c.ReadUint32(); err != nil { // extra data field length
		return record{}, err
	}

	maskLen, err := c.ReadUint32()
	if err != nil {
		return record{}, err
	}
	if _, err := c.Advance(int(maskLen)); err != nil {
		return record{}, err
	}

	blendingRangeLen, err := c.ReadUint32()
	if err != nil {
		return record{}, err
	}
	if _, err := c.Advance(int(blendingRangeLen)); err != nil {
		return record{}, err
	}

	nameLen, err := c.ReadUint8()
	if err != nil {
		return record{}, err
	}
	nameBytes, err := c.Advance(int(nameLen))
	if err != nil {
		return record{}, err
	}
	r.name = string(nameBytes)

	bytesMod4 := (nameLen + 1) % 4
	padding := (4 - bytesMod4) % 4
	if _, err := c.Advance(int(padding)); err != nil {
		return record{}, err
	}

	if err := readAdditionalLayerInfo(c, &r); err != nil {
		return record{}, err
	}

	return r, nil
}

func readAdditionalLayerInfo(c *container.Cursor, r *record) error {
	for {
		sig, err := c.Peek(4)
		if err != nil {
			// End of the layer records area: no more additional info.
			return nil
		}
		if !signatureMatches(sig, signature8BIM) && !signatureMatches(sig, signature8B64) {
			return nil
		}
		if _, err := c.Advance(4); err != nil {
			return err
		}
		keyBytes, err := c.Advance(4)
		if err != nil {
			return err
		}
		var key [4]byte
		copy(key[:], keyBytes)

		length, err := c.ReadUint32()
		if err != nil {
			return err
		}

		switch key {
		case keyUnicodeLayerName:
			pos := c.Position()
			name, err := c.ReadUnicodeStringPadding(1)
			if err != nil {
				return err
			}
			r.name = name
			c.Seek(pos + int(length))

		case keySectionDividerSetting:
			v, err := c.ReadInt32()
			if err != nil {
				return err
			}
			if d, ok := parseDivider(v); ok {
				r.divider = d
				r.hasDivider = true
			}
			if length >= 12 {
				if _, err := c.Advance(8); err != nil { // signature + blend mode key
					return err
				}
			}
			if length >= 16 {
				if _, err := c.Advance(4); err != nil { // sub-type
					return err
				}
			}

		default:
			if _, err := c.Advance(int(length)); err != nil {
				return err
			}
		}
	}
}

func signatureMatches(b []byte, sig [4]byte) bool {
	return len(b) == 4 && b[0] == sig[0] && b[1] == sig[1] && b[2] == sig[2] && b[3] == sig[3]
}
