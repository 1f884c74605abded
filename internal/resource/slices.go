package resource

import (
	"errors"
	"fmt"

	"github.com/deepteams/psd/internal/container"
	"github.com/deepteams/psd/internal/descriptor"
)

// descriptorVersion is the only Descriptor-based slices encoding version
// this package understands (Photoshop 6.0's "16").
const descriptorVersion = 16

// ErrUnsupportedSlicesVersion is returned for a Slices resource whose
// leading version field isn't 6, 7 or 8.
var ErrUnsupportedSlicesVersion = errors.New("psd: unsupported slices resource version")

// ErrUnsupportedDescriptorVersion is returned when a version 7 or 8 Slices
// resource's descriptor version field isn't the expected 16.
var ErrUnsupportedDescriptorVersion = errors.New("psd: unsupported slices descriptor version")

// Slices holds the decoded contents of the Slices (#1050) image resource,
// in whichever of the two wire formats the file used.
type Slices struct {
	Version int32

	// Populated when Version == 6.
	V6 *SlicesV6

	// Populated when Version is 7 or 8.
	Descriptor *descriptor.Descriptor
}

// SlicesV6 is the version-6 slices encoding: an explicit bounding box, a
// group name, and a flat list of per-slice blocks.
type SlicesV6 struct {
	Name   string
	Blocks []SliceBlockV6
}

// SliceBlockV6 is one entry of a version-6 slices list. Photoshop 7.0 added
// an optional trailing Descriptor to each block; earlier writers omit it.
type SliceBlockV6 struct {
	Descriptor *descriptor.Descriptor
}

// ParseSlices decodes a Slices (#1050) resource body.
func ParseSlices(data []byte) (Slices, error) {
	c := container.NewCursor(data)
	version, err := c.ReadInt32()
	if err != nil {
		return Slices{}, err
	}

	switch version {
	case 6:
		v6, err := parseSlicesV6(c)
		if err != nil {
			return Slices{}, err
		}
		return Slices{Version: version, V6: &v6}, nil
	case 7, 8:
		descVersion, err := c.ReadInt32()
		if err != nil {
			return Slices{}, err
		}
		if descVersion != descriptorVersion {
			return Slices{}, fmt.Errorf("psd: descriptor version %d: %w", descVersion, ErrUnsupportedDescriptorVersion)
		}
		d, err := descriptor.Parse(c)
		if err != nil {
			return Slices{}, err
		}
		return Slices{Version: version, Descriptor: &d}, nil
	default:
		return Slices{}, fmt.Errorf("psd: version %d: %w", version, ErrUnsupportedSlicesVersion)
	}
}

func parseSlicesV6(c *container.Cursor) (SlicesV6, error) {
	// Bounding rectangle for the whole group: top, left, bottom, right.
	// Photoshop always recomputes this from the individual slices, so the
	// reference decoder discards it rather than exposing it.
	for i := 0; i < 4; i++ {
		if _, err := c.ReadInt32(); err != nil {
			return SlicesV6{}, err
		}
	}

	name, err := c.ReadUnicodeStringPadding(1)
	if err != nil {
		return SlicesV6{}, err
	}

	count, err := c.ReadUint32()
	if err != nil {
		return SlicesV6{}, err
	}

	blocks := make([]SliceBlockV6, 0, count)
	for i := uint32(0); i < count; i++ {
		b, err := parseSliceBlockV6(c)
		if err != nil {
			return SlicesV6{}, fmt.Errorf("psd: slice block %d: %w", i, err)
		}
		blocks = append(blocks, b)
	}

	return SlicesV6{Name: name, Blocks: blocks}, nil
}

func parseSliceBlockV6(c *container.Cursor) (SliceBlockV6, error) {
	if _, err := c.ReadInt32(); err != nil { // slice id
		return SliceBlockV6{}, err
	}
	if _, err := c.ReadInt32(); err != nil { // group id
		return SliceBlockV6{}, err
	}
	origin, err := c.ReadInt32()
	if err != nil {
		return SliceBlockV6{}, err
	}
	if origin == 1 {
		if _, err := c.ReadInt32(); err != nil { // associated layer id
			return SliceBlockV6{}, err
		}
	}

	if _, err := c.ReadUnicodeStringPadding(1); err != nil { // name
		return SliceBlockV6{}, err
	}
	if _, err := c.ReadInt32(); err != nil { // type
		return SliceBlockV6{}, err
	}
	for i := 0; i < 4; i++ { // left, top, right, bottom
		if _, err := c.ReadInt32(); err != nil {
			return SliceBlockV6{}, err
		}
	}
	for i := 0; i < 4; i++ { // url, target, message, alt tag
		if _, err := c.ReadUnicodeStringPadding(1); err != nil {
			return SliceBlockV6{}, err
		}
	}
	if _, err := c.ReadUint8(); err != nil { // cell text is html
		return SliceBlockV6{}, err
	}
	if _, err := c.ReadUnicodeStringPadding(1); err != nil { // cell text
		return SliceBlockV6{}, err
	}
	if _, err := c.ReadInt32(); err != nil { // horizontal alignment
		return SliceBlockV6{}, err
	}
	if _, err := c.ReadInt32(); err != nil { // vertical alignment
		return SliceBlockV6{}, err
	}
	if _, err := c.ReadInt32(); err != nil { // argb color
		return SliceBlockV6{}, err
	}

	// A trailing descriptor is only present if Photoshop had room to write
	// one and the next 4 bytes happen to be the expected descriptor
	// version tag; anything else means this block ends here.
	pos := c.Position()
	descVersion, err := c.PeekUint32()
	if err != nil {
		// No more bytes: no descriptor, not an error.
		return SliceBlockV6{}, nil
	}
	if descVersion != descriptorVersion {
		return SliceBlockV6{}, nil
	}
	if _, err := c.Advance(4); err != nil {
		return SliceBlockV6{}, err
	}

	d, err := descriptor.Parse(c)
	if err != nil {
		return SliceBlockV6{}, err
	}
	if d.Class.ID == "\x00\x00\x00\x00" {
		// A handful of real-world writers emit a zeroed class id here as a
		// sentinel for "no descriptor"; rewind past the version tag we
		// just consumed rather than keep a bogus empty descriptor.
		c.Seek(pos)
		return SliceBlockV6{}, nil
	}
	return SliceBlockV6{Descriptor: &d}, nil
}

// WriteSlices serializes s back into a Slices resource body.
func WriteSlices(w *container.Writer, s Slices) {
	w.WriteInt32(s.Version)
	switch {
	case s.V6 != nil:
		writeSlicesV6(w, *s.V6)
	case s.Descriptor != nil:
		w.WriteInt32(descriptorVersion)
		descriptor.Write(w, *s.Descriptor)
	}
}

func writeSlicesV6(w *container.Writer, v SlicesV6) {
	for i := 0; i < 4; i++ {
		w.WriteInt32(0)
	}
	w.WriteUnicodeStringPadding(v.Name, 1)
	w.WriteUint32(uint32(len(v.Blocks)))
	for _, b := range v.Blocks {
		writeSliceBlockV6(w, b)
	}
}

func writeSliceBlockV6(w *container.Writer, b SliceBlockV6) {
	w.WriteInt32(0) // slice id
	w.WriteInt32(0) // group id
	w.WriteInt32(0) // origin
	w.WriteUnicodeStringPadding("", 1)
	w.WriteInt32(0) // type
	for i := 0; i < 4; i++ {
		w.WriteInt32(0)
	}
	for i := 0; i < 4; i++ {
		w.WriteUnicodeStringPadding("", 1)
	}
	w.WriteUint8(0)
	w.WriteUnicodeStringPadding("", 1)
	w.WriteInt32(0)
	w.WriteInt32(0)
	w.WriteInt32(0)

	if b.Descriptor != nil {
		w.WriteInt32(descriptorVersion)
		descriptor.Write(w, *b.Descriptor)
	}
}
