// Package resource decodes PSD's image resources section: a flat list of
// '8BIM'-tagged blocks, of which this package interprets the Slices
// (#1050) resource and passes every other block through unparsed.
package resource

import (
	"errors"
	"fmt"

	"github.com/deepteams/psd/internal/container"
)

// ID identifies an image resource block's Photoshop resource type.
type ID int16

// SlicesInfo is the resource ID of the Slices resource (#1050), the only
// resource type this package interprets beyond raw bytes.
const SlicesInfo ID = 1050

var signature = [4]byte{'8', 'B', 'I', 'M'}

// ErrInvalidSignature is returned when a resource block's leading 4 bytes
// aren't the fixed '8BIM' tag.
var ErrInvalidSignature = errors.New("psd: invalid image resource block signature")

// Block is one raw '8BIM' resource block: an id, an optional name, and its
// data payload (already stripped of the even-padding the wire format adds).
type Block struct {
	ID   ID
	Name string
	Data []byte
}

// SplitBlocks walks the image resources section body (the bytes following
// its own 4-byte length prefix) into individual resource blocks.
func SplitBlocks(data []byte) ([]Block, error) {
	c := container.NewCursor(data)

	var blocks []Block
	for c.Len() > 0 {
		sig, err := c.Advance(4)
		if err != nil {
			return nil, err
		}
		if string(sig) != string(signature[:]) {
			return nil, fmt.Errorf("psd: resource block at offset %d: %w", c.Position()-4, ErrInvalidSignature)
		}

		rawID, err := c.ReadInt16()
		if err != nil {
			return nil, err
		}
		name, err := c.ReadPascalString()
		if err != nil {
			return nil, err
		}
		length, err := c.ReadUint32()
		if err != nil {
			return nil, err
		}
		padded := length
		if padded%2 != 0 {
			padded++
		}
		payload, err := c.Advance(int(padded))
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, Block{
			ID:   ID(rawID),
			Name: name,
			Data: payload[:length],
		})
	}
	return blocks, nil
}

// Resources is the decoded subset of the image resources section this
// package understands. Unrecognized blocks are not retained: callers that
// need them can re-walk the section with SplitBlocks.
type Resources struct {
	Slices *Slices
}

// Parse decodes the image resources section body (without its own length
// prefix, which container.Sections keeps and the caller strips first).
func Parse(data []byte) (Resources, error) {
	blocks, err := SplitBlocks(data)
	if err != nil {
		return Resources{}, err
	}

	var res Resources
	for _, b := range blocks {
		if b.ID != SlicesInfo {
			continue
		}
		slices, err := ParseSlices(b.Data)
		if err != nil {
			return Resources{}, fmt.Errorf("psd: slices resource: %w", err)
		}
		res.Slices = &slices
	}
	return res, nil
}
