package layer

import (
	"fmt"

	"github.com/deepteams/psd/internal/container"
)

// Decode reads the layer-and-mask information section (including its own
// 4-byte length marker) and returns the document's layers and group tree.
func Decode(data []byte, psdWidth, psdHeight uint32) (*Layers, *Groups, error) {
	c := container.NewCursor(data)

	if _, err := c.ReadUint32(); err != nil { // section length, unused: caller already bounded data
		return nil, nil, err
	}
	if c.Len() == 0 {
		return newLayers(0), newGroups(0), nil
	}

	if _, err := c.ReadUint32(); err != nil { // layer info sub-section length
		return nil, nil, err
	}
	rawCount, err := c.ReadInt16()
	if err != nil {
		return nil, nil, err
	}

	// A negative layer count means its absolute value is the layer count
	// and the first alpha channel holds merged-result transparency data;
	// we decode the same layer records either way.
	count := rawCount
	if count < 0 {
		count = -count
	}

	records := make([]record, 0, count)
	groupCount := 0
	for i := int16(0); i < count; i++ {
		r, err := readRecord(c)
		if err != nil {
			return nil, nil, fmt.Errorf("psd: layer record %d: %w", i, err)
		}
		if r.hasDivider && r.divider == DividerBoundingSection {
			groupCount++
		}
		records = append(records, r)
	}

	channelSets := make([][]channelPayload, len(records))
	for i, r := range records {
		payloads, err := readChannelPayloads(c, r.channelLengths, int(r.height()))
		if err != nil {
			return nil, nil, fmt.Errorf("psd: layer %q channel data: %w", r.name, err)
		}
		channelSets[i] = payloads
	}

	// Photoshop stores layer records bottom layer first in the array but
	// in top-to-bottom document order; the public ordering this package
	// exposes is bottom-to-top, so both the records and their channel
	// payloads are walked in reverse.
	return buildTree(records, channelSets, groupCount, psdWidth, psdHeight)
}

type channelPayload struct {
	kind Kind
	data Data
}

func readChannelPayloads(c *container.Cursor, lengths []channelLength, scanlines int) ([]channelPayload, error) {
	payloads := make([]channelPayload, 0, len(lengths))
	for _, cl := range lengths {
		compressionTag, err := c.ReadUint16()
		if err != nil {
			return nil, err
		}
		compression, ok := ParseCompression(compressionTag)
		if !ok {
			return nil, fmt.Errorf("psd: channel compression %d: %w", compressionTag, ErrInvalidCompression)
		}
		if cl.Length == 0 {
			compression = CompressionRaw
		}

		raw, err := c.Advance(int(cl.Length))
		if err != nil {
			return nil, err
		}

		switch compression {
		case CompressionRaw:
			payloads = append(payloads, channelPayload{kind: cl.Kind, data: Data{RLE: false, Data: append([]byte(nil), raw...)}})
		case CompressionRLE:
			// The first 2 bytes per scanline are a per-line compressed
			// byte count we don't currently need.
			skip := 2 * scanlines
			if skip > len(raw) {
				skip = len(raw)
			}
			payloads = append(payloads, channelPayload{kind: cl.Kind, data: Data{RLE: true, Data: append([]byte(nil), raw[skip:]...)}})
		default:
			return nil, fmt.Errorf("psd: channel %d: %w", cl.Kind, ErrZipUnsupported)
		}
	}
	return payloads, nil
}

type frame struct {
	startIdx      int
	name          string
	groupID       uint32
	parentGroupID uint32
}

func buildTree(records []record, channelSets [][]channelPayload, groupCount int, psdWidth, psdHeight uint32) (*Layers, *Groups, error) {
	layers := newLayers(len(records))
	groups := newGroups(groupCount)

	stack := []frame{{startIdx: 0, name: "root", groupID: 0, parentGroupID: 0}}
	var alreadyViewed uint32

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		channels := channelSets[i]
		currentGroupID := stack[len(stack)-1].groupID

		switch {
		case r.hasDivider && (r.divider == DividerCloseFolder || r.divider == DividerOpenFolder):
			alreadyViewed++
			stack = append(stack, frame{
				startIdx:      layers.Len(),
				name:          r.name,
				groupID:       alreadyViewed,
				parentGroupID: currentGroupID,
			})

		case r.hasDivider && r.divider == DividerBoundingSection:
			if len(stack) <= 1 {
				return nil, nil, fmt.Errorf("psd: unbalanced layer group markers")
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			props := propertiesFromRecord(r, psdWidth, psdHeight, top.parentGroupID)
			props.Name = top.name
			groups.push(&Group{
				Properties: props,
				ID:         top.groupID,
				Range:      [2]int{top.startIdx, layers.Len()},
			})

		default:
			props := propertiesFromRecord(r, psdWidth, psdHeight, currentGroupID)
			lay := &Layer{Properties: props, Channels: make(map[Kind]Data, len(channels))}
			for _, p := range channels {
				lay.Channels[p.kind] = p.data
			}
			layers.push(lay)
		}
	}

	return layers, groups, nil
}
