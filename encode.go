package psd

import (
	"io"

	"github.com/deepteams/psd/internal/container"
	"github.com/deepteams/psd/internal/resource"
)

// SlicesResource is the decoded Slices (#1050) image resource, as returned
// by Document.Resources().Slices.
type SlicesResource = resource.Slices

// EncodeSlicesResource writes s back out as a complete '8BIM' image
// resource block (signature, resource id 1050, empty name, padded
// length-prefixed body), the inverse of what resource.Parse extracts from
// Document.Resources(). No other resource type, and no other PSD section,
// has a write path: full document re-encoding remains out of scope.
func EncodeSlicesResource(w io.Writer, s SlicesResource) error {
	body := container.NewWriter()
	resource.WriteSlices(body, s)
	payload := body.Bytes()

	block := container.NewWriter()
	block.WriteBytes([]byte("8BIM"))
	block.WriteInt16(int16(resource.SlicesInfo))
	block.WritePascalString("")
	block.WriteUint32(uint32(len(payload)))
	block.WriteBytes(payload)
	if len(payload)%2 != 0 {
		block.WriteUint8(0)
	}

	_, err := w.Write(block.Bytes())
	return err
}
