package container

import "fmt"

// FileHeaderSize is the fixed length of the file header section.
const FileHeaderSize = 26

// expectedSignature is the 4-byte magic ("8BPS") every PSD file opens with.
var expectedSignature = [4]byte{'8', 'B', 'P', 'S'}

// Sections holds borrowed slices over each of a PSD file's five major,
// length-delimited parts.
type Sections struct {
	FileHeader     []byte
	ColorModeData  []byte
	ImageResources []byte
	LayerAndMask   []byte
	ImageData      []byte
}

// SplitSections walks the fixed-length file header followed by three
// length-prefixed sections, returning slices over each; each of those three
// slices keeps its own 4-byte length prefix. The remaining bytes after the
// layer-and-mask section form the image-data section.
func SplitSections(data []byte) (Sections, error) {
	if len(data) < FileHeaderSize {
		return Sections{}, fmt.Errorf("psd: file header requires %d bytes, got %d: %w", FileHeaderSize, len(data), ErrNotEnoughBytes)
	}

	c := NewCursor(data)

	sig, err := c.Peek(4)
	if err != nil {
		return Sections{}, err
	}
	if !signatureMatches(sig) {
		return Sections{}, fmt.Errorf("psd: file signature: %w", ErrInvalidSignature)
	}

	fileHeader := data[0:FileHeaderSize]
	if _, err := c.Advance(FileHeaderSize); err != nil {
		return Sections{}, err
	}

	colorStart, colorEnd, err := readMajorSectionBounds(c)
	if err != nil {
		return Sections{}, fmt.Errorf("psd: color mode data section: %w", err)
	}
	resStart, resEnd, err := readMajorSectionBounds(c)
	if err != nil {
		return Sections{}, fmt.Errorf("psd: image resources section: %w", err)
	}
	layerStart, layerEnd, err := readMajorSectionBounds(c)
	if err != nil {
		return Sections{}, fmt.Errorf("psd: layer and mask section: %w", err)
	}

	imageData := data[c.Position():]

	return Sections{
		FileHeader:     fileHeader,
		ColorModeData:  data[colorStart:colorEnd],
		ImageResources: data[resStart:resEnd],
		LayerAndMask:   data[layerStart:layerEnd],
		ImageData:      imageData,
	}, nil
}

func readMajorSectionBounds(c *Cursor) (start, end int, err error) {
	start = c.Position()
	length, err := c.ReadUint32()
	if err != nil {
		return 0, 0, err
	}
	if _, err := c.Advance(int(length)); err != nil {
		return 0, 0, err
	}
	return start, c.Position(), nil
}

func signatureMatches(b []byte) bool {
	return b[0] == expectedSignature[0] && b[1] == expectedSignature[1] &&
		b[2] == expectedSignature[2] && b[3] == expectedSignature[3]
}
