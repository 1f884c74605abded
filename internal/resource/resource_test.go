package resource

import (
	"testing"

	"github.com/deepteams/psd/internal/container"
)

func writeBlock(w *container.Writer, id int16, name string, payload []byte) {
	w.WriteBytes([]byte("8BIM"))
	w.WriteInt16(id)
	w.WritePascalString(name)
	w.WriteUint32(uint32(len(payload)))
	w.WriteBytes(payload)
	if len(payload)%2 != 0 {
		w.WriteUint8(0)
	}
}

func TestSplitBlocks(t *testing.T) {
	w := container.NewWriter()
	writeBlock(w, 1000, "", []byte{1, 2, 3})
	writeBlock(w, 1001, "", []byte{9, 9})

	blocks, err := SplitBlocks(w.Bytes())
	if err != nil {
		t.Fatalf("SplitBlocks: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if blocks[0].ID != 1000 || len(blocks[0].Data) != 3 {
		t.Fatalf("block 0 = %+v", blocks[0])
	}
	if blocks[1].ID != 1001 || len(blocks[1].Data) != 2 {
		t.Fatalf("block 1 = %+v", blocks[1])
	}
}

func TestSplitBlocks_InvalidSignature(t *testing.T) {
	w := container.NewWriter()
	w.WriteBytes([]byte("XXXX"))
	w.WriteInt16(1)
	w.WritePascalString("")
	w.WriteUint32(0)

	if _, err := SplitBlocks(w.Bytes()); err == nil {
		t.Fatalf("expected an invalid-signature error")
	}
}

func buildSlicesV7(t *testing.T) []byte {
	t.Helper()
	dw := container.NewWriter()
	dw.WriteUnicodeString("")
	dw.WriteUint32(0)
	dw.WriteBytes([]byte("nULL"))
	dw.WriteUint32(0) // 0 fields

	w := container.NewWriter()
	w.WriteInt32(7)
	w.WriteInt32(16)
	w.WriteBytes(dw.Bytes())
	return w.Bytes()
}

func TestParseSlices_V7(t *testing.T) {
	s, err := ParseSlices(buildSlicesV7(t))
	if err != nil {
		t.Fatalf("ParseSlices: %v", err)
	}
	if s.Version != 7 || s.Descriptor == nil {
		t.Fatalf("slices = %+v, want version 7 with a descriptor", s)
	}
	if s.Descriptor.Class.ID != "nULL" {
		t.Fatalf("class id = %q, want nULL", s.Descriptor.Class.ID)
	}
}

func TestParseSlices_UnsupportedVersion(t *testing.T) {
	w := container.NewWriter()
	w.WriteInt32(99)
	if _, err := ParseSlices(w.Bytes()); err == nil {
		t.Fatalf("expected an unsupported-version error")
	}
}

func TestParseSlices_V6NoDescriptor(t *testing.T) {
	w := container.NewWriter()
	w.WriteInt32(6)
	for i := 0; i < 4; i++ {
		w.WriteInt32(0)
	}
	w.WriteUnicodeStringPadding("mygroup", 1)
	w.WriteUint32(1) // one block

	// slice block with no trailing descriptor
	w.WriteInt32(0) // id
	w.WriteInt32(0) // group id
	w.WriteInt32(0) // origin
	w.WriteUnicodeStringPadding("slice1", 1)
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

	s, err := ParseSlices(w.Bytes())
	if err != nil {
		t.Fatalf("ParseSlices: %v", err)
	}
	if s.V6 == nil || s.V6.Name != "mygroup" {
		t.Fatalf("slices = %+v, want v6 group mygroup", s)
	}
	if len(s.V6.Blocks) != 1 || s.V6.Blocks[0].Descriptor != nil {
		t.Fatalf("blocks = %+v, want one block with no descriptor", s.V6.Blocks)
	}
}

func TestWriteSlices_RoundTrip(t *testing.T) {
	original, err := ParseSlices(buildSlicesV7(t))
	if err != nil {
		t.Fatalf("ParseSlices: %v", err)
	}

	w := container.NewWriter()
	WriteSlices(w, original)

	got, err := ParseSlices(w.Bytes())
	if err != nil {
		t.Fatalf("ParseSlices after WriteSlices: %v", err)
	}
	if got.Version != original.Version || got.Descriptor.Class.ID != original.Descriptor.Class.ID {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, original)
	}
}
