package container

import (
	"bytes"
	"math"

	"golang.org/x/text/encoding/unicode"
)

// Writer accumulates the big-endian byte encoding of a PSD structure. It is
// the write-side counterpart to Cursor, used by the Descriptor and Slices
// serializers.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len reports how many bytes have been written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// WriteBytes appends b verbatim.
func (w *Writer) WriteBytes(b []byte) { w.buf.Write(b) }

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(v uint8) { w.buf.WriteByte(v) }

// WriteUint16 appends v as a big-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	w.buf.Write([]byte{byte(v >> 8), byte(v)})
}

// WriteInt16 appends v as a big-endian int16.
func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

// WriteUint32 appends v as a big-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	w.buf.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

// WriteInt32 appends v as a big-endian int32.
func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }

// WriteInt64 appends v as a big-endian int64.
func (w *Writer) WriteInt64(v int64) {
	u := uint64(v)
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(u)
		u >>= 8
	}
	w.buf.Write(b)
}

// WriteFloat64 appends v as a big-endian IEEE-754 double.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteInt64(int64(math.Float64bits(v)))
}

// WritePascalString writes a 1-byte length, the UTF-8 bytes of s truncated
// to 255 bytes, then the single unconditional padding byte ReadPascalString
// expects on the way back in.
func (w *Writer) WritePascalString(s string) {
	b := []byte(s)
	if len(b) > 255 {
		b = b[:255]
	}
	w.WriteUint8(uint8(len(b)))
	w.buf.Write(b)
	w.WriteUint8(0)
}

// WriteUnicodeString writes s as a PSD "Unicode string": a 4-byte code-unit
// count, its UTF-16BE encoding, then padding to a multiple of 4 bytes total
// (length field + string bytes) — the inverse of ReadUnicodeString.
func (w *Writer) WriteUnicodeString(s string) {
	w.WriteUnicodeStringPadding(s, 4)
}

// WriteUnicodeStringPadding is WriteUnicodeString with an explicit padding
// divisor.
func (w *Writer) WriteUnicodeStringPadding(s string, padding int) {
	units := encodeUTF16BE(s)
	w.WriteUint32(uint32(len(units) / 2))
	w.buf.Write(units)
	if padding <= 0 {
		return
	}
	size := 4 + len(units)
	if r := size % padding; r != 0 {
		w.buf.Write(make([]byte, padding-r))
	}
}

// encodeUTF16BE is the write-side mirror of decodeUTF16BE: the same
// golang.org/x/text codec, run in the encoding direction.
func encodeUTF16BE(s string) []byte {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		// s is always a valid Go string (valid UTF-8 or ASCII literal at
		// call sites), so the encoder cannot fail in practice.
		return nil
	}
	return out
}
