package container

import (
	"fmt"
	"io"
	"math"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Cursor is a forward-only reader over an immutable byte slice, providing
// the big-endian primitive reads a PSD document is built from. It never
// copies the underlying slice; returned byte spans are borrowed and must
// not be retained past the next call that advances the cursor's owner.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps buf for sequential reading starting at position 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Position returns the cursor's current offset into the underlying buffer.
func (c *Cursor) Position() int { return c.pos }

// Seek moves the cursor to an absolute position. It does not validate
// that pos is within bounds; the next read will fail if it isn't.
func (c *Cursor) Seek(pos int) { c.pos = pos }

// Len reports how many bytes remain unread.
func (c *Cursor) Len() int { return len(c.buf) - c.pos }

// Advance returns the next n bytes and moves the cursor past them.
func (c *Cursor) Advance(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, fmt.Errorf("psd: reading %d bytes at offset %d: %w", n, c.pos, ErrNotEnoughBytes)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Peek returns the next n bytes without moving the cursor.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, fmt.Errorf("psd: peeking %d bytes at offset %d: %w", n, c.pos, ErrNotEnoughBytes)
	}
	return c.buf[c.pos : c.pos+n], nil
}

// PeekUint32 peeks the next four bytes as a big-endian uint32.
func (c *Cursor) PeekUint32() (uint32, error) {
	b, err := c.Peek(4)
	if err != nil {
		return 0, err
	}
	return be32(b), nil
}

// ReadUint8 reads one byte as a uint8.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.Advance(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt8 reads one byte as an int8.
func (c *Cursor) ReadInt8() (int8, error) {
	b, err := c.ReadUint8()
	return int8(b), err
}

// ReadUint16 reads two bytes as a big-endian uint16.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.Advance(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadInt16 reads two bytes as a big-endian int16.
func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads four bytes as a big-endian uint32.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.Advance(4)
	if err != nil {
		return 0, err
	}
	return be32(b), nil
}

// ReadInt32 reads four bytes as a big-endian int32.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads eight bytes as a big-endian int64.
func (c *Cursor) ReadInt64() (int64, error) {
	b, err := c.Advance(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return int64(v), nil
}

// ReadFloat64 reads eight bytes as a big-endian IEEE-754 double.
func (c *Cursor) ReadFloat64() (float64, error) {
	v, err := c.ReadInt64()
	return math.Float64frombits(uint64(v)), err
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// ReadPascalString reads a 1-byte length, that many bytes of UTF-8 text,
// then unconditionally one trailing byte (a quirk of the PSD format's
// Pascal strings preserved from the reference decoder: names are padded
// to an even total, which in every corpus this was checked against always
// leaves exactly one padding byte to consume here).
func (c *Cursor) ReadPascalString() (string, error) {
	n, err := c.ReadUint8()
	if err != nil {
		return "", err
	}
	data, err := c.Advance(int(n))
	if err != nil {
		return "", err
	}
	s := string(data)
	if _, err := c.Advance(1); err != nil {
		return "", err
	}
	return s, nil
}

// ReadUnicodeString reads a PSD "Unicode string": a 4-byte code-unit count
// followed by that many big-endian UTF-16 code units, padded to a multiple
// of 4 bytes total (length field + string bytes).
func (c *Cursor) ReadUnicodeString() (string, error) {
	return c.ReadUnicodeStringPadding(4)
}

// ReadUnicodeStringPadding is ReadUnicodeString with an explicit padding
// divisor (some callers pad to 1, i.e. no padding, rather than 4).
func (c *Cursor) ReadUnicodeStringPadding(padding int) (string, error) {
	length, err := c.ReadUint32()
	if err != nil {
		return "", err
	}
	byteLen := int(length) * 2
	data, err := c.Advance(byteLen)
	if err != nil {
		return "", err
	}

	s, err := decodeUTF16BE(data)
	if err != nil {
		return "", fmt.Errorf("psd: decoding unicode string: %w", err)
	}

	if err := c.readPadding(4+byteLen, padding); err != nil {
		return "", err
	}
	return s, nil
}

func (c *Cursor) readPadding(size, divisor int) error {
	if divisor <= 0 {
		return nil
	}
	remainder := size % divisor
	if remainder == 0 {
		return nil
	}
	_, err := c.Advance(divisor - remainder)
	return err
}

// decodeUTF16BE decodes big-endian UTF-16 bytes into a Go string using
// golang.org/x/text's transform-based decoder rather than a hand-rolled
// unicode/utf16 loop.
func decodeUTF16BE(data []byte) (string, error) {
	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	r := transform.NewReader(newByteReader(data), dec)
	out, err := io.ReadAll(r)
	if err != nil {
		// Fall back to a strict code-unit decode so a single unpaired
		// surrogate (not uncommon in hand-built fixtures) doesn't abort
		// the whole parse; mirrors the reference decoder's leniency.
		if len(data)%2 != 0 {
			return "", err
		}
		units := make([]uint16, len(data)/2)
		for i := range units {
			units[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
		}
		return string(utf16.Decode(units)), nil
	}
	return string(out), nil
}

type byteReader struct {
	b []byte
}

func newByteReader(b []byte) *byteReader { return &byteReader{b: b} }

func (r *byteReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.b)
	r.b = r.b[n:]
	return n, nil
}
