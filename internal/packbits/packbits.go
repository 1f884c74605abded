// Package packbits decodes the PackBits run-length scheme PSD uses for
// both the final image-data section's scanlines and per-layer channel
// data.
package packbits

// Decode runs PackBits decompression over src, writing decoded bytes into
// dst starting at offset 0 and returning the number of bytes decoded,
// which exceeds len(dst) when some were dropped.
// Writes past len(dst) are silently dropped rather than causing a panic
// or error, matching the reference decoder's defensive handling of
// malformed or truncated channel data.
func Decode(src []byte, dst []byte) int {
	r := NewReader(src)
	n := 0
	for {
		b, ok := r.ReadByte()
		if !ok {
			break
		}
		if n < len(dst) {
			dst[n] = b
		}
		n++
	}
	return n
}

// Reader yields PackBits-decoded bytes one at a time, on demand, so a
// caller can stop early without decoding a whole channel's worth of data.
type Reader struct {
	src []byte
	pos int

	literalRemaining int
	repeatByte       byte
	repeatRemaining  int
}

// NewReader returns a Reader decoding src.
func NewReader(src []byte) *Reader {
	return &Reader{src: src}
}

// ReadByte returns the next decoded byte, or ok=false at end of stream.
// A truncated trailing header (no room for its promised literal/repeat
// bytes) ends the stream silently rather than failing.
func (r *Reader) ReadByte() (byte, bool) {
	for {
		if r.literalRemaining > 0 {
			if r.pos >= len(r.src) {
				r.literalRemaining = 0
				continue
			}
			b := r.src[r.pos]
			r.pos++
			r.literalRemaining--
			return b, true
		}
		if r.repeatRemaining > 0 {
			r.repeatRemaining--
			return r.repeatByte, true
		}

		if r.pos >= len(r.src) {
			return 0, false
		}
		h := int8(r.src[r.pos])
		r.pos++

		switch {
		case h == -128:
			// No-op header, advance and try again.
			continue
		case h >= 0:
			r.literalRemaining = int(h) + 1
		default:
			if r.pos >= len(r.src) {
				return 0, false
			}
			r.repeatByte = r.src[r.pos]
			r.pos++
			r.repeatRemaining = 1 - int(h)
		}
	}
}
