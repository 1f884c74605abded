package packbits

import "testing"

func TestDecode_Literal(t *testing.T) {
	// header 3 (=> 4 literal bytes), then 4 bytes.
	src := []byte{3, 'a', 'b', 'c', 'd'}
	dst := make([]byte, 4)
	n := Decode(src, dst)
	if n != 4 || string(dst) != "abcd" {
		t.Fatalf("n=%d dst=%q", n, dst)
	}
}

func TestDecode_Repeat(t *testing.T) {
	// header -3 (0xFD -> int8 -3) repeats next byte (1 - (-3)) = 4 times.
	src := []byte{0xFD, 'z'}
	dst := make([]byte, 4)
	n := Decode(src, dst)
	if n != 4 || string(dst) != "zzzz" {
		t.Fatalf("n=%d dst=%q", n, dst)
	}
}

func TestDecode_NoOpHeader(t *testing.T) {
	src := []byte{0x80, 1, 'x', 'y'}
	dst := make([]byte, 2)
	n := Decode(src, dst)
	if n != 2 || string(dst) != "xy" {
		t.Fatalf("n=%d dst=%q", n, dst)
	}
}

func TestDecode_TruncatedHeaderIsSilent(t *testing.T) {
	// A literal header promising 5 bytes but only 2 are present.
	src := []byte{4, 'a', 'b'}
	dst := make([]byte, 5)
	n := Decode(src, dst)
	if n != 2 {
		t.Fatalf("n=%d, want 2", n)
	}
}

func TestDecode_OutOfBoundsWritesDropped(t *testing.T) {
	src := []byte{3, 'a', 'b', 'c', 'd'}
	dst := make([]byte, 2)
	n := Decode(src, dst)
	if n != 4 {
		t.Fatalf("n=%d, want 4", n)
	}
	if string(dst) != "ab" {
		t.Fatalf("dst=%q, want \"ab\"", dst)
	}
}

func TestReader_RoundTripAgainstHandEncoded(t *testing.T) {
	// Mixed literal + repeat run encoding "aaaaaXYZ".
	src := []byte{
		0xFC, 'a', // repeat 'a' (1-(-4))=5 times
		2, 'X', 'Y', 'Z', // literal run of 3
	}
	r := NewReader(src)
	var got []byte
	for {
		b, ok := r.ReadByte()
		if !ok {
			break
		}
		got = append(got, b)
	}
	want := "aaaaaXYZ"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func FuzzDecode(f *testing.F) {
	f.Add([]byte{3, 'a', 'b', 'c', 'd'})
	f.Add([]byte{0xFD, 'z'})
	f.Add([]byte{0x80})
	f.Fuzz(func(t *testing.T, src []byte) {
		dst := make([]byte, 1024)
		// Must never panic, regardless of input.
		_ = Decode(src, dst)
	})
}
