package descriptor

import (
	"testing"

	"github.com/deepteams/psd/internal/container"
)

// buildSimple hand-assembles a minimal Descriptor byte sequence holding a
// single boolean field, byte-for-byte against the wire layout Parse reads:
// unicode name, class id key, field count, then (key, OS-type, value).
func buildSimple(t *testing.T) []byte {
	t.Helper()
	w := container.NewWriter()
	w.WriteUnicodeString("")     // class name
	w.WriteUint32(0)             // class id length 0
	w.WriteBytes([]byte("nULL")) // class id raw 4 bytes
	w.WriteUint32(1)             // field count
	w.WriteUint32(0)             // key length 0
	w.WriteBytes([]byte("Trnf")) // key raw 4 bytes
	w.WriteBytes([]byte("bool"))
	w.WriteUint8(1)
	return w.Bytes()
}

func TestParse_SingleBooleanField(t *testing.T) {
	c := container.NewCursor(buildSimple(t))
	d, err := Parse(c)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Class.ID != "nULL" {
		t.Fatalf("class id = %q, want nULL", d.Class.ID)
	}
	if len(d.Fields) != 1 {
		t.Fatalf("fields = %d, want 1", len(d.Fields))
	}
	f := d.Fields[0]
	if f.Key != "Trnf" {
		t.Fatalf("key = %q, want Trnf", f.Key)
	}
	if f.Value.Kind != KindBoolean || !f.Value.Boolean {
		t.Fatalf("value = %+v, want boolean true", f.Value)
	}
}

func TestParse_NestedDescriptorAndList(t *testing.T) {
	inner := container.NewWriter()
	inner.WriteUnicodeString("")
	inner.WriteUint32(0)
	inner.WriteBytes([]byte("RGBC"))
	inner.WriteUint32(1)
	inner.WriteUint32(0)
	inner.WriteBytes([]byte("Rd  "))
	inner.WriteBytes([]byte("doub"))
	inner.WriteFloat64(255)

	outer := container.NewWriter()
	outer.WriteUnicodeString("")
	outer.WriteUint32(0)
	outer.WriteBytes([]byte("nULL"))
	outer.WriteUint32(2)

	outer.WriteUint32(0)
	outer.WriteBytes([]byte("Clr "))
	outer.WriteBytes([]byte("Objc"))
	outer.WriteBytes(inner.Bytes())

	outer.WriteUint32(0)
	outer.WriteBytes([]byte("Lst "))
	outer.WriteBytes([]byte("VlLs"))
	outer.WriteUint32(2)
	outer.WriteBytes([]byte("long"))
	outer.WriteInt32(7)
	outer.WriteBytes([]byte("long"))
	outer.WriteInt32(-3)

	c := container.NewCursor(outer.Bytes())
	d, err := Parse(c)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(d.Fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(d.Fields))
	}

	color := d.Fields[0].Value
	if color.Kind != KindDescriptor {
		t.Fatalf("Clr field kind = %v, want KindDescriptor", color.Kind)
	}
	if got := color.Descriptor.Fields[0].Value.Double; got != 255 {
		t.Fatalf("Rd = %v, want 255", got)
	}

	list := d.Fields[1].Value
	if list.Kind != KindList || len(list.List) != 2 {
		t.Fatalf("Lst field = %+v, want a 2-item list", list)
	}
	if list.List[0].Integer != 7 || list.List[1].Integer != -3 {
		t.Fatalf("list values = %v, %v; want 7, -3", list.List[0].Integer, list.List[1].Integer)
	}
}

func TestParse_UnitFloatAndEnumerated(t *testing.T) {
	w := container.NewWriter()
	w.WriteUnicodeString("")
	w.WriteUint32(0)
	w.WriteBytes([]byte("nULL"))
	w.WriteUint32(2)

	w.WriteUint32(0)
	w.WriteBytes([]byte("Angl"))
	w.WriteBytes([]byte("UntF"))
	w.WriteBytes([]byte("#Ang"))
	w.WriteFloat64(45)

	w.WriteUint32(0)
	w.WriteBytes([]byte("Md  "))
	w.WriteBytes([]byte("enum"))
	w.WriteUint32(0)
	w.WriteBytes([]byte("BlnM"))
	w.WriteUint32(0)
	w.WriteBytes([]byte("Nrml"))

	c := container.NewCursor(w.Bytes())
	d, err := Parse(c)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	angle := d.Fields[0].Value
	if angle.Kind != KindUnitFloat || angle.UnitType != UnitAngle || angle.UnitValue != 45 {
		t.Fatalf("Angl = %+v, want UnitAngle 45", angle)
	}

	mode := d.Fields[1].Value
	if mode.Kind != KindEnumerated || mode.EnumTypeID != "BlnM" || mode.EnumValue != "Nrml" {
		t.Fatalf("Md = %+v, want enum BlnM/Nrml", mode)
	}
}

func TestParse_UnknownOSType(t *testing.T) {
	w := container.NewWriter()
	w.WriteUnicodeString("")
	w.WriteUint32(0)
	w.WriteBytes([]byte("nULL"))
	w.WriteUint32(1)
	w.WriteUint32(0)
	w.WriteBytes([]byte("XXXX"))
	w.WriteBytes([]byte("bogs"))

	c := container.NewCursor(w.Bytes())
	if _, err := Parse(c); err == nil {
		t.Fatalf("expected an error for an unrecognized OS-type tag")
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	d := Descriptor{
		Class: ClassID{ID: "nULL"},
		Fields: []Field{
			{Key: "Trnf", Value: Value{Kind: KindBoolean, Boolean: true}},
			{Key: "Opct", Value: Value{Kind: KindDouble, Double: 100}},
			{Key: "Nm  ", Value: Value{Kind: KindString, String: "Layer 1"}},
			{Key: "Id  ", Value: Value{Kind: KindLargeInteger, LargeInteger: 42}},
		},
	}

	w := container.NewWriter()
	Write(w, d)

	c := container.NewCursor(w.Bytes())
	got, err := Parse(c)
	if err != nil {
		t.Fatalf("Parse after Write: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("%d trailing bytes after round trip", c.Len())
	}
	if len(got.Fields) != len(d.Fields) {
		t.Fatalf("fields = %d, want %d", len(got.Fields), len(d.Fields))
	}
	for i, f := range d.Fields {
		if got.Fields[i].Key != f.Key {
			t.Fatalf("field %d key = %q, want %q", i, got.Fields[i].Key, f.Key)
		}
	}
	if got.Fields[2].Value.String != "Layer 1" {
		t.Fatalf("Nm = %q, want Layer 1", got.Fields[2].Value.String)
	}
	if got.Fields[3].Value.LargeInteger != 42 {
		t.Fatalf("Id = %d, want 42", got.Fields[3].Value.LargeInteger)
	}
}

func TestWrite_ReferenceRoundTrip(t *testing.T) {
	d := Descriptor{
		Class: ClassID{ID: "nULL"},
		Fields: []Field{
			{Key: "null", Value: Value{
				Kind: KindReference,
				Reference: []ReferenceItem{
					{Kind: RefIdentifier, Identifier: 3},
					{Kind: RefName, Name: "background"},
					{Kind: RefIndex, Index: 1},
				},
			}},
		},
	}

	w := container.NewWriter()
	Write(w, d)
	c := container.NewCursor(w.Bytes())
	got, err := Parse(c)
	if err != nil {
		t.Fatalf("Parse after Write: %v", err)
	}

	ref := got.Fields[0].Value
	if ref.Kind != KindReference || len(ref.Reference) != 3 {
		t.Fatalf("reference = %+v, want 3 items", ref)
	}
	if ref.Reference[0].Identifier != 3 {
		t.Fatalf("item 0 identifier = %d, want 3", ref.Reference[0].Identifier)
	}
	if ref.Reference[1].Name != "background" {
		t.Fatalf("item 1 name = %q, want background", ref.Reference[1].Name)
	}
	if ref.Reference[2].Index != 1 {
		t.Fatalf("item 2 index = %d, want 1", ref.Reference[2].Index)
	}
}
