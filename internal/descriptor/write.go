package descriptor

import "github.com/deepteams/psd/internal/container"

// Write serializes d in the exact layout Parse reads: class id, field
// count, then each (key, OS-type tag, value) triple.
func Write(w *container.Writer, d Descriptor) {
	writeClassID(w, d.Class)
	w.WriteUint32(uint32(len(d.Fields)))
	for _, f := range d.Fields {
		writeKey(w, f.Key)
		writeValue(w, f.Value)
	}
}

func writeClassID(w *container.Writer, c ClassID) {
	w.WriteUnicodeString(c.Name)
	writeKey(w, c.ID)
}

// writeKey writes a length-prefixed key, except that a 4-byte key always
// round-trips through the zero-length/raw-4-bytes form Parse's readKey
// accepts, matching what real PSD writers emit for OS-type-shaped class ids.
func writeKey(w *container.Writer, key string) {
	if len(key) == 4 {
		w.WriteUint32(0)
		w.WriteBytes([]byte(key))
		return
	}
	w.WriteUint32(uint32(len(key)))
	w.WriteBytes([]byte(key))
}

func writeOSType(w *container.Writer, tag string) {
	b := []byte(tag)
	for len(b) < 4 {
		b = append(b, ' ')
	}
	w.WriteBytes(b[:4])
}

func writeValue(w *container.Writer, v Value) {
	switch v.Kind {
	case KindReference:
		writeOSType(w, "obj ")
		w.WriteUint32(uint32(len(v.Reference)))
		for _, item := range v.Reference {
			writeReferenceItem(w, item)
		}

	case KindDescriptor:
		writeOSType(w, "Objc")
		Write(w, *v.Descriptor)

	case KindList:
		writeOSType(w, "VlLs")
		w.WriteUint32(uint32(len(v.List)))
		for _, item := range v.List {
			writeValue(w, item)
		}

	case KindDouble:
		writeOSType(w, "doub")
		w.WriteFloat64(v.Double)

	case KindUnitFloat:
		writeOSType(w, "UntF")
		writeOSType(w, unitNames[v.UnitType])
		w.WriteFloat64(v.UnitValue)

	case KindString:
		writeOSType(w, "TEXT")
		w.WriteUnicodeString(v.String)

	case KindEnumerated:
		writeOSType(w, "enum")
		writeKey(w, v.EnumTypeID)
		writeKey(w, v.EnumValue)

	case KindInteger:
		writeOSType(w, "long")
		w.WriteInt32(v.Integer)

	case KindLargeInteger:
		writeOSType(w, "comp")
		w.WriteInt64(v.LargeInteger)

	case KindBoolean:
		writeOSType(w, "bool")
		if v.Boolean {
			w.WriteUint8(1)
		} else {
			w.WriteUint8(0)
		}

	case KindClass:
		writeOSType(w, "type")
		writeClassID(w, v.Class)

	case KindAlias:
		writeOSType(w, "alis")
		w.WriteUint32(uint32(len(v.Alias)))
		w.WriteBytes(v.Alias)

	case KindRawData:
		writeOSType(w, "tdta")
		w.WriteUint32(uint32(len(v.RawData)))
		w.WriteBytes(v.RawData)
	}
}

func writeReferenceItem(w *container.Writer, item ReferenceItem) {
	switch item.Kind {
	case RefProperty:
		writeOSType(w, "prop")
		writeClassID(w, item.PropertyClass)
		writeKey(w, item.PropertyKey)

	case RefClass:
		writeOSType(w, "Clss")
		writeClassID(w, item.ClassValue)

	case RefEnumeratedReference:
		writeOSType(w, "Enmr")
		writeClassID(w, item.EnumRefClass)
		writeKey(w, item.EnumRefType)
		writeKey(w, item.EnumRefValue)

	case RefOffset:
		writeOSType(w, "rele")
		writeClassID(w, item.OffsetClass)
		w.WriteInt32(item.OffsetValue)

	case RefIdentifier:
		writeOSType(w, "Idnt")
		w.WriteInt32(item.Identifier)

	case RefIndex:
		writeOSType(w, "indx")
		w.WriteInt32(item.Index)

	case RefName:
		writeOSType(w, "name")
		w.WriteUnicodeString(item.Name)
	}
}
