// Package descriptor parses (and serializes) PSD's self-describing,
// arbitrarily nested "Descriptor" structure, used by the Slices image
// resource and by several other resource/action-script payloads.
package descriptor

import (
	"errors"
	"fmt"

	"github.com/deepteams/psd/internal/container"
)

// Kind identifies which of the 13 field kinds a Value holds; the 15
// recognized OS-type tags map onto these.
type Kind int

const (
	KindReference Kind = iota
	KindDescriptor
	KindList
	KindDouble
	KindUnitFloat
	KindString
	KindEnumerated
	KindInteger
	KindLargeInteger
	KindBoolean
	KindClass
	KindAlias
	KindRawData
)

// UnitFloatType identifies the unit a UnitFloat value is expressed in.
type UnitFloatType int

const (
	UnitAngle UnitFloatType = iota
	UnitDensity
	UnitDistance
	UnitNone
	UnitPercent
	UnitPixels
)

var unitTags = map[string]UnitFloatType{
	"#Ang": UnitAngle,
	"#Rsl": UnitDensity,
	"#Rlt": UnitDistance,
	"#Nne": UnitNone,
	"#Prc": UnitPercent,
	"#Pxl": UnitPixels,
}

var unitNames = func() map[UnitFloatType]string {
	m := make(map[UnitFloatType]string, len(unitTags))
	for k, v := range unitTags {
		m[v] = k
	}
	return m
}()

// ErrInvalidTypeOS is returned when a field's 4-byte OS-type tag doesn't
// match any of the 15 recognized Descriptor field OS-types.
var ErrInvalidTypeOS = errors.New("psd: invalid descriptor field OS-type")

// ErrInvalidUnitName is returned when a UnitFloat's unit tag is unrecognized.
var ErrInvalidUnitName = errors.New("psd: invalid unit-float tag")

// ClassID identifies a Descriptor's or Class value's class: a name
// (possibly empty) plus either a textual key or, when the on-disk key
// length was zero, a raw 4-byte identifier.
type ClassID struct {
	Name string
	ID   string
}

// Descriptor is PSD's self-describing nested attribute structure.
type Descriptor struct {
	Class  ClassID
	Fields []Field
}

// Field is one key/value pair inside a Descriptor.
type Field struct {
	Key   string
	Value Value
}

// Value is a typed Descriptor field value. Only the members relevant to
// Kind are populated.
type Value struct {
	Kind Kind

	Double float64

	UnitType  UnitFloatType
	UnitValue float64

	String string

	EnumTypeID string
	EnumValue  string

	Integer int32

	LargeInteger int64

	Boolean bool

	Class ClassID

	Alias []byte

	RawData []byte

	List []Value

	Descriptor *Descriptor

	Reference []ReferenceItem
}

// ReferenceKind identifies one of the seven OS-types nested Reference
// items may hold.
type ReferenceKind int

const (
	RefProperty ReferenceKind = iota
	RefClass
	RefEnumeratedReference
	RefOffset
	RefIdentifier
	RefIndex
	RefName
)

// ReferenceItem is one entry of a Reference field's item list.
type ReferenceItem struct {
	Kind ReferenceKind

	// Property
	PropertyClass ClassID
	PropertyKey   string

	// Class
	ClassValue ClassID

	// EnumeratedReference
	EnumRefClass ClassID
	EnumRefType  string
	EnumRefValue string

	// Offset
	OffsetClass ClassID
	OffsetValue int32

	Identifier int32
	Index      int32
	Name       string
}

// Parse reads a single Descriptor structure: a unicode name, a class id
// key, a field count, then that many (key, OS-type, value) triples.
func Parse(c *container.Cursor) (Descriptor, error) {
	class, err := readClassID(c)
	if err != nil {
		return Descriptor{}, fmt.Errorf("psd: descriptor class id: %w", err)
	}

	count, err := c.ReadUint32()
	if err != nil {
		return Descriptor{}, err
	}

	fields := make([]Field, 0, count)
	for i := uint32(0); i < count; i++ {
		key, err := readKey(c)
		if err != nil {
			return Descriptor{}, fmt.Errorf("psd: descriptor field %d key: %w", i, err)
		}
		val, err := readValue(c)
		if err != nil {
			return Descriptor{}, fmt.Errorf("psd: descriptor field %q: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: val})
	}

	return Descriptor{Class: class, Fields: fields}, nil
}

func readClassID(c *container.Cursor) (ClassID, error) {
	name, err := c.ReadUnicodeString()
	if err != nil {
		return ClassID{}, err
	}
	id, err := readKey(c)
	if err != nil {
		return ClassID{}, err
	}
	return ClassID{Name: name, ID: id}, nil
}

// readKey reads a length-prefixed key; when the length is zero the key is
// instead the following 4 raw bytes (an OS-type-shaped class id), per the
// reference decoder's read_key_length.
func readKey(c *container.Cursor) (string, error) {
	length, err := c.ReadUint32()
	if err != nil {
		return "", err
	}
	if length == 0 {
		b, err := c.Advance(4)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := c.Advance(int(length))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readOSType(c *container.Cursor) (string, error) {
	b, err := c.Advance(4)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readValue(c *container.Cursor) (Value, error) {
	tag, err := readOSType(c)
	if err != nil {
		return Value{}, err
	}

	switch tag {
	case "obj ":
		items, err := readReference(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindReference, Reference: items}, nil

	case "Objc", "GlbO":
		d, err := Parse(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindDescriptor, Descriptor: &d}, nil

	case "VlLs":
		list, err := readList(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindList, List: list}, nil

	case "doub":
		v, err := c.ReadFloat64()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindDouble, Double: v}, nil

	case "UntF":
		unitTag, err := readOSType(c)
		if err != nil {
			return Value{}, err
		}
		unit, ok := unitTags[unitTag]
		if !ok {
			return Value{}, fmt.Errorf("psd: unit tag %q: %w", unitTag, ErrInvalidUnitName)
		}
		v, err := c.ReadFloat64()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindUnitFloat, UnitType: unit, UnitValue: v}, nil

	case "TEXT":
		s, err := c.ReadUnicodeString()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, String: s}, nil

	case "enum":
		typeID, err := readKey(c)
		if err != nil {
			return Value{}, err
		}
		enumValue, err := readKey(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindEnumerated, EnumTypeID: typeID, EnumValue: enumValue}, nil

	case "long":
		v, err := c.ReadInt32()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindInteger, Integer: v}, nil

	case "comp":
		v, err := c.ReadInt64()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindLargeInteger, LargeInteger: v}, nil

	case "bool":
		v, err := c.ReadUint8()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBoolean, Boolean: v != 0}, nil

	case "type", "GlbC":
		class, err := readClassID(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindClass, Class: class}, nil

	case "alis":
		length, err := c.ReadUint32()
		if err != nil {
			return Value{}, err
		}
		b, err := c.Advance(int(length))
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindAlias, Alias: append([]byte(nil), b...)}, nil

	case "tdta":
		length, err := c.ReadUint32()
		if err != nil {
			return Value{}, err
		}
		b, err := c.Advance(int(length))
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindRawData, RawData: append([]byte(nil), b...)}, nil

	default:
		return Value{}, fmt.Errorf("psd: tag %q: %w", tag, ErrInvalidTypeOS)
	}
}

func readList(c *container.Cursor) ([]Value, error) {
	count, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	list := make([]Value, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := readValue(c)
		if err != nil {
			return nil, fmt.Errorf("psd: list item %d: %w", i, err)
		}
		list = append(list, v)
	}
	return list, nil
}

func readReference(c *container.Cursor) ([]ReferenceItem, error) {
	count, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	items := make([]ReferenceItem, 0, count)
	for i := uint32(0); i < count; i++ {
		item, err := readReferenceItem(c)
		if err != nil {
			return nil, fmt.Errorf("psd: reference item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func readReferenceItem(c *container.Cursor) (ReferenceItem, error) {
	tag, err := readOSType(c)
	if err != nil {
		return ReferenceItem{}, err
	}

	switch tag {
	case "prop":
		class, err := readClassID(c)
		if err != nil {
			return ReferenceItem{}, err
		}
		key, err := readKey(c)
		if err != nil {
			return ReferenceItem{}, err
		}
		return ReferenceItem{Kind: RefProperty, PropertyClass: class, PropertyKey: key}, nil

	case "Clss":
		class, err := readClassID(c)
		if err != nil {
			return ReferenceItem{}, err
		}
		return ReferenceItem{Kind: RefClass, ClassValue: class}, nil

	case "Enmr":
		class, err := readClassID(c)
		if err != nil {
			return ReferenceItem{}, err
		}
		typeID, err := readKey(c)
		if err != nil {
			return ReferenceItem{}, err
		}
		value, err := readKey(c)
		if err != nil {
			return ReferenceItem{}, err
		}
		return ReferenceItem{Kind: RefEnumeratedReference, EnumRefClass: class, EnumRefType: typeID, EnumRefValue: value}, nil

	case "rele":
		class, err := readClassID(c)
		if err != nil {
			return ReferenceItem{}, err
		}
		v, err := c.ReadInt32()
		if err != nil {
			return ReferenceItem{}, err
		}
		return ReferenceItem{Kind: RefOffset, OffsetClass: class, OffsetValue: v}, nil

	case "Idnt":
		v, err := c.ReadInt32()
		if err != nil {
			return ReferenceItem{}, err
		}
		return ReferenceItem{Kind: RefIdentifier, Identifier: v}, nil

	case "indx":
		v, err := c.ReadInt32()
		if err != nil {
			return ReferenceItem{}, err
		}
		return ReferenceItem{Kind: RefIndex, Index: v}, nil

	case "name":
		s, err := c.ReadUnicodeString()
		if err != nil {
			return ReferenceItem{}, err
		}
		return ReferenceItem{Kind: RefName, Name: s}, nil

	default:
		return ReferenceItem{}, fmt.Errorf("psd: reference tag %q: %w", tag, ErrInvalidTypeOS)
	}
}
