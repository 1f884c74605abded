package layer

import "github.com/deepteams/psd/internal/blend"

// Properties are the attributes shared by both pixel layers and groups.
type Properties struct {
	Name         string
	Top          int32
	Left         int32
	Bottom       int32
	Right        int32
	Visible      bool
	Opacity      uint8
	ClippingMask bool
	BlendMode    blend.Mode
	// GroupID is the id of the enclosing group, or 0 at the document root.
	GroupID   uint32
	PSDWidth  uint32
	PSDHeight uint32
}

// Width is the layer's pixel width, inclusive of both edges.
func (p Properties) Width() uint16 { return uint16(p.Right-p.Left) + 1 }

// Height is the layer's pixel height, inclusive of both edges.
func (p Properties) Height() uint16 { return uint16(p.Bottom-p.Top) + 1 }

func propertiesFromRecord(r record, psdWidth, psdHeight uint32, groupID uint32) Properties {
	return Properties{
		Name:         r.name,
		Top:          r.top,
		Left:         r.left,
		Bottom:       r.bottom,
		Right:        r.right,
		Visible:      r.visible,
		Opacity:      r.opacity,
		ClippingMask: r.clippingBase,
		BlendMode:    r.blendMode,
		GroupID:      groupID,
		PSDWidth:     psdWidth,
		PSDHeight:    psdHeight,
	}
}

// Layer is a single pixel layer: its properties plus its per-channel pixel
// payloads.
type Layer struct {
	Properties
	Channels map[Kind]Data
}

// Compression reports how a given channel's pixel data was encoded.
func (l *Layer) Compression(kind Kind) (Compression, bool) {
	d, ok := l.Channels[kind]
	if !ok {
		return 0, false
	}
	if d.RLE {
		return CompressionRLE, true
	}
	return CompressionRaw, true
}

// RGBA assembles this layer's channels into a full-document-sized RGBA
// buffer (width*height*4 bytes), positioning the layer's own pixels at
// their document-relative location. Everything else is transparent black
// when the layer has a transparency mask; a layer without one is given
// alpha 255 across the whole buffer, so the area outside it is opaque black.
func (l *Layer) RGBA() ([]byte, error) {
	return assembleDocumentRGBA(l.Properties, l.Channels)
}

// Group is a named, ordered span of layers nested inside a Photoshop
// "folder." Groups can nest, tracked via Properties.GroupID/ID.
type Group struct {
	Properties
	ID uint32
	// Range is the [start, end) span of sibling-order layer indices
	// (within the document's bottom-to-top Layers list) this group
	// encloses.
	Range [2]int
}

// Layers is the document's bottom-to-top ordered list of pixel layers,
// indexable by both position and name.
type Layers struct {
	items   []*Layer
	indices map[string]int
}

func newLayers(capacity int) *Layers {
	return &Layers{
		items:   make([]*Layer, 0, capacity),
		indices: make(map[string]int, capacity),
	}
}

// Len reports how many layers the document has.
func (l *Layers) Len() int { return len(l.items) }

// At returns the layer at bottom-to-up position i.
func (l *Layers) At(i int) *Layer { return l.items[i] }

// ByName returns the layer with the given name, if more than one layer
// shares a name the most recently pushed one wins (matching real-world
// documents where later/duplicate names simply shadow earlier ones).
func (l *Layers) ByName(name string) (*Layer, bool) {
	idx, ok := l.indices[name]
	if !ok {
		return nil, false
	}
	return l.items[idx], true
}

func (l *Layers) push(lay *Layer) {
	l.items = append(l.items, lay)
	l.indices[lay.Name] = len(l.items) - 1
}

// Groups is the document's group tree, indexed by group id.
type Groups struct {
	byID  map[uint32]*Group
	order []uint32
}

func newGroups(capacity int) *Groups {
	return &Groups{
		byID:  make(map[uint32]*Group, capacity),
		order: make([]uint32, 0, capacity),
	}
}

// ByID returns the group with the given id.
func (g *Groups) ByID(id uint32) (*Group, bool) {
	grp, ok := g.byID[id]
	return grp, ok
}

// IDsInOrder returns group ids in the order their closing "bounding
// section" marker was encountered, bottom to top in the document.
func (g *Groups) IDsInOrder() []uint32 { return g.order }

func (g *Groups) push(grp *Group) {
	g.order = append(g.order, grp.ID)
	g.byID[grp.ID] = grp
}
