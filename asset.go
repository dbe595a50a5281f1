package objscale

import (
	"encoding/binary"
	"math"

	gobj "github.com/flywave/go-obj"
	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

const (
	VertexAttributePosition          = "position"
	VertexAttributeNormal            = "normal"
	VertexAttributeTextureCoordinate = "textureCoordinate"
)

type VertexFormat int

const (
	FormatInvalid VertexFormat = iota
	FormatFloat2
	FormatFloat3
)

// Size returns the byte size of one vector in the format.
func (f VertexFormat) Size() int {
	switch f {
	case FormatFloat2:
		return 8
	case FormatFloat3:
		return 12
	}
	return 0
}

type VertexAttribute struct {
	Name   string
	Format VertexFormat
	Offset int
}

// VertexDescriptor describes the layout of one interleaved vertex.
type VertexDescriptor struct {
	Attributes []VertexAttribute
	Stride     int
}

func (d *VertexDescriptor) Attribute(name string) (VertexAttribute, bool) {
	for _, a := range d.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return VertexAttribute{}, false
}

// Mesh is one sub-object of an Asset. VertexBuffer holds VertexCount
// interleaved vertices laid out by Descriptor; Faces index into them.
type Mesh struct {
	Name         string
	Material     string
	VertexCount  int
	Descriptor   VertexDescriptor
	VertexBuffer []byte
	Faces        [][]uint32
}

// VertexAttributeData returns a strided view on the named attribute, or
// false when the mesh has no such attribute in the requested format.
func (m *Mesh) VertexAttributeData(name string, format VertexFormat) (*VertexAttributeData, bool) {
	attr, ok := m.Descriptor.Attribute(name)
	if !ok || attr.Format != format {
		return nil, false
	}
	return &VertexAttributeData{
		data:   m.VertexBuffer,
		Offset: attr.Offset,
		Stride: m.Descriptor.Stride,
		Format: format,
		Count:  m.VertexCount,
	}, true
}

func (m *Mesh) HasAttribute(name string) bool {
	_, ok := m.Descriptor.Attribute(name)
	return ok
}

// VertexAttributeData addresses vector i at Offset + i*Stride in the
// underlying buffer. Writes go straight to the mesh buffer.
type VertexAttributeData struct {
	data   []byte
	Offset int
	Stride int
	Format VertexFormat
	Count  int
}

func (a *VertexAttributeData) at(i int) int {
	return a.Offset + i*a.Stride
}

func (a *VertexAttributeData) Float3(i int) vec3.T {
	p := a.at(i)
	return vec3.T{
		getFloat(a.data[p:]),
		getFloat(a.data[p+4:]),
		getFloat(a.data[p+8:]),
	}
}

func (a *VertexAttributeData) SetFloat3(i int, v vec3.T) {
	p := a.at(i)
	putFloat(a.data[p:], v[0])
	putFloat(a.data[p+4:], v[1])
	putFloat(a.data[p+8:], v[2])
}

func (a *VertexAttributeData) Float2(i int) vec2.T {
	p := a.at(i)
	return vec2.T{getFloat(a.data[p:]), getFloat(a.data[p+4:])}
}

func (a *VertexAttributeData) SetFloat2(i int, v vec2.T) {
	p := a.at(i)
	putFloat(a.data[p:], v[0])
	putFloat(a.data[p+4:], v[1])
}

func getFloat(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func putFloat(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
}

// Texture is a texture reference from the material library and the file it
// resolved to on disk.
type Texture struct {
	Name string
	Path string
}

// Asset is everything loaded from one source file.
type Asset struct {
	Path        string
	MaterialLib string
	Materials   map[string]*gobj.Material
	Textures    []Texture
	Meshes      []*Mesh
}

// VertexCount sums the vertex counts of all meshes.
func (a *Asset) VertexCount() int {
	n := 0
	for _, m := range a.Meshes {
		n += m.VertexCount
	}
	return n
}

// Bounds returns the box around every position in the asset.
func (a *Asset) Bounds() vec3d.Box {
	bbox := vec3d.MinBox
	for _, m := range a.Meshes {
		pos, ok := m.VertexAttributeData(VertexAttributePosition, FormatFloat3)
		if !ok {
			continue
		}
		for i := 0; i < m.VertexCount; i++ {
			p := pos.Float3(i)
			bbox.Extend(&vec3d.T{float64(p[0]), float64(p[1]), float64(p[2])})
		}
	}
	return bbox
}

// TexturePath returns the resolved file for a texture reference, or "".
func (a *Asset) TexturePath(name string) string {
	for _, t := range a.Textures {
		if t.Name == name {
			return t.Path
		}
	}
	return ""
}
