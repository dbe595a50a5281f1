package objscale

import (
	"testing"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// interleavedMesh builds a mesh with position, normal and texcoord packed in
// one 32 byte stride.
func interleavedMesh(positions, normals []vec3.T, uvs []vec2.T) *Mesh {
	m := &Mesh{
		Name:        "interleaved",
		VertexCount: len(positions),
		Descriptor:  newDescriptor(true, true),
	}
	m.VertexBuffer = make([]byte, m.VertexCount*m.Descriptor.Stride)
	pos, _ := m.VertexAttributeData(VertexAttributePosition, FormatFloat3)
	nrm, _ := m.VertexAttributeData(VertexAttributeNormal, FormatFloat3)
	tex, _ := m.VertexAttributeData(VertexAttributeTextureCoordinate, FormatFloat2)
	for i := range positions {
		pos.SetFloat3(i, positions[i])
		nrm.SetFloat3(i, normals[i])
		tex.SetFloat2(i, uvs[i])
	}
	return m
}

func TestVertexFormatSize(t *testing.T) {
	tests := []struct {
		format VertexFormat
		want   int
	}{
		{FormatInvalid, 0},
		{FormatFloat2, 8},
		{FormatFloat3, 12},
	}
	for _, tt := range tests {
		if got := tt.format.Size(); got != tt.want {
			t.Errorf("VertexFormat(%d).Size() = %d, want %d", tt.format, got, tt.want)
		}
	}
}

func TestNewDescriptor(t *testing.T) {
	tests := []struct {
		name           string
		normal, tex    bool
		stride         int
		normalOffset   int
		texCoordOffset int
	}{
		{"position only", false, false, 12, -1, -1},
		{"with normal", true, false, 24, 12, -1},
		{"with texcoord", false, true, 20, -1, 12},
		{"all", true, true, 32, 12, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDescriptor(tt.normal, tt.tex)
			if d.Stride != tt.stride {
				t.Errorf("Stride = %d, want %d", d.Stride, tt.stride)
			}
			if a, ok := d.Attribute(VertexAttributePosition); !ok || a.Offset != 0 {
				t.Errorf("position attribute = %+v, %v", a, ok)
			}
			a, ok := d.Attribute(VertexAttributeNormal)
			if ok != (tt.normalOffset >= 0) || (ok && a.Offset != tt.normalOffset) {
				t.Errorf("normal attribute = %+v, %v", a, ok)
			}
			a, ok = d.Attribute(VertexAttributeTextureCoordinate)
			if ok != (tt.texCoordOffset >= 0) || (ok && a.Offset != tt.texCoordOffset) {
				t.Errorf("texcoord attribute = %+v, %v", a, ok)
			}
		})
	}
}

func TestVertexAttributeDataStride(t *testing.T) {
	m := interleavedMesh(
		[]vec3.T{{1, 2, 3}, {4, 5, 6}},
		[]vec3.T{{0, 0, 1}, {0, 1, 0}},
		[]vec2.T{{0.5, 0.25}, {1, 0}},
	)
	if len(m.VertexBuffer) != 64 {
		t.Fatalf("buffer length = %d, want 64", len(m.VertexBuffer))
	}

	pos, ok := m.VertexAttributeData(VertexAttributePosition, FormatFloat3)
	if !ok {
		t.Fatal("missing position attribute")
	}
	if pos.Stride != 32 || pos.Offset != 0 || pos.Count != 2 {
		t.Errorf("position view = %+v", pos)
	}
	if got := pos.Float3(1); got != (vec3.T{4, 5, 6}) {
		t.Errorf("Float3(1) = %v, want [4 5 6]", got)
	}

	nrm, _ := m.VertexAttributeData(VertexAttributeNormal, FormatFloat3)
	if got := nrm.Float3(1); got != (vec3.T{0, 1, 0}) {
		t.Errorf("normal Float3(1) = %v, want [0 1 0]", got)
	}
	tex, _ := m.VertexAttributeData(VertexAttributeTextureCoordinate, FormatFloat2)
	if got := tex.Float2(0); got != (vec2.T{0.5, 0.25}) {
		t.Errorf("texcoord Float2(0) = %v, want [0.5 0.25]", got)
	}
}

func TestVertexAttributeDataWrongFormat(t *testing.T) {
	m := interleavedMesh([]vec3.T{{1, 2, 3}}, []vec3.T{{0, 0, 1}}, []vec2.T{{0, 0}})
	if _, ok := m.VertexAttributeData(VertexAttributePosition, FormatFloat2); ok {
		t.Error("position fetched as float2")
	}
	if _, ok := m.VertexAttributeData("color", FormatFloat3); ok {
		t.Error("unknown attribute fetched")
	}
}

func TestAssetBounds(t *testing.T) {
	a := &Asset{Meshes: []*Mesh{
		interleavedMesh(
			[]vec3.T{{-1, 2, 0}, {3, -4, 5}},
			[]vec3.T{{0, 0, 1}, {0, 0, 1}},
			[]vec2.T{{0, 0}, {0, 0}},
		),
		{Name: "no positions", VertexCount: 3},
	}}

	b := a.Bounds()
	if b.Min[0] != -1 || b.Min[1] != -4 || b.Min[2] != 0 {
		t.Errorf("Min = %v", b.Min)
	}
	if b.Max[0] != 3 || b.Max[1] != 2 || b.Max[2] != 5 {
		t.Errorf("Max = %v", b.Max)
	}
	if got := a.VertexCount(); got != 5 {
		t.Errorf("VertexCount() = %d, want 5", got)
	}
}

func TestAssetTexturePath(t *testing.T) {
	a := &Asset{Textures: []Texture{{Name: "wood.png", Path: "/tmp/wood.png"}}}
	if got := a.TexturePath("wood.png"); got != "/tmp/wood.png" {
		t.Errorf("TexturePath() = %q", got)
	}
	if got := a.TexturePath("stone.png"); got != "" {
		t.Errorf("TexturePath(missing) = %q, want empty", got)
	}
}
