package objscale

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/flywave/gltf"
	"github.com/flywave/gltf/modeler"
	"github.com/flywave/go3d/vec2"
)

// GltfExporter writes an Asset as glTF 2.0, embedded JSON or GLB.
type GltfExporter struct {
	Binary bool
}

func (e *GltfExporter) Export(asset *Asset, path string) error {
	doc := e.ToDocument(asset)
	if !e.Binary {
		for _, b := range doc.Buffers {
			b.EmbeddedResource()
		}
	}
	err := writeFileAtomic(path, func(w io.Writer) error {
		enc := gltf.NewEncoder(w)
		enc.AsBinary = e.Binary
		return enc.Encode(doc)
	})
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

// ToDocument builds one glTF mesh holding a primitive per mesh with faces.
func (e *GltfExporter) ToDocument(asset *Asset) *gltf.Document {
	doc := gltf.NewDocument()
	gm := &gltf.Mesh{Name: strings.TrimSuffix(filepath.Base(asset.Path), filepath.Ext(asset.Path))}

	materials := make(map[string]uint32)
	for _, m := range asset.Meshes {
		pos, ok := m.VertexAttributeData(VertexAttributePosition, FormatFloat3)
		if !ok || len(m.Faces) == 0 {
			continue
		}

		positions := make([][3]float32, m.VertexCount)
		for i := range positions {
			positions[i] = pos.Float3(i)
		}
		var indices []uint32
		for _, face := range m.Faces {
			for _, tri := range triangulateFace(face) {
				indices = append(indices, tri[0], tri[1], tri[2])
			}
		}

		attrs := map[string]uint32{
			gltf.POSITION: modeler.WritePosition(doc, positions),
		}
		if nrm, ok := m.VertexAttributeData(VertexAttributeNormal, FormatFloat3); ok {
			normals := make([][3]float32, m.VertexCount)
			for i := range normals {
				normals[i] = [3]float32(nrm.Float3(i))
			}
			attrs[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
		}
		if tex, ok := m.VertexAttributeData(VertexAttributeTextureCoordinate, FormatFloat2); ok {
			uvs := make([][2]float32, m.VertexCount)
			for i := range uvs {
				uv := tex.Float2(i)
				// OBJ v runs bottom-up, glTF top-down
				uvs[i] = [2]float32(vec2.T{uv[0], 1 - uv[1]})
			}
			attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
		}

		prim := &gltf.Primitive{
			Indices:  gltf.Index(modeler.WriteIndices(doc, indices)),
			Material: gltf.Index(e.material(doc, materials, m.Material)),
		}
		prim.Attributes = attrs
		gm.Primitives = append(gm.Primitives, prim)
	}

	if len(gm.Primitives) == 0 {
		return doc
	}
	doc.Meshes = append(doc.Meshes, gm)
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: gm.Name, Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

func (e *GltfExporter) material(doc *gltf.Document, seen map[string]uint32, name string) uint32 {
	if idx, ok := seen[name]; ok {
		return idx
	}
	idx := uint32(len(doc.Materials))
	mtl := &gltf.Material{Name: name}
	if name == "" {
		mtl.Name = defaultMeshName
	}
	doc.Materials = append(doc.Materials, mtl)
	seen[name] = idx
	return idx
}
