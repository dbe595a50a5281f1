package objscale

import (
	"io"

	mst "github.com/flywave/go-mst"
	gobj "github.com/flywave/go-obj"
	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
)

// MstExporter writes an Asset as a flywave MST mesh.
type MstExporter struct {
	asset *Asset
	texId int
}

func (e *MstExporter) Export(asset *Asset, path string) error {
	mh := e.ToMst(asset)
	err := writeFileAtomic(path, func(w io.Writer) error {
		sw := &stickyWriter{w: w}
		mst.MeshMarshal(sw, mh)
		return sw.err
	})
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

// stickyWriter keeps the first write error; MeshMarshal has no error return.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	if err != nil {
		s.err = err
	}
	return n, err
}

// ToMst converts asset into a single node mesh with one face group per
// mesh. Polygons are fan triangulated.
func (e *MstExporter) ToMst(asset *Asset) *mst.Mesh {
	e.asset = asset
	e.texId = 0

	mesh := mst.NewMesh()
	meshNode := &mst.MeshNode{}

	batches := make(map[string]int32)
	for _, m := range asset.Meshes {
		pos, ok := m.VertexAttributeData(VertexAttributePosition, FormatFloat3)
		if !ok || len(m.Faces) == 0 {
			continue
		}
		nrm, hasNrm := m.VertexAttributeData(VertexAttributeNormal, FormatFloat3)
		tex, hasTex := m.VertexAttributeData(VertexAttributeTextureCoordinate, FormatFloat2)

		batch, exists := batches[m.Material]
		if !exists {
			batch = int32(len(mesh.Materials))
			batches[m.Material] = batch
			mesh.Materials = append(mesh.Materials, e.convertMaterial(asset.Materials[m.Material]))
		}
		mtg := &mst.MeshTriangle{Batchid: batch}

		base := uint32(len(meshNode.Vertices))
		for i := 0; i < m.VertexCount; i++ {
			meshNode.Vertices = append(meshNode.Vertices, pos.Float3(i))
			if hasNrm {
				meshNode.Normals = append(meshNode.Normals, nrm.Float3(i))
			}
			if hasTex {
				meshNode.TexCoords = append(meshNode.TexCoords, tex.Float2(i))
			}
		}

		for _, face := range m.Faces {
			for _, tri := range triangulateFace(face) {
				mtg.Faces = append(mtg.Faces, &mst.Face{
					Vertex: [3]uint32{base + tri[0], base + tri[1], base + tri[2]},
				})
				if !hasNrm {
					e.appendFlatNormal(meshNode, base, tri)
				}
			}
		}
		if !hasTex {
			for i := 0; i < m.VertexCount; i++ {
				meshNode.TexCoords = append(meshNode.TexCoords, vec2.T{0, 0})
			}
		}
		meshNode.FaceGroup = append(meshNode.FaceGroup, mtg)
	}

	if len(mesh.Materials) == 0 {
		mesh.Materials = append(mesh.Materials, &mst.BaseMaterial{Color: [3]byte{255, 255, 255}})
	}
	mesh.Nodes = append(mesh.Nodes, meshNode)
	return mesh
}

// appendFlatNormal fills normals for meshes that carry none. Every vertex
// gets the normal of the last triangle that used it.
func (e *MstExporter) appendFlatNormal(nd *mst.MeshNode, base uint32, tri [3]uint32) {
	for uint32(len(nd.Normals)) < uint32(len(nd.Vertices)) {
		nd.Normals = append(nd.Normals, vec3.T{0, 1, 0})
	}
	n := calculateNormal(nd.Vertices[base+tri[0]], nd.Vertices[base+tri[1]], nd.Vertices[base+tri[2]])
	for _, i := range tri {
		nd.Normals[base+i] = n
	}
}

func triangulateFace(face []uint32) [][3]uint32 {
	var triangles [][3]uint32
	for i := 1; i < len(face)-1; i++ {
		triangles = append(triangles, [3]uint32{face[0], face[i], face[i+1]})
	}
	return triangles
}

func calculateNormal(v0, v1, v2 vec3.T) vec3.T {
	e1 := vec3.Sub(&v1, &v0)
	e2 := vec3.Sub(&v2, &v0)
	normal := vec3.Cross(&e1, &e2)

	length := normal.Length()
	if length > 0 {
		return vec3.T{normal[0] / length, normal[1] / length, normal[2] / length}
	}
	return vec3.T{0, 1, 0}
}

// convertMaterial picks the richest MST material the MTL entry supports:
// PBR when it has metallic or roughness, Phong when it is shiny, Lambert when
// it has a diffuse color, textured when it only names maps.
func (e *MstExporter) convertMaterial(objMat *gobj.Material) mst.MeshMaterial {
	if objMat == nil {
		return &mst.BaseMaterial{
			Color:        [3]byte{200, 200, 200},
			Transparency: 1.0,
		}
	}

	base := mst.BaseMaterial{
		Color:        float32ToByteColor(objMat.Diffuse),
		Transparency: float32(objMat.Opacity),
	}
	if !hasTextures(objMat) && !anyPositive(objMat.Diffuse) &&
		objMat.Shininess <= 0 && !anyPositive(objMat.Specular) &&
		objMat.Metallic <= 0 && objMat.Roughness <= 0 {
		return &base
	}

	// textures come from the paths the loader resolved next to the OBJ
	textured := mst.TextureMaterial{BaseMaterial: base}
	textured.Texture = e.loadTexture(objMat.DiffuseTexture)

	switch {
	case objMat.Metallic > 0 || objMat.Roughness > 0:
		textured.Normal = e.loadTexture(objMat.BumpTexture)
		return &mst.PbrMaterial{
			TextureMaterial:     textured,
			Emissive:            float32ToByteColor(objMat.Emissive),
			Metallic:            objMat.Metallic,
			Roughness:           objMat.Roughness,
			Reflectance:         0.5,
			AmbientOcclusion:    1.0,
			ClearCoat:           objMat.ClearcoatThickness,
			ClearCoatRoughness:  objMat.ClearcoatRoughness,
			Anisotropy:          objMat.Anisotropy,
			AnisotropyDirection: vec3.T{1, 0, 0},
			SheenColor:          [3]byte{128, 128, 128},
			SubSurfaceColor:     [3]byte{128, 128, 128},
		}
	case objMat.Shininess > 0 || anyPositive(objMat.Specular):
		textured.Normal = e.loadTexture(objMat.BumpTexture)
		return &mst.PhongMaterial{
			LambertMaterial: lambertOf(objMat, textured),
			Specular:        float32ToByteColor(objMat.Specular),
			Shininess:       float32(objMat.Shininess * 100),
			Specularity:     1.0,
		}
	case anyPositive(objMat.Diffuse):
		lambert := lambertOf(objMat, textured)
		return &lambert
	}
	textured.Normal = e.loadTexture(objMat.BumpTexture)
	return &textured
}

func lambertOf(objMat *gobj.Material, textured mst.TextureMaterial) mst.LambertMaterial {
	return mst.LambertMaterial{
		TextureMaterial: textured,
		Ambient:         float32ToByteColor(objMat.Ambient),
		Diffuse:         float32ToByteColor(objMat.Diffuse),
		Emissive:        float32ToByteColor(objMat.Emissive),
	}
}

func hasTextures(objMat *gobj.Material) bool {
	return objMat.DiffuseTexture != "" || objMat.AmbientTexture != "" ||
		objMat.SpecularTexture != "" || objMat.EmissiveTexture != ""
}

// loadTexture decodes a texture the loader resolved. Unresolved or
// undecodable textures are dropped.
func (e *MstExporter) loadTexture(ref string) *mst.Texture {
	if ref == "" || e.asset == nil {
		return nil
	}
	path := e.asset.TexturePath(ref)
	if path == "" {
		return nil
	}
	texture, err := convertTex(path, e.texId)
	if err != nil {
		return nil
	}
	e.texId++
	return texture
}

func float32ToByteColor(color []float32) [3]byte {
	if len(color) < 3 {
		return [3]byte{255, 255, 255}
	}
	return [3]byte{byte(color[0] * 255), byte(color[1] * 255), byte(color[2] * 255)}
}

func anyPositive(color []float32) bool {
	for _, c := range color {
		if c > 0 {
			return true
		}
	}
	return false
}
