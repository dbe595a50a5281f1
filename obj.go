package objscale

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	gobj "github.com/flywave/go-obj"
	"github.com/pkg/errors"
)

const (
	defaultMeshName = "default"
	pointsMeshName  = "points"
)

// ObjLoader reads an OBJ file and its material library into an Asset.
type ObjLoader struct {
	currentPath string
}

func NewObjLoader() *ObjLoader {
	return &ObjLoader{}
}

// Load parses path. Faces are grouped into one mesh per material, in order of
// first use; positions no face references end up in a trailing face-less
// mesh. Any failure, including a face with an out of range position, is
// returned as a *LoadError.
func (l *ObjLoader) Load(path string) (*Asset, error) {
	l.currentPath = path
	reader := &gobj.ObjReader{}

	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	if err := reader.Read(file); err != nil {
		return nil, &LoadError{Path: path, Err: errors.Wrap(err, "parse obj")}
	}
	if len(reader.V) == 0 {
		return nil, &LoadError{Path: path, Err: ErrNoGeometry}
	}

	asset := &Asset{Path: path}
	l.loadMaterials(reader, asset)

	// Group faces by material, as indices into reader.F
	var order []string
	groups := make(map[string][]int)
	for fi := range reader.F {
		name := reader.F[fi].Material
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], fi)
	}

	used := make([]bool, len(reader.V))
	for _, name := range order {
		mesh, err := l.buildMesh(name, groups[name], reader, used)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		if mesh != nil {
			asset.Meshes = append(asset.Meshes, mesh)
		}
	}
	if mesh := l.looseVertices(reader, used); mesh != nil {
		asset.Meshes = append(asset.Meshes, mesh)
	}

	return asset, nil
}

func (l *ObjLoader) loadMaterials(reader *gobj.ObjReader, asset *Asset) {
	if reader.MTL == "" {
		return
	}
	mtlPath := reader.MTL
	if !filepath.IsAbs(mtlPath) {
		// MTL paths are relative to the OBJ
		mtlPath = filepath.Join(filepath.Dir(l.currentPath), reader.MTL)
	}

	// the reference survives even when the library can't be read
	asset.MaterialLib = mtlPath
	materials, err := gobj.ReadMaterials(mtlPath)
	if err != nil {
		return
	}
	asset.Materials = materials

	names := make([]string, 0, len(materials))
	for name := range materials {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]bool)
	for _, name := range names {
		mtl := materials[name]
		if mtl == nil {
			continue
		}
		for _, ref := range []string{
			mtl.DiffuseTexture,
			mtl.AmbientTexture,
			mtl.SpecularTexture,
			mtl.EmissiveTexture,
			mtl.BumpTexture,
		} {
			if ref == "" || seen[ref] {
				continue
			}
			seen[ref] = true
			if p := l.resolveTexture(ref); p != "" {
				asset.Textures = append(asset.Textures, Texture{Name: ref, Path: p})
			}
		}
	}
}

func (l *ObjLoader) resolveTexture(texturePath string) string {
	objDir := filepath.Dir(l.currentPath)
	fullPath := texturePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(objDir, texturePath)
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		// exporters often write absolute paths from another machine
		fullPath = filepath.Join(objDir, filepath.Base(texturePath))
		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			return ""
		}
	}
	return fullPath
}

func validIndex(i, n int) bool {
	return i >= 0 && i < n
}

// checkFace reports the first problem with face fi of reader.
func checkFace(reader *gobj.ObjReader, fi int) error {
	corners := reader.F[fi].Corners
	if len(corners) < 3 {
		return fmt.Errorf("face %d has %d corners", fi+1, len(corners))
	}
	for _, c := range corners {
		if !validIndex(c.VertexIndex, len(reader.V)) {
			return fmt.Errorf("face %d references vertex %d of %d", fi+1, c.VertexIndex+1, len(reader.V))
		}
	}
	return nil
}

func (l *ObjLoader) buildMesh(material string, faces []int, reader *gobj.ObjReader, used []bool) (*Mesh, error) {
	var hasNormal, hasTexCoord bool
	for _, fi := range faces {
		if err := checkFace(reader, fi); err != nil {
			return nil, err
		}
		for _, c := range reader.F[fi].Corners {
			hasNormal = hasNormal || validIndex(c.NormalIndex, len(reader.VN))
			hasTexCoord = hasTexCoord || validIndex(c.TexcoordIndex, len(reader.VT))
		}
	}

	name := material
	if name == "" {
		name = defaultMeshName
	}
	mesh := &Mesh{
		Name:       name,
		Material:   material,
		Descriptor: newDescriptor(hasNormal, hasTexCoord),
	}
	stride := mesh.Descriptor.Stride
	normalAttr, _ := mesh.Descriptor.Attribute(VertexAttributeNormal)
	texAttr, _ := mesh.Descriptor.Attribute(VertexAttributeTextureCoordinate)

	index := make(map[[3]int]uint32)
	vertex := make([]byte, stride)

	for _, fi := range faces {
		corners := reader.F[fi].Corners
		polygon := make([]uint32, 0, len(corners))
		for _, c := range corners {
			key := [3]int{c.VertexIndex, -1, -1}
			if validIndex(c.TexcoordIndex, len(reader.VT)) {
				key[1] = c.TexcoordIndex
			}
			if validIndex(c.NormalIndex, len(reader.VN)) {
				key[2] = c.NormalIndex
			}

			idx, ok := index[key]
			if !ok {
				for i := range vertex {
					vertex[i] = 0
				}
				p := reader.V[key[0]]
				putFloat(vertex[0:], p[0])
				putFloat(vertex[4:], p[1])
				putFloat(vertex[8:], p[2])
				if hasNormal && key[2] >= 0 {
					n := reader.VN[key[2]]
					putFloat(vertex[normalAttr.Offset:], n[0])
					putFloat(vertex[normalAttr.Offset+4:], n[1])
					putFloat(vertex[normalAttr.Offset+8:], n[2])
				}
				if hasTexCoord && key[1] >= 0 {
					t := reader.VT[key[1]]
					putFloat(vertex[texAttr.Offset:], t[0])
					putFloat(vertex[texAttr.Offset+4:], t[1])
				}
				mesh.VertexBuffer = append(mesh.VertexBuffer, vertex...)
				idx = uint32(mesh.VertexCount)
				index[key] = idx
				mesh.VertexCount++
			}
			polygon = append(polygon, idx)
			used[c.VertexIndex] = true
		}
		mesh.Faces = append(mesh.Faces, polygon)
	}

	if len(mesh.Faces) == 0 {
		return nil, nil
	}
	return mesh, nil
}

// looseVertices keeps the positions no face referenced.
func (l *ObjLoader) looseVertices(reader *gobj.ObjReader, used []bool) *Mesh {
	mesh := &Mesh{
		Name:       pointsMeshName,
		Descriptor: newDescriptor(false, false),
	}
	vertex := make([]byte, mesh.Descriptor.Stride)
	for i, u := range used {
		if u {
			continue
		}
		p := reader.V[i]
		putFloat(vertex[0:], p[0])
		putFloat(vertex[4:], p[1])
		putFloat(vertex[8:], p[2])
		mesh.VertexBuffer = append(mesh.VertexBuffer, vertex...)
		mesh.VertexCount++
	}
	if mesh.VertexCount == 0 {
		return nil
	}
	return mesh
}

// newDescriptor lays out position, then normal, then texture coordinate.
func newDescriptor(normal, texCoord bool) VertexDescriptor {
	d := VertexDescriptor{}
	add := func(name string, format VertexFormat) {
		d.Attributes = append(d.Attributes, VertexAttribute{Name: name, Format: format, Offset: d.Stride})
		d.Stride += format.Size()
	}
	add(VertexAttributePosition, FormatFloat3)
	if normal {
		add(VertexAttributeNormal, FormatFloat3)
	}
	if texCoord {
		add(VertexAttributeTextureCoordinate, FormatFloat2)
	}
	return d
}
