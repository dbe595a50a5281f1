package objscale

import (
	"path/filepath"
	"testing"

	"github.com/flywave/gltf"
)

func TestGltfExporterToDocument(t *testing.T) {
	dir := t.TempDir()
	a := loadAsset(t, writeFixture(t, dir, "cube.obj", cubeObj))

	doc := (&GltfExporter{}).ToDocument(a)
	if len(doc.Meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(doc.Meshes))
	}
	prims := doc.Meshes[0].Primitives
	if len(prims) != 2 {
		t.Fatalf("got %d primitives, want 2", len(prims))
	}
	for i, p := range prims {
		for _, attr := range []string{gltf.POSITION, gltf.NORMAL, gltf.TEXCOORD_0} {
			if _, ok := p.Attributes[attr]; !ok {
				t.Errorf("primitive %d lacks %s", i, attr)
			}
		}
		if got := doc.Accessors[p.Attributes[gltf.POSITION]].Count; got != 4 {
			t.Errorf("primitive %d position count = %d, want 4", i, got)
		}
		if got := doc.Accessors[*p.Indices].Count; got != 6 {
			t.Errorf("primitive %d index count = %d, want 6", i, got)
		}
	}
	if len(doc.Materials) != 2 {
		t.Errorf("got %d materials, want 2", len(doc.Materials))
	}
	if len(doc.Scenes[0].Nodes) != 1 {
		t.Errorf("scene has %d nodes, want 1", len(doc.Scenes[0].Nodes))
	}
}

func TestGltfExporterExport(t *testing.T) {
	dir := t.TempDir()
	a := loadAsset(t, writeFixture(t, dir, "tri.obj", triangleObj))

	for _, name := range []string{"tri.gltf", "tri.glb"} {
		dst := filepath.Join(dir, name)
		if err := ExporterFor(dst).Export(a, dst); err != nil {
			t.Fatalf("Export(%s) error = %v", name, err)
		}
		doc, err := gltf.Open(dst)
		if err != nil {
			t.Fatalf("Open(%s) error = %v", name, err)
		}
		if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 1 {
			t.Errorf("%s: unexpected mesh layout", name)
		}
	}
}
