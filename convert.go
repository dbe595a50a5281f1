package objscale

import (
	"path/filepath"
	"strings"
)

const (
	OBJ  = ".obj"
	MST  = ".mst"
	GLTF = ".gltf"
	GLB  = ".glb"
)

// Exporter writes an Asset to path. Failures are returned as *ExportError.
type Exporter interface {
	Export(asset *Asset, path string) error
}

// ExporterFactory picks the exporter for a destination extension. Unknown
// extensions get the OBJ writer.
func ExporterFactory(format string) Exporter {
	switch strings.ToLower(format) {
	case MST:
		return &MstExporter{}
	case GLTF:
		return &GltfExporter{}
	case GLB:
		return &GltfExporter{Binary: true}
	}
	return &ObjWriter{}
}

// ExporterFor returns the exporter matching the extension of path.
func ExporterFor(path string) Exporter {
	return ExporterFactory(filepath.Ext(path))
}
