package objscale

import (
	"math"

	vec3d "github.com/flywave/go3d/float64/vec3"
)

// Result describes one completed scale.
type Result struct {
	Meshes   int
	Vertices int
	Before   vec3d.Box
	After    vec3d.Box
}

// ScaleGeometry loads the OBJ at src, multiplies every vertex position by
// factor and writes the result to dst. Normals and texture coordinates are
// left as they are.
func ScaleGeometry(src, dst string, factor float64) error {
	_, err := Scale(src, dst, factor)
	return err
}

// Scale is ScaleGeometry returning what was touched. Errors are *ScaleError,
// *LoadError or *ExportError; dst is only written after the whole asset has
// been scaled in memory.
func Scale(src, dst string, factor float64) (*Result, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, &ScaleError{Factor: factor}
	}

	asset, err := NewObjLoader().Load(src)
	if err != nil {
		return nil, err
	}

	res := &Result{Before: asset.Bounds()}
	res.Meshes, res.Vertices = ScaleAsset(asset, factor)
	res.After = asset.Bounds()

	if err := ExporterFor(dst).Export(asset, dst); err != nil {
		return nil, err
	}
	return res, nil
}

// ScaleAsset multiplies the position of every vertex in place and returns
// how many meshes and vectors it changed. Meshes without a float3 position
// attribute are skipped.
func ScaleAsset(asset *Asset, factor float64) (meshes, vertices int) {
	for _, m := range asset.Meshes {
		pos, ok := m.VertexAttributeData(VertexAttributePosition, FormatFloat3)
		if !ok {
			continue
		}
		for i := 0; i < m.VertexCount; i++ {
			v := pos.Float3(i)
			v[0] = float32(float64(v[0]) * factor)
			v[1] = float32(float64(v[1]) * factor)
			v[2] = float32(float64(v[2]) * factor)
			pos.SetFloat3(i, v)
		}
		meshes++
		vertices += m.VertexCount
	}
	return meshes, vertices
}
