package objscale

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ObjWriter serializes an Asset as Wavefront OBJ.
type ObjWriter struct{}

// Export writes asset to path. The file is written next to path under a
// temporary name and renamed, so path is untouched on failure.
func (w *ObjWriter) Export(asset *Asset, path string) error {
	dir := filepath.Dir(path)
	err := writeFileAtomic(path, func(out io.Writer) error {
		return w.Write(asset, out, dir)
	})
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

// Write emits the OBJ text for asset. dir is the directory the output will
// live in; the material library reference is made relative to it.
func (w *ObjWriter) Write(asset *Asset, out io.Writer, dir string) error {
	bw := bufio.NewWriter(out)

	if asset.MaterialLib != "" {
		fmt.Fprintf(bw, "mtllib %s\n", materialRef(asset.MaterialLib, dir))
	}

	vBase, tBase, nBase := 1, 1, 1
	for _, m := range asset.Meshes {
		pos, hasPos := m.VertexAttributeData(VertexAttributePosition, FormatFloat3)
		nrm, hasNrm := m.VertexAttributeData(VertexAttributeNormal, FormatFloat3)
		tex, hasTex := m.VertexAttributeData(VertexAttributeTextureCoordinate, FormatFloat2)

		fmt.Fprintf(bw, "g %s\n", m.Name)
		if m.Material != "" {
			fmt.Fprintf(bw, "usemtl %s\n", m.Material)
		}

		if hasPos {
			for i := 0; i < m.VertexCount; i++ {
				v := pos.Float3(i)
				fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
			}
		}
		if hasTex {
			for i := 0; i < m.VertexCount; i++ {
				t := tex.Float2(i)
				fmt.Fprintf(bw, "vt %s %s\n", formatFloat(t[0]), formatFloat(t[1]))
			}
		}
		if hasNrm {
			for i := 0; i < m.VertexCount; i++ {
				n := nrm.Float3(i)
				fmt.Fprintf(bw, "vn %s %s %s\n", formatFloat(n[0]), formatFloat(n[1]), formatFloat(n[2]))
			}
		}

		// faces need positions to refer to
		if hasPos {
			for _, face := range m.Faces {
				bw.WriteString("f")
				for _, idx := range face {
					v := vBase + int(idx)
					switch {
					case hasTex && hasNrm:
						fmt.Fprintf(bw, " %d/%d/%d", v, tBase+int(idx), nBase+int(idx))
					case hasTex:
						fmt.Fprintf(bw, " %d/%d", v, tBase+int(idx))
					case hasNrm:
						fmt.Fprintf(bw, " %d//%d", v, nBase+int(idx))
					default:
						fmt.Fprintf(bw, " %d", v)
					}
				}
				bw.WriteString("\n")
			}
			vBase += m.VertexCount
		}
		if hasTex {
			tBase += m.VertexCount
		}
		if hasNrm {
			nBase += m.VertexCount
		}
	}

	return bw.Flush()
}

func materialRef(lib, dir string) string {
	absLib, err := filepath.Abs(lib)
	if err != nil {
		return filepath.ToSlash(lib)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return filepath.ToSlash(absLib)
	}
	rel, err := filepath.Rel(absDir, absLib)
	if err != nil {
		return filepath.ToSlash(absLib)
	}
	return filepath.ToSlash(rel)
}

// formatFloat prints the shortest float32 representation, always with a
// fractional part.
func formatFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if strings.IndexFunc(s, func(r rune) bool { return r != '-' && (r < '0' || r > '9') }) < 0 {
		s += ".0"
	}
	return s
}

// writeFileAtomic runs write against a temp file in the directory of path and
// renames it over path once everything succeeded.
func writeFileAtomic(path string, write func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
