package objscale

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type BoxReport struct {
	Min  [3]float64 `json:"min" yaml:"min"`
	Max  [3]float64 `json:"max" yaml:"max"`
	Size [3]float64 `json:"size" yaml:"size"`
}

// Report summarizes a scale run for pipeline logs.
type Report struct {
	ID        string    `json:"id" yaml:"id"`
	Input     string    `json:"input" yaml:"input"`
	Output    string    `json:"output" yaml:"output"`
	Factor    float64   `json:"factor" yaml:"factor"`
	Meshes    int       `json:"meshes" yaml:"meshes"`
	Vertices  int       `json:"vertices" yaml:"vertices"`
	Before    BoxReport `json:"bbox_before" yaml:"bbox_before"`
	After     BoxReport `json:"bbox_after" yaml:"bbox_after"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

func NewReport(src, dst string, factor float64, res *Result) *Report {
	return &Report{
		ID:        uuid.New().String(),
		Input:     src,
		Output:    dst,
		Factor:    factor,
		Meshes:    res.Meshes,
		Vertices:  res.Vertices,
		Before:    boxReport(res.Before),
		After:     boxReport(res.After),
		Timestamp: time.Now(),
	}
}

// boxReport flattens a box; an empty box reports zeros.
func boxReport(b vec3d.Box) BoxReport {
	if b.Min[0] > b.Max[0] {
		return BoxReport{}
	}
	r := BoxReport{}
	for i := 0; i < 3; i++ {
		r.Min[i] = b.Min[i]
		r.Max[i] = b.Max[i]
		r.Size[i] = b.Max[i] - b.Min[i]
	}
	return r
}

// WriteFile writes the report as YAML for .yaml/.yml paths, JSON otherwise.
func (r *Report) WriteFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(r)
	default:
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
