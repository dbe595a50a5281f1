package objscale

import (
	"errors"
	"fmt"
)

var (
	ErrNoGeometry   = errors.New("no vertex positions found")
	ErrInvalidScale = errors.New("scale factor must be finite")
)

// LoadError reports a source file that is missing, unreadable or not OBJ.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ExportError reports a destination that could not be written.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

type ScaleError struct {
	Factor float64
}

func (e *ScaleError) Error() string {
	return fmt.Sprintf("scale %v: %v", e.Factor, ErrInvalidScale)
}

func (e *ScaleError) Unwrap() error { return ErrInvalidScale }
