package backend

import (
	"errors"

	"github.com/gogpu/vg"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrInvalidSize is returned by factories given a non-positive target size.
	ErrInvalidSize = errors.New("backend: invalid size")
)

// Names under which the bundled backends register themselves.
const (
	NameGPU      = "gpu"
	NameEbiten   = "ebiten"
	NameSoft     = "soft"
	NameRecorder = "recorder"
)

// Factory creates a backend drawing to a target of width*height device
// pixels. The returned backend has not been created yet; vg.NewContext
// calls its Create method.
type Factory func(width, height int) (vg.Backend, error)
