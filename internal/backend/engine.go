// Package backend defines the engine identifiers and device handle that
// layers hand to their compute kernels.
package backend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedEngine is returned when no kernel family exists for a
// requested engine.
var ErrUnsupportedEngine = errors.New("not supported engine")

// Engine identifies a numeric implementation family.
type Engine int

// Known engines. Not every layer supports every engine.
const (
	Internal Engine = iota // portable pure Go loops
	NNPACK
	LibDNN
	AVX // vectorized
	OpenCL
	CBLAS
	IntelMKL
)

var engineNames = [...]string{
	Internal: "internal",
	NNPACK:   "nnpack",
	LibDNN:   "libdnn",
	AVX:      "avx",
	OpenCL:   "opencl",
	CBLAS:    "cblas",
	IntelMKL: "intel_mkl",
}

// String returns the engine's canonical name.
func (e Engine) String() string {
	if e < 0 || int(e) >= len(engineNames) {
		return fmt.Sprintf("engine(%d)", int(e))
	}
	return engineNames[e]
}

// Engines lists every known engine in declaration order.
func Engines() []Engine {
	out := make([]Engine, len(engineNames))
	for i := range engineNames {
		out[i] = Engine(i)
	}
	return out
}

// ParseEngine resolves a case-insensitive engine name.
func ParseEngine(name string) (Engine, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range engineNames {
		if s == n {
			return Engine(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown engine %q", ErrUnsupportedEngine, name)
}

// DefaultEngine returns the engine used when none is requested.
func DefaultEngine() Engine {
	return Internal
}
