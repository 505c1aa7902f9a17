// Package core defines the contract between layers and their compute
// kernels: the per-call execution context, the kernel interface, the
// fully-connected kernels and the backend selector that binds them.
package core

import (
	"errors"
	"fmt"

	"github.com/born-ml/dense/internal/tensor"
)

// ErrInvalidConfig is returned for layer configurations that can never be
// valid, such as zero feature counts.
var ErrInvalidConfig = errors.New("invalid configuration")

// ParameterKind tags a learnable parameter slot.
type ParameterKind int

// Parameter kinds, in the positional order layers declare them.
const (
	Weight ParameterKind = iota
	Bias
)

// String returns "weight" or "bias".
func (k ParameterKind) String() string {
	switch k {
	case Weight:
		return "weight"
	case Bias:
		return "bias"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FullyParams is the shape metadata of a fully-connected layer.
type FullyParams struct {
	InSize  int
	OutSize int
	HasBias bool
}

// Validate reports ErrInvalidConfig unless both sizes are positive and the
// weight matrix is addressable.
func (p FullyParams) Validate() error {
	if p.InSize <= 0 || p.OutSize <= 0 {
		return fmt.Errorf("%w: in_size=%d out_size=%d (both must be > 0)", ErrInvalidConfig, p.InSize, p.OutSize)
	}
	if err := p.WeightShape().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// WeightShape is (out_size, in_size), matching output = W·input.
func (p FullyParams) WeightShape() tensor.Shape {
	return tensor.Shape{p.OutSize, p.InSize}
}

// BiasShape is (out_size).
func (p FullyParams) BiasShape() tensor.Shape {
	return tensor.Shape{p.OutSize}
}

// NumParameters is 2 with bias, 1 without.
func (p FullyParams) NumParameters() int {
	if p.HasBias {
		return 2
	}
	return 1
}
