// Package nn implements trainable layers whose numeric work is delegated to
// engine-specific kernels.
//
// This package provides:
//   - Layer: the interface a layer-graph executor drives
//   - Parameter and ParameterStore: learnable tensors in positional slots
//   - FullyConnected: the dense layer output = W·input + b
//   - Initializers: Xavier, Zeros, Constant, FromValues
package nn

import (
	"errors"

	"github.com/born-ml/dense/internal/tensor"
)

// ErrMovedFrom is returned by every kernel-backed call on a layer whose
// state was relocated with Move. Its accessors return nil instead.
var ErrMovedFrom = errors.New("layer has been moved")

// Layer is the interface a layer-graph executor uses.
//
// Forward and Backward write their results into caller-owned tensors.
// Backward accumulates into parameter gradients; the caller zeroes them
// between optimizer steps.
type Layer interface {
	// LayerType is a human-readable type tag.
	LayerType() string

	FanInSize() int
	FanOutSize() int

	// InShape and OutShape describe one sample, independent of batch size.
	InShape() []tensor.Shape3D
	OutShape() []tensor.Shape3D

	Forward(in, out *tensor.Tensor) error
	Backward(in, out, outGrad, inGrad *tensor.Tensor) error

	// Parameters returns the learnable parameters in declaration order.
	Parameters() []*Parameter
}
