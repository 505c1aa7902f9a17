package nn

import (
	"fmt"

	"github.com/born-ml/dense/internal/core"
	"github.com/born-ml/dense/internal/tensor"
)

// ParameterSpec describes one learnable slot. Its shape is fixed once
// declared.
type ParameterSpec struct {
	Kind      core.ParameterKind
	Rows      int
	Cols      int
	Trainable bool
}

// Shape returns (Rows, Cols) for weights and (Cols) for biases.
func (s ParameterSpec) Shape() tensor.Shape {
	if s.Kind == core.Bias {
		return tensor.Shape{s.Cols}
	}
	return tensor.Shape{s.Rows, s.Cols}
}

// Parameter represents a trainable parameter in a neural network.
//
// The value tensor is mutated in place by an optimizer between steps.
// The gradient tensor is allocated with the value and accumulates across
// backward calls until ZeroGrad is called.
//
// Example:
//
//	w := layer.Weight()
//	w.Tensor().Data()[0] = 0.5
//	_ = layer.Backward(x, y, dy, dx)
//	g := w.Grad()
type Parameter struct {
	name   string
	spec   ParameterSpec
	tensor *tensor.Tensor // The parameter tensor
	grad   *tensor.Tensor // Gradient accumulator, same shape
}

// NewParameter creates a zero-valued parameter with a zeroed gradient.
func NewParameter(name string, spec ParameterSpec) (*Parameter, error) {
	shape := spec.Shape()
	value, err := tensor.New(shape)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", name, err)
	}
	return &Parameter{
		name:   name,
		spec:   spec,
		tensor: value,
		grad:   tensor.Zeros(shape),
	}, nil
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Kind returns whether this is a weight or a bias.
func (p *Parameter) Kind() core.ParameterKind {
	return p.spec.Kind
}

// Spec returns the declared slot description.
func (p *Parameter) Spec() ParameterSpec {
	return p.spec
}

// Trainable reports whether optimizers should update this parameter.
func (p *Parameter) Trainable() bool {
	return p.spec.Trainable
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Grad returns the gradient tensor.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// ZeroGrad clears the gradient tensor in place.
//
// Backward accumulates; call this between optimizer steps.
func (p *Parameter) ZeroGrad() {
	p.grad.Zero()
}
