package core

import (
	"github.com/born-ml/dense/internal/backend"
	"github.com/born-ml/dense/internal/tensor"
)

// ParameterRef is the view a kernel gets of one learnable parameter.
type ParameterRef interface {
	Kind() ParameterKind
	Tensor() *tensor.Tensor
	Grad() *tensor.Tensor
}

// OpKernelContext binds the call-scoped state of one kernel invocation:
// tensors, parallelism hint, device handle and parameter references.
//
// A context only references its tensors; callers keep them alive for the
// duration of Compute. Layers build a fresh context per call, so a context
// is never shared between goroutines.
type OpKernelContext struct {
	in      []*tensor.Tensor
	out     []*tensor.Tensor
	outGrad []*tensor.Tensor
	inGrad  []*tensor.Tensor

	parallelize bool
	device      *backend.Device
	params      []ParameterRef
}

// NewOpKernelContext returns an empty context.
func NewOpKernelContext() *OpKernelContext {
	return &OpKernelContext{}
}

// SetInOut binds forward tensors and clears any gradient bindings.
func (c *OpKernelContext) SetInOut(in, out []*tensor.Tensor) {
	c.in, c.out = in, out
	c.outGrad, c.inGrad = nil, nil
}

// SetInOutGrad binds backward tensors.
func (c *OpKernelContext) SetInOutGrad(in, out, outGrad, inGrad []*tensor.Tensor) {
	c.in, c.out = in, out
	c.outGrad, c.inGrad = outGrad, inGrad
}

// SetParallelize sets the parallelism hint.
func (c *OpKernelContext) SetParallelize(p bool) {
	c.parallelize = p
}

// SetDevice sets the device handle (and with it the engine).
func (c *OpKernelContext) SetDevice(d *backend.Device) {
	c.device = d
}

// SetParameters binds the layer's parameters in declaration order.
func (c *OpKernelContext) SetParameters(params []ParameterRef) {
	c.params = params
}

func at(ts []*tensor.Tensor, i int) *tensor.Tensor {
	if i < 0 || i >= len(ts) {
		return nil
	}
	return ts[i]
}

// Input returns input tensor i, or nil.
func (c *OpKernelContext) Input(i int) *tensor.Tensor { return at(c.in, i) }

// Output returns output tensor i, or nil.
func (c *OpKernelContext) Output(i int) *tensor.Tensor { return at(c.out, i) }

// OutputGrad returns output-gradient tensor i, or nil.
func (c *OpKernelContext) OutputGrad(i int) *tensor.Tensor { return at(c.outGrad, i) }

// InputGrad returns input-gradient tensor i, or nil.
func (c *OpKernelContext) InputGrad(i int) *tensor.Tensor { return at(c.inGrad, i) }

// Parallelize reports the parallelism hint.
func (c *OpKernelContext) Parallelize() bool { return c.parallelize }

// Device returns the bound device handle.
func (c *OpKernelContext) Device() *backend.Device { return c.device }

// Engine returns the bound device's engine, or the default engine when no
// device is bound.
func (c *OpKernelContext) Engine() backend.Engine {
	if c.device == nil {
		return backend.DefaultEngine()
	}
	return c.device.Engine()
}

// Parameters returns the bound parameter references.
func (c *OpKernelContext) Parameters() []ParameterRef { return c.params }
