package core

import (
	"fmt"

	"github.com/born-ml/dense/internal/backend"
	"github.com/born-ml/dense/internal/tensor"
)

// FullyConnectedOp is the forward kernel: out[r] = W·in[r] + b.
type FullyConnectedOp struct {
	params *FullyParams
	device *backend.Device
	fam    fcFamily
}

// Params returns the layer params the kernel was bound to.
func (op *FullyConnectedOp) Params() *FullyParams { return op.params }

// Device returns the device handle the kernel was bound to.
func (op *FullyConnectedOp) Device() *backend.Device { return op.device }

// Family names the numeric implementation behind the kernel.
func (op *FullyConnectedOp) Family() string { return op.fam.name }

// Compute implements OpKernel.
func (op *FullyConnectedOp) Compute(ctx *OpKernelContext) error {
	in, out := ctx.Input(0), ctx.Output(0)
	if err := checkTensor("input", in, -1, op.params.InSize); err != nil {
		return err
	}
	if err := checkTensor("output", out, in.Rows(), op.params.OutSize); err != nil {
		return err
	}
	w, b, err := bindParameters(op.params, ctx.Parameters())
	if err != nil {
		return err
	}

	var bias *tensor.Tensor
	if b != nil {
		bias = b.Tensor()
	}
	if err := checkDisjoint("output", out, in, w.Tensor(), bias); err != nil {
		return err
	}
	op.fam.forward(in, out, w.Tensor(), bias, ctx.Parallelize())
	return nil
}

// FullyConnectedGradOp is the backward kernel. It overwrites the input
// gradient and accumulates into the parameter gradients. Callers zero the
// parameter gradients between optimizer steps.
type FullyConnectedGradOp struct {
	params *FullyParams
	device *backend.Device
	fam    fcFamily
}

// Params returns the layer params the kernel was bound to.
func (op *FullyConnectedGradOp) Params() *FullyParams { return op.params }

// Device returns the device handle the kernel was bound to.
func (op *FullyConnectedGradOp) Device() *backend.Device { return op.device }

// Family names the numeric implementation behind the kernel.
func (op *FullyConnectedGradOp) Family() string { return op.fam.name }

// Compute implements OpKernel. Output values are never read.
func (op *FullyConnectedGradOp) Compute(ctx *OpKernelContext) error {
	in := ctx.Input(0)
	if err := checkTensor("input", in, -1, op.params.InSize); err != nil {
		return err
	}
	batch := in.Rows()
	if out := ctx.Output(0); out != nil {
		if err := checkTensor("output", out, batch, op.params.OutSize); err != nil {
			return err
		}
	}
	outGrad, inGrad := ctx.OutputGrad(0), ctx.InputGrad(0)
	if err := checkTensor("output gradient", outGrad, batch, op.params.OutSize); err != nil {
		return err
	}
	if err := checkTensor("input gradient", inGrad, batch, op.params.InSize); err != nil {
		return err
	}
	w, b, err := bindParameters(op.params, ctx.Parameters())
	if err != nil {
		return err
	}
	if err := checkTensor("weight gradient", w.Grad(), op.params.OutSize, op.params.InSize); err != nil {
		return err
	}

	var biasGrad *tensor.Tensor
	if b != nil {
		biasGrad = b.Grad()
		if err := checkTensor("bias gradient", biasGrad, 1, op.params.OutSize); err != nil {
			return err
		}
	}
	if err := checkDisjoint("input gradient", inGrad, in, outGrad, w.Tensor(), w.Grad(), biasGrad); err != nil {
		return err
	}
	if err := checkDisjoint("weight gradient", w.Grad(), in, outGrad, w.Tensor(), biasGrad); err != nil {
		return err
	}
	if err := checkDisjoint("bias gradient", biasGrad, in, outGrad, w.Tensor()); err != nil {
		return err
	}
	op.fam.backward(in, w.Tensor(), w.Grad(), biasGrad, outGrad, inGrad, ctx.Parallelize())
	return nil
}

// checkTensor verifies t is present, has cols columns and, when rows >= 0,
// exactly rows rows.
func checkTensor(name string, t *tensor.Tensor, rows, cols int) error {
	if t == nil {
		return fmt.Errorf("%w: missing %s tensor", tensor.ErrShape, name)
	}
	if t.Cols() != cols {
		return fmt.Errorf("%w: %s width %d, want %d", tensor.ErrShape, name, t.Cols(), cols)
	}
	if rows >= 0 && t.Rows() != rows {
		return fmt.Errorf("%w: %s has %d rows, want %d", tensor.ErrShape, name, t.Rows(), rows)
	}
	return nil
}

// checkDisjoint rejects a destination tensor that shares storage with any
// of the tensors a kernel reads while writing it. Nil tensors are skipped.
func checkDisjoint(name string, dst *tensor.Tensor, srcs ...*tensor.Tensor) error {
	for _, src := range srcs {
		if dst.Overlaps(src) {
			return fmt.Errorf("%w: %s shares storage with a kernel operand", tensor.ErrShape, name)
		}
	}
	return nil
}

// bindParameters resolves the weight (and bias) from the positional
// parameter list and checks them against p.
func bindParameters(p *FullyParams, params []ParameterRef) (w, b ParameterRef, err error) {
	if len(params) != p.NumParameters() {
		return nil, nil, fmt.Errorf("%w: got %d parameters, want %d", tensor.ErrShape, len(params), p.NumParameters())
	}
	w = params[0]
	if w.Kind() != Weight {
		return nil, nil, fmt.Errorf("%w: parameter 0 is %s, want weight", tensor.ErrShape, w.Kind())
	}
	if err := checkTensor("weight", w.Tensor(), p.OutSize, p.InSize); err != nil {
		return nil, nil, err
	}
	if p.HasBias {
		b = params[1]
		if b.Kind() != Bias {
			return nil, nil, fmt.Errorf("%w: parameter 1 is %s, want bias", tensor.ErrShape, b.Kind())
		}
		if err := checkTensor("bias", b.Tensor(), 1, p.OutSize); err != nil {
			return nil, nil, err
		}
	}
	return w, b, nil
}
