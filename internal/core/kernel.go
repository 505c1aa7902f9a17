package core

import (
	"fmt"

	"github.com/born-ml/dense/internal/backend"
	"github.com/born-ml/dense/internal/backend/cpu"
	"github.com/born-ml/dense/internal/backend/vectorized"
	"github.com/born-ml/dense/internal/tensor"
)

// OpKernel is a unit of computation bound to one layer.
//
// Compute reads everything it needs from ctx and writes its results in
// place. It either completes or returns an error before writing anything.
type OpKernel interface {
	Compute(ctx *OpKernelContext) error
}

// OpKernelConstruction is what a kernel is bound to when it is created.
// Params is a non-owning reference into the owning layer's store; the
// kernel must not outlive that layer.
type OpKernelConstruction struct {
	Device *backend.Device
	Params *FullyParams
}

// KernelPair holds the forward and backward kernels of one layer.
type KernelPair struct {
	Forward  OpKernel
	Backward OpKernel
}

type forwardFunc func(in, out, weight, bias *tensor.Tensor, parallelize bool)

type backwardFunc func(in, weight, weightGrad, biasGrad, outGrad, inGrad *tensor.Tensor, parallelize bool)

// fcFamily is one numeric implementation of the fully-connected contract.
type fcFamily struct {
	name     string
	forward  forwardFunc
	backward backwardFunc
}

var (
	portable = fcFamily{
		name:     "portable",
		forward:  cpu.FullyConnectedForward,
		backward: cpu.FullyConnectedBackward,
	}
	blasFamily = fcFamily{
		name:     "vectorized",
		forward:  vectorized.FullyConnectedForward,
		backward: vectorized.FullyConnectedBackward,
	}
)

// fullyConnectedFamilies maps every supported engine to its kernels.
// Accelerator engines without a native binding share the vectorized family.
var fullyConnectedFamilies = map[backend.Engine]fcFamily{
	backend.Internal: portable,
	backend.AVX:      blasFamily,
	backend.NNPACK:   blasFamily,
}

// SupportedFullyConnectedEngines lists the engines SelectFullyConnected accepts.
func SupportedFullyConnectedEngines() []backend.Engine {
	var out []backend.Engine
	for _, e := range backend.Engines() {
		if _, ok := fullyConnectedFamilies[e]; ok {
			out = append(out, e)
		}
	}
	return out
}

// FamilyName returns the kernel family an engine resolves to, or "" if the
// engine is unsupported.
func FamilyName(engine backend.Engine) string {
	return fullyConnectedFamilies[engine].name
}

// SelectFullyConnected builds the kernel pair for engine, bound to kc.
// Unsupported engines fail here rather than on first use.
func SelectFullyConnected(engine backend.Engine, kc OpKernelConstruction) (KernelPair, error) {
	fam, ok := fullyConnectedFamilies[engine]
	if !ok {
		return KernelPair{}, fmt.Errorf("%w: %s", backend.ErrUnsupportedEngine, engine)
	}
	if kc.Params == nil {
		return KernelPair{}, fmt.Errorf("%w: kernel construction without layer params", ErrInvalidConfig)
	}
	if err := kc.Params.Validate(); err != nil {
		return KernelPair{}, err
	}
	return KernelPair{
		Forward:  &FullyConnectedOp{params: kc.Params, device: kc.Device, fam: fam},
		Backward: &FullyConnectedGradOp{params: kc.Params, device: kc.Device, fam: fam},
	}, nil
}
