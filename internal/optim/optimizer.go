// Package optim implements optimization algorithms for training layers.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read the gradients a layer accumulated during Backward and
// update the parameter values in place, so the layer's kernels see the new
// values on the next Forward without any rebinding.
//
// Example usage:
//
//	optimizer := optim.NewSGD(layer.Parameters(), optim.SGDConfig{LR: 0.01})
//
//	for epoch := range epochs {
//	    optimizer.ZeroGrad()
//	    out, _ := layer.Apply(input)
//	    _, dy, _ := nn.MSELoss(out, target)
//	    _ = layer.Backward(input, out, dy, dx)
//	    optimizer.Step()
//	}
package optim

import (
	"github.com/born-ml/dense/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies the accumulated gradients to all trainable parameters.
	Step()

	// ZeroGrad clears all parameter gradients.
	//
	// Backward accumulates into parameter gradients, so this should be
	// called before each backward pass.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float32 // Learning rate
}

// trainable filters out frozen parameters.
func trainable(params []*nn.Parameter) []*nn.Parameter {
	out := make([]*nn.Parameter, 0, len(params))
	for _, p := range params {
		if p != nil && p.Trainable() {
			out = append(out, p)
		}
	}
	return out
}
