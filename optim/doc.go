// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training layers.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// Optimizers read the gradients a layer accumulates in Backward and update
// the parameter values in place.
//
// # Training Loop Pattern
//
//	optimizer := optim.NewAdam(layer.Parameters(), optim.AdamConfig{LR: 0.01})
//
//	for epoch := range numEpochs {
//	    // 1. Zero gradients
//	    optimizer.ZeroGrad()
//
//	    // 2. Forward pass
//	    out, _ := layer.Apply(x)
//	    _, dy, _ := nn.MSELoss(out, y)
//
//	    // 3. Backward pass
//	    _ = layer.Backward(x, out, dy, dx)
//
//	    // 4. Update parameters
//	    optimizer.Step()
//	}
package optim
