// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the fully-connected (dense) layer.
//
// # Overview
//
// FullyConnected computes out = W·in + b for every row of a batch, where W
// has shape [out, in] and b has shape [out]. The layer owns its parameters
// and their gradients; the numeric work is done by a kernel pair chosen
// from the layer's engine when the layer is built.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/dense/backend"
//	    "github.com/born-ml/dense/nn"
//	    "github.com/born-ml/dense/tensor"
//	)
//
//	func main() {
//	    layer, err := nn.NewFullyConnected(784, 128, nn.WithEngine(backend.AVX))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    out, err := layer.Apply(input) // [batch, 128]
//	}
//
// # Training
//
// Backward overwrites the input gradient and accumulates parameter
// gradients, so clear them between steps:
//
//	layer.ZeroGrad()
//	out, _ := layer.Apply(x)
//	_, dy, _ := nn.MSELoss(out, y)
//	_ = layer.Backward(x, out, dy, dx)
//	optimizer.Step()
//
// # Concurrency
//
// Forward is safe to call from many goroutines. Backward calls on one layer
// are serialized because they accumulate into shared gradients.
//
// # Moving
//
// Move transfers the parameters into a new layer. The old layer stays
// valid as a value: Forward, Backward and the other kernel-backed calls
// return ErrMovedFrom, and Weight, Bias and Parameters return nil.
package nn
