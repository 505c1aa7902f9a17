// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float32 tensors consumed by the layers
// in this module.
//
// # Overview
//
// A Tensor is a row-major block of float32 values with a 1-D or 2-D shape:
//   - 1-D tensors of length n act as a single sample (one row)
//   - 2-D tensors of shape [rows, cols] hold a batch of samples
//
// # Basic Usage
//
//	import "github.com/born-ml/dense/tensor"
//
//	func main() {
//	    x, err := tensor.FromRows([][]float32{
//	        {1, 2, 3},
//	        {4, 5, 6},
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(x.Shape()) // [2 3]
//	}
//
// # Errors
//
// Shape problems are reported as errors wrapping ErrShape:
//
//	if errors.Is(err, tensor.ErrShape) {
//	    // wrong dimensions
//	}
package tensor
