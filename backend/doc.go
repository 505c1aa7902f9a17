// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package backend names the compute engines a layer can dispatch to.
//
// # Engines
//
// Every layer is built for one Engine. The fully-connected layer supports:
//   - Internal: portable pure Go loops (the default)
//   - AVX, NNPACK: the vectorized family built on gonum BLAS
//
// Other engines (LibDNN, OpenCL, CBLAS, IntelMKL) are recognised by name but
// rejected at construction with ErrUnsupportedEngine.
//
// # Basic Usage
//
//	engine, err := backend.ParseEngine("avx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	layer, err := nn.NewFullyConnected(784, 10, nn.WithEngine(engine))
package backend
