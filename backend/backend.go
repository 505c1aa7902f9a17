// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package backend

import (
	"github.com/born-ml/dense/internal/backend"
	"github.com/born-ml/dense/internal/core"
)

// ErrUnsupportedEngine is returned when a layer has no kernels for an engine.
var ErrUnsupportedEngine = backend.ErrUnsupportedEngine

// Engine identifies a numeric implementation family.
type Engine = backend.Engine

// Known engines.
const (
	Internal = backend.Internal
	NNPACK   = backend.NNPACK
	LibDNN   = backend.LibDNN
	AVX      = backend.AVX
	OpenCL   = backend.OpenCL
	CBLAS    = backend.CBLAS
	IntelMKL = backend.IntelMKL
)

// Device is the engine/device handle a layer passes to its kernels.
type Device = backend.Device

// DeviceType is the kind of hardware a device refers to.
type DeviceType = backend.DeviceType

// Device types.
const (
	CPU = backend.CPU
	GPU = backend.GPU
)

// Engines lists every known engine.
func Engines() []Engine {
	return backend.Engines()
}

// ParseEngine resolves a case-insensitive engine name such as "avx".
func ParseEngine(name string) (Engine, error) {
	return backend.ParseEngine(name)
}

// DefaultEngine returns the engine used when none is requested.
func DefaultEngine() Engine {
	return backend.DefaultEngine()
}

// FullyConnectedEngines lists the engines the fully-connected layer can
// run on.
func FullyConnectedEngines() []Engine {
	return core.SupportedFullyConnectedEngines()
}
