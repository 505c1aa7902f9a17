// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"io"
	"log/slog"

	"github.com/born-ml/dense/internal/nn"
	"github.com/born-ml/dense/internal/tensor"
)

// ErrMovedFrom is returned by every kernel-backed call on a layer after Move.
var ErrMovedFrom = nn.ErrMovedFrom

// Layer is the common interface of trainable layers.
type Layer = nn.Layer

// Parameter is a trainable tensor with its gradient.
type Parameter = nn.Parameter

// ParameterSpec describes a parameter slot.
type ParameterSpec = nn.ParameterSpec

// Layers

// FullyConnected is a dense layer computing out = W·in + b.
type FullyConnected = nn.FullyConnected

// LayerTypeFullyConnected is the layer type string of FullyConnected.
const LayerTypeFullyConnected = nn.LayerTypeFullyConnected

// NewFullyConnected creates a dense layer with Xavier weights and zero bias.
//
// Example:
//
//	layer, err := nn.NewFullyConnected(784, 128)
//	layer, err := nn.NewFullyConnected(3, 2, nn.WithBias(false), nn.WithEngine(backend.AVX))
func NewFullyConnected(inFeatures, outFeatures int, opts ...Option) (*FullyConnected, error) {
	return nn.NewFullyConnected(inFeatures, outFeatures, opts...)
}

// NewFullyConnectedWithConfig creates a dense layer from an explicit Config.
func NewFullyConnectedWithConfig(inFeatures, outFeatures int, cfg Config) (*FullyConnected, error) {
	return nn.NewFullyConnectedWithConfig(inFeatures, outFeatures, cfg)
}

// Load reads a checkpoint written by FullyConnected.Save.
func Load(r io.Reader, opts ...Option) (*FullyConnected, error) {
	return nn.Load(r, opts...)
}

// Configuration

// Config holds layer construction settings.
type Config = nn.Config

// Option configures a layer.
type Option = nn.Option

// DefaultConfig returns the default layer configuration.
func DefaultConfig() Config {
	return nn.DefaultConfig()
}

// WithBias enables or disables the bias term.
func WithBias(enabled bool) Option { return nn.WithBias(enabled) }

// WithEngine selects the compute engine.
func WithEngine(e Engine) Option { return nn.WithEngine(e) }

// WithParallelize enables or disables batch-parallel kernels.
func WithParallelize(enabled bool) Option { return nn.WithParallelize(enabled) }

// WithWeightInit sets the weight initializer.
func WithWeightInit(init Initializer) Option { return nn.WithWeightInit(init) }

// WithBiasInit sets the bias initializer.
func WithBiasInit(init Initializer) Option { return nn.WithBiasInit(init) }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return nn.WithLogger(l) }

// Initialization

// Initializer fills a parameter given its fan-in and fan-out.
type Initializer = nn.Initializer

// Xavier fills data uniformly in ±sqrt(6/(fanIn+fanOut)).
func Xavier(fanIn, fanOut int, data []float32) { nn.Xavier(fanIn, fanOut, data) }

// Zeros fills data with zeros.
func Zeros(fanIn, fanOut int, data []float32) { nn.Zeros(fanIn, fanOut, data) }

// Constant returns an initializer that fills with v.
func Constant(v float32) Initializer { return nn.Constant(v) }

// FromValues returns an initializer that copies values.
func FromValues(values []float32) Initializer { return nn.FromValues(values) }

// Loss and checks

// MSELoss returns the mean squared error and its gradient w.r.t. predictions.
func MSELoss(predictions, targets *tensor.Tensor) (float32, *tensor.Tensor, error) {
	return nn.MSELoss(predictions, targets)
}

// GradCheckResult is the worst entry found by CheckGradients.
type GradCheckResult = nn.GradCheckResult

// CheckGradients compares analytic gradients with finite differences.
func CheckGradients(l *FullyConnected, in, target *tensor.Tensor, eps float32) (GradCheckResult, error) {
	return nn.CheckGradients(l, in, target, eps)
}
