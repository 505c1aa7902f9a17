// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/dense/internal/tensor"
)

// ErrShape is wrapped by every shape validation error.
var ErrShape = tensor.ErrShape

// Tensor is a dense row-major float32 tensor.
type Tensor = tensor.Tensor

// Shape is a list of dimension sizes.
type Shape = tensor.Shape

// Shape3D describes a width x height x depth volume.
type Shape3D = tensor.Shape3D

// NewShape3D creates a Shape3D.
func NewShape3D(width, height, depth int) Shape3D {
	return tensor.NewShape3D(width, height, depth)
}

// New creates a zero-filled tensor, returning an error for invalid shapes.
func New(shape Shape) (*Tensor, error) {
	return tensor.New(shape)
}

// Zeros creates a zero-filled tensor. It panics on an invalid shape.
//
// Example:
//
//	out := tensor.Zeros(tensor.Shape{batch, layer.FanOutSize()})
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// FromRows creates a [len(rows), len(rows[0])] tensor.
func FromRows(rows [][]float32) (*Tensor, error) {
	return tensor.FromRows(rows)
}
