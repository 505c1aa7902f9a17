package tensor

import (
	"errors"
	"fmt"
	"math"
)

// ErrShape is the root of every shape-mismatch error reported by tensors
// and by the kernels that consume them.
var ErrShape = errors.New("shape mismatch")

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid: 1 or 2 dimensions, all > 0, and
// an element count that fits in an int.
func (s Shape) Validate() error {
	if len(s) == 0 || len(s) > 2 {
		return fmt.Errorf("%w: expected 1 or 2 dimensions, got %d", ErrShape, len(s))
	}
	n := 1
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("%w: invalid dimension at index %d: %d (must be > 0)", ErrShape, i, dim)
		}
		if n > math.MaxInt/dim {
			return fmt.Errorf("%w: shape %v overflows the element count", ErrShape, s)
		}
		n *= dim
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as "[d0 d1]".
func (s Shape) String() string {
	return fmt.Sprint([]int(s))
}

// Shape3D describes the logical per-sample shape a layer consumes or
// produces, independent of batch size.
type Shape3D struct {
	Width  int
	Height int
	Depth  int
}

// NewShape3D creates a Shape3D.
func NewShape3D(width, height, depth int) Shape3D {
	return Shape3D{Width: width, Height: height, Depth: depth}
}

// Size returns the number of scalars in one sample.
func (s Shape3D) Size() int {
	return s.Width * s.Height * s.Depth
}

// String formats the shape as "WxHxD".
func (s Shape3D) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Width, s.Height, s.Depth)
}
