package tensor

import (
	"fmt"
	"unsafe"
)

// Tensor is a dense, batch-major float32 matrix.
//
// A 2-D shape [rows, cols] stores one sample per row. A 1-D shape [n] is
// treated as a single row of n elements. Storage is row-major and owned by
// the tensor; Row returns views that share it.
//
// Example:
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	x.Row(1) // [4 5 6]
type Tensor struct {
	shape Shape
	data  []float32
}

// New creates a zero-filled tensor.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Tensor{
		shape: shape.Clone(),
		data:  make([]float32, shape.NumElements()),
	}, nil
}

// Zeros is like New but panics on an invalid shape.
func Zeros(shape Shape) *Tensor {
	t, err := New(shape)
	if err != nil {
		panic(fmt.Sprintf("tensor.Zeros: %v", err))
	}
	return t
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrShape, shape, shape.NumElements(), len(data))
	}
	t := &Tensor{shape: shape.Clone(), data: make([]float32, len(data))}
	copy(t.data, data)
	return t, nil
}

// FromRows creates a [len(rows), len(rows[0])] tensor. All rows must have
// the same length.
func FromRows(rows [][]float32) (*Tensor, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrShape)
	}
	cols := len(rows[0])
	data := make([]float32, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d elements, want %d", ErrShape, i, len(r), cols)
		}
		data = append(data, r...)
	}
	return FromSlice(data, Shape{len(rows), cols})
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Rows returns the batch dimension (1 for 1-D tensors).
func (t *Tensor) Rows() int {
	if len(t.shape) == 1 {
		return 1
	}
	return t.shape[0]
}

// Cols returns the per-row width.
func (t *Tensor) Cols() int {
	return t.shape[len(t.shape)-1]
}

// Row returns row i as a slice sharing the tensor's storage.
func (t *Tensor) Row(i int) []float32 {
	cols := t.Cols()
	return t.data[i*cols : (i+1)*cols : (i+1)*cols]
}

// Data returns the underlying storage.
func (t *Tensor) Data() []float32 {
	return t.data
}

// Overlaps reports whether t and other share any backing storage. Nil
// tensors overlap nothing.
func (t *Tensor) Overlaps(other *Tensor) bool {
	if t == nil || other == nil || len(t.data) == 0 || len(other.data) == 0 {
		return false
	}
	//nolint:gosec // address comparison only, nothing is dereferenced
	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(t.data)))
	//nolint:gosec // address comparison only, nothing is dereferenced
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(other.data)))
	aEnd := aStart + uintptr(len(t.data))*unsafe.Sizeof(float32(0))
	bEnd := bStart + uintptr(len(other.data))*unsafe.Sizeof(float32(0))
	return aStart < bEnd && bStart < aEnd
}

// Fill sets every element to v.
func (t *Tensor) Fill(v float32) {
	for i := range t.data {
		t.data[i] = v
	}
}

// Zero sets every element to 0.
func (t *Tensor) Zero() {
	clear(t.data)
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	c := &Tensor{shape: t.shape.Clone(), data: make([]float32, len(t.data))}
	copy(c.data, t.data)
	return c
}

// CopyFrom copies src into t. Shapes must match exactly.
func (t *Tensor) CopyFrom(src *Tensor) error {
	if !t.shape.Equal(src.shape) {
		return fmt.Errorf("%w: copy %v into %v", ErrShape, src.shape, t.shape)
	}
	copy(t.data, src.data)
	return nil
}

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v)", t.shape)
}
