package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dense/internal/backend"
	"github.com/born-ml/dense/internal/core"
	"github.com/born-ml/dense/internal/tensor"
)

func TestParameterStore(t *testing.T) {
	s, err := NewParameterStore(core.FullyParams{InSize: 4, OutSize: 3, HasBias: true})
	require.NoError(t, err)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, core.Weight, s.Weight().Kind())
	assert.Equal(t, core.Bias, s.Bias().Kind())
	assert.True(t, s.Weight().Tensor().Shape().Equal(tensor.Shape{3, 4}))
	assert.True(t, s.Bias().Tensor().Shape().Equal(tensor.Shape{3}))
	assert.True(t, s.Weight().Grad().Shape().Equal(tensor.Shape{3, 4}))

	assert.Equal(t, ParameterSpec{Kind: core.Weight, Rows: 3, Cols: 4, Trainable: true}, s.Weight().Spec())

	// Parameters returns a copy of the slot list.
	ps := s.Parameters()
	ps[0] = nil
	assert.NotNil(t, s.Weight())
}

func TestParameterStore_NoBias(t *testing.T) {
	s, err := NewParameterStore(core.FullyParams{InSize: 4, OutSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Nil(t, s.Bias())
	assert.Len(t, s.refs(), 1)
}

func TestParameterStore_Invalid(t *testing.T) {
	_, err := NewParameterStore(core.FullyParams{InSize: 0, OutSize: 3})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestParameterStore_DeclareAfterSealPanics(t *testing.T) {
	s, err := NewParameterStore(core.FullyParams{InSize: 2, OutSize: 2})
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = s.Declare(core.Bias, 1, 2, true)
	})
}

func TestParameterStore_DeclareOrder(t *testing.T) {
	s := &ParameterStore{params: core.FullyParams{InSize: 2, OutSize: 2, HasBias: true}}
	assert.Panics(t, func() {
		_, _ = s.Declare(core.Bias, 1, 2, true)
	})

	_, err := s.Declare(core.Weight, 2, 2, true)
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = s.Declare(core.Weight, 2, 2, true)
	})
}

func TestParameter_ZeroGrad(t *testing.T) {
	p, err := NewParameter("w", ParameterSpec{Kind: core.Weight, Rows: 2, Cols: 2, Trainable: true})
	require.NoError(t, err)

	p.Grad().Fill(3)
	p.ZeroGrad()
	assert.Equal(t, []float32{0, 0, 0, 0}, p.Grad().Data())

	_, err = NewParameter("bad", ParameterSpec{Kind: core.Weight, Rows: 0, Cols: 2})
	assert.ErrorIs(t, err, tensor.ErrShape)
}

func TestMove_RebindsKernels(t *testing.T) {
	l, err := NewFullyConnected(3, 2, WithEngine(backend.AVX))
	require.NoError(t, err)

	oldParams := l.store.Params()
	fwd := l.kernels.Forward.(*core.FullyConnectedOp)
	assert.Same(t, oldParams, fwd.Params())
	assert.Equal(t, "vectorized", fwd.Family())

	moved, err := l.Move()
	require.NoError(t, err)

	newFwd := moved.kernels.Forward.(*core.FullyConnectedOp)
	newBwd := moved.kernels.Backward.(*core.FullyConnectedGradOp)
	assert.Same(t, moved.store.Params(), newFwd.Params())
	assert.Same(t, moved.store.Params(), newBwd.Params())
	assert.NotSame(t, oldParams, newFwd.Params())
	assert.Same(t, moved.device, newFwd.Device())

	assert.Nil(t, l.kernels.Forward)
	assert.Nil(t, l.kernels.Backward)
	assert.Equal(t, 0, l.store.Len())
}
