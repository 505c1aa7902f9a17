package cpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dense/internal/tensor"
)

func mustFromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return x
}

func randTensor(rng *rand.Rand, shape tensor.Shape) *tensor.Tensor {
	x := tensor.Zeros(shape)
	for i := range x.Data() {
		x.Data()[i] = rng.Float32()*2 - 1
	}
	return x
}

func TestFullyConnectedForward(t *testing.T) {
	w := mustFromSlice(t, []float32{1, 0, 1, 0, 1, 1}, tensor.Shape{2, 3})
	b := mustFromSlice(t, []float32{0, 1}, tensor.Shape{2})
	in := mustFromSlice(t, []float32{1, 2, 3, -1, 0, 1}, tensor.Shape{2, 3})
	out := tensor.Zeros(tensor.Shape{2, 2})

	FullyConnectedForward(in, out, w, b, false)
	assert.Equal(t, []float32{4, 6, 0, 2}, out.Data())

	FullyConnectedForward(in, out, w, nil, false)
	assert.Equal(t, []float32{4, 5, 0, 1}, out.Data())
}

func TestFullyConnectedBackward(t *testing.T) {
	w := mustFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	in := mustFromSlice(t, []float32{1, 1, 1, 2, 0, -1}, tensor.Shape{2, 3})
	dy := mustFromSlice(t, []float32{1, 0, 0.5, 2}, tensor.Shape{2, 2})
	dx := tensor.Zeros(tensor.Shape{2, 3})
	dw := tensor.Zeros(tensor.Shape{2, 3})
	db := tensor.Zeros(tensor.Shape{2})

	FullyConnectedBackward(in, w, dw, db, dy, dx, false)

	// dx[r] = Wᵀ·dy[r]
	assert.Equal(t, []float32{1, 2, 3, 8.5, 11, 13.5}, dx.Data())
	// dW = Σ dy[r] ⊗ in[r]
	assert.Equal(t, []float32{2, 1, 0.5, 4, 0, -2}, dw.Data())
	assert.Equal(t, []float32{1.5, 2}, db.Data())

	// Second call accumulates parameter gradients, overwrites dx.
	FullyConnectedBackward(in, w, dw, db, dy, dx, false)
	assert.Equal(t, []float32{1, 2, 3, 8.5, 11, 13.5}, dx.Data())
	assert.Equal(t, []float32{4, 2, 1, 8, 0, -4}, dw.Data())
	assert.Equal(t, []float32{3, 4}, db.Data())
}

func TestFullyConnected_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const batch, inSize, outSize = 67, 13, 29

	w := randTensor(rng, tensor.Shape{outSize, inSize})
	b := randTensor(rng, tensor.Shape{outSize})
	in := randTensor(rng, tensor.Shape{batch, inSize})
	dy := randTensor(rng, tensor.Shape{batch, outSize})

	seqOut := tensor.Zeros(tensor.Shape{batch, outSize})
	parOut := tensor.Zeros(tensor.Shape{batch, outSize})
	FullyConnectedForward(in, seqOut, w, b, false)
	FullyConnectedForward(in, parOut, w, b, true)
	assert.Equal(t, seqOut.Data(), parOut.Data())

	seqDx, parDx := tensor.Zeros(in.Shape()), tensor.Zeros(in.Shape())
	seqDw, parDw := tensor.Zeros(w.Shape()), tensor.Zeros(w.Shape())
	seqDb, parDb := tensor.Zeros(b.Shape()), tensor.Zeros(b.Shape())
	FullyConnectedBackward(in, w, seqDw, seqDb, dy, seqDx, false)
	FullyConnectedBackward(in, w, parDw, parDb, dy, parDx, true)
	assert.Equal(t, seqDx.Data(), parDx.Data())
	assert.Equal(t, seqDw.Data(), parDw.Data())
	assert.Equal(t, seqDb.Data(), parDb.Data())
}
