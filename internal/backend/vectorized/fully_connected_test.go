package vectorized

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dense/internal/tensor"
)

func randTensor(rng *rand.Rand, shape tensor.Shape) *tensor.Tensor {
	x := tensor.Zeros(shape)
	for i := range x.Data() {
		x.Data()[i] = rng.Float32()*2 - 1
	}
	return x
}

func toFloat64(xs []float32) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = float64(v)
	}
	return out
}

// reference computes forward and backward in float64 with plain loops.
func reference(in, w, b, dy *tensor.Tensor) (out, dx, dw, db []float64) {
	batch, inSize, outSize := in.Rows(), w.Cols(), w.Rows()
	out = make([]float64, batch*outSize)
	dx = make([]float64, batch*inSize)
	dw = make([]float64, outSize*inSize)
	db = make([]float64, outSize)
	for r := 0; r < batch; r++ {
		x, g := in.Row(r), dy.Row(r)
		for o := 0; o < outSize; o++ {
			s := float64(b.Data()[o])
			for i := 0; i < inSize; i++ {
				s += float64(w.Data()[o*inSize+i]) * float64(x[i])
				dx[r*inSize+i] += float64(w.Data()[o*inSize+i]) * float64(g[o])
				dw[o*inSize+i] += float64(g[o]) * float64(x[i])
			}
			out[r*outSize+o] = s
			db[o] += float64(g[o])
		}
	}
	return out, dx, dw, db
}

func TestFullyConnectedForward_Scenario(t *testing.T) {
	w, err := tensor.FromSlice([]float32{1, 0, 1, 0, 1, 1}, tensor.Shape{2, 3})
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float32{0, 1}, tensor.Shape{2})
	require.NoError(t, err)
	in, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3})
	require.NoError(t, err)
	out := tensor.Zeros(tensor.Shape{1, 2})
	out.Fill(99) // stale values must be overwritten

	FullyConnectedForward(in, out, w, b, false)
	assert.Equal(t, []float32{4, 6}, out.Data())

	FullyConnectedForward(in, out, w, nil, false)
	assert.Equal(t, []float32{4, 5}, out.Data())
}

func TestFullyConnected_MatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const batch, inSize, outSize = 9, 17, 5

	w := randTensor(rng, tensor.Shape{outSize, inSize})
	b := randTensor(rng, tensor.Shape{outSize})
	in := randTensor(rng, tensor.Shape{batch, inSize})
	dy := randTensor(rng, tensor.Shape{batch, outSize})

	wantOut, wantDx, wantDw, wantDb := reference(in, w, b, dy)

	out := tensor.Zeros(tensor.Shape{batch, outSize})
	FullyConnectedForward(in, out, w, b, true)
	assert.InDeltaSlice(t, wantOut, toFloat64(out.Data()), 1e-4)

	dx := tensor.Zeros(in.Shape())
	dx.Fill(-3)
	dw := tensor.Zeros(w.Shape())
	db := tensor.Zeros(b.Shape())
	FullyConnectedBackward(in, w, dw, db, dy, dx, true)
	assert.InDeltaSlice(t, wantDx, toFloat64(dx.Data()), 1e-4)
	assert.InDeltaSlice(t, wantDw, toFloat64(dw.Data()), 1e-4)
	assert.InDeltaSlice(t, wantDb, toFloat64(db.Data()), 1e-4)
}

func TestFullyConnected_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const batch, inSize, outSize = 40, 31, 23

	w := randTensor(rng, tensor.Shape{outSize, inSize})
	in := randTensor(rng, tensor.Shape{batch, inSize})
	dy := randTensor(rng, tensor.Shape{batch, outSize})

	seqOut, parOut := tensor.Zeros(tensor.Shape{batch, outSize}), tensor.Zeros(tensor.Shape{batch, outSize})
	FullyConnectedForward(in, seqOut, w, nil, false)
	FullyConnectedForward(in, parOut, w, nil, true)
	assert.Equal(t, seqOut.Data(), parOut.Data())

	seqDx, parDx := tensor.Zeros(in.Shape()), tensor.Zeros(in.Shape())
	seqDw, parDw := tensor.Zeros(w.Shape()), tensor.Zeros(w.Shape())
	FullyConnectedBackward(in, w, seqDw, nil, dy, seqDx, false)
	FullyConnectedBackward(in, w, parDw, nil, dy, parDx, true)
	assert.Equal(t, seqDx.Data(), parDx.Data())
	assert.Equal(t, seqDw.Data(), parDw.Data())
}
