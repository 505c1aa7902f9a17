// Package vectorized implements dense kernels on top of gonum's BLAS, whose
// float32 level-1 routines use SIMD assembly on amd64 and arm64.
package vectorized

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/dense/internal/parallel"
	"github.com/born-ml/dense/internal/tensor"
)

func general(t *tensor.Tensor) blas32.General {
	return blas32.General{Rows: t.Rows(), Cols: t.Cols(), Data: t.Data(), Stride: t.Cols()}
}

func vec(data []float32) blas32.Vector {
	return blas32.Vector{N: len(data), Data: data, Inc: 1}
}

// FullyConnectedForward computes out[r] = W·in[r] + b with one SGEMV per row.
// Shapes are assumed validated by the caller; bias may be nil.
func FullyConnectedForward(in, out, weight, bias *tensor.Tensor, parallelize bool) {
	w := general(weight)

	parallel.For(in.Rows(), func(r int) {
		y := out.Row(r)
		if bias != nil {
			copy(y, bias.Data())
		} else {
			clear(y)
		}
		blas32.Gemv(blas.NoTrans, 1, w, vec(in.Row(r)), 1, vec(y))
	}, parallel.Rows(parallelize))
}

// FullyConnectedBackward overwrites inGrad with Wᵀ·outGrad and accumulates
// weightGrad and biasGrad (which may be nil).
//
// Weight-gradient rank-1 updates are applied per batch row in row order
// inside each block of output units, so results do not depend on the
// parallel split.
func FullyConnectedBackward(in, weight, weightGrad, biasGrad, outGrad, inGrad *tensor.Tensor, parallelize bool) {
	inSize, outSize := weight.Cols(), weight.Rows()
	batch := in.Rows()
	w := general(weight)
	dw := weightGrad.Data()
	cfg := parallel.Rows(parallelize)

	parallel.For(batch, func(r int) {
		dx := inGrad.Row(r)
		clear(dx)
		blas32.Gemv(blas.Trans, 1, w, vec(outGrad.Row(r)), 1, vec(dx))
	}, cfg)

	parallel.ForRange(outSize, func(start, end int) {
		block := blas32.General{
			Rows:   end - start,
			Cols:   inSize,
			Data:   dw[start*inSize : end*inSize],
			Stride: inSize,
		}
		for r := 0; r < batch; r++ {
			dy := vec(outGrad.Row(r)[start:end])
			blas32.Ger(1, dy, vec(in.Row(r)), block)
			if biasGrad != nil {
				blas32.Axpy(1, dy, vec(biasGrad.Data()[start:end]))
			}
		}
	}, cfg)
}
