package cpu

import (
	"github.com/born-ml/dense/internal/parallel"
	"github.com/born-ml/dense/internal/tensor"
)

// FullyConnectedForward computes out[r] = W·in[r] + b for every batch row.
//
// Shapes are assumed validated by the caller:
//   - in:     [batch, in_size]
//   - out:    [batch, out_size]
//   - weight: [out_size, in_size]
//   - bias:   [out_size] or nil
//
// Rows are independent, so the parallel and sequential paths produce
// bit-identical results.
func FullyConnectedForward(in, out, weight, bias *tensor.Tensor, parallelize bool) {
	inSize, outSize := weight.Cols(), weight.Rows()
	w := weight.Data()

	var b []float32
	if bias != nil {
		b = bias.Data()
	}

	parallel.For(in.Rows(), func(r int) {
		x := in.Row(r)
		y := out.Row(r)
		for o := 0; o < outSize; o++ {
			wo := w[o*inSize : (o+1)*inSize]
			sum := float32(0)
			for i, xi := range x {
				sum += wo[i] * xi
			}
			if b != nil {
				sum += b[o]
			}
			y[o] = sum
		}
	}, parallel.Rows(parallelize))
}

// FullyConnectedBackward overwrites inGrad with Wᵀ·outGrad and accumulates
// the parameter gradients:
//
//	weightGrad[o, i] += Σ_r outGrad[r, o] * in[r, i]
//	biasGrad[o]      += Σ_r outGrad[r, o]
//
// biasGrad may be nil. The batch sum for each output unit is taken in row
// order, so parallelism (which splits output units, not rows) does not
// change the result.
func FullyConnectedBackward(in, weight, weightGrad, biasGrad, outGrad, inGrad *tensor.Tensor, parallelize bool) {
	inSize, outSize := weight.Cols(), weight.Rows()
	batch := in.Rows()
	w := weight.Data()
	dw := weightGrad.Data()
	cfg := parallel.Rows(parallelize)

	parallel.For(batch, func(r int) {
		dy := outGrad.Row(r)
		dx := inGrad.Row(r)
		for i := range dx {
			sum := float32(0)
			for o, g := range dy {
				sum += w[o*inSize+i] * g
			}
			dx[i] = sum
		}
	}, cfg)

	var db []float32
	if biasGrad != nil {
		db = biasGrad.Data()
	}

	parallel.For(outSize, func(o int) {
		dwo := dw[o*inSize : (o+1)*inSize]
		for r := 0; r < batch; r++ {
			g := outGrad.Row(r)[o]
			x := in.Row(r)
			for i, xi := range x {
				dwo[i] += g * xi
			}
			if db != nil {
				db[o] += g
			}
		}
	}, cfg)
}
