package nn

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// Initializer fills a parameter's storage. fanIn and fanOut are the
// layer's input and output sizes.
type Initializer func(fanIn, fanOut int, data []float32)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
func Xavier(fanIn, fanOut int, data []float32) {
	bound := math32.Sqrt(6 / float32(fanIn+fanOut))
	for i := range data {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		data[i] = (rand.Float32()*2 - 1) * bound
	}
}

// Zeros leaves every value at zero. Commonly used for biases.
func Zeros(_, _ int, data []float32) {
	clear(data)
}

// Constant returns an initializer that sets every value to v.
func Constant(v float32) Initializer {
	return func(_, _ int, data []float32) {
		for i := range data {
			data[i] = v
		}
	}
}

// FromValues returns an initializer that copies values in row-major order.
// Slots longer than values keep zeros in the tail.
func FromValues(values []float32) Initializer {
	return func(_, _ int, data []float32) {
		copy(data, values)
	}
}
