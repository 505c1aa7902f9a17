package nn

import (
	"fmt"

	"github.com/born-ml/dense/internal/tensor"
)

// MSELoss computes Mean Squared Error loss and its gradient.
//
// Loss = mean((predictions - targets)²)
// dLoss/dpredictions = 2 * (predictions - targets) / N
//
// The gradient is returned as a new tensor shaped like predictions, ready
// to be passed to Backward as the output gradient.
func MSELoss(predictions, targets *tensor.Tensor) (float32, *tensor.Tensor, error) {
	if !predictions.Shape().Equal(targets.Shape()) {
		return 0, nil, fmt.Errorf("MSELoss: %w: predictions %v, targets %v",
			tensor.ErrShape, predictions.Shape(), targets.Shape())
	}

	p, y := predictions.Data(), targets.Data()
	n := float32(len(p))
	grad := tensor.Zeros(predictions.Shape())
	g := grad.Data()

	var sum float32
	for i := range p {
		diff := p[i] - y[i]
		sum += diff * diff
		g[i] = 2 * diff / n
	}
	return sum / n, grad, nil
}
