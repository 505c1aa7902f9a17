package nn

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/dense/internal/tensor"
)

// GradCheckResult is the worst parameter entry found by CheckGradients.
type GradCheckResult struct {
	Parameter string
	Index     int
	Analytic  float32
	Numeric   float32
	RelError  float32
}

// CheckGradients compares the analytic parameter gradients from Backward
// with central finite differences of MSELoss(Forward(in), target).
//
// The layer's gradients are zeroed first and hold the analytic gradients
// on return. Parameter values are restored after each perturbation.
func CheckGradients(l *FullyConnected, in, target *tensor.Tensor, eps float32) (GradCheckResult, error) {
	var worst GradCheckResult
	if eps <= 0 {
		return worst, fmt.Errorf("gradcheck: eps must be > 0, got %g", eps)
	}

	loss := func() (float32, error) {
		out, err := l.Apply(in)
		if err != nil {
			return 0, err
		}
		v, _, err := MSELoss(out, target)
		return v, err
	}

	l.ZeroGrad()
	out, err := l.Apply(in)
	if err != nil {
		return worst, err
	}
	_, outGrad, err := MSELoss(out, target)
	if err != nil {
		return worst, err
	}
	inGrad := tensor.Zeros(in.Shape())
	if err := l.Backward(in, out, outGrad, inGrad); err != nil {
		return worst, err
	}

	for _, p := range l.Parameters() {
		data := p.Tensor().Data()
		grad := p.Grad().Data()
		for i, orig := range data {
			data[i] = orig + eps
			plus, err := loss()
			if err != nil {
				data[i] = orig
				return worst, err
			}
			data[i] = orig - eps
			minus, err := loss()
			data[i] = orig
			if err != nil {
				return worst, err
			}

			numeric := (plus - minus) / (2 * eps)
			rel := math32.Abs(numeric-grad[i]) / math32.Max(1, math32.Abs(numeric)+math32.Abs(grad[i]))
			if rel >= worst.RelError {
				worst = GradCheckResult{
					Parameter: p.Name(),
					Index:     i,
					Analytic:  grad[i],
					Numeric:   numeric,
					RelError:  rel,
				}
			}
		}
	}
	return worst, nil
}
