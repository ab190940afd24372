package attribution

import (
	"fmt"

	"github.com/lucent-ml/lucent/internal/autodiff/ops"
	"github.com/lucent-ml/lucent/internal/tensor"
)

// LRP implements epsilon-LRP: Layer-wise Relevance Propagation computed by
// backpropagation with a modified backward rule for non-linear activations.
// This is Eq (58) of Bach et al. (2015), "On Pixel-Wise Explanations for
// Non-Linear Classifier Decisions by Layer-Wise Relevance Propagation",
// equivalently Eq (2) of Ancona et al. (ICLR 2018). Epsilon acts as a
// numerical stabilizer preventing division blow-up near zero activations.
//
// Epsilon is per-instance state captured by the override closure, so two LRP
// instances with different epsilons can run concurrently without interfering.
type LRP struct {
	eps float64
}

// NewLRP creates an epsilon-LRP method. epsilon must be > 0; anything else is
// an ErrInvalidEpsilon before any graph work happens.
func NewLRP(epsilon float64) (*LRP, error) {
	if epsilon <= 0 {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidEpsilon, epsilon)
	}
	return &LRP{eps: epsilon}, nil
}

// Name identifies the method.
func (*LRP) Name() string { return "epsilon-lrp" }

// Epsilon returns the configured numerical stabilizer.
func (l *LRP) Epsilon() float64 { return l.eps }

// Attribute computes relevance = input ⊙ gradient, where the gradient is
// backpropagated under the epsilon-LRP rule for non-linear operations.
func (l *LRP) Attribute(eng Engine, req *Request) (*tensor.RawTensor, error) {
	if err := validate(eng, req); err != nil {
		return nil, err
	}

	grad := gradientAt(eng, req.Model, req.Input, l.nonLinearGrad)
	return eng.Mul(grad, req.Input), nil
}

// nonLinearGrad is the epsilon-LRP backward rule. For an activation with
// pre-activation input op_in and output op_out:
//
//	stabilizer = +eps where op_in >= 0, -eps otherwise
//	grad_in    = grad * op_out / (op_in + stabilizer)
//
// The sign-matched stabilizer moves the denominator away from zero without
// flipping the sign of the relevance being redistributed.
func (l *LRP) nonLinearGrad(op ops.NonLinear, grad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	opIn, opOut := op.Input(), op.Output()

	nonNegative := backend.GreaterEqual(opIn, ops.ZerosLike(opIn))
	stabilizer := backend.Where(nonNegative, ops.FillLike(opIn, l.eps), ops.FillLike(opIn, -l.eps))

	denom := backend.Add(opIn, stabilizer)
	return []*tensor.RawTensor{backend.Div(backend.Mul(grad, opOut), denom)}
}
