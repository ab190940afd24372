package attribution

import (
	"fmt"

	"github.com/lucent-ml/lucent/internal/tensor"
)

// DefaultSteps is the default number of path interpolation steps.
const DefaultSteps = 100

// IntegratedGradients approximates the path integral of the gradient along
// the straight line from a baseline to the input (Sundararajan, Taly, Yan,
// "Axiomatic Attribution for Deep Networks", ICML 2017).
type IntegratedGradients struct {
	steps    int
	baseline *tensor.RawTensor
}

// Option configures IntegratedGradients.
type Option func(*IntegratedGradients)

// WithSteps sets the number of interpolation steps (default 100).
func WithSteps(steps int) Option {
	return func(ig *IntegratedGradients) { ig.steps = steps }
}

// WithBaseline sets the integration start point. The default is an all-zero
// baseline ("black image", as the paper suggests) shaped like one batch of
// the input, resolved per request.
func WithBaseline(baseline *tensor.RawTensor) Option {
	return func(ig *IntegratedGradients) { ig.baseline = baseline }
}

// NewIntegratedGradients creates the method. Steps must be >= 1.
func NewIntegratedGradients(opts ...Option) (*IntegratedGradients, error) {
	ig := &IntegratedGradients{steps: DefaultSteps}
	for _, opt := range opts {
		opt(ig)
	}
	if ig.steps < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSteps, ig.steps)
	}
	return ig, nil
}

// Name identifies the method.
func (*IntegratedGradients) Name() string { return "integrated-gradients" }

// Steps returns the configured interpolation count.
func (ig *IntegratedGradients) Steps() int { return ig.steps }

// Attribute evaluates the gradient at `steps` points spaced evenly along
// (1/steps, 1.0] of the baseline→input segment, in ascending order, and
// returns (input − baseline) ⊙ (gradient sum / steps): the Riemann-sum
// approximation of the path integral scaled by the displacement.
func (ig *IntegratedGradients) Attribute(eng Engine, req *Request) (*tensor.RawTensor, error) {
	if err := validate(eng, req); err != nil {
		return nil, err
	}

	baseline := ig.baseline
	if baseline == nil {
		baseline = zeroBaseline(req.Input)
	}

	displacement := eng.Sub(req.Input, baseline)
	dtype := req.Input.DType()

	var accumulated *tensor.RawTensor
	for step := 1; step <= ig.steps; step++ {
		alpha := float64(step) / float64(ig.steps)
		scaled := eng.MulScalar(displacement, scalarOf(dtype, alpha))

		grad := gradientAt(eng, req.Model, scaled, nil)
		if accumulated == nil {
			accumulated = grad
		} else {
			accumulated = eng.Add(accumulated, grad)
		}
	}

	mean := eng.MulScalar(accumulated, scalarOf(dtype, 1.0/float64(ig.steps)))
	return eng.Mul(displacement, mean), nil
}

// zeroBaseline builds the default baseline: one batch of zeros matching the
// non-batch dimensions of the input.
func zeroBaseline(input *tensor.RawTensor) *tensor.RawTensor {
	shape := tensor.Shape{1}
	if in := input.Shape(); len(in) > 1 {
		shape = append(shape, in[1:]...)
	}
	raw, err := tensor.NewRaw(shape, input.DType(), input.Device())
	if err != nil {
		panic(fmt.Sprintf("integrated gradients: baseline: %v", err))
	}
	return raw
}
