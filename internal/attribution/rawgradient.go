package attribution

import "github.com/lucent-ml/lucent/internal/tensor"

// RawGradient is the default relevance rule: the plain gradient of the model
// output with respect to the input, with every operation using its original
// backward rule.
type RawGradient struct{}

// NewRawGradient creates the raw-gradient method.
func NewRawGradient() *RawGradient {
	return &RawGradient{}
}

// Name identifies the method.
func (*RawGradient) Name() string { return "gradient" }

// Attribute computes ∂output/∂input at the request's input.
func (g *RawGradient) Attribute(eng Engine, req *Request) (*tensor.RawTensor, error) {
	if err := validate(eng, req); err != nil {
		return nil, err
	}
	return gradientAt(eng, req.Model, req.Input, nil), nil
}
