package ops

import "github.com/lucent-ml/lucent/internal/tensor"

// ReLUOp is the rectified linear activation: output = max(0, x).
//
// Original backward rule: d(ReLU(x))/dx = 1 if x > 0 else 0.
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward masks the output gradient by input > 0.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	// nonPositive = (0 >= x); the mask is its complement, 1 where x > 0
	nonPositive := backend.GreaterEqual(ZerosLike(op.input), op.input)
	mask := backend.Where(nonPositive, ZerosLike(op.input), OnesLike(op.input))
	return []*tensor.RawTensor{backend.Mul(outputGrad, mask)}
}

// Inputs returns the input tensor [x].
func (op *ReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor max(0, x).
func (op *ReLUOp) Output() *tensor.RawTensor { return op.output }

// Input returns the pre-activation tensor (NonLinear).
func (op *ReLUOp) Input() *tensor.RawTensor { return op.input }

// SigmoidOp is the logistic activation: output = 1 / (1 + exp(-x)).
//
// Original backward rule: dσ/dx = σ(x) * (1 - σ(x)), computed from the
// already-available forward output.
type SigmoidOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp(input, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{input: input, output: output}
}

// Backward computes grad * σ(x) * (1 - σ(x)).
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	oneMinus := backend.Sub(OnesLike(op.output), op.output)
	derivative := backend.Mul(op.output, oneMinus)
	return []*tensor.RawTensor{backend.Mul(outputGrad, derivative)}
}

// Inputs returns the input tensor [x].
func (op *SigmoidOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor σ(x).
func (op *SigmoidOp) Output() *tensor.RawTensor { return op.output }

// Input returns the pre-activation tensor (NonLinear).
func (op *SigmoidOp) Input() *tensor.RawTensor { return op.input }

// TanhOp is the hyperbolic tangent activation.
//
// Original backward rule: d(tanh(x))/dx = 1 - tanh²(x).
type TanhOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewTanhOp creates a new TanhOp.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Backward computes grad * (1 - tanh²(x)).
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	squared := backend.Mul(op.output, op.output)
	derivative := backend.Sub(OnesLike(op.output), squared)
	return []*tensor.RawTensor{backend.Mul(outputGrad, derivative)}
}

// Inputs returns the input tensor [x].
func (op *TanhOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor tanh(x).
func (op *TanhOp) Output() *tensor.RawTensor { return op.output }

// Input returns the pre-activation tensor (NonLinear).
func (op *TanhOp) Input() *tensor.RawTensor { return op.input }
