// Package ops defines the differentiable operations recorded on the gradient tape.
//
// Each operation stores its forward inputs and output and knows how to compute
// input gradients from the output gradient. The backward rule of an operation
// is its "original gradient rule"; attribution methods may substitute the rule
// for non-linear operations via autodiff.GradOverride.
package ops

import "github.com/lucent-ml/lucent/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output gradient.
	// The returned slice corresponds position-wise to Inputs().
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors recorded during the forward pass.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}

// NonLinear marks single-input monotonic activation operations (ReLU, Sigmoid,
// Tanh). These are the operations whose backward rule attribution methods can
// replace; Input and Output expose the pre- and post-activation tensors the
// substituted rule needs.
type NonLinear interface {
	Operation

	// Input returns the pre-activation tensor.
	Input() *tensor.RawTensor
}
