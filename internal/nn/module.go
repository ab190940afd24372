// Package nn implements the neural network modules used to build models
// for attribution analysis.
//
// This package provides the building blocks attribution methods walk through:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named layer parameters
//   - Linear: Fully connected layer
//   - Activations: ReLU, Sigmoid, Tanh
//   - Sequential: Container for stacking layers
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/lucent-ml/lucent/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all parameters
//
// Modules can be composed to build architectures to explain:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(4, 8, engine),
//	    nn.NewReLU[*autodiff.Engine[*cpu.CPUBackend]](),
//	    nn.NewLinear(8, 1, engine),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface. Run a model
// on an autodiff engine when its forward pass needs to be differentiated.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this module.
	// For example, Linear expects [batch_size, in_features].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all parameters of this module, including
	// nested module parameters. Returns an empty slice for modules
	// without parameters (e.g. activation functions).
	Parameters() []*Parameter[B]
}
