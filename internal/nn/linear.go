package nn

import (
	"fmt"

	"github.com/lucent-ml/lucent/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
//
// Example:
//
//	engine := autodiff.New(cpu.New())
//	layer := nn.NewLinear(784, 128, engine)
//
//	input := tensor.Randn[float32](tensor.Shape{32, 784}, engine)
//	output := layer.Forward(input) // shape: [32, 128]
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B] // [out_features, in_features]
	bias        *Parameter[B] // [out_features]
	backend     B
}

// NewLinear creates a new Linear layer.
//
// Weights are initialized using Xavier/Glorot uniform distribution.
// Biases are initialized to zeros.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	// Weight: [out_features, in_features]
	weightShape := tensor.Shape{outFeatures, inFeatures}
	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, weightShape, backend))

	// Bias: [out_features]
	bias := NewParameter("bias", Zeros(tensor.Shape{outFeatures}, backend))

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, inputShape[1]))
	}

	// W.T has shape [in_features, out_features]
	wT := l.backend.Transpose(l.weight.Tensor().Raw())

	// [batch_size, in_features] @ [in_features, out_features] = [batch_size, out_features]
	out := l.backend.MatMul(input.Raw(), wT)

	if l.bias != nil {
		// Reshape bias to [1, out_features] so it broadcasts over the batch.
		b := l.backend.Reshape(l.bias.Tensor().Raw(), tensor.Shape{1, l.outFeatures})
		out = l.backend.Add(out, b)
	}

	return tensor.New[float32, B](out, l.backend)
}

// Parameters returns the weight and bias parameters of this layer.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// SetWeight replaces the weight matrix. The tensor must have shape
// [out_features, in_features].
func (l *Linear[B]) SetWeight(w *tensor.Tensor[float32, B]) error {
	if !w.Shape().Equal(tensor.Shape{l.outFeatures, l.inFeatures}) {
		return fmt.Errorf("linear: weight shape %v does not match [%d, %d]", w.Shape(), l.outFeatures, l.inFeatures)
	}
	l.weight.Set(w)
	return nil
}

// SetBias replaces the bias vector. The tensor must have shape [out_features].
func (l *Linear[B]) SetBias(b *tensor.Tensor[float32, B]) error {
	if !b.Shape().Equal(tensor.Shape{l.outFeatures}) {
		return fmt.Errorf("linear: bias shape %v does not match [%d]", b.Shape(), l.outFeatures)
	}
	l.bias.Set(b)
	return nil
}
