package tensor

// Backend defines the interface compute backends must implement. It is the
// execution surface the attribution engine differentiates through; non-linear
// activations are not part of it because they only exist on tape-recording
// engines (see internal/autodiff).
//
// Implementations:
//   - internal/backend/cpu: pure Go
//   - internal/autodiff: decorator adding gradient tracking to any Backend
type Backend interface {
	// Element-wise binary operations (NumPy-style broadcasting).
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix multiplication for 2D tensors.
	MatMul(a, b *RawTensor) *RawTensor

	// Element-wise operations against a scalar.
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor

	// Comparison and selection; GreaterEqual returns a Bool tensor,
	// Where selects x or y element-wise by condition.
	GreaterEqual(a, b *RawTensor) *RawTensor
	Where(condition, x, y *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Sum reduces the tensor to a scalar (shape {1}).
	Sum(x *RawTensor) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
