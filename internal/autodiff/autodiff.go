// Package autodiff implements reverse-mode automatic differentiation.
//
// Engine wraps any tensor.Backend and records forward operations on a
// GradientTape; walking the tape in reverse applies the chain rule. The tape
// additionally accepts a per-walk GradOverride that substitutes the backward
// rule of non-linear activation operations, which is the extension point the
// attribution methods build on.
//
// Usage:
//
//	eng := autodiff.New(cpu.New())
//	eng.Tape().StartRecording()
//	y := eng.Sigmoid(eng.MatMul(x, w))
//	grads := eng.Tape().Backward(outputGrad, eng)
package autodiff

import (
	"math"

	"github.com/lucent-ml/lucent/internal/autodiff/ops"
	"github.com/lucent-ml/lucent/internal/tensor"
)

// Engine wraps a Backend and adds gradient tracking. It implements
// tensor.Backend itself, so models built against the interface record
// transparently.
type Engine[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates an Engine wrapping the given backend.
func New[B tensor.Backend](backend B) *Engine[B] {
	return &Engine[B]{inner: backend, tape: NewGradientTape()}
}

// Tape returns the gradient tape for recording control and backward walks.
func (e *Engine[B]) Tape() *GradientTape {
	return e.tape
}

// Inner returns the wrapped backend.
func (e *Engine[B]) Inner() B {
	return e.inner
}

// Name returns the engine name.
func (e *Engine[B]) Name() string {
	return "Autodiff(" + e.inner.Name() + ")"
}

// Device returns the compute device.
func (e *Engine[B]) Device() tensor.Device {
	return e.inner.Device()
}

// Add performs element-wise addition and records the operation.
// ForceNonUnique pins the inputs so the wrapped backend cannot overwrite
// them inplace; the tape needs the original values during backward.
func (e *Engine[B]) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer b.ForceNonUnique()()

	result := e.inner.Add(a, b)
	if e.tape.IsRecording() {
		e.tape.Record(ops.NewAddOp(a, b, result))
	}
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (e *Engine[B]) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer b.ForceNonUnique()()

	result := e.inner.Sub(a, b)
	if e.tape.IsRecording() {
		e.tape.Record(ops.NewSubOp(a, b, result))
	}
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (e *Engine[B]) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer b.ForceNonUnique()()

	result := e.inner.Mul(a, b)
	if e.tape.IsRecording() {
		e.tape.Record(ops.NewMulOp(a, b, result))
	}
	return result
}

// Div performs element-wise division and records the operation.
func (e *Engine[B]) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer b.ForceNonUnique()()

	result := e.inner.Div(a, b)
	if e.tape.IsRecording() {
		e.tape.Record(ops.NewDivOp(a, b, result))
	}
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (e *Engine[B]) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer b.ForceNonUnique()()

	result := e.inner.MatMul(a, b)
	if e.tape.IsRecording() {
		e.tape.Record(ops.NewMatMulOp(a, b, result))
	}
	return result
}

// MulScalar multiplies by a constant and records the operation.
func (e *Engine[B]) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := e.inner.MulScalar(x, scalar)
	if e.tape.IsRecording() {
		e.tape.Record(ops.NewMulScalarOp(x, result, scalar))
	}
	return result
}

// AddScalar adds a constant and records the operation.
func (e *Engine[B]) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := e.inner.AddScalar(x, scalar)
	if e.tape.IsRecording() {
		e.tape.Record(ops.NewAddScalarOp(x, result))
	}
	return result
}

// GreaterEqual compares element-wise. Comparisons are not differentiable and
// are never recorded.
func (e *Engine[B]) GreaterEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	return e.inner.GreaterEqual(a, b)
}

// Where selects element-wise by condition. Selection through a Bool mask is
// not recorded; gradients do not flow through the condition.
func (e *Engine[B]) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	return e.inner.Where(condition, x, y)
}

// Reshape reshapes a tensor and records the operation so gradients flow back
// to the original layout.
func (e *Engine[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	result := e.inner.Reshape(t, newShape)
	if e.tape.IsRecording() {
		e.tape.Record(ops.NewReshapeOp(t, result))
	}
	return result
}

// Transpose permutes dimensions and records the operation.
func (e *Engine[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	ndim := len(t.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	result := e.inner.Transpose(t, axes...)
	if e.tape.IsRecording() {
		e.tape.Record(ops.NewTransposeOp(t, result, axes))
	}
	return result
}

// Sum reduces to a scalar and records the operation.
func (e *Engine[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := e.inner.Sum(x)
	if e.tape.IsRecording() {
		e.tape.Record(ops.NewSumOp(x, result))
	}
	return result
}

// ReLU applies max(0, x) and records the operation.
// Activations are computed by the engine itself rather than the wrapped
// backend: they are the non-linear operations whose backward rule a
// GradOverride may substitute, so the engine must own their recording.
func (e *Engine[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := unaryElementwise(x, e.Device(),
		func(v float32) float32 {
			if v > 0 {
				return v
			}
			return 0
		},
		func(v float64) float64 {
			if v > 0 {
				return v
			}
			return 0
		})

	if e.tape.IsRecording() {
		e.tape.Record(ops.NewReLUOp(x, result))
	}
	return result
}

// Sigmoid applies 1 / (1 + exp(-x)) and records the operation.
func (e *Engine[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := unaryElementwise(x, e.Device(),
		func(v float32) float32 { return float32(1.0 / (1.0 + math.Exp(float64(-v)))) },
		func(v float64) float64 { return 1.0 / (1.0 + math.Exp(-v)) })

	if e.tape.IsRecording() {
		e.tape.Record(ops.NewSigmoidOp(x, result))
	}
	return result
}

// Tanh applies the hyperbolic tangent and records the operation.
func (e *Engine[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := unaryElementwise(x, e.Device(),
		func(v float32) float32 { return float32(math.Tanh(float64(v))) },
		func(v float64) float64 { return math.Tanh(v) })

	if e.tape.IsRecording() {
		e.tape.Record(ops.NewTanhOp(x, result))
	}
	return result
}

func unaryElementwise(
	x *tensor.RawTensor,
	device tensor.Device,
	f32 func(float32) float32,
	f64 func(float64) float64,
) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), device)
	if err != nil {
		panic(err)
	}

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i, v := range src {
			dst[i] = f32(v)
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i, v := range src {
			dst[i] = f64(v)
		}
	default:
		panic("activation: only float32 and float64 supported")
	}
	return result
}
