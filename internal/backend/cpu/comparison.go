package cpu

import (
	"fmt"

	"github.com/lucent-ml/lucent/internal/tensor"
)

// GreaterEqual compares two tensors element-wise and returns a Bool tensor.
// Shapes must match exactly; comparisons do not broadcast.
func (cpu *CPUBackend) GreaterEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("greaterEqual: shape mismatch %v vs %v", a.Shape(), b.Shape()))
	}

	result, err := tensor.NewRaw(a.Shape(), tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("greaterEqual: failed to create result tensor: %v", err))
	}
	dst := result.AsBool()

	switch a.DType() {
	case tensor.Float32:
		xs, ys := a.AsFloat32(), b.AsFloat32()
		for i := range xs {
			dst[i] = xs[i] >= ys[i]
		}
	case tensor.Float64:
		xs, ys := a.AsFloat64(), b.AsFloat64()
		for i := range xs {
			dst[i] = xs[i] >= ys[i]
		}
	default:
		panic(fmt.Sprintf("greaterEqual: unsupported dtype %s", a.DType()))
	}

	return result
}

// Where selects elements from x where condition is true, else from y.
// condition must be a Bool tensor with the same shape as x and y.
func (cpu *CPUBackend) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	if condition.DType() != tensor.Bool {
		panic(fmt.Sprintf("where: condition dtype is %s, not bool", condition.DType()))
	}
	if !condition.Shape().Equal(x.Shape()) || !x.Shape().Equal(y.Shape()) {
		panic(fmt.Sprintf("where: shape mismatch %v / %v / %v",
			condition.Shape(), x.Shape(), y.Shape()))
	}

	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("where: failed to create result tensor: %v", err))
	}
	cond := condition.AsBool()

	switch x.DType() {
	case tensor.Float32:
		dst, xs, ys := result.AsFloat32(), x.AsFloat32(), y.AsFloat32()
		for i := range cond {
			if cond[i] {
				dst[i] = xs[i]
			} else {
				dst[i] = ys[i]
			}
		}
	case tensor.Float64:
		dst, xs, ys := result.AsFloat64(), x.AsFloat64(), y.AsFloat64()
		for i := range cond {
			if cond[i] {
				dst[i] = xs[i]
			} else {
				dst[i] = ys[i]
			}
		}
	default:
		panic(fmt.Sprintf("where: unsupported dtype %s", x.DType()))
	}

	return result
}
