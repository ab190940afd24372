// Package cpu implements the CPU backend for the lucent tensor engine.
package cpu

import (
	"fmt"

	"github.com/lucent-ml/lucent/internal/tensor"
)

// CPUBackend implements tensor operations in pure Go.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{device: tensor.CPU}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b, addFloat32, addFloat64)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b, subFloat32, subFloat64)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b, mulFloat32, mulFloat64)
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b, divFloat32, divFloat64)
}

// binaryOp implements the shared broadcast/fast-path dispatch for the
// element-wise binary operations.
func (cpu *CPUBackend) binaryOp(
	name string,
	a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		switch a.DType() {
		case tensor.Float32:
			dst, xs, ys := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
			for i := range xs {
				dst[i] = f32(xs[i], ys[i])
			}
		case tensor.Float64:
			dst, xs, ys := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
			for i := range xs {
				dst[i] = f64(xs[i], ys[i])
			}
		default:
			panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
		}
		return result
	}

	// Broadcast path: walk output coordinates, map back to source offsets.
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	n := outShape.NumElements()

	switch a.DType() {
	case tensor.Float32:
		dst, xs, ys := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		for i := 0; i < n; i++ {
			dst[i] = f32(xs[flatIndex(i, outStrides, aStrides)], ys[flatIndex(i, outStrides, bStrides)])
		}
	case tensor.Float64:
		dst, xs, ys := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		for i := 0; i < n; i++ {
			dst[i] = f64(xs[flatIndex(i, outStrides, aStrides)], ys[flatIndex(i, outStrides, bStrides)])
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}

	return result
}

// Reshape returns a tensor with the same data but a different shape.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.Shape(), newShape))
	}

	result, err := tensor.NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	copy(result.Data(), t.Data())
	return result
}

// Transpose permutes the tensor's dimensions. With no axes given, all
// dimensions are reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	srcStrides := shape.ComputeStrides()
	dstStrides := newShape.ComputeStrides()
	n := t.NumElements()

	mapIndex := func(dstIdx int) int {
		srcIdx := 0
		for i := 0; i < ndim; i++ {
			coord := dstIdx / dstStrides[i]
			dstIdx %= dstStrides[i]
			srcIdx += coord * srcStrides[axes[i]]
		}
		return srcIdx
	}

	switch t.DType() {
	case tensor.Float32:
		dst, src := result.AsFloat32(), t.AsFloat32()
		for i := 0; i < n; i++ {
			dst[i] = src[mapIndex(i)]
		}
	case tensor.Float64:
		dst, src := result.AsFloat64(), t.AsFloat64()
		for i := 0; i < n; i++ {
			dst[i] = src[mapIndex(i)]
		}
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	return result
}

func addFloat32(x, y float32) float32 { return x + y }
func subFloat32(x, y float32) float32 { return x - y }
func mulFloat32(x, y float32) float32 { return x * y }
func divFloat32(x, y float32) float32 { return x / y }

func addFloat64(x, y float64) float64 { return x + y }
func subFloat64(x, y float64) float64 { return x - y }
func mulFloat64(x, y float64) float64 { return x * y }
func divFloat64(x, y float64) float64 { return x / y }
