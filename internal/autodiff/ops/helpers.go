package ops

import (
	"fmt"

	"github.com/lucent-ml/lucent/internal/tensor"
)

// FillLike creates a tensor shaped and typed like t, filled with value.
func FillLike(t *tensor.RawTensor, value float64) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape(), t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("fillLike: %v", err))
	}

	switch t.DType() {
	case tensor.Float32:
		data := result.AsFloat32()
		v := float32(value)
		for i := range data {
			data[i] = v
		}
	case tensor.Float64:
		data := result.AsFloat64()
		for i := range data {
			data[i] = value
		}
	default:
		panic(fmt.Sprintf("fillLike: unsupported dtype %s", t.DType()))
	}

	return result
}

// OnesLike creates a ones tensor shaped and typed like t.
func OnesLike(t *tensor.RawTensor) *tensor.RawTensor {
	return FillLike(t, 1)
}

// ZerosLike creates a zero tensor shaped and typed like t.
func ZerosLike(t *tensor.RawTensor) *tensor.RawTensor {
	return FillLike(t, 0)
}

// reduceBroadcast reduces a gradient tensor to the target shape, summing over
// dimensions that were broadcast during the forward pass.
//
//	Forward:  a[3,1] + b[3,4] -> c[3,4]   (a broadcast along dim 1)
//	Backward: grad_c[3,4] -> grad_a[3,1]  (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Clone on match so later accumulation cannot alias a shared buffer.
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	// Broadcasting aligns from the right: sum away leading extra dimensions,
	// then sum dimensions where the target is 1.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = sumAlongDim(result, 0, true)
	}
	for i, dim := range targetShape {
		if dim == 1 && result.Shape()[i] > 1 {
			result = sumAlongDim(result, i, false)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// sumAlongDim sums t along dim. With drop, the dimension is removed from the
// shape; otherwise it is kept with size 1.
func sumAlongDim(t *tensor.RawTensor, dim int, drop bool) *tensor.RawTensor {
	shape := t.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumAlongDim: invalid dimension %d for shape %v", dim, shape))
	}

	outShape := shape.Clone()
	if drop {
		outShape = append(outShape[:dim], outShape[dim+1:]...)
	} else {
		outShape[dim] = 1
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result, err := tensor.NewRaw(outShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("sumAlongDim: %v", err))
	}

	strides := shape.ComputeStrides()
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	inner := strides[dim]
	count := shape[dim]

	switch t.DType() {
	case tensor.Float32:
		src, dst := t.AsFloat32(), result.AsFloat32()
		for o := 0; o < outer; o++ {
			for in := 0; in < inner; in++ {
				var sum float32
				base := o*count*inner + in
				for c := 0; c < count; c++ {
					sum += src[base+c*inner]
				}
				dst[o*inner+in] = sum
			}
		}
	case tensor.Float64:
		src, dst := t.AsFloat64(), result.AsFloat64()
		for o := 0; o < outer; o++ {
			for in := 0; in < inner; in++ {
				var sum float64
				base := o*count*inner + in
				for c := 0; c < count; c++ {
					sum += src[base+c*inner]
				}
				dst[o*inner+in] = sum
			}
		}
	default:
		panic(fmt.Sprintf("sumAlongDim: unsupported dtype %s", t.DType()))
	}

	return result
}
