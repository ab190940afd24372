package autodiff

import (
	"fmt"

	"github.com/lucent-ml/lucent/internal/autodiff/ops"
	"github.com/lucent-ml/lucent/internal/tensor"
)

// BackwardCapable is the slice of the engine the attribution methods depend
// on: a backend whose operations were recorded and whose tape can be walked.
type BackwardCapable interface {
	tensor.Backend
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable).
func (e *Engine[B]) GetTape() *GradientTape {
	return e.tape
}

// Backward seeds a ones gradient for out and walks the backend's tape,
// returning a map from each touched RawTensor to its accumulated gradient.
// override may be nil (original rules everywhere).
func Backward(out *tensor.RawTensor, backend BackwardCapable, override GradOverride) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	switch out.DType() {
	case tensor.Float32, tensor.Float64:
	default:
		panic(fmt.Sprintf("backward: unsupported dtype %s (only float32/float64 supported)", out.DType()))
	}

	return tape.BackwardWithOverride(ops.OnesLike(out), backend, override)
}
