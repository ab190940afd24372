package autodiff

import (
	"github.com/lucent-ml/lucent/internal/autodiff/ops"
	"github.com/lucent-ml/lucent/internal/tensor"
)

// GradOverride substitutes the backward rule of a non-linear activation
// during one backward walk. Given the recorded operation and the upstream
// gradient, it returns the gradients to propagate to the operation's inputs.
//
// An override is passed to BackwardWithOverride and is scoped to exactly that
// walk; nothing is registered globally, so concurrent attribution calls with
// different rules cannot interfere. A nil override means every operation uses
// its original backward rule.
type GradOverride func(op ops.NonLinear, outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

// GradientTape records operations during the forward pass and computes
// gradients by walking them in reverse.
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// ... forward pass ...
//	grads := tape.Backward(outputGrad, backend)
type GradientTape struct {
	operations []ops.Operation
	recording  bool
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording reports whether the tape is currently recording.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record appends an operation to the tape when recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear removes all recorded operations. Recording state is preserved so the
// tape can be reused between evaluation points without toggling.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward computes gradients for all inputs by walking the tape in reverse,
// using every operation's original backward rule.
func (t *GradientTape) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	return t.BackwardWithOverride(outputGrad, backend, nil)
}

// BackwardWithOverride computes gradients like Backward, but routes the
// backward pass of every non-linear activation through override when one is
// given. The override applies to this walk only.
//
// Algorithm:
//  1. Seed the last operation's output with outputGrad.
//  2. Walk operations in reverse; compute input gradients via the op's rule
//     (or the override for non-linear ops).
//  3. Accumulate gradients when a tensor feeds multiple operations.
func (t *GradientTape) BackwardWithOverride(
	outputGrad *tensor.RawTensor,
	backend tensor.Backend,
	override GradOverride,
) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	if len(t.operations) == 0 {
		return grads
	}

	// The backward pass itself must not be recorded.
	wasRecording := t.recording
	t.recording = false
	defer func() { t.recording = wasRecording }()

	lastOp := t.operations[len(t.operations)-1]
	grads[lastOp.Output()] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		outGrad, ok := grads[op.Output()]
		if !ok {
			continue // no gradient flows through this operation
		}

		var inputGrads []*tensor.RawTensor
		if nl, isNonLinear := op.(ops.NonLinear); isNonLinear && override != nil {
			inputGrads = override(nl, outGrad, backend)
		} else {
			inputGrads = op.Backward(outGrad, backend)
		}

		t.accumulate(op, inputGrads, grads, backend)
	}

	return grads
}

// accumulate folds the computed input gradients into the gradient map.
func (t *GradientTape) accumulate(
	op ops.Operation,
	inputGrads []*tensor.RawTensor,
	grads map[*tensor.RawTensor]*tensor.RawTensor,
	backend tensor.Backend,
) {
	inputs := op.Inputs()
	for j, input := range inputs {
		if j >= len(inputGrads) || inputGrads[j] == nil {
			continue
		}
		if existing, ok := grads[input]; ok {
			grads[input] = backend.Add(existing, inputGrads[j])
		} else {
			grads[input] = inputGrads[j]
		}
	}
}
