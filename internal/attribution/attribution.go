// Package attribution computes per-feature relevance scores explaining a
// differentiable model's prediction for one input.
//
// Two attribution rules are implemented on top of the autodiff engine, plus
// the raw-gradient default they both specialize:
//
//   - RawGradient: relevance = ∂output/∂input at the input.
//   - LRP: epsilon-stabilized Layer-wise Relevance Propagation,
//     relevance = input ⊙ gradient computed under a substituted backward rule
//     for non-linear activations.
//   - IntegratedGradients: path integral of the gradient from a baseline to
//     the input, approximated by a Riemann sum.
//
// All methods share one extension point: the autodiff.GradOverride passed to
// the tape walk, scoped to a single attribution call.
package attribution

import (
	"github.com/google/uuid"

	"github.com/lucent-ml/lucent/internal/autodiff"
	"github.com/lucent-ml/lucent/internal/autodiff/ops"
	"github.com/lucent-ml/lucent/internal/tensor"
)

// Engine is the differentiation engine attribution methods run on.
type Engine = autodiff.BackwardCapable

// Model is the forward pass of the model under explanation, expressed against
// the engine so its operations are recorded on the tape. It is evaluated at
// arbitrary inputs (IntegratedGradients walks the baseline→input path), which
// is the tape-based equivalent of evaluating a symbolic gradient expression
// under different feeds.
type Model func(x *tensor.RawTensor) *tensor.RawTensor

// Request carries everything one explanation call needs. It is immutable for
// the duration of the call and owned by the invoked method.
type Request struct {
	// ID tags the request in logs.
	ID uuid.UUID

	// Model is the forward pass to differentiate.
	Model Model

	// Input is the sample to explain. The returned relevance scores have
	// exactly this shape.
	Input *tensor.RawTensor
}

// NewRequest creates a Request with a fresh ID.
func NewRequest(model Model, input *tensor.RawTensor) *Request {
	return &Request{ID: uuid.New(), Model: model, Input: input}
}

// Method computes a relevance score array for a request. The closed set of
// implementations is RawGradient, LRP and IntegratedGradients.
type Method interface {
	// Name identifies the method in logs and CLI flags.
	Name() string

	// Attribute computes the relevance scores. The result has the same shape
	// as req.Input; ownership transfers to the caller.
	Attribute(eng Engine, req *Request) (*tensor.RawTensor, error)
}

// validate rejects requests no method can run.
func validate(eng Engine, req *Request) error {
	if eng == nil {
		return ErrNoEngine
	}
	if req == nil || req.Model == nil {
		return ErrNoModel
	}
	if req.Input == nil {
		return ErrNoInput
	}
	return nil
}

// gradientAt evaluates ∂model(at)/∂at: it records the forward pass at the
// given point, seeds a ones gradient and walks the tape, optionally routing
// non-linear activations through override. The tape is cleared afterwards so
// consecutive evaluation points never see each other's operations.
func gradientAt(eng Engine, model Model, at *tensor.RawTensor, override autodiff.GradOverride) *tensor.RawTensor {
	tape := eng.GetTape()
	tape.Clear()
	tape.StartRecording()
	out := model(at)
	tape.StopRecording()

	grads := tape.BackwardWithOverride(ops.OnesLike(out), eng, override)
	tape.Clear()

	grad, ok := grads[at]
	if !ok {
		// The model never touched the input; relevance is zero everywhere.
		return ops.ZerosLike(at)
	}
	return grad
}

// scalarOf converts v to the scalar type matching dtype, for the engine's
// scalar operations.
func scalarOf(dtype tensor.DataType, v float64) any {
	if dtype == tensor.Float32 {
		return float32(v)
	}
	return v
}
