package attribution

import "errors"

// Configuration and request errors. All are fatal to the current call and
// propagate unwrapped; no method retries.
var (
	// ErrInvalidEpsilon rejects LRP construction with a non-positive
	// numerical stabilizer.
	ErrInvalidEpsilon = errors.New("attribution: lrp epsilon must be > 0")

	// ErrInvalidSteps rejects IntegratedGradients construction with fewer
	// than one interpolation step.
	ErrInvalidSteps = errors.New("attribution: integrated gradients steps must be >= 1")

	// ErrNoEngine means the differentiation engine is missing.
	ErrNoEngine = errors.New("attribution: differentiation engine is nil")

	// ErrNoModel means the request carries no forward function.
	ErrNoModel = errors.New("attribution: request has no model")

	// ErrNoInput means the request carries no input sample.
	ErrNoInput = errors.New("attribution: request has no input")
)
