// Copyright 2026 The Lucent Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation
// (backpropagation) using a gradient tape. It wraps any backend to add
// gradient tracking, and is the engine the attribution methods
// differentiate models through.
//
// Example:
//
//	import (
//	    "github.com/lucent-ml/lucent/autodiff"
//	    "github.com/lucent-ml/lucent/backend/cpu"
//	    "github.com/lucent-ml/lucent/tensor"
//	)
//
//	func main() {
//	    engine := autodiff.New(cpu.New())
//
//	    engine.Tape().StartRecording()
//	    x := tensor.Randn[float32](tensor.Shape{2, 3}, engine)
//	    y := engine.Sigmoid(x.Raw()) // Operations recorded on tape
//	    engine.Tape().StopRecording()
//
//	    grads := autodiff.Backward(y, engine, nil)
//	    _ = grads[x.Raw()]
//	}
package autodiff

import (
	"github.com/lucent-ml/lucent/internal/autodiff"
	"github.com/lucent-ml/lucent/internal/autodiff/ops"
	"github.com/lucent-ml/lucent/internal/tensor"
)

// Engine is the autodiff-enabled backend decorator.
type Engine[B tensor.Backend] = autodiff.Engine[B]

// New creates a new autodiff engine wrapping the given backend.
//
// Example:
//
//	engine := autodiff.New(cpu.New())
func New[B tensor.Backend](backend B) *Engine[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable is the interface for backends that support
// backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// NonLinear marks recorded operations whose gradient rule can be replaced
// during a backward walk (ReLU, Sigmoid, Tanh).
type NonLinear = ops.NonLinear

// GradOverride replaces the gradient rule of non-linear operations for a
// single backward walk. A nil override keeps the original rules.
type GradOverride = autodiff.GradOverride

// Backward computes gradients of out with respect to every tensor the tape
// saw, optionally routing non-linear operations through override.
func Backward(out *tensor.RawTensor, backend BackwardCapable, override GradOverride) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(out, backend, override)
}
