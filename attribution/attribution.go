// Copyright 2026 The Lucent Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package attribution computes per-feature relevance scores explaining a
// differentiable model's prediction for a given input.
//
// Two gradient-based methods are provided, sharing one extension point
// (replacing the gradient rule of non-linear operations during the backward
// walk): epsilon Layer-wise Relevance Propagation and Integrated Gradients.
// A plain gradient method is included as the degenerate baseline.
//
// Example:
//
//	engine := autodiff.New(cpu.New())
//	model := func(x *tensor.RawTensor) *tensor.RawTensor {
//	    return engine.Sigmoid(engine.MatMul(x, weights))
//	}
//
//	lrp, err := attribution.NewLRP(1e-4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	scores, err := lrp.Attribute(engine, attribution.NewRequest(model, input))
package attribution

import (
	"github.com/lucent-ml/lucent/internal/attribution"
	"github.com/lucent-ml/lucent/internal/tensor"
)

// Engine is the autodiff capability attribution methods require.
type Engine = attribution.Engine

// Model runs a forward pass at an evaluation point. Implementations must
// route every operation through the attribution engine so the walk from
// output to input is recorded.
type Model = attribution.Model

// Request bundles a model with the input to explain.
type Request = attribution.Request

// NewRequest creates a Request with a fresh run ID.
func NewRequest(model Model, input *tensor.RawTensor) *Request {
	return attribution.NewRequest(model, input)
}

// Method computes relevance scores for a request. The result has the same
// shape as the request input.
type Method = attribution.Method

// LRP is the epsilon Layer-wise Relevance Propagation method.
type LRP = attribution.LRP

// NewLRP creates an LRP method with the given epsilon stabilizer.
// Epsilon must be positive; it is per-instance state, so concurrent
// instances with different epsilons do not interfere.
func NewLRP(epsilon float64) (*LRP, error) {
	return attribution.NewLRP(epsilon)
}

// IntegratedGradients approximates the path integral of gradients from a
// baseline to the input.
type IntegratedGradients = attribution.IntegratedGradients

// Option configures IntegratedGradients.
type Option = attribution.Option

// WithSteps sets the Riemann sum resolution (default 100).
func WithSteps(steps int) Option {
	return attribution.WithSteps(steps)
}

// WithBaseline sets the integration start point. The default is a zero
// tensor shaped like a single input row.
func WithBaseline(baseline *tensor.RawTensor) Option {
	return attribution.WithBaseline(baseline)
}

// NewIntegratedGradients creates an IntegratedGradients method.
func NewIntegratedGradients(opts ...Option) (*IntegratedGradients, error) {
	return attribution.NewIntegratedGradients(opts...)
}

// RawGradient scores features by the plain model gradient.
type RawGradient = attribution.RawGradient

// NewRawGradient creates the plain-gradient method.
func NewRawGradient() *RawGradient {
	return attribution.NewRawGradient()
}

// DefaultSteps is the default Integrated Gradients resolution.
const DefaultSteps = attribution.DefaultSteps

// Configuration and request validation errors.
var (
	ErrInvalidEpsilon = attribution.ErrInvalidEpsilon
	ErrInvalidSteps   = attribution.ErrInvalidSteps
	ErrNoEngine       = attribution.ErrNoEngine
	ErrNoModel        = attribution.ErrNoModel
	ErrNoInput        = attribution.ErrNoInput
)
