package attribution_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucent-ml/lucent/internal/attribution"
	"github.com/lucent-ml/lucent/internal/autodiff"
	"github.com/lucent-ml/lucent/internal/backend/cpu"
	"github.com/lucent-ml/lucent/internal/tensor"
)

type engineT = *autodiff.Engine[*cpu.CPUBackend]

// sigmoidModel builds y = sigmoid(x @ w) with fixed weights.
func sigmoidModel(eng engineT, weights []float32, features int) attribution.Model {
	w, err := tensor.FromSlice(weights, tensor.Shape{features, 1}, eng)
	if err != nil {
		panic(err)
	}
	return func(x *tensor.RawTensor) *tensor.RawTensor {
		return eng.Sigmoid(eng.MatMul(x, w.Raw()))
	}
}

func newInput(t *testing.T, eng engineT, data []float32) *tensor.RawTensor {
	t.Helper()
	in, err := tensor.FromSlice(data, tensor.Shape{1, len(data)}, eng)
	require.NoError(t, err)
	return in.Raw()
}

func TestLRP_EpsilonValidation(t *testing.T) {
	_, err := attribution.NewLRP(0)
	require.ErrorIs(t, err, attribution.ErrInvalidEpsilon)

	_, err = attribution.NewLRP(-1e-4)
	require.ErrorIs(t, err, attribution.ErrInvalidEpsilon)

	lrp, err := attribution.NewLRP(1e-4)
	require.NoError(t, err)
	assert.Equal(t, 1e-4, lrp.Epsilon())
	assert.Equal(t, "epsilon-lrp", lrp.Name())
}

// TestLRP_InstanceEpsilonIndependence checks that concurrent instances keep
// their own epsilon: constructing a second instance must not change the
// first one's results.
func TestLRP_InstanceEpsilonIndependence(t *testing.T) {
	eng := autodiff.New(cpu.New())
	model := sigmoidModel(eng, []float32{0.5, -1.0, 2.0}, 3)
	input := newInput(t, eng, []float32{1, 2, 3})

	small, err := attribution.NewLRP(1e-6)
	require.NoError(t, err)

	before, err := small.Attribute(eng, attribution.NewRequest(model, input))
	require.NoError(t, err)

	// A second instance with a large stabilizer.
	huge, err := attribution.NewLRP(100)
	require.NoError(t, err)
	_, err = huge.Attribute(eng, attribution.NewRequest(model, input))
	require.NoError(t, err)

	after, err := small.Attribute(eng, attribution.NewRequest(model, input))
	require.NoError(t, err)

	assert.Equal(t, 1e-6, small.Epsilon())
	assert.InDeltaSlice(t, before.AsFloat32(), after.AsFloat32(), 1e-7,
		"small-epsilon scores changed after another instance ran")

	// And the stabilizers really differ: the huge epsilon damps relevance.
	hugeScores, err := huge.Attribute(eng, attribution.NewRequest(model, input))
	require.NoError(t, err)
	assert.NotEqual(t, before.AsFloat32(), hugeScores.AsFloat32())
}

func TestLRP_ScoreShapeMatchesInput(t *testing.T) {
	eng := autodiff.New(cpu.New())
	model := sigmoidModel(eng, []float32{1, 1, 1, 1}, 4)
	input := newInput(t, eng, []float32{0.1, -0.2, 0.3, -0.4})

	lrp, err := attribution.NewLRP(1e-4)
	require.NoError(t, err)

	scores, err := lrp.Attribute(eng, attribution.NewRequest(model, input))
	require.NoError(t, err)
	assert.True(t, scores.Shape().Equal(input.Shape()))
}

func TestIntegratedGradients_StepsValidation(t *testing.T) {
	_, err := attribution.NewIntegratedGradients(attribution.WithSteps(0))
	require.ErrorIs(t, err, attribution.ErrInvalidSteps)

	ig, err := attribution.NewIntegratedGradients()
	require.NoError(t, err)
	assert.Equal(t, attribution.DefaultSteps, ig.Steps())
	assert.Equal(t, "integrated-gradients", ig.Name())
}

// TestIntegratedGradients_SingleStep checks the steps=1 degenerate case:
// one alpha of 1.0, so the result is input ⊙ gradient(input).
func TestIntegratedGradients_SingleStep(t *testing.T) {
	eng := autodiff.New(cpu.New())
	weights := []float32{0.5, -1.0, 2.0}
	model := sigmoidModel(eng, weights, 3)
	inputData := []float32{1, 2, 3}
	input := newInput(t, eng, inputData)

	ig, err := attribution.NewIntegratedGradients(attribution.WithSteps(1))
	require.NoError(t, err)
	scores, err := ig.Attribute(eng, attribution.NewRequest(model, input))
	require.NoError(t, err)

	grad := attribution.NewRawGradient()
	gradScores, err := grad.Attribute(eng, attribution.NewRequest(model, input))
	require.NoError(t, err)

	want := make([]float32, len(inputData))
	for i, g := range gradScores.AsFloat32() {
		want[i] = inputData[i] * g
	}
	assert.InDeltaSlice(t, want, scores.AsFloat32(), 1e-6)
}

// TestIntegratedGradients_Completeness checks convergence: with enough
// steps the attributions sum to f(input) - f(baseline).
func TestIntegratedGradients_Completeness(t *testing.T) {
	eng := autodiff.New(cpu.New())
	weights := []float32{0.5, -1.0, 2.0}
	model := sigmoidModel(eng, weights, 3)
	inputData := []float32{1, 2, 3}
	input := newInput(t, eng, inputData)

	logit := float64(0.5*1 - 1.0*2 + 2.0*3)
	fInput := 1.0 / (1.0 + math.Exp(-logit))
	fBaseline := 0.5 // sigmoid(0)
	want := fInput - fBaseline

	sumAt := func(steps int) float64 {
		ig, err := attribution.NewIntegratedGradients(attribution.WithSteps(steps))
		require.NoError(t, err)
		scores, err := ig.Attribute(eng, attribution.NewRequest(model, input))
		require.NoError(t, err)

		total := 0.0
		for _, s := range scores.AsFloat32() {
			total += float64(s)
		}
		return total
	}

	coarse := math.Abs(sumAt(5) - want)
	fine := math.Abs(sumAt(500) - want)

	assert.Less(t, fine, 0.01, "attributions should sum to the output delta")
	assert.LessOrEqual(t, fine, coarse, "error should shrink with more steps")
}

func TestIntegratedGradients_CustomBaseline(t *testing.T) {
	eng := autodiff.New(cpu.New())
	model := sigmoidModel(eng, []float32{0.5, -1.0, 2.0}, 3)
	inputData := []float32{1, 2, 3}
	input := newInput(t, eng, inputData)

	// Baseline equal to the input: no displacement, all-zero scores.
	baseline := newInput(t, eng, inputData)
	ig, err := attribution.NewIntegratedGradients(
		attribution.WithSteps(10),
		attribution.WithBaseline(baseline),
	)
	require.NoError(t, err)

	scores, err := ig.Attribute(eng, attribution.NewRequest(model, input))
	require.NoError(t, err)
	for i, s := range scores.AsFloat32() {
		assert.InDelta(t, 0, s, 1e-7, "score %d", i)
	}
}

func TestRawGradient_UntouchedInputYieldsZeros(t *testing.T) {
	eng := autodiff.New(cpu.New())

	// The model records work but never reads its argument.
	c, err := tensor.FromSlice([]float32{2}, tensor.Shape{1, 1}, eng)
	require.NoError(t, err)
	model := func(x *tensor.RawTensor) *tensor.RawTensor {
		return eng.Mul(c.Raw(), c.Raw())
	}

	input := newInput(t, eng, []float32{1, 2, 3})
	scores, err := attribution.NewRawGradient().Attribute(eng, attribution.NewRequest(model, input))
	require.NoError(t, err)

	require.True(t, scores.Shape().Equal(input.Shape()))
	for i, s := range scores.AsFloat32() {
		assert.Zero(t, s, "score %d", i)
	}
}

func TestAttribute_Validation(t *testing.T) {
	eng := autodiff.New(cpu.New())
	model := sigmoidModel(eng, []float32{1}, 1)
	input := newInput(t, eng, []float32{1})

	grad := attribution.NewRawGradient()

	_, err := grad.Attribute(nil, attribution.NewRequest(model, input))
	assert.ErrorIs(t, err, attribution.ErrNoEngine)

	_, err = grad.Attribute(eng, attribution.NewRequest(nil, input))
	assert.ErrorIs(t, err, attribution.ErrNoModel)

	_, err = grad.Attribute(eng, attribution.NewRequest(model, nil))
	assert.ErrorIs(t, err, attribution.ErrNoInput)
}

func TestNewRequest_AssignsRunID(t *testing.T) {
	eng := autodiff.New(cpu.New())
	model := sigmoidModel(eng, []float32{1}, 1)
	input := newInput(t, eng, []float32{1})

	a := attribution.NewRequest(model, input)
	b := attribution.NewRequest(model, input)
	assert.NotEqual(t, a.ID, b.ID)
}
