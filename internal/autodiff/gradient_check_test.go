package autodiff_test

import (
	"math"
	"testing"

	"github.com/lucent-ml/lucent/internal/autodiff"
	"github.com/lucent-ml/lucent/internal/autodiff/ops"
	"github.com/lucent-ml/lucent/internal/backend/cpu"
	"github.com/lucent-ml/lucent/internal/tensor"
)

// numericalGradient computes the gradient using central finite differences.
func numericalGradient(f func(float32) float32, x, epsilon float32) float32 {
	return (f(x+epsilon) - f(x-epsilon)) / (2 * epsilon)
}

// TestGradient_Square tests f(x) = x².
func TestGradient_Square(t *testing.T) {
	engine := autodiff.New(cpu.New())
	tape := engine.Tape()

	testPoint := float32(3.0)

	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice([]float32{testPoint}, tensor.Shape{1}, engine)
	y := engine.Mul(x.Raw(), x.Raw()) // y = x²
	tape.StopRecording()

	gradients := autodiff.Backward(y, engine, nil)
	grad := gradients[x.Raw()].AsFloat32()[0]

	// df/dx = 2x = 6.0
	if math.Abs(float64(grad-6.0)) > 1e-5 {
		t.Errorf("gradient = %f, want 6.0", grad)
	}
}

// TestGradient_Composite tests f(x) = (x + 2) * 3.
func TestGradient_Composite(t *testing.T) {
	engine := autodiff.New(cpu.New())
	tape := engine.Tape()

	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice([]float32{5}, tensor.Shape{1}, engine)
	two, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, engine)
	three, _ := tensor.FromSlice([]float32{3}, tensor.Shape{1}, engine)

	temp := engine.Add(x.Raw(), two.Raw())
	y := engine.Mul(temp, three.Raw()) // y = (x + 2) * 3
	tape.StopRecording()

	gradients := autodiff.Backward(y, engine, nil)
	grad := gradients[x.Raw()].AsFloat32()[0]

	// df/dx = 3
	if math.Abs(float64(grad-3.0)) > 1e-5 {
		t.Errorf("gradient = %f, want 3.0", grad)
	}
}

// TestGradient_Sigmoid compares the recorded sigmoid gradient against
// finite differences.
func TestGradient_Sigmoid(t *testing.T) {
	engine := autodiff.New(cpu.New())
	tape := engine.Tape()

	testPoint := float32(0.7)

	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice([]float32{testPoint}, tensor.Shape{1}, engine)
	y := engine.Sigmoid(x.Raw())
	tape.StopRecording()

	gradients := autodiff.Backward(y, engine, nil)
	grad := gradients[x.Raw()].AsFloat32()[0]

	f := func(v float32) float32 {
		return float32(1.0 / (1.0 + math.Exp(-float64(v))))
	}
	numerical := numericalGradient(f, testPoint, 1e-3)

	// Numerical gradients have inherent error from finite differences
	if math.Abs(float64(grad-numerical)) > 0.01 {
		t.Errorf("autodiff grad (%f) differs from numerical grad (%f)", grad, numerical)
	}
}

// TestGradient_ReLU checks the mask gradient on both sides of zero.
func TestGradient_ReLU(t *testing.T) {
	engine := autodiff.New(cpu.New())
	tape := engine.Tape()

	tape.Clear()
	tape.StartRecording()

	x, _ := tensor.FromSlice([]float32{-2, 3}, tensor.Shape{2}, engine)
	y := engine.ReLU(x.Raw())
	tape.StopRecording()

	gradients := autodiff.Backward(y, engine, nil)
	grad := gradients[x.Raw()].AsFloat32()

	if grad[0] != 0 {
		t.Errorf("gradient at x=-2 is %f, want 0", grad[0])
	}
	if grad[1] != 1 {
		t.Errorf("gradient at x=3 is %f, want 1", grad[1])
	}
}

// TestGradient_MatMul checks gradients flow through both matmul operands.
func TestGradient_MatMul(t *testing.T) {
	engine := autodiff.New(cpu.New())
	tape := engine.Tape()

	tape.Clear()
	tape.StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, engine)
	b, _ := tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, engine)
	y := engine.MatMul(a.Raw(), b.Raw())
	tape.StopRecording()

	gradients := autodiff.Backward(y, engine, nil)

	// dY/dA = ones @ Bᵀ
	gradA := gradients[a.Raw()].AsFloat32()
	wantA := []float32{11, 15, 11, 15}
	for i := range wantA {
		if math.Abs(float64(gradA[i]-wantA[i])) > 1e-5 {
			t.Errorf("gradA[%d] = %f, want %f", i, gradA[i], wantA[i])
		}
	}

	// dY/dB = Aᵀ @ ones
	gradB := gradients[b.Raw()].AsFloat32()
	wantB := []float32{4, 4, 6, 6}
	for i := range wantB {
		if math.Abs(float64(gradB[i]-wantB[i])) > 1e-5 {
			t.Errorf("gradB[%d] = %f, want %f", i, gradB[i], wantB[i])
		}
	}
}

// TestGradient_Broadcast checks that broadcast gradients reduce back to the
// operand's shape.
func TestGradient_Broadcast(t *testing.T) {
	engine := autodiff.New(cpu.New())
	tape := engine.Tape()

	tape.Clear()
	tape.StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, engine)
	b, _ := tensor.FromSlice([]float32{10, 20, 30}, tensor.Shape{1, 3}, engine)
	y := engine.Add(a.Raw(), b.Raw())
	tape.StopRecording()

	gradients := autodiff.Backward(y, engine, nil)

	gradB := gradients[b.Raw()]
	if !gradB.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("gradB shape = %v, want [1 3]", gradB.Shape())
	}
	for i, v := range gradB.AsFloat32() {
		if v != 2 {
			t.Errorf("gradB[%d] = %f, want 2 (summed over batch)", i, v)
		}
	}
}

// TestTape_Recording checks recording toggles and op counting.
func TestTape_Recording(t *testing.T) {
	engine := autodiff.New(cpu.New())
	tape := engine.Tape()

	tape.Clear()
	x, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, engine)

	engine.Add(x.Raw(), x.Raw())
	if tape.NumOps() != 0 {
		t.Errorf("ops recorded without StartRecording: %d", tape.NumOps())
	}

	tape.StartRecording()
	engine.Add(x.Raw(), x.Raw())
	engine.Mul(x.Raw(), x.Raw())
	tape.StopRecording()
	engine.Add(x.Raw(), x.Raw())

	if tape.NumOps() != 2 {
		t.Errorf("NumOps = %d, want 2", tape.NumOps())
	}

	tape.Clear()
	if tape.NumOps() != 0 {
		t.Errorf("NumOps after Clear = %d, want 0", tape.NumOps())
	}
}

// TestBackward_Override routes the sigmoid gradient through a replacement
// rule and checks the original rule is untouched on the next walk.
func TestBackward_Override(t *testing.T) {
	engine := autodiff.New(cpu.New())
	tape := engine.Tape()

	record := func() (in, out *tensor.RawTensor) {
		tape.Clear()
		tape.StartRecording()
		x, _ := tensor.FromSlice([]float32{0.5}, tensor.Shape{1}, engine)
		y := engine.Sigmoid(x.Raw())
		tape.StopRecording()
		return x.Raw(), y
	}

	// Pass-through override: gradient flows unchanged.
	in, out := record()
	passthrough := func(op ops.NonLinear, outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
		return []*tensor.RawTensor{outputGrad.Clone()}
	}
	grads := tape.BackwardWithOverride(ops.OnesLike(out), engine.Inner(), passthrough)
	if overridden := grads[in].AsFloat32()[0]; overridden != 1 {
		t.Errorf("pass-through override gradient = %f, want 1", overridden)
	}

	// Without an override the sigmoid rule applies again.
	in, out = record()
	grads = tape.BackwardWithOverride(ops.OnesLike(out), engine.Inner(), nil)
	original := grads[in].AsFloat32()[0]
	s := 1.0 / (1.0 + math.Exp(-0.5))
	want := float32(s * (1 - s))
	if math.Abs(float64(original-want)) > 1e-5 {
		t.Errorf("original sigmoid gradient = %f, want %f", original, want)
	}
}
