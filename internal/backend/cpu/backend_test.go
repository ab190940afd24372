package cpu

import (
	"testing"

	"github.com/lucent-ml/lucent/internal/tensor"
)

func fromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func assertFloats(t *testing.T, got *tensor.RawTensor, want []float32) {
	t.Helper()
	data := got.AsFloat32()
	if len(data) != len(want) {
		t.Fatalf("length %d, want %d", len(data), len(want))
	}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("element %d = %f, want %f", i, data[i], want[i])
		}
	}
}

func TestAdd_Broadcast(t *testing.T) {
	backend := New()

	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	out := backend.Add(a, b)
	if !out.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("shape = %v, want [2 3]", out.Shape())
	}
	assertFloats(t, out, []float32{11, 22, 33, 14, 25, 36})
}

func TestMulDiv(t *testing.T) {
	backend := New()

	a := fromSlice(t, []float32{2, 4, 8}, tensor.Shape{3})
	b := fromSlice(t, []float32{2, 2, 2}, tensor.Shape{3})

	assertFloats(t, backend.Mul(a, b), []float32{4, 8, 16})
	assertFloats(t, backend.Div(a, b), []float32{1, 2, 4})
}

func TestMatMul(t *testing.T) {
	backend := New()

	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromSlice(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	out := backend.MatMul(a, b)
	if !out.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape = %v, want [2 2]", out.Shape())
	}
	assertFloats(t, out, []float32{58, 64, 139, 154})
}

func TestScalarOps(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{1, -2, 3}, tensor.Shape{3})
	assertFloats(t, backend.MulScalar(x, float32(2)), []float32{2, -4, 6})
	assertFloats(t, backend.AddScalar(x, float32(1)), []float32{2, -1, 4})
}

func TestGreaterEqualWhere(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{-1, 0, 2}, tensor.Shape{3})
	zeros := fromSlice(t, []float32{0, 0, 0}, tensor.Shape{3})

	cond := backend.GreaterEqual(x, zeros)
	wantCond := []bool{false, true, true}
	for i, v := range cond.AsBool() {
		if v != wantCond[i] {
			t.Errorf("cond[%d] = %v, want %v", i, v, wantCond[i])
		}
	}

	ones := fromSlice(t, []float32{1, 1, 1}, tensor.Shape{3})
	out := backend.Where(cond, ones, zeros)
	assertFloats(t, out, []float32{0, 1, 1})
}

func TestTranspose(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	out := backend.Transpose(x)

	if !out.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", out.Shape())
	}
	assertFloats(t, out, []float32{1, 4, 2, 5, 3, 6})
}

func TestReshape(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	out := backend.Reshape(x, tensor.Shape{3, 2})

	if !out.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", out.Shape())
	}
	assertFloats(t, out, []float32{1, 2, 3, 4, 5, 6})
}

func TestSum(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	out := backend.Sum(x)

	if !out.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("shape = %v, want [1]", out.Shape())
	}
	assertFloats(t, out, []float32{10})
}
