package tensor

import (
	"testing"
)

func TestShape_NumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{2, 3}, 6},
		{Shape{1}, 1},
		{Shape{4, 1, 5}, 20},
	}
	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, false},
		{Shape{2, 3}, Shape{1, 3}, Shape{2, 3}, true, false},
		{Shape{2, 3}, Shape{3}, Shape{2, 3}, true, false},
		{Shape{4, 1}, Shape{1, 5}, Shape{4, 5}, true, false},
		{Shape{2, 3}, Shape{2, 4}, nil, false, true},
	}

	for _, tt := range tests {
		got, broadcast, err := BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			if err == nil {
				t.Errorf("BroadcastShapes(%v, %v): expected error", tt.a, tt.b)
			}
			continue
		}
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v): %v", tt.a, tt.b, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if broadcast != tt.broadcast {
			t.Errorf("BroadcastShapes(%v, %v) broadcast = %v, want %v", tt.a, tt.b, broadcast, tt.broadcast)
		}
	}
}

func TestRawTensor_CloneSharesBuffer(t *testing.T) {
	raw, err := NewRaw(Shape{3}, Float32, CPU)
	if err != nil {
		t.Fatal(err)
	}
	data := raw.AsFloat32()
	data[0], data[1], data[2] = 1, 2, 3

	clone := raw.Clone()
	if raw.IsUnique() || clone.IsUnique() {
		t.Error("clone should share the buffer with the original")
	}
	if clone.AsFloat32()[2] != 3 {
		t.Errorf("clone data = %v, want view of original", clone.AsFloat32())
	}

	clone.Release()
	if !raw.IsUnique() {
		t.Error("releasing the clone should leave the original unique")
	}
	if raw.AsFloat32()[0] != 1 {
		t.Errorf("release corrupted original: %v", raw.AsFloat32())
	}
}

func TestRawTensor_ForceNonUnique(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Float32, CPU)
	if err != nil {
		t.Fatal(err)
	}

	if !raw.IsUnique() {
		t.Fatal("fresh tensor should be unique")
	}

	restore := raw.ForceNonUnique()
	if raw.IsUnique() {
		t.Error("pinned tensor should not report unique")
	}
	restore()
	if !raw.IsUnique() {
		t.Error("restore should make the tensor unique again")
	}
}
