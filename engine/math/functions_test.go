package math

import "testing"

func TestVec3Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)

	if got := x.Cross(y); got != NewVec3(0, 0, 1) {
		t.Errorf("x cross y = %v, want (0, 0, 1)", got)
	}
	if got := y.Cross(x); got != NewVec3(0, 0, -1) {
		t.Errorf("y cross x = %v, want (0, 0, -1)", got)
	}
}

func TestVec3Normalized(t *testing.T) {
	v := NewVec3(3, 0, 4).Normalized()
	if !v.Compare(NewVec3(0.6, 0, 0.8), 1e-6) {
		t.Errorf("Normalized = %v, want (0.6, 0, 0.8)", v)
	}
	if got := NewVec3Zero().Normalized(); got != NewVec3Zero() {
		t.Errorf("zero vector normalized to %v", got)
	}
}

func TestVec3Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	if got := a.Add(b); got != NewVec3(5, -3, 9) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != NewVec3(-3, 7, -3) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.MulScalar(2); got != NewVec3(2, 4, 6) {
		t.Errorf("MulScalar = %v", got)
	}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot = %v, want 12", got)
	}
	if got := a.Min(b); got != NewVec3(1, -5, 3) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != NewVec3(4, 2, 6) {
		t.Errorf("Max = %v", got)
	}
	if got := NewVec3(3, 4, 0).Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := NewVec3FromMgl(a.Mgl()); got != a {
		t.Errorf("mgl round trip = %v", got)
	}
}

func TestExtents3D(t *testing.T) {
	e := Extents3D{Min: NewVec3(-1, -2, -3), Max: NewVec3(1, 2, 3)}
	if got := e.Size(); got != NewVec3(2, 4, 6) {
		t.Errorf("Size = %v", got)
	}
	if got := e.Center(); got != NewVec3Zero() {
		t.Errorf("Center = %v", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, low, high, want float32
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.low, tt.high); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.low, tt.high, got, tt.want)
		}
	}
	if got := Clamp(7, 1, 5); got != 5 {
		t.Errorf("Clamp on ints = %d, want 5", got)
	}
}
