package geometry

import (
	"math"
	"testing"
)

func TestVector3Arithmetic(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)

	if got := v1.Add(v2); got != NewVector3(5, 7, 9) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := v2.Sub(v1); got != NewVector3(3, 3, 3) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := v1.Mul(2); got != NewVector3(2, 4, 6) {
		t.Errorf("Mul failed: got %v", got)
	}
}

func TestVector3Dot(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)

	expected := 32.0 // 1*4 + 2*5 + 3*6
	if result := v1.Dot(v2); math.Abs(result-expected) > 1e-10 {
		t.Errorf("Dot failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Cross(t *testing.T) {
	// Right-handed basis: x cross y = z
	x := NewVector3(1, 0, 0)
	y := NewVector3(0, 1, 0)

	if result := x.Cross(y); result != NewVector3(0, 0, 1) {
		t.Errorf("Cross failed: expected z axis, got %v", result)
	}
	if result := y.Cross(x); result != NewVector3(0, 0, -1) {
		t.Errorf("Cross failed: expected -z axis, got %v", result)
	}
}

func TestVector3LengthAndDistance(t *testing.T) {
	v := NewVector3(3, 4, 0)

	if length := v.Length(); math.Abs(length-5.0) > 1e-10 {
		t.Errorf("Length failed: expected 5, got %v", length)
	}
	if distance := NewVector3(0, 0, 0).Distance(v); math.Abs(distance-5.0) > 1e-10 {
		t.Errorf("Distance failed: expected 5, got %v", distance)
	}
}

func TestVector3Normalize(t *testing.T) {
	normalized := NewVector3(3, 4, 0).Normalize()
	if math.Abs(normalized.Length()-1.0) > 1e-10 {
		t.Errorf("Normalize failed: expected unit length, got %v", normalized.Length())
	}

	// Zero vector cannot be normalized; it stays zero
	if zero := (Vector3{}).Normalize(); zero != (Vector3{}) {
		t.Errorf("Normalize of zero vector: got %v", zero)
	}
}

func TestVector3MinMax(t *testing.T) {
	v1 := NewVector3(1, 5, 3)
	v2 := NewVector3(4, 2, 3)

	if got := v1.Min(v2); got != NewVector3(1, 2, 3) {
		t.Errorf("Min failed: got %v", got)
	}
	if got := v1.Max(v2); got != NewVector3(4, 5, 3) {
		t.Errorf("Max failed: got %v", got)
	}
}

func TestVector3IsFinite(t *testing.T) {
	if !NewVector3(1, -2.5, 1e300).IsFinite() {
		t.Error("finite vector reported as non-finite")
	}

	bad := []Vector3{
		NewVector3(math.NaN(), 0, 0),
		NewVector3(0, math.NaN(), 0),
		NewVector3(0, 0, math.NaN()),
		NewVector3(math.Inf(1), 0, 0),
		NewVector3(0, math.Inf(-1), 0),
		NewVector3(0, 0, math.Inf(1)),
	}
	for _, v := range bad {
		if v.IsFinite() {
			t.Errorf("expected %v to be non-finite", v)
		}
	}
}
