package lin

import "testing"

func TestSetV2(t *testing.T) {
	v, a := &V2{}, &V2{1, 2}
	if !v.Set(a).Eq(a) {
		t.Errorf("%+v is not the same as %+v", v, a)
	}
}

func TestAddSubV2(t *testing.T) {
	a, b := &V2{1, 2}, &V2{3, 4}
	sum := NewV2().Add(a, b)
	if !sum.Eq(&V2{4, 6}) {
		t.Errorf("unexpected sum %+v", sum)
	}
	diff := NewV2().Sub(sum, b)
	if !diff.Eq(a) {
		t.Errorf("unexpected diff %+v", diff)
	}
}

func TestDotLenV2(t *testing.T) {
	v := NewV2S(3, 4)
	if v.Dot(v) != 25 {
		t.Errorf("dot = %f, want 25", v.Dot(v))
	}
	if v.Len() != 5 {
		t.Errorf("len = %f, want 5", v.Len())
	}
}

func TestScaleV2(t *testing.T) {
	v := NewV2()
	v.Scale(&V2{1, 2}, 2)
	if !v.Eq(&V2{2, 4}) {
		t.Errorf("unexpected scale result %+v", v)
	}
}
