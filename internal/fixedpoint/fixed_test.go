package fixedpoint

import "testing"

// TestFromFloatRoundTrip exercises the round-trip law
// fixed_from_float(fixed_to_float(x)) == x for values well inside Q16.16.
func TestFromFloatRoundTrip(t *testing.T) {
	tests := []float64{0, 1, -1, 0.5, -0.5, 3.25, -100.125, 1000.0625}

	for _, v := range tests {
		f := FromFloat64(v)
		back := FromFloat64(f.ToFloat64())
		if f != back {
			t.Errorf("round trip mismatch for %v: %v != %v", v, f, back)
		}
	}
}

func TestDivByZero(t *testing.T) {
	if got := FromInt(5).Div(Zero); got != Zero {
		t.Errorf("expected zero divisor to yield Zero, got %v", got)
	}
}

func TestSqrtNegative(t *testing.T) {
	if got := FromInt(-4).Sqrt(); got != Zero {
		t.Errorf("expected sqrt of negative to yield Zero, got %v", got)
	}
}

func TestSqrtKnownValues(t *testing.T) {
	tests := []struct {
		in   int
		want float64
	}{
		{4, 2},
		{9, 3},
		{16, 4},
		{1, 1},
		{0, 0},
	}

	for _, tt := range tests {
		got := FromInt(tt.in).Sqrt().ToFloat64()
		if diff := got - tt.want; diff < -0.01 || diff > 0.01 {
			t.Errorf("Sqrt(%d) = %v, want ~%v", tt.in, got, tt.want)
		}
	}
}

func TestMulOverflowWraps(t *testing.T) {
	// Overflow is silent two's-complement wrap (spec §4.1) - this must
	// not panic regardless of the resulting value.
	big := Fixed(1 << 30)
	_ = big.Mul(big)
}

func TestComparisons(t *testing.T) {
	a := FromInt(1)
	b := FromInt(2)

	if a.Cmp(b) != -1 {
		t.Errorf("expected a < b")
	}
	if b.Cmp(a) != 1 {
		t.Errorf("expected b > a")
	}
	if a.Cmp(a) != 0 {
		t.Errorf("expected a == a")
	}
}

func TestMinMaxClamp(t *testing.T) {
	lo, hi := FromInt(0), FromInt(10)

	if got := Clamp(FromInt(-5), lo, hi); got != lo {
		t.Errorf("Clamp below range = %v, want %v", got, lo)
	}
	if got := Clamp(FromInt(15), lo, hi); got != hi {
		t.Errorf("Clamp above range = %v, want %v", got, hi)
	}
	if got := Clamp(FromInt(5), lo, hi); got != FromInt(5) {
		t.Errorf("Clamp inside range changed value: %v", got)
	}
}
