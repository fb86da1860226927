package domain

import "testing"

func TestNormalizeAmountRoundsHalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{10.005, 10.01},
		{10.004, 10.0},
		{0.1, 0.1},
		{85, 85},
		{-3.555, -3.56},
		{0, 0},
	}
	for _, tc := range cases {
		if got := NormalizeAmount(tc.in); got != tc.want {
			t.Errorf("NormalizeAmount(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeAmountIsIdempotent(t *testing.T) {
	for _, v := range []float64{10.01, 12.34, -0.25, 100} {
		once := NormalizeAmount(v)
		if twice := NormalizeAmount(once); twice != once {
			t.Errorf("NormalizeAmount not idempotent for %v: %v != %v", v, twice, once)
		}
	}
}
