package orchestrator

import "testing"

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{19.98, 19.98},
		{3.5964, 3.6},
		{2.004999, 2.0},
		{2.0051, 2.01},
		{0, 0},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestComputeTotals(t *testing.T) {
	t.Run("reference scenario", func(t *testing.T) {
		got := computeTotals([]float64{19.98}, 0.18)
		if got.Subtotal != 19.98 || got.Taxes != 3.60 || got.Total != 23.58 {
			t.Errorf("unexpected totals: %+v", got)
		}
	})

	t.Run("empty lines", func(t *testing.T) {
		got := computeTotals(nil, 0.18)
		if got.Subtotal != 0 || got.Taxes != 0 || got.Total != 0 {
			t.Errorf("expected zero totals, got %+v", got)
		}
	})

	t.Run("total equals two-step rounding over the subtotal", func(t *testing.T) {
		cases := [][]float64{
			{19.98},
			{2.5, 7.33, 0.01},
			{9.99, 9.99, 9.99},
			{123.45, 0.07},
			{0.01},
		}
		for _, lineTotals := range cases {
			got := computeTotals(lineTotals, 0.18)
			if want := round2(got.Subtotal + round2(got.Subtotal*0.18)); got.Total != want {
				t.Errorf("lines %v: total %v, want %v", lineTotals, got.Total, want)
			}
			if got.Taxes != round2(got.Subtotal*0.18) {
				t.Errorf("lines %v: taxes %v, want %v", lineTotals, got.Taxes, round2(got.Subtotal*0.18))
			}
		}
	})
}
