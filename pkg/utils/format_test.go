package utils

import "testing"

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "R$ 0,00"},
		{1, "R$ 1,00"},
		{160.5, "R$ 160,50"},
		{1234.56, "R$ 1.234,56"},
		{1000000, "R$ 1.000.000,00"},
		{-1234.56, "-R$ 1.234,56"},
		{0.92, "R$ 0,92"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := FormatBRL(tc.amount); got != tc.expected {
				t.Errorf("FormatBRL(%f) = %s, want %s", tc.amount, got, tc.expected)
			}
		})
	}
}

func TestFormatPercentBR(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "0,00%"},
		{2.5, "+2,50%"},
		{-3.17, "-3,17%"},
		{100, "+100,00%"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := FormatPercentBR(tc.value); got != tc.expected {
				t.Errorf("FormatPercentBR(%f) = %s, want %s", tc.value, got, tc.expected)
			}
		})
	}
}

func TestFormatQuantityBR(t *testing.T) {
	tests := []struct {
		qty      int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{1234567, "1.234.567"},
		{-4500, "-4.500"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := FormatQuantityBR(tc.qty); got != tc.expected {
				t.Errorf("FormatQuantityBR(%d) = %s, want %s", tc.qty, got, tc.expected)
			}
		})
	}
}

func TestFormatCompactBRL(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{500, "R$ 500,00"},
		{4500, "R$ 4,5 mil"},
		{2500000, "R$ 2,50 mi"},
		{3100000000, "R$ 3,10 bi"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := FormatCompactBRL(tc.amount); got != tc.expected {
				t.Errorf("FormatCompactBRL(%f) = %s, want %s", tc.amount, got, tc.expected)
			}
		})
	}
}
