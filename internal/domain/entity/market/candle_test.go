package market

import "testing"

func TestCandleClamp(t *testing.T) {
	cases := []struct {
		name     string
		in       Candle
		highWant float64
		lowWant  float64
	}{
		{"wick below body", Candle{Open: 10, High: 9, Low: 8, Close: 11}, 11, 8},
		{"wick above body", Candle{Open: 10, High: 12, Low: 10.5, Close: 11}, 12, 10},
		{"already valid", Candle{Open: 10, High: 12, Low: 9, Close: 11}, 12, 9},
	}
	for _, tc := range cases {
		c := tc.in
		c.Clamp()
		if c.High != tc.highWant {
			t.Errorf("%s: high = %v, want %v", tc.name, c.High, tc.highWant)
		}
		if c.Low != tc.lowWant {
			t.Errorf("%s: low = %v, want %v", tc.name, c.Low, tc.lowWant)
		}
	}
}
