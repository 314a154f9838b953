package collector

import (
	"encoding/json"
	"math"
	"testing"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 2.5, 2.5, true},
		{"int", 3, 3, true},
		{"json number", json.Number("-1.25"), -1.25, true},
		{"plain string", "9.81", 9.81, true},
		{"percent string", " 7.31% ", 7.31, true},
		{"thousands", "1,234.5", 1234.5, true},
		{"dash", "-", 0, false},
		{"double dash", "--", 0, false},
		{"empty", "", 0, false},
		{"garbage", "n/a", 0, false},
		{"nil", nil, 0, false},
		{"nan", math.NaN(), 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat(tt.in)
			if ok != tt.ok {
				t.Fatalf("ToFloat(%v) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ToFloat(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{" 600519 ", "600519"},
		{float64(700), "700"},
		{json.Number("5827"), "5827"},
		{nil, ""},
		{42, "42"},
	}
	for _, tt := range tests {
		if got := ToString(tt.in); got != tt.want {
			t.Errorf("ToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
