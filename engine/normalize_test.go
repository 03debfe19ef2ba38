package engine

import (
	"encoding/json"
	"math"
	"testing"
)

func TestToNonNegativeNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{3.2, 3.2},
		{0, 0},
		{-5, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for _, tc := range tests {
		if got := ToNonNegativeNumber(tc.in); got != tc.want {
			t.Errorf("ToNonNegativeNumber(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"2.5", 2.5},
		{" 2.5 ", 2.5},
		{"", 0},
		{"abc", 0},
		{"-3", 0},
		{"1e3", 1000},
	}
	for _, tc := range tests {
		if got := ParseAmount(tc.in); got != tc.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// 用量字段数字、字符串、空值、垃圾内容都要能解析，坏输入按 0 处理
func TestLenientFloatUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`{"amount": 5}`, 5},
		{`{"amount": "7.5"}`, 7.5},
		{`{"amount": ""}`, 0},
		{`{"amount": "abc"}`, 0},
		{`{"amount": null}`, 0},
		{`{"amount": -2}`, 0},
		{`{}`, 0},
	}
	for _, tc := range tests {
		var line struct {
			Amount LenientFloat `json:"amount"`
		}
		if err := json.Unmarshal([]byte(tc.in), &line); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tc.in, err)
		}
		if float64(line.Amount) != tc.want {
			t.Errorf("LenientFloat from %s = %v, want %v", tc.in, float64(line.Amount), tc.want)
		}
	}
}

func TestAmountGrams(t *testing.T) {
	if got := AmountGrams(5, WeightUnitGram); got != 5 {
		t.Errorf("AmountGrams(5, g) = %v, want 5", got)
	}
	if got := AmountGrams(0.005, WeightUnitKilogram); got != 5 {
		t.Errorf("AmountGrams(0.005, kg) = %v, want 5", got)
	}
}

func TestCanonicalGramsPerLiter(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		cfg    MixConfig
		want   float64
	}{
		{
			name:   "total mode divides by vessel volume",
			amount: 500,
			cfg:    MixConfig{VesselVolumeL: 100, DosingMode: DosingModeTotal, WeightUnit: WeightUnitGram},
			want:   5,
		},
		{
			name:   "per liter mode passes through",
			amount: 5,
			cfg:    MixConfig{VesselVolumeL: 100, DosingMode: DosingModePerLiter, WeightUnit: WeightUnitGram},
			want:   5,
		},
		{
			name:   "kilograms convert to grams first",
			amount: 0.5,
			cfg:    MixConfig{VesselVolumeL: 100, DosingMode: DosingModeTotal, WeightUnit: WeightUnitKilogram},
			want:   5,
		},
		{
			name:   "zero volume yields zero, not Inf",
			amount: 500,
			cfg:    MixConfig{VesselVolumeL: 0, DosingMode: DosingModeTotal, WeightUnit: WeightUnitGram},
			want:   0,
		},
		{
			name:   "negative volume yields zero",
			amount: 500,
			cfg:    MixConfig{VesselVolumeL: -10, DosingMode: DosingModeTotal, WeightUnit: WeightUnitGram},
			want:   0,
		},
	}
	for _, tc := range tests {
		got := CanonicalGramsPerLiter(tc.amount, tc.cfg)
		if got != tc.want {
			t.Errorf("%s: CanonicalGramsPerLiter = %v, want %v", tc.name, got, tc.want)
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("%s: non-finite result %v", tc.name, got)
		}
	}
}
