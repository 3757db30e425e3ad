package utils

import (
	"math"
	"testing"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"", nil},
		{"   ", nil},
		{"42", 42},
		{" 7 ", 7},
		{"19.99", 19.99},
		{"ORD1000", "ORD1000"},
		{"  Books ", "Books"},
	}

	for _, tt := range tests {
		got := ParseCell(tt.raw)
		if got != tt.want {
			t.Errorf("ParseCell(%q) = %#v; want %#v", tt.raw, got, tt.want)
		}
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{nil, 0, false},
		{12, 12, true},
		{int64(3), 3, true},
		{2.5, 2.5, true},
		{" 10.5 ", 10.5, true},
		{"abc", 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
	}

	for _, tt := range tests {
		got, ok := ToFloat(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ToFloat(%#v) = (%v, %v); want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestIsMissing(t *testing.T) {
	if !IsMissing(nil) || !IsMissing("  ") || !IsMissing(math.NaN()) {
		t.Error("nil, blank and NaN should be missing")
	}
	if IsMissing("x") || IsMissing(0) {
		t.Error("non-empty values should not be missing")
	}
}
