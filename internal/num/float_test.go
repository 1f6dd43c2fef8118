package num

import (
	"math"
	"testing"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		bits     int
		want     float64
		errKind  ParseErrKind
		consumed int
		wantErr  bool
	}{
		{name: "integer", input: "13", bits: 64, want: 13},
		{name: "fraction", input: "1.25", bits: 64, want: 1.25},
		{name: "leading dot", input: ".5", bits: 64, want: 0.5},
		{name: "trailing dot", input: "5.", bits: 64, want: 5},
		{name: "exponent", input: "-2.5E+3", bits: 64, want: -2500},
		{name: "float32 rounding", input: "0.1", bits: 32, want: float64(float32(0.1))},
		{name: "overflow rounds to inf", input: "1e400", bits: 64, want: math.Inf(1)},
		{name: "inf", input: "INF", bits: 64, want: math.Inf(1)},
		{name: "neg inf", input: "-INF", bits: 32, want: math.Inf(-1)},
		{name: "empty", input: "", bits: 64, wantErr: true, errKind: ParseEmpty},
		{name: "dot only", input: ".", bits: 64, wantErr: true, errKind: ParseNoDigits},
		{name: "dangling exponent", input: "1e", bits: 64, wantErr: true, errKind: ParseBadChar, consumed: 1},
		{name: "trailing garbage", input: "1.5x", bits: 64, wantErr: true, errKind: ParseBadChar, consumed: 3},
		{name: "lowercase inf", input: "inf", bits: 64, wantErr: true, errKind: ParseNoDigits},
		{name: "hex float", input: "0x1p-2", bits: 64, wantErr: true, errKind: ParseBadChar, consumed: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFloat([]byte(tc.input), tc.bits)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if err.Kind != tc.errKind {
					t.Fatalf("error kind = %v, want %v", err.Kind, tc.errKind)
				}
				if err.Consumed != tc.consumed {
					t.Fatalf("consumed = %d, want %d", err.Consumed, tc.consumed)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("value = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseFloatNaN(t *testing.T) {
	got, err := ParseFloat([]byte("NaN"), 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(got) {
		t.Fatalf("expected NaN, got %v", got)
	}
}

func TestAppendFloatSpecials(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: math.Inf(1), want: "INF"},
		{in: math.Inf(-1), want: "-INF"},
		{in: math.NaN(), want: "NaN"},
		{in: 13, want: "13"},
		{in: -0.25, want: "-0.25"},
	}
	for _, tc := range tests {
		if got := string(AppendFloat(nil, tc.in, 64)); got != tc.want {
			t.Fatalf("AppendFloat(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
