package num

import (
	"math"
	"testing"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		bits     int
		want     int64
		errKind  ParseErrKind
		consumed int
		wantErr  bool
	}{
		{name: "zero", input: "0", bits: 64, want: 0},
		{name: "neg zero", input: "-0", bits: 64, want: 0},
		{name: "pos sign", input: "+42", bits: 64, want: 42},
		{name: "negative", input: "-456", bits: 32, want: -456},
		{name: "leading zeros", input: "0007", bits: 8, want: 7},
		{name: "max int8", input: "127", bits: 8, want: math.MaxInt8},
		{name: "min int8", input: "-128", bits: 8, want: math.MinInt8},
		{name: "min int64", input: "-9223372036854775808", bits: 64, want: math.MinInt64},
		{name: "max int64 padded", input: "0009223372036854775807", bits: 64, want: math.MaxInt64},
		{name: "overflow int8", input: "128", bits: 8, wantErr: true, errKind: ParseOverflow, consumed: 3},
		{name: "underflow int8", input: "-129", bits: 8, wantErr: true, errKind: ParseOverflow, consumed: 4},
		{name: "overflow int64", input: "9223372036854775808", bits: 64, wantErr: true, errKind: ParseOverflow, consumed: 19},
		{name: "empty", input: "", bits: 64, wantErr: true, errKind: ParseEmpty},
		{name: "sign only", input: "+", bits: 64, wantErr: true, errKind: ParseNoDigits, consumed: 1},
		{name: "trailing garbage", input: "12a", bits: 64, wantErr: true, errKind: ParseBadChar, consumed: 2},
		{name: "inner space", input: "1 2", bits: 64, wantErr: true, errKind: ParseBadChar, consumed: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseInt([]byte(tc.input), tc.bits)
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
				if err.Length != len(tc.input) {
					t.Fatalf("length = %d, want %d", err.Length, len(tc.input))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("value = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParseUint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		bits    int
		want    uint64
		errKind ParseErrKind
		wantErr bool
	}{
		{name: "zero", input: "0", bits: 8, want: 0},
		{name: "max uint8", input: "255", bits: 8, want: math.MaxUint8},
		{name: "max uint64", input: "18446744073709551615", bits: 64, want: math.MaxUint64},
		{name: "overflow uint8", input: "256", bits: 8, wantErr: true, errKind: ParseOverflow},
		{name: "overflow uint64", input: "18446744073709551616", bits: 64, wantErr: true, errKind: ParseOverflow},
		{name: "plus sign", input: "+1", bits: 32, wantErr: true, errKind: ParseSign},
		{name: "minus sign", input: "-1", bits: 32, wantErr: true, errKind: ParseSign},
		{name: "bad char", input: "4x", bits: 32, wantErr: true, errKind: ParseBadChar},
		{name: "empty", input: "", bits: 32, wantErr: true, errKind: ParseEmpty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseUint([]byte(tc.input), tc.bits)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if err.Kind != tc.errKind {
					t.Fatalf("error kind = %v, want %v", err.Kind, tc.errKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("value = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseInt([]byte("12a"), 64)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got, want := err.Error(), "read only 2 of 3 bytes"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}
