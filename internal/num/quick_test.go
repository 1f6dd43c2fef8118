package num

import (
	"math"
	"strconv"
	"testing"
	"testing/quick"
)

func TestQuickIntRoundTrip(t *testing.T) {
	cfg := &quick.Config{MaxCount: 1000}
	err := quick.Check(func(v int64) bool {
		got, err := ParseInt(strconv.AppendInt(nil, v, 10), 64)
		return err == nil && got == v
	}, cfg)
	if err != nil {
		t.Fatal(err)
	}
}

func TestQuickUintRoundTrip(t *testing.T) {
	cfg := &quick.Config{MaxCount: 1000}
	err := quick.Check(func(v uint64) bool {
		got, err := ParseUint(strconv.AppendUint(nil, v, 10), 64)
		return err == nil && got == v
	}, cfg)
	if err != nil {
		t.Fatal(err)
	}
}

func TestQuickInt16Bounds(t *testing.T) {
	cfg := &quick.Config{MaxCount: 1000}
	err := quick.Check(func(v int32) bool {
		_, err := ParseInt(strconv.AppendInt(nil, int64(v), 10), 16)
		inRange := v >= math.MinInt16 && v <= math.MaxInt16
		if inRange {
			return err == nil
		}
		return err != nil && err.Kind == ParseOverflow
	}, cfg)
	if err != nil {
		t.Fatal(err)
	}
}

func TestQuickFloatRoundTrip(t *testing.T) {
	cfg := &quick.Config{MaxCount: 1000}
	err := quick.Check(func(v float64) bool {
		got, err := ParseFloat(AppendFloat(nil, v, 64), 64)
		return err == nil && got == v
	}, cfg)
	if err != nil {
		t.Fatal(err)
	}
}

func TestQuickFloat32RoundTrip(t *testing.T) {
	cfg := &quick.Config{MaxCount: 1000}
	err := quick.Check(func(v float32) bool {
		got, err := ParseFloat(AppendFloat(nil, float64(v), 32), 32)
		return err == nil && float32(got) == v
	}, cfg)
	if err != nil {
		t.Fatal(err)
	}
}
