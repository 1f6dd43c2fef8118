package xmlbind_test

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/xmlbind"
	xberrors "github.com/jacoelho/xmlbind/errors"
)

func TestBoolCodec(t *testing.T) {
	for input, want := range map[string]bool{"0": false, "false": false, "1": true, "true": true} {
		got, err := xmlbind.Bool.DecodeBuf([]byte(input))
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	for _, input := range []string{"", "TRUE", "yes", " 1", "01"} {
		_, err := xmlbind.Bool.DecodeBuf([]byte(input))
		assert.Equal(t, xberrors.KindInvalidLeafValue, xberrors.KindOf(err), input)
	}

	out, err := xmlbind.Bool.AppendBuf(nil, true)
	require.NoError(t, err)
	assert.Equal(t, "1", string(out))
	out, err = xmlbind.Bool.AppendBuf(nil, false)
	require.NoError(t, err)
	assert.Equal(t, "0", string(out))
}

func TestStringCodecRequiresUTF8(t *testing.T) {
	got, err := xmlbind.String.DecodeBuf([]byte("héllo"))
	require.NoError(t, err)
	assert.Equal(t, "héllo", got)

	_, err = xmlbind.String.DecodeBuf([]byte{'a', 0xc3})
	assert.Equal(t, xberrors.KindEncoding, xberrors.KindOf(err))
}

func TestBytesCodecCopies(t *testing.T) {
	buf := []byte("abc")
	got, err := xmlbind.Bytes.DecodeBuf(buf)
	require.NoError(t, err)
	buf[0] = 'z'
	assert.Equal(t, "abc", string(got))
}

func TestIntegerCodecRanges(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
		run   func([]byte) error
	}{
		{name: "int8 max", input: "127", ok: true, run: decodeWith(xmlbind.Int8)},
		{name: "int8 overflow", input: "128", run: decodeWith(xmlbind.Int8)},
		{name: "int8 min", input: "-128", ok: true, run: decodeWith(xmlbind.Int8)},
		{name: "int8 underflow", input: "-129", run: decodeWith(xmlbind.Int8)},
		{name: "int64 min", input: "-9223372036854775808", ok: true, run: decodeWith(xmlbind.Int64)},
		{name: "int64 overflow", input: "9223372036854775808", run: decodeWith(xmlbind.Int64)},
		{name: "uint8 max", input: "255", ok: true, run: decodeWith(xmlbind.Uint8)},
		{name: "uint8 overflow", input: "256", run: decodeWith(xmlbind.Uint8)},
		{name: "uint64 max", input: "18446744073709551615", ok: true, run: decodeWith(xmlbind.Uint64)},
		{name: "uint sign", input: "+1", run: decodeWith(xmlbind.Uint)},
		{name: "leading zeros", input: "0000042", ok: true, run: decodeWith(xmlbind.Int16)},
		{name: "plus sign", input: "+42", ok: true, run: decodeWith(xmlbind.Int32)},
		{name: "empty", input: "", run: decodeWith(xmlbind.Int)},
		{name: "sign only", input: "-", run: decodeWith(xmlbind.Int)},
		{name: "space", input: " 1", run: decodeWith(xmlbind.Int)},
		{name: "trailing", input: "12a", run: decodeWith(xmlbind.Int)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run([]byte(tt.input))
			if tt.ok {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, xberrors.KindInvalidLeafValue, xberrors.KindOf(err))
		})
	}
}

func decodeWith[V any](c xmlbind.Codec[V]) func([]byte) error {
	return func(buf []byte) error {
		_, err := c.DecodeBuf(buf)
		return err
	}
}

func TestIntegerCodecReportsConsumed(t *testing.T) {
	_, err := xmlbind.Int.DecodeBuf([]byte("12a"))
	be, ok := xberrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 2, be.Consumed)
	assert.Equal(t, 3, be.Length)
	assert.Equal(t, "int", be.Type)
	assert.Contains(t, be.Message, `read only 2 of 3 bytes in "12a"`)
}

func TestFloatCodec(t *testing.T) {
	got, err := xmlbind.Float64.DecodeBuf([]byte("NaN"))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))

	got, err = xmlbind.Float64.DecodeBuf([]byte("1e400"))
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))

	_, err = xmlbind.Float64.DecodeBuf([]byte("1.5x"))
	assert.Equal(t, xberrors.KindInvalidLeafValue, xberrors.KindOf(err))

	out, err := xmlbind.Float32.AppendBuf(nil, 0.1)
	require.NoError(t, err)
	assert.Equal(t, "0.1", string(out))
}

func TestIntegerCodecRoundTripQuick(t *testing.T) {
	roundTrip := func(v int64) bool {
		out, err := xmlbind.Int64.AppendBuf(nil, v)
		if err != nil {
			return false
		}
		back, err := xmlbind.Int64.DecodeBuf(out)
		return err == nil && back == v
	}
	require.NoError(t, quick.Check(roundTrip, nil))

	roundTripUnsigned := func(v uint32) bool {
		out, err := xmlbind.Uint32.AppendBuf(nil, v)
		if err != nil {
			return false
		}
		back, err := xmlbind.Uint32.DecodeBuf(out)
		return err == nil && back == v
	}
	require.NoError(t, quick.Check(roundTripUnsigned, nil))
}

func TestFloatCodecRoundTripQuick(t *testing.T) {
	roundTrip := func(v float64) bool {
		out, err := xmlbind.Float64.AppendBuf(nil, v)
		if err != nil {
			return false
		}
		back, err := xmlbind.Float64.DecodeBuf(out)
		return err == nil && math.Float64bits(back) == math.Float64bits(v)
	}
	require.NoError(t, quick.Check(roundTrip, nil))
}

func TestOptionalCodec(t *testing.T) {
	c := xmlbind.Optional(xmlbind.Int)
	got, err := c.DecodeBuf([]byte("5"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, *got)

	_, err = c.AppendBuf(nil, nil)
	assert.Equal(t, xberrors.KindEmptyOptional, xberrors.KindOf(err))
	assert.Equal(t, "int", c.TypeName())
}
