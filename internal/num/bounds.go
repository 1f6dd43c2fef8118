package num

// magnitude limits as decimal digit strings, indexed by bit size.
var (
	maxIntDigits = map[int]string{
		8:  "127",
		16: "32767",
		32: "2147483647",
		64: "9223372036854775807",
	}
	minIntDigits = map[int]string{
		8:  "128",
		16: "32768",
		32: "2147483648",
		64: "9223372036854775808",
	}
	maxUintDigits = map[int]string{
		8:  "255",
		16: "65535",
		32: "4294967295",
		64: "18446744073709551615",
	}
)

func boundFor(table map[int]string, bits int) string {
	if b, ok := table[bits]; ok {
		return b
	}
	return table[64]
}
