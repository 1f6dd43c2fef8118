// Package container opens compressed XML streams and zip archives.
//
// Single documents may be stored raw or wrapped in gzip, zstd, lz4 frame or
// s2 stream compression; the format is detected from the leading magic bytes.
// Zip archives (the OOXML and OPC package format) are accessed per entry.
package container

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Format identifies a container encoding.
type Format uint8

const (
	FormatRaw Format = iota
	FormatGzip
	FormatZstd
	FormatLZ4
	FormatS2
	FormatZip
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
	magicS2   = []byte("\xff\x06\x00\x00S2sTwO")
	// snappy framed streams are readable by the s2 decoder.
	magicSnappy = []byte("\xff\x06\x00\x00sNaPpY")
	magicZip    = []byte("PK\x03\x04")
)

// maxMagicLen is the number of leading bytes Detect inspects.
const maxMagicLen = 10

var errUnknownFormat = errors.New("unknown container format")

// String returns the canonical format name.
func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatGzip:
		return "gzip"
	case FormatZstd:
		return "zstd"
	case FormatLZ4:
		return "lz4"
	case FormatS2:
		return "s2"
	case FormatZip:
		return "zip"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// ParseFormat resolves a format name. The empty string and "none" mean raw.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "raw", "none":
		return FormatRaw, nil
	case "gzip", "gz":
		return FormatGzip, nil
	case "zstd", "zst":
		return FormatZstd, nil
	case "lz4":
		return FormatLZ4, nil
	case "s2", "snappy":
		return FormatS2, nil
	case "zip":
		return FormatZip, nil
	}
	return FormatRaw, fmt.Errorf("%w: %q", errUnknownFormat, name)
}

// Detect reports the format whose magic bytes prefix head.
func Detect(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, magicZip):
		return FormatZip
	case bytes.HasPrefix(head, magicGzip):
		return FormatGzip
	case bytes.HasPrefix(head, magicZstd):
		return FormatZstd
	case bytes.HasPrefix(head, magicLZ4):
		return FormatLZ4
	case bytes.HasPrefix(head, magicS2), bytes.HasPrefix(head, magicSnappy):
		return FormatS2
	}
	return FormatRaw
}
