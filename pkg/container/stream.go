package container

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrArchive is returned when a stream holds a zip archive, which needs
// random access; use OpenArchive or NewArchive instead.
var ErrArchive = errors.New("zip archive requires random access")

// NewReader detects the compression of r and returns a reader of the
// decompressed bytes. The returned reader must be closed.
func NewReader(r io.Reader) (io.ReadCloser, Format, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(maxMagicLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, FormatRaw, fmt.Errorf("peek container header: %w", err)
	}
	format := Detect(head)
	rc, err := NewFormatReader(br, format)
	if err != nil {
		return nil, format, err
	}
	return rc, format, nil
}

// NewFormatReader returns a reader decompressing r as format.
func NewFormatReader(r io.Reader, format Format) (io.ReadCloser, error) {
	switch format {
	case FormatRaw:
		return io.NopCloser(r), nil
	case FormatGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return zr, nil
	case FormatZstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	case FormatLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case FormatS2:
		return io.NopCloser(s2.NewReader(r)), nil
	case FormatZip:
		return nil, ErrArchive
	}
	return nil, fmt.Errorf("%w: %s", errUnknownFormat, format)
}

// NewWriter returns a writer compressing into w as format. Close flushes
// the compressed stream; it does not close w.
func NewWriter(w io.Writer, format Format) (io.WriteCloser, error) {
	switch format {
	case FormatRaw:
		return nopWriteCloser{w}, nil
	case FormatGzip:
		return gzip.NewWriter(w), nil
	case FormatZstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("open zstd writer: %w", err)
		}
		return zw, nil
	case FormatLZ4:
		return lz4.NewWriter(w), nil
	case FormatS2:
		return s2.NewWriter(w), nil
	case FormatZip:
		return nil, ErrArchive
	}
	return nil, fmt.Errorf("%w: %s", errUnknownFormat, format)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
