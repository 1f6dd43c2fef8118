package xmltext

import (
	"bytes"
	"io"
)

const (
	defaultBufferSize = 32 * 1024
	maxEmptyReads     = 100
)

// compact drops consumed bytes so the buffer does not grow with the document.
// It runs only between tokens; indexes into buf are stable while a token is scanned.
func (d *Decoder) compact() {
	if d.pos == 0 {
		return
	}
	if d.pos != d.end && d.pos < len(d.buf)/2 {
		return
	}
	n := copy(d.buf, d.buf[d.pos:d.end])
	d.base += int64(d.pos)
	d.end = n
	d.pos = 0
}

// fill reads more input, growing the buffer when it is full.
// It reports false once the reader is exhausted.
func (d *Decoder) fill() (bool, error) {
	if d.readErr != nil {
		if d.readErr == io.EOF {
			return false, nil
		}
		return false, d.readErr
	}
	if d.end == len(d.buf) {
		size := max(2*len(d.buf), d.bufferSize)
		grown := make([]byte, size)
		copy(grown, d.buf[:d.end])
		d.buf = grown
	}
	for range maxEmptyReads {
		n, err := d.r.Read(d.buf[d.end:])
		d.end += n
		if err != nil {
			d.readErr = err
			if n > 0 {
				return true, nil
			}
			if err == io.EOF {
				return false, nil
			}
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	d.readErr = io.ErrNoProgress
	return false, d.readErr
}

// ensure makes buf[i] available. It reports false at end of input.
func (d *Decoder) ensure(i int) (bool, error) {
	for i >= d.end {
		if d.maxTokenSize > 0 && i-d.tokenStart > d.maxTokenSize {
			return false, errTokenTooLarge
		}
		ok, err := d.fill()
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// indexFrom returns the index of the first occurrence of delim at or after i,
// or -1 when input ends first.
func (d *Decoder) indexFrom(i int, delim []byte) (int, error) {
	for {
		if i < d.end {
			if idx := bytes.Index(d.buf[i:d.end], delim); idx >= 0 {
				return i + idx, nil
			}
			i = max(i, d.end-len(delim)+1)
		}
		ok, err := d.ensure(d.end)
		if err != nil {
			return -1, err
		}
		if !ok {
			return -1, nil
		}
	}
}

// indexByteFrom returns the index of the first c at or after i, or -1 when
// input ends first.
func (d *Decoder) indexByteFrom(i int, c byte) (int, error) {
	for {
		if i < d.end {
			if idx := bytes.IndexByte(d.buf[i:d.end], c); idx >= 0 {
				return i + idx, nil
			}
			i = d.end
		}
		ok, err := d.ensure(i)
		if err != nil {
			return -1, err
		}
		if !ok {
			return -1, nil
		}
	}
}

// hasPrefixAt reports whether lit starts at buf[i].
func (d *Decoder) hasPrefixAt(i int, lit string) (bool, error) {
	ok, err := d.ensure(i + len(lit) - 1)
	if err != nil || !ok {
		return false, err
	}
	return string(d.buf[i:i+len(lit)]) == lit, nil
}

// advance consumes input up to index to, tracking line and column.
func (d *Decoder) advance(to int) {
	for _, b := range d.buf[d.pos:to] {
		switch {
		case b == '\n':
			d.line++
			d.col = 1
		case b&0xC0 != 0x80:
			d.col++
		}
	}
	d.pos = to
}
