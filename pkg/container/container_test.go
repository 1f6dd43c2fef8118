package container

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0"?><rectangle width="10" height="20"/>`

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":       FormatRaw,
		"none":   FormatRaw,
		"GZIP":   FormatGzip,
		"zst":    FormatZstd,
		"lz4":    FormatLZ4,
		"snappy": FormatS2,
		" zip ":  FormatZip,
	}
	for input, want := range tests {
		got, err := ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseFormat("brotli")
	require.ErrorIs(t, err, errUnknownFormat)
}

func TestFormatString(t *testing.T) {
	for _, f := range []Format{FormatRaw, FormatGzip, FormatZstd, FormatLZ4, FormatS2, FormatZip} {
		got, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	assert.Equal(t, "Format(42)", Format(42).String())
}

func TestStreamRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatRaw, FormatGzip, FormatZstd, FormatLZ4, FormatS2} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, format)
			require.NoError(t, err)
			_, err = io.WriteString(w, sampleXML)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			assert.Equal(t, format, Detect(buf.Bytes()))

			r, detected, err := NewReader(&buf)
			require.NoError(t, err)
			defer r.Close()
			assert.Equal(t, format, detected)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, sampleXML, string(got))
		})
	}
}

func TestNewReaderShortInput(t *testing.T) {
	r, format, err := NewReader(bytes.NewReader([]byte("<a/>")))
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, FormatRaw, format)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "<a/>", string(got))

	r, format, err = NewReader(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, FormatRaw, format)
	got, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestZipStreamNeedsArchive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, []string{"a.xml"}, map[string][]byte{"a.xml": []byte("<a/>")}))

	_, format, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, ErrArchive)
	assert.Equal(t, FormatZip, format)

	_, err = NewWriter(io.Discard, FormatZip)
	require.ErrorIs(t, err, ErrArchive)
}

func TestArchive(t *testing.T) {
	names := []string{"[Content_Types].xml", "docProps/core.xml", "word/document.xml"}
	contents := map[string][]byte{
		"[Content_Types].xml": []byte("<Types/>"),
		"docProps/core.xml":   []byte("<coreProperties/>"),
		"word/document.xml":   []byte("<document/>"),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, names, contents))

	a, err := NewArchive(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, names, a.Entries())
	assert.True(t, a.Has("/word/document.xml"))
	assert.False(t, a.Has("word/missing.xml"))

	data, err := a.ReadFile("/docProps/core.xml")
	require.NoError(t, err)
	assert.Equal(t, "<coreProperties/>", string(data))

	_, err = a.ReadFile("word/missing.xml")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOpenArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteArchive(f, []string{"a.xml"}, map[string][]byte{"a.xml": []byte("<a/>")}))
	require.NoError(t, f.Close())

	a, err := OpenArchive(path)
	require.NoError(t, err)
	data, err := a.ReadFile("a.xml")
	require.NoError(t, err)
	assert.Equal(t, "<a/>", string(data))
	require.NoError(t, a.Close())

	_, err = OpenArchive(filepath.Join(t.TempDir(), "missing.zip"))
	require.Error(t, err)
}

func TestWriteArchiveMissingContents(t *testing.T) {
	err := WriteArchive(io.Discard, []string{"a.xml"}, map[string][]byte{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.xml")
}
