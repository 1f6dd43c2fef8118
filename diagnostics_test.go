package xmlbind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jacoelho/xmlbind"
)

func TestZapDiagnostics(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	opts := xmlbind.NewDecodeOptions().WithDiagnostics(xmlbind.ZapDiagnostics(zap.New(core)))

	_, err := xmlbind.UnmarshalWithOptions(rectangleRecord, []byte(`<rectangle width="1" height="2" v:x="1"/>`), opts)
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "foreign-attribute", fields["kind"])
	assert.Equal(t, "rectangle", fields["type"])
	assert.Equal(t, "v:x", fields["name"])
	assert.Equal(t, int64(1), fields["line"])
}

func TestDiagnosticFunc(t *testing.T) {
	var got []string
	sink := xmlbind.DiagnosticFunc(func(d xmlbind.Diagnostic) {
		got = append(got, d.String())
	})
	opts := xmlbind.NewDecodeOptions().WithDiagnostics(sink)
	_, err := xmlbind.UnmarshalWithOptions(barRecord, []byte("<bar>\n  <o:x/>\n</bar>"), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"ignored element o:x in bar at line 2, column 3"}, got)
}

func TestZapDiagnosticsNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		xmlbind.ZapDiagnostics(nil).Report(xmlbind.Diagnostic{Kind: xmlbind.DiagnosticForeignElement})
	})
}
