package xmlbind

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// DiagnosticKind classifies a recoverable decoding notice.
type DiagnosticKind uint8

const (
	// DiagnosticForeignAttribute reports a dropped attribute that no field binds.
	DiagnosticForeignAttribute DiagnosticKind = iota + 1
	// DiagnosticForeignElement reports a skipped namespaced child element.
	DiagnosticForeignElement
)

// String returns a stable label for the kind.
func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticForeignAttribute:
		return "foreign-attribute"
	case DiagnosticForeignElement:
		return "foreign-element"
	default:
		return "unknown"
	}
}

// Diagnostic describes content that was ignored instead of failing the decode.
type Diagnostic struct {
	// Type is the serialized name of the element being decoded.
	Type string
	// Name is the raw name of the ignored attribute or element.
	Name   string
	Line   int
	Column int
	Kind   DiagnosticKind
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	what := "attribute"
	if d.Kind == DiagnosticForeignElement {
		what = "element"
	}
	if d.Line > 0 {
		return fmt.Sprintf("ignored %s %s in %s at line %d, column %d", what, d.Name, d.Type, d.Line, d.Column)
	}
	return fmt.Sprintf("ignored %s %s in %s", what, d.Name, d.Type)
}

// DiagnosticSink receives diagnostics emitted while decoding.
type DiagnosticSink interface {
	Report(Diagnostic)
}

// DiagnosticFunc adapts a function to a DiagnosticSink.
type DiagnosticFunc func(Diagnostic)

// Report calls f(d).
func (f DiagnosticFunc) Report(d Diagnostic) {
	f(d)
}

// DiagnosticList collects diagnostics in memory. It is safe for concurrent use.
type DiagnosticList struct {
	items []Diagnostic
	mu    sync.Mutex
}

// Report appends d to the list.
func (l *DiagnosticList) Report(d Diagnostic) {
	l.mu.Lock()
	l.items = append(l.items, d)
	l.mu.Unlock()
}

// Items returns a copy of the collected diagnostics in report order.
func (l *DiagnosticList) Items() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Diagnostic, len(l.items))
	copy(out, l.items)
	return out
}

// ZapDiagnostics returns a sink that logs each diagnostic as a warning.
func ZapDiagnostics(logger *zap.Logger) DiagnosticSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return zapDiagnostics{logger: logger}
}

type zapDiagnostics struct {
	logger *zap.Logger
}

func (z zapDiagnostics) Report(d Diagnostic) {
	z.logger.Warn("ignored xml content",
		zap.Stringer("kind", d.Kind),
		zap.String("type", d.Type),
		zap.String("name", d.Name),
		zap.Int("line", d.Line),
		zap.Int("column", d.Column),
	)
}

type discardDiagnostics struct{}

func (discardDiagnostics) Report(Diagnostic) {}
