// Package diagnostics collects errors reported by every pipeline stage.
package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/dlains/ringo/pkg/token"
)

// Kind separates compile-time problems from runtime failures.
type Kind int

const (
	KindStatic Kind = iota
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindRuntime:
		return "runtime"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Where   string
	Message string
}

// String renders the diagnostic the same way it is written to the stream.
func (d Diagnostic) String() string {
	if d.Kind == KindRuntime {
		return fmt.Sprintf("%s [line: %d]", d.Message, d.Line)
	}
	if d.Where == "" {
		return fmt.Sprintf("[line: %d] Error: %s", d.Line, d.Message)
	}
	return fmt.Sprintf("[line: %d] Error %s: %s", d.Line, d.Where, d.Message)
}

// Collector records diagnostics and mirrors them to an output stream. A
// Collector is owned by one pipeline run (or one REPL session) and is checked
// by the orchestrator between stages.
type Collector struct {
	out             io.Writer
	items           []Diagnostic
	hadError        bool
	hadRuntimeError bool
}

// NewCollector returns a collector writing to out. A nil writer discards output.
func NewCollector(out io.Writer) *Collector {
	if out == nil {
		out = io.Discard
	}
	return &Collector{out: out}
}

// Error reports a problem at a line with no token context (scanner errors).
func (c *Collector) Error(line int, message string) {
	c.report(Diagnostic{Kind: KindStatic, Line: line, Message: message})
}

// ErrorAt reports a problem located at tok.
func (c *Collector) ErrorAt(tok token.Token, message string) {
	where := fmt.Sprintf("at '%s'", tok.Lexeme)
	if tok.Type == token.EOF {
		where = "at end"
	}
	c.report(Diagnostic{Kind: KindStatic, Line: tok.Line, Where: where, Message: message})
}

// RuntimeError reports a failure raised while interpreting.
func (c *Collector) RuntimeError(tok token.Token, message string) {
	d := Diagnostic{Kind: KindRuntime, Line: tok.Line, Message: message}
	c.items = append(c.items, d)
	c.hadRuntimeError = true
	fmt.Fprintln(c.out, d.String())
}

func (c *Collector) report(d Diagnostic) {
	c.items = append(c.items, d)
	c.hadError = true
	fmt.Fprintln(c.out, d.String())
}

// HadError reports whether a scan, parse, or resolution error occurred.
func (c *Collector) HadError() bool { return c.hadError }

// HadRuntimeError reports whether interpretation was aborted by an error.
func (c *Collector) HadRuntimeError() bool { return c.hadRuntimeError }

// Diagnostics returns a copy of everything reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Messages returns the bare messages in report order (useful in tests).
func (c *Collector) Messages() []string {
	out := make([]string, 0, len(c.items))
	for _, d := range c.items {
		out = append(out, d.Message)
	}
	return out
}

// Reset clears both flags and the recorded diagnostics. The REPL calls this
// between lines so one bad line does not poison the session.
func (c *Collector) Reset() {
	c.items = nil
	c.hadError = false
	c.hadRuntimeError = false
}

// Summary joins all diagnostics, one per line.
func (c *Collector) Summary() string {
	lines := make([]string, 0, len(c.items))
	for _, d := range c.items {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}
