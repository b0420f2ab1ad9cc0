package interpreter

import (
	"bytes"
	"testing"
	"time"

	"github.com/dlains/ringo/pkg/diagnostics"
	"github.com/dlains/ringo/pkg/parser"
	"github.com/dlains/ringo/pkg/resolver"
	"github.com/dlains/ringo/pkg/scanner"
)

type testRun struct {
	interp *Interpreter
	out    *bytes.Buffer
	errs   *bytes.Buffer
	diags  *diagnostics.Collector
}

func newTestRun(opts ...Option) *testRun {
	out := &bytes.Buffer{}
	errs := &bytes.Buffer{}
	diags := diagnostics.NewCollector(errs)
	base := []Option{WithOutput(out), WithDiagnostics(diags)}
	return &testRun{
		interp: New(append(base, opts...)...),
		out:    out,
		errs:   errs,
		diags:  diags,
	}
}

// exec compiles and interprets source, failing the test on compile errors.
func (r *testRun) exec(t *testing.T, source string) {
	t.Helper()
	statements := parser.Parse(scanner.ScanTokens(source, r.diags), r.diags)
	if r.diags.HadError() {
		t.Fatalf("parse errors: %s", r.diags.Summary())
	}
	locals := resolver.Resolve(statements, r.diags)
	if r.diags.HadError() {
		t.Fatalf("resolve errors: %s", r.diags.Summary())
	}
	r.interp.AddLocals(locals)
	r.interp.Interpret(statements)
}

// runProgram executes source in a fresh interpreter and returns stdout and
// the diagnostic stream.
func runProgram(t *testing.T, source string) (string, string) {
	t.Helper()
	r := newTestRun(WithClock(func() time.Time { return time.Unix(0, 0) }))
	r.exec(t, source)
	return r.out.String(), r.errs.String()
}
