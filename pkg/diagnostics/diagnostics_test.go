package diagnostics

import (
	"bytes"
	"testing"

	"github.com/dlains/ringo/pkg/token"
)

func TestCollectorFormats(t *testing.T) {
	var out bytes.Buffer
	c := NewCollector(&out)

	c.Error(3, "Unexpected character.")
	c.ErrorAt(token.New(token.Identifier, "foo", nil, 4), "Expect ';' after value.")
	c.ErrorAt(token.New(token.EOF, "", nil, 5), "Expect expression.")

	want := "[line: 3] Error: Unexpected character.\n" +
		"[line: 4] Error at 'foo': Expect ';' after value.\n" +
		"[line: 5] Error at end: Expect expression.\n"
	if out.String() != want {
		t.Fatalf("output mismatch:\n%s\nwant:\n%s", out.String(), want)
	}
	if !c.HadError() || c.HadRuntimeError() {
		t.Fatalf("flags: HadError=%v HadRuntimeError=%v", c.HadError(), c.HadRuntimeError())
	}
}

func TestCollectorRuntimeErrorIsSeparate(t *testing.T) {
	var out bytes.Buffer
	c := NewCollector(&out)
	c.RuntimeError(token.New(token.Minus, "-", nil, 7), "Operand must be a number.")

	if c.HadError() {
		t.Fatalf("runtime error must not set HadError")
	}
	if !c.HadRuntimeError() {
		t.Fatalf("expected HadRuntimeError")
	}
	if got := out.String(); got != "Operand must be a number. [line: 7]\n" {
		t.Fatalf("runtime output = %q", got)
	}
	if diags := c.Diagnostics(); len(diags) != 1 || diags[0].Kind != KindRuntime {
		t.Fatalf("unexpected diagnostics %#v", diags)
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(nil)
	c.Error(1, "boom")
	c.RuntimeError(token.New(token.Nil, "nil", nil, 1), "bad")
	c.Reset()
	if c.HadError() || c.HadRuntimeError() || len(c.Messages()) != 0 {
		t.Fatalf("reset did not clear state: %v", c.Messages())
	}
}
