package parser

import (
	"strings"
	"testing"

	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/diagnostics"
	"github.com/dlains/ringo/pkg/scanner"
)

func parseSource(t *testing.T, source string) ([]ast.Stmt, *diagnostics.Collector) {
	t.Helper()
	diags := diagnostics.NewCollector(nil)
	tokens := scanner.ScanTokens(source, diags)
	if diags.HadError() {
		t.Fatalf("scan errors: %v", diags.Messages())
	}
	return Parse(tokens, diags), diags
}

func printAll(statements []ast.Stmt) string {
	parts := make([]string, 0, len(statements))
	for _, stmt := range statements {
		parts = append(parts, ast.PrintStmt(stmt))
	}
	return strings.Join(parts, "\n")
}

func TestParseGolden(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"precedence", "1 + 2 * 3;", "(; (+ 1.0 (* 2.0 3.0)))"},
		{"unary", "-a - !b;", "(; (- (- a) (! b)))"},
		{"grouping", "(5 - 1) * 4;", "(; (* (group (- 5.0 1.0)) 4.0))"},
		{"left assoc", "1 - 2 - 3;", "(; (- (- 1.0 2.0) 3.0))"},
		{"comparison", "a >= 1 == b < 2;", "(; (== (>= a 1.0) (< b 2.0)))"},
		{"assign right assoc", "a = b = c;", "(; (= a (= b c)))"},
		{"ternary", "1 <= 2 ? 3 + 3 : 4 + 4;", "(; (? (<= 1.0 2.0) (+ 3.0 3.0) (+ 4.0 4.0)))"},
		{"nested ternary", "x ? 1 : y ? 2 : 3;", "(; (? x 1.0 (? y 2.0 3.0)))"},
		{"logical", "a or b and c;", "(; (or a (and b c)))"},
		{"comma", "1, 2, 3;", "(; (, (, 1.0 2.0) 3.0))"},
		{"call args", "f(1, 2)(3);", "(; (call (call f 1.0 2.0) 3.0))"},
		{"property set", "obj.field = 5;", "(; (= (. obj field) 5.0))"},
		{"property chain", "print a.b.c;", "(print (. (. a b) c))"},
		{"string literal", `print "hi";`, "(print hi)"},
		{"literals", "print nil; print true;", "(print nil)\n(print true)"},
		{"var", "var x; var y = 1;", "(var x)\n(var y = 1.0)"},
		{"block", "{ var a = 1; print a; }", "(block (var a = 1.0) (print a))"},
		{"if else", "if (a) print 1; else print 2;", "(if a (print 1.0) (print 2.0))"},
		{"while", "while (i < 3) i = i + 1;", "(while (< i 3.0) (; (= i (+ i 1.0))))"},
		{
			"for desugars",
			"for (var i = 0; i < 3; i = i + 1) print i;",
			"(block (var i = 0.0) (while (< i 3.0) (block (print i) (; (= i (+ i 1.0))))))",
		},
		{"for empty clauses", "for (;;) print 1;", "(while true (print 1.0))"},
		{"function", "fun add(a, b) { return a + b; }", "(fun add(a b) (return (+ a b)))"},
		{"bare return", "fun f() { return; }", "(fun f() (return))"},
		{
			"class",
			"class B < A { init(x) { this.x = x; } go() { return super.go(); } }",
			"(class B < A (method init(x) (; (= (. this x) x))) (method go() (return (call (super go)))))",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			statements, diags := parseSource(t, tc.source)
			if diags.HadError() {
				t.Fatalf("unexpected errors: %s", diags.Summary())
			}
			if got := printAll(statements); got != tc.want {
				t.Fatalf("printed AST mismatch\n got: %s\nwant: %s", got, tc.want)
			}
		})
	}
}

func TestParseReportsMultipleErrors(t *testing.T) {
	statements, diags := parseSource(t, "var = 1;\nprint (;\nprint 3;")
	if statements != nil {
		t.Fatalf("expected nil statements after errors, got %d", len(statements))
	}
	got := diags.Summary()
	want := "[line: 1] Error at '=': Expect variable name.\n[line: 2] Error at ';': Expect expression."
	if got != want {
		t.Fatalf("diagnostics mismatch\n got: %s\nwant: %s", got, want)
	}
}

func TestParseMissingSemicolonAtEnd(t *testing.T) {
	_, diags := parseSource(t, "print 1")
	if got := diags.Summary(); got != "[line: 1] Error at end: Expect ';' after value." {
		t.Fatalf("diagnostics = %q", got)
	}
}

func TestParseErrorInsideBlockRecovers(t *testing.T) {
	_, diags := parseSource(t, "{ print ; print 2; }\nprint )")
	msgs := diags.Messages()
	if len(msgs) != 2 || msgs[0] != "Expect expression." || msgs[1] != "Expect expression." {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	statements, diags := parseSource(t, "1 = 2; a + b = c;")
	if statements != nil {
		t.Fatalf("expected nil statements")
	}
	msgs := diags.Messages()
	if len(msgs) != 2 || msgs[0] != "Invalid assignment target." || msgs[1] != "Invalid assignment target." {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestParseArgumentLimit(t *testing.T) {
	_, diags := parseSource(t, "f(1, 2, 3, 4, 5, 6, 7, 8);")
	if diags.HadError() {
		t.Fatalf("eight arguments should be accepted: %v", diags.Messages())
	}
	_, diags = parseSource(t, "f(1, 2, 3, 4, 5, 6, 7, 8, 9);")
	if msgs := diags.Messages(); len(msgs) != 1 || msgs[0] != "Cannot have more than 8 arguments." {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestParseParameterLimit(t *testing.T) {
	_, diags := parseSource(t, "fun f(a, b, c, d, e, f, g, h, i) {}")
	if msgs := diags.Messages(); len(msgs) != 1 || msgs[0] != "Cannot have more than 8 parameters." {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestParseConditionalRequiresColon(t *testing.T) {
	_, diags := parseSource(t, "a ? b;")
	if msgs := diags.Messages(); len(msgs) != 1 || msgs[0] != "Expect ':' after then branch of conditional expression." {
		t.Fatalf("messages = %v", msgs)
	}
}

func TestParseAddsMissingEOF(t *testing.T) {
	statements := New(nil, nil).Parse()
	if statements == nil || len(statements) != 0 {
		t.Fatalf("expected empty, non-nil statements, got %#v", statements)
	}
}
