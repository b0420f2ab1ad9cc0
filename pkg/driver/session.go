// Package driver sequences the pipeline stages and owns project-level
// concerns: the ringo.yml manifest, the ringo.lock lockfile, and the
// dependency installer.
package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/diagnostics"
	"github.com/dlains/ringo/pkg/interpreter"
	"github.com/dlains/ringo/pkg/parser"
	"github.com/dlains/ringo/pkg/resolver"
	"github.com/dlains/ringo/pkg/scanner"
	"github.com/dlains/ringo/pkg/token"
)

var (
	// ErrCompile reports that scanning, parsing, or resolution failed.
	ErrCompile = errors.New("compile error")
	// ErrRuntime reports that interpretation was aborted by a runtime error.
	ErrRuntime = errors.New("runtime error")
)

// SessionOptions configures a Session. Nil writers default to the process streams.
type SessionOptions struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Clock  func() time.Time
}

// Session runs source through scan, parse, resolve, and interpret against
// one long-lived interpreter, so globals persist across Run and Eval calls.
type Session struct {
	stdout io.Writer
	diags  *diagnostics.Collector
	interp *interpreter.Interpreter
	logger *slog.Logger
}

// NewSession builds a session with a fresh global environment.
func NewSession(opts SessionOptions) *Session {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	diags := diagnostics.NewCollector(opts.Stderr)
	interpOpts := []interpreter.Option{
		interpreter.WithOutput(opts.Stdout),
		interpreter.WithDiagnostics(diags),
		interpreter.WithLogger(opts.Logger),
	}
	if opts.Clock != nil {
		interpOpts = append(interpOpts, interpreter.WithClock(opts.Clock))
	}
	return &Session{
		stdout: opts.Stdout,
		diags:  diags,
		interp: interpreter.New(interpOpts...),
		logger: opts.Logger,
	}
}

// Diagnostics exposes the collector shared by every stage.
func (s *Session) Diagnostics() *diagnostics.Collector {
	return s.diags
}

// WriteGlobals prints every global binding as `name = value`, sorted by name.
func (s *Session) WriteGlobals(w io.Writer) error {
	globals := s.interp.Globals()
	for _, name := range globals.Names() {
		val, err := globals.Get(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s = %s\n", name, interpreter.Stringify(val)); err != nil {
			return err
		}
	}
	return nil
}

// Run executes source. Diagnostics have already been written to the error
// stream when it returns ErrCompile or ErrRuntime.
func (s *Session) Run(source string) error {
	statements, err := s.compile(source)
	if err != nil {
		return err
	}
	s.interp.Interpret(statements)
	if s.diags.HadRuntimeError() {
		return ErrRuntime
	}
	return nil
}

// RunFile reads path and runs it.
func (s *Session) RunFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	s.logger.Debug("run file", "path", path, "bytes", len(data))
	return s.Run(string(data))
}

// Eval runs one interactive line. A line holding exactly one expression
// statement is evaluated and its value printed; anything else runs like Run.
func (s *Session) Eval(line string) error {
	statements, err := s.compile(line)
	if err != nil {
		return err
	}
	if len(statements) == 1 {
		if stmt, ok := statements[0].(*ast.Expression); ok {
			val, ok := s.interp.Evaluate(stmt.Expression)
			if !ok {
				return ErrRuntime
			}
			fmt.Fprintln(s.stdout, interpreter.Stringify(val))
			return nil
		}
	}
	s.interp.Interpret(statements)
	if s.diags.HadRuntimeError() {
		return ErrRuntime
	}
	return nil
}

// compile resets the collector so one failed run does not block the next,
// then scans, parses, and resolves, stopping at the first failing stage.
func (s *Session) compile(source string) ([]ast.Stmt, error) {
	s.diags.Reset()
	tokens := scanner.ScanTokens(source, s.diags)
	statements := parser.Parse(tokens, s.diags)
	if s.diags.HadError() {
		return nil, ErrCompile
	}
	locals := resolver.Resolve(statements, s.diags)
	if s.diags.HadError() {
		return nil, ErrCompile
	}
	s.interp.AddLocals(locals)
	return statements, nil
}

// ParseSource scans and parses without resolving or running. It is used by
// the ast dump command.
func ParseSource(source string, diags *diagnostics.Collector) ([]ast.Stmt, error) {
	tokens := scanner.ScanTokens(source, diags)
	statements := parser.Parse(tokens, diags)
	if diags.HadError() {
		return nil, ErrCompile
	}
	return statements, nil
}

// Incomplete reports whether source ends inside an unclosed brace, paren, or
// string, in which case an interactive reader should ask for more input.
func Incomplete(source string) bool {
	diags := diagnostics.NewCollector(nil)
	depth := 0
	for _, tok := range scanner.ScanTokens(source, diags) {
		switch tok.Type {
		case token.LeftBrace, token.LeftParen:
			depth++
		case token.RightBrace, token.RightParen:
			depth--
		}
	}
	if depth > 0 {
		return true
	}
	for _, msg := range diags.Messages() {
		if msg == "Unterminated string." {
			return true
		}
	}
	return false
}
