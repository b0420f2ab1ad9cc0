// Package interpreter evaluates resolved statement lists by walking the AST.
package interpreter

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/diagnostics"
	"github.com/dlains/ringo/pkg/resolver"
	"github.com/dlains/ringo/pkg/runtime"
)

// Interpreter holds the global frame and the resolver side table. One
// interpreter can run many statement lists in sequence (REPL lines, prelude
// scripts) and they all share its globals.
type Interpreter struct {
	globals *runtime.Environment
	locals  resolver.Locals
	out     io.Writer
	diags   *diagnostics.Collector
	logger  *slog.Logger
	clock   func() time.Time

	depth    int
	maxDepth int
}

// DefaultMaxCallDepth bounds nested calls so runaway recursion is reported
// as a runtime error instead of exhausting the Go stack.
const DefaultMaxCallDepth = 10000

// Options configures an Interpreter.
type Options struct {
	Output       io.Writer
	Diagnostics  *diagnostics.Collector
	Logger       *slog.Logger
	Clock        func() time.Time
	MaxCallDepth int
}

// Option mutates Options.
type Option func(*Options)

// WithOutput sets the stream `print` writes to (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(opts *Options) {
		opts.Output = w
	}
}

// WithDiagnostics sets the collector runtime errors are reported to.
func WithDiagnostics(diags *diagnostics.Collector) Option {
	return func(opts *Options) {
		opts.Diagnostics = diags
	}
}

// WithLogger enables debug tracing of calls and declarations.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithClock replaces the time source behind the native clock().
func WithClock(clock func() time.Time) Option {
	return func(opts *Options) {
		opts.Clock = clock
	}
}

// WithMaxCallDepth sets how many calls may be active at once.
func WithMaxCallDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxCallDepth = depth
	}
}

// New returns an interpreter whose globals hold the native functions.
func New(opts ...Option) *Interpreter {
	options := Options{
		Output:       os.Stdout,
		Clock:        time.Now,
		MaxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Diagnostics == nil {
		options.Diagnostics = diagnostics.NewCollector(os.Stderr)
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if options.Output == nil {
		options.Output = io.Discard
	}
	if options.MaxCallDepth <= 0 {
		options.MaxCallDepth = DefaultMaxCallDepth
	}
	i := &Interpreter{
		globals: runtime.NewEnvironment(nil),
		locals:  make(resolver.Locals),
		out:     options.Output,
		diags:   options.Diagnostics,
		logger:  options.Logger,
		clock:   options.Clock,

		maxDepth: options.MaxCallDepth,
	}
	i.defineNatives()
	return i
}

// Globals returns the interpreter's global frame.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.globals
}

// AddLocals merges a resolver side table into the interpreter's. Tables from
// separate resolver runs never collide because they are keyed on node identity.
func (i *Interpreter) AddLocals(locals resolver.Locals) {
	i.locals.Merge(locals)
}

// Interpret executes statements in order in the global frame. A runtime
// error stops the remaining statements and is reported to the collector;
// callers observe it through the collector's HadRuntimeError.
func (i *Interpreter) Interpret(statements []ast.Stmt) {
	for _, stmt := range statements {
		if err := i.executeStatement(stmt, i.globals); err != nil {
			i.report(err)
			return
		}
	}
}

// Evaluate evaluates a single expression in the global frame. Runtime errors
// are reported like Interpret's; ok is false when one occurred.
func (i *Interpreter) Evaluate(expr ast.Expr) (runtime.Value, bool) {
	val, err := i.evaluateExpression(expr, i.globals)
	if err != nil {
		i.report(err)
		return nil, false
	}
	return val, true
}

func (i *Interpreter) report(err error) {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		i.diags.RuntimeError(rtErr.Token, rtErr.Message)
		return
	}
	var ret returnSignal
	if errors.As(err, &ret) {
		// Rejected by the resolver; nothing to unwind to at top level.
		return
	}
	i.logger.Error("unexpected interpreter failure", "err", err)
	i.diags.Error(0, err.Error())
}
