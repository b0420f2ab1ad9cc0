// Package resolver performs the static pass that binds each local variable
// reference to the number of frames between its use and its declaration.
package resolver

import (
	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/diagnostics"
	"github.com/dlains/ringo/pkg/token"
)

// Locals is the side table produced by the resolver: expression identity to
// scope distance. Expressions missing from the table are globals.
type Locals map[ast.Expr]int

// Merge copies other into l.
func (l Locals) Merge(other Locals) {
	for expr, depth := range other {
		l[expr] = depth
	}
}

// Resolver walks the AST once. Problems are reported to the collector and
// the walk continues; callers must check HadError before interpreting.
type Resolver struct {
	diags        *diagnostics.Collector
	scopes       scopeStack
	locals       Locals
	currentFunc  functionKind
	currentClass classKind
}

// New returns a resolver reporting to diags.
func New(diags *diagnostics.Collector) *Resolver {
	if diags == nil {
		diags = diagnostics.NewCollector(nil)
	}
	return &Resolver{diags: diags, locals: make(Locals)}
}

// Resolve resolves a statement list and returns the accumulated side table.
func (r *Resolver) Resolve(statements []ast.Stmt) Locals {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
	return r.locals
}

// Resolve is a convenience wrapper around New(diags).Resolve(statements).
func Resolve(statements []ast.Stmt, diags *diagnostics.Collector) Locals {
	return New(diags).Resolve(statements)
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.scopes.push()
		for _, inner := range s.Statements {
			r.resolveStmt(inner)
		}
		r.scopes.pop()
	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.Function:
		// Defined before the body so the function can call itself.
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionPlain)
	case *ast.Class:
		r.resolveClass(s)
	case *ast.Expression:
		r.resolveExpr(s.Expression)
	case *ast.Print:
		r.resolveExpr(s.Expression)
	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}
	case *ast.While:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	case *ast.Return:
		if r.currentFunc == functionNone {
			r.diags.ErrorAt(s.Keyword, "Cannot return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunc == functionInitializer {
				r.diags.ErrorAt(s.Keyword, "Cannot return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	}
}

func (r *Resolver) resolveClass(s *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.diags.ErrorAt(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(s.Superclass)
		r.scopes.push()
		r.scopes.innermost()["super"] = true
	}

	r.scopes.push()
	r.scopes.innermost()["this"] = true
	for _, method := range s.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method, kind)
	}
	r.scopes.pop()

	if s.Superclass != nil {
		r.scopes.pop()
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosingFunc := r.currentFunc
	r.currentFunc = kind
	defer func() { r.currentFunc = enclosingFunc }()

	r.scopes.push()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	for _, stmt := range fn.Body {
		r.resolveStmt(stmt)
	}
	r.scopes.pop()
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Variable:
		if !r.scopes.empty() {
			if ready, declared := r.scopes.innermost()[e.Name.Lexeme]; declared && !ready {
				r.diags.ErrorAt(e.Name, "Cannot read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Conditional:
		r.resolveExpr(e.Condition)
		r.resolveExpr(e.ThenBranch)
		r.resolveExpr(e.ElseBranch)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Grouping:
		r.resolveExpr(e.Expression)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.This:
		if r.currentClass == classNone {
			r.diags.ErrorAt(e.Keyword, "Cannot use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.diags.ErrorAt(e.Keyword, "Cannot use 'super' outside of a class.")
		case classPlain:
			r.diags.ErrorAt(e.Keyword, "Cannot use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Literal:
	}
}

func (r *Resolver) declare(name token.Token) {
	if r.scopes.empty() {
		return
	}
	current := r.scopes.innermost()
	if _, exists := current[name.Lexeme]; exists {
		r.diags.ErrorAt(name, "Variable with this name already declared in this scope.")
	}
	current[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if r.scopes.empty() {
		return
	}
	r.scopes.innermost()[name.Lexeme] = true
}

func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	if depth, ok := r.scopes.distance(name.Lexeme); ok {
		r.locals[expr] = depth
	}
}
