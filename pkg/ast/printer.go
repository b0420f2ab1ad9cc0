package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/dlains/ringo/pkg/token"
)

// PrintExpr renders an expression in fully parenthesized prefix notation,
// for example `(+ 3.0 4.0)`.
func PrintExpr(expr Expr) string {
	var b strings.Builder
	p := &printer{b: &b}
	p.expr(expr)
	return b.String()
}

// PrintStmt renders a statement in prefix notation, for example `(; (+ 1.0 2.0))`.
func PrintStmt(stmt Stmt) string {
	var b strings.Builder
	p := &printer{b: &b}
	p.stmt(stmt)
	return b.String()
}

// Fprint writes one line per statement to w.
func Fprint(w io.Writer, statements []Stmt) error {
	for _, stmt := range statements {
		if _, err := fmt.Fprintln(w, PrintStmt(stmt)); err != nil {
			return err
		}
	}
	return nil
}

type printer struct {
	b *strings.Builder
}

func (p *printer) open(name string) {
	p.b.WriteByte('(')
	p.b.WriteString(name)
}

func (p *printer) close() {
	p.b.WriteByte(')')
}

func (p *printer) parenthesize(name string, exprs ...Expr) {
	p.open(name)
	for _, e := range exprs {
		p.b.WriteByte(' ')
		p.expr(e)
	}
	p.close()
}

func (p *printer) word(s string) {
	p.b.WriteByte(' ')
	p.b.WriteString(s)
}

func (p *printer) expr(expr Expr) {
	switch e := expr.(type) {
	case *Literal:
		p.b.WriteString(literalText(e.Value))
	case *Grouping:
		p.parenthesize("group", e.Expression)
	case *Unary:
		p.parenthesize(e.Operator.Lexeme, e.Right)
	case *Binary:
		p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *Logical:
		p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *Conditional:
		p.parenthesize("?", e.Condition, e.ThenBranch, e.ElseBranch)
	case *Variable:
		p.b.WriteString(e.Name.Lexeme)
	case *Assign:
		p.open("=")
		p.word(e.Name.Lexeme)
		p.b.WriteByte(' ')
		p.expr(e.Value)
		p.close()
	case *Call:
		p.parenthesize("call", append([]Expr{e.Callee}, e.Arguments...)...)
	case *Get:
		p.open(".")
		p.b.WriteByte(' ')
		p.expr(e.Object)
		p.word(e.Name.Lexeme)
		p.close()
	case *Set:
		p.open("=")
		p.b.WriteByte(' ')
		p.expr(NewGet(e.Object, e.Name))
		p.b.WriteByte(' ')
		p.expr(e.Value)
		p.close()
	case *This:
		p.b.WriteString("this")
	case *Super:
		p.open("super")
		p.word(e.Method.Lexeme)
		p.close()
	case nil:
		p.b.WriteString("<nil>")
	default:
		p.b.WriteString(fmt.Sprintf("<unknown %T>", expr))
	}
}

func (p *printer) stmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *Expression:
		p.parenthesize(";", s.Expression)
	case *Print:
		p.parenthesize("print", s.Expression)
	case *Var:
		p.open("var")
		p.word(s.Name.Lexeme)
		if s.Initializer != nil {
			p.word("=")
			p.b.WriteByte(' ')
			p.expr(s.Initializer)
		}
		p.close()
	case *Block:
		p.open("block")
		p.stmts(s.Statements)
		p.close()
	case *If:
		p.open("if")
		p.b.WriteByte(' ')
		p.expr(s.Condition)
		p.b.WriteByte(' ')
		p.stmt(s.ThenBranch)
		if s.ElseBranch != nil {
			p.b.WriteByte(' ')
			p.stmt(s.ElseBranch)
		}
		p.close()
	case *While:
		p.open("while")
		p.b.WriteByte(' ')
		p.expr(s.Condition)
		p.b.WriteByte(' ')
		p.stmt(s.Body)
		p.close()
	case *Function:
		p.function("fun", s)
	case *Return:
		if s.Value == nil {
			p.b.WriteString("(return)")
			return
		}
		p.parenthesize("return", s.Value)
	case *Class:
		p.open("class")
		p.word(s.Name.Lexeme)
		if s.Superclass != nil {
			p.word("<")
			p.word(s.Superclass.Name.Lexeme)
		}
		for _, m := range s.Methods {
			p.b.WriteByte(' ')
			p.function("method", m)
		}
		p.close()
	case nil:
		p.b.WriteString("<nil>")
	default:
		p.b.WriteString(fmt.Sprintf("<unknown %T>", stmt))
	}
}

func (p *printer) stmts(list []Stmt) {
	for _, s := range list {
		p.b.WriteByte(' ')
		p.stmt(s)
	}
}

func (p *printer) function(kind string, fn *Function) {
	p.open(kind)
	p.word(fn.Name.Lexeme)
	p.b.WriteByte('(')
	for i, param := range fn.Params {
		if i > 0 {
			p.b.WriteByte(' ')
		}
		p.b.WriteString(param.Lexeme)
	}
	p.b.WriteByte(')')
	p.stmts(fn.Body)
	p.close()
}

func literalText(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return token.FormatNumber(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
