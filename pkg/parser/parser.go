// Package parser builds the AST from a token stream by recursive descent.
package parser

import (
	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/diagnostics"
	"github.com/dlains/ringo/pkg/token"
)

// MaxArguments caps both call arguments and declared parameters.
const MaxArguments = 8

// Parser consumes tokens with one token of lookahead.
type Parser struct {
	tokens  []token.Token
	current int
	diags   *diagnostics.Collector
	failed  bool
}

// New returns a parser over tokens. The slice must end with an EOF token, as
// produced by the scanner.
func New(tokens []token.Token, diags *diagnostics.Collector) *Parser {
	if diags == nil {
		diags = diagnostics.NewCollector(nil)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, token.New(token.EOF, "", nil, line))
	}
	return &Parser{tokens: tokens, diags: diags}
}

// Parse reads declarations until EOF. Syntax errors are reported and the
// parser resynchronizes, so several errors can come out of one run; when any
// error occurred the result is nil.
func (p *Parser) Parse() []ast.Stmt {
	statements := make([]ast.Stmt, 0)
	for !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	if p.failed {
		return nil
	}
	return statements
}

// Parse is a convenience wrapper around New(...).Parse().
func Parse(tokens []token.Token, diags *diagnostics.Collector) []ast.Stmt {
	return New(tokens, diags).Parse()
}

// parseError unwinds to the nearest declaration, which synchronizes.
type parseError struct{}

func (parseError) Error() string { return "parse error" }

func (p *Parser) errorAt(tok token.Token, message string) parseError {
	p.failed = true
	p.diags.ErrorAt(tok, message)
	return parseError{}
}

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.peek().Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.Type, message string) (token.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), message)
}

func (p *Parser) check(t token.Type) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}
