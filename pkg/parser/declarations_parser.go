package parser

import (
	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/token"
)

// declaration is the recovery point: a parse error anywhere below unwinds
// here, the parser synchronizes, and nil is returned for the failed statement.
func (p *Parser) declaration() ast.Stmt {
	stmt, err := p.declarationOrError()
	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) declarationOrError() (ast.Stmt, error) {
	switch {
	case p.match(token.Class):
		return p.classDeclaration()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if p.match(token.Less) {
		superName, err := p.consume(token.Identifier, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = ast.NewVariable(superName)
	}

	if _, err := p.consume(token.LeftBrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	methods := make([]*ast.Function, 0)
	for !p.check(token.RightBrace) && !p.atEnd() {
		method, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	if _, err := p.consume(token.RightBrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return ast.NewClass(name, superclass, methods), nil
}

// function parses the shared name/parameters/body grammar of functions and
// methods; kind only feeds error messages.
func (p *Parser) function(kind string) (*ast.Function, error) {
	name, err := p.consume(token.Identifier, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftParen, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}
	params := make([]token.Token, 0)
	if !p.check(token.RightParen) {
		for {
			if len(params) >= MaxArguments {
				p.errorAt(p.peek(), "Cannot have more than 8 parameters.")
			}
			param, err := p.consume(token.Identifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftBrace, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewFunction(name, params, body), nil
}

func (p *Parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return ast.NewVar(name, initializer), nil
}
