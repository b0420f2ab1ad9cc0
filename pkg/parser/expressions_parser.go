package parser

import (
	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/token"
)

// Precedence, lowest first:
//
//	expression  -> comma
//	comma       -> assignment ( "," assignment )*
//	assignment  -> ( call "." )? IDENTIFIER "=" assignment | conditional
//	conditional -> logicOr ( "?" expression ":" conditional )?
//	logicOr     -> logicAnd ( "or" logicAnd )*
//	logicAnd    -> equality ( "and" equality )*
//	equality    -> comparison ( ( "!=" | "==" ) comparison )*
//	comparison  -> addition ( ( ">" | ">=" | "<" | "<=" ) addition )*
//	addition    -> multiplication ( ( "-" | "+" ) multiplication )*
//	multiplication -> unary ( ( "/" | "*" ) unary )*
//	unary       -> ( "!" | "-" ) unary | call
//	call        -> primary ( "(" arguments? ")" | "." IDENTIFIER )*
//	primary     -> NUMBER | STRING | "true" | "false" | "nil" | "this"
//	             | "(" expression ")" | IDENTIFIER | "super" "." IDENTIFIER
func (p *Parser) expression() (ast.Expr, error) {
	return p.comma()
}

func (p *Parser) comma() (ast.Expr, error) {
	expr, err := p.assignment()
	if err != nil {
		return nil, err
	}
	for p.match(token.Comma) {
		operator := p.previous()
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if !p.match(token.Equal) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	switch target := expr.(type) {
	case *ast.Variable:
		return ast.NewAssign(target.Name, value), nil
	case *ast.Get:
		return ast.NewSet(target.Object, target.Name, value), nil
	}
	// Reported but not raised: the parser is not confused about where it is.
	p.errorAt(equals, "Invalid assignment target.")
	return expr, nil
}

// conditional is right-associative: a ? b : c ? d : e groups as a ? b : (c ? d : e).
func (p *Parser) conditional() (ast.Expr, error) {
	expr, err := p.logicOr()
	if err != nil {
		return nil, err
	}
	if !p.match(token.Question) {
		return expr, nil
	}
	thenBranch, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Colon, "Expect ':' after then branch of conditional expression."); err != nil {
		return nil, err
	}
	elseBranch, err := p.conditional()
	if err != nil {
		return nil, err
	}
	return ast.NewConditional(expr, thenBranch, elseBranch), nil
}

func (p *Parser) logicOr() (ast.Expr, error) {
	return p.logical(p.logicAnd, token.Or)
}

func (p *Parser) logicAnd() (ast.Expr, error) {
	return p.logical(p.equality, token.And)
}

func (p *Parser) logical(next func() (ast.Expr, error), op token.Type) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(op) {
		operator := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogical(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binary(p.addition, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) addition() (ast.Expr, error) {
	return p.binary(p.multiplication, token.Minus, token.Plus)
}

func (p *Parser) multiplication() (ast.Expr, error) {
	return p.binary(p.unary, token.Slash, token.Star)
}

// binary parses a left-associative chain of the given operators.
func (p *Parser) binary(next func() (ast.Expr, error), ops ...token.Type) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		operator := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(operator, right), nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(token.LeftParen):
			if expr, err = p.finishCall(expr); err != nil {
				return nil, err
			}
		case p.match(token.Dot):
			name, err := p.consume(token.Identifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = ast.NewGet(expr, name)
		default:
			return expr, nil
		}
	}
}

// finishCall parses arguments at assignment precedence so the comma operator
// does not swallow the argument separators.
func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	arguments := make([]ast.Expr, 0)
	if !p.check(token.RightParen) {
		for {
			if len(arguments) >= MaxArguments {
				p.errorAt(p.peek(), "Cannot have more than 8 arguments.")
			}
			arg, err := p.assignment()
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren, err := p.consume(token.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return ast.NewCall(callee, paren, arguments), nil
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(false), nil
	case p.match(token.True):
		return ast.NewLiteral(true), nil
	case p.match(token.Nil):
		return ast.NewLiteral(nil), nil
	case p.match(token.Number, token.String):
		return ast.NewLiteral(p.previous().Literal), nil
	case p.match(token.This):
		return ast.NewThis(p.previous()), nil
	case p.match(token.Identifier):
		return ast.NewVariable(p.previous()), nil
	case p.match(token.Super):
		keyword := p.previous()
		if _, err := p.consume(token.Dot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(token.Identifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return ast.NewSuper(keyword, method), nil
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return ast.NewGrouping(expr), nil
	}
	return nil, p.errorAt(p.peek(), "Expect expression.")
}
