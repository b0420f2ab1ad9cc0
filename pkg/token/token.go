// Package token defines the lexical categories produced by the scanner.
package token

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type identifies a token category.
type Type int

const (
	// Single-character tokens.
	LeftParen Type = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star
	Question
	Colon

	// One or two character tokens.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	EOF
)

var typeNames = [...]string{
	LeftParen:    "LEFT_PAREN",
	RightParen:   "RIGHT_PAREN",
	LeftBrace:    "LEFT_BRACE",
	RightBrace:   "RIGHT_BRACE",
	Comma:        "COMMA",
	Dot:          "DOT",
	Minus:        "MINUS",
	Plus:         "PLUS",
	Semicolon:    "SEMICOLON",
	Slash:        "SLASH",
	Star:         "STAR",
	Question:     "QUESTION",
	Colon:        "COLON",
	Bang:         "BANG",
	BangEqual:    "BANG_EQUAL",
	Equal:        "EQUAL",
	EqualEqual:   "EQUAL_EQUAL",
	Greater:      "GREATER",
	GreaterEqual: "GREATER_EQUAL",
	Less:         "LESS",
	LessEqual:    "LESS_EQUAL",
	Identifier:   "IDENTIFIER",
	String:       "STRING",
	Number:       "NUMBER",
	And:          "AND",
	Class:        "CLASS",
	Else:         "ELSE",
	False:        "FALSE",
	Fun:          "FUN",
	For:          "FOR",
	If:           "IF",
	Nil:          "NIL",
	Or:           "OR",
	Print:        "PRINT",
	Return:       "RETURN",
	Super:        "SUPER",
	This:         "THIS",
	True:         "TRUE",
	Var:          "VAR",
	While:        "WHILE",
	EOF:          "EOF",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return fmt.Sprintf("token_type_%d", int(t))
}

// Keywords maps reserved words to their token type.
var Keywords = map[string]Type{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// Lookup returns the keyword type for ident, or Identifier.
func Lookup(ident string) Type {
	if t, ok := Keywords[ident]; ok {
		return t
	}
	return Identifier
}

// Token is a single lexeme scanned from source. Literal holds a float64 for
// numbers and a string for string literals; it is nil otherwise.
type Token struct {
	Type    Type
	Lexeme  string
	Literal any
	Line    int
}

// New builds a token.
func New(typ Type, lexeme string, literal any, line int) Token {
	return Token{Type: typ, Lexeme: lexeme, Literal: literal, Line: line}
}

func (t Token) String() string {
	parts := []string{t.Type.String(), t.Lexeme}
	if t.Literal != nil {
		parts = append(parts, fmt.Sprint(t.Literal))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// FormatNumber renders a number literal the way the language displays it:
// integral values keep one fractional digit ("6.0"), others use the shortest
// exact decimal form.
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
