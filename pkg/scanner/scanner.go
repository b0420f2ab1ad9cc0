// Package scanner turns source text into a token stream.
package scanner

import (
	"strconv"
	"unicode/utf8"

	"github.com/dlains/ringo/pkg/diagnostics"
	"github.com/dlains/ringo/pkg/token"
)

// Scanner performs a single left-to-right pass over source.
type Scanner struct {
	source []byte
	diags  *diagnostics.Collector
	tokens []token.Token

	start   int
	current int
	line    int
}

// New returns a scanner for source that reports problems to diags.
func New(source string, diags *diagnostics.Collector) *Scanner {
	if diags == nil {
		diags = diagnostics.NewCollector(nil)
	}
	return &Scanner{source: []byte(source), diags: diags, line: 1}
}

// ScanTokens scans the whole input. The result always ends with an EOF token;
// bad characters are reported and skipped.
func (s *Scanner) ScanTokens() []token.Token {
	for !s.atEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.New(token.EOF, "", nil, s.line))
	return s.tokens
}

// ScanTokens is a convenience wrapper around New(...).ScanTokens().
func ScanTokens(source string, diags *diagnostics.Collector) []token.Token {
	return New(source, diags).ScanTokens()
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)
	case '?':
		s.addToken(token.Question)
	case ':':
		s.addToken(token.Colon)
	case '!':
		s.addToken(s.pick('=', token.BangEqual, token.Bang))
	case '=':
		s.addToken(s.pick('=', token.EqualEqual, token.Equal))
	case '<':
		s.addToken(s.pick('=', token.LessEqual, token.Less))
	case '>':
		s.addToken(s.pick('=', token.GreaterEqual, token.Greater))
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.atEnd() {
				s.advance()
			}
			return
		}
		s.addToken(token.Slash)
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.string()
	default:
		switch {
		case isDigit(c):
			s.number()
		case isAlpha(c):
			s.identifier()
		default:
			s.skipRune()
			s.diags.Error(s.line, "Unexpected character.")
		}
	}
}

func (s *Scanner) string() {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		s.diags.Error(s.line, "Unterminated string.")
		return
	}
	s.advance()
	value := string(s.source[s.start+1 : s.current-1])
	s.addLiteral(token.String, value)
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	value, err := strconv.ParseFloat(s.lexeme(), 64)
	if err != nil {
		s.diags.Error(s.line, "Invalid number literal.")
		return
	}
	s.addLiteral(token.Number, value)
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	s.addToken(token.Lookup(s.lexeme()))
}

// skipRune consumes the rest of a multi-byte UTF-8 sequence whose first
// byte was already advanced over.
func (s *Scanner) skipRune() {
	_, size := utf8.DecodeRune(s.source[s.start:])
	if size > 1 {
		s.current = s.start + size
	}
}

func (s *Scanner) pick(expected byte, matched, otherwise token.Type) token.Type {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) atEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) lexeme() string {
	return string(s.source[s.start:s.current])
}

func (s *Scanner) addToken(typ token.Type) {
	s.addLiteral(typ, nil)
}

func (s *Scanner) addLiteral(typ token.Type, literal any) {
	s.tokens = append(s.tokens, token.New(typ, s.lexeme(), literal, s.line))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
