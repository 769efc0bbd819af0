package lexer

import (
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/diag"
)

// MaxIdentLen bounds the length of an identifier or keyword.
const MaxIdentLen = 512

const (
	eof   = -1
	empty = -2 // pushback slot holds nothing
)

// Scanner performs lexical analysis over an in-memory source buffer.
// It keeps exactly one character of pushback and the current token.
type Scanner struct {
	source  []byte
	cursor  int
	line    int
	putback int
	token   Token
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source []byte) *Scanner {
	s := &Scanner{}
	s.Reset(source)
	return s
}

// Reset re-initializes the scanner with new source.
func (s *Scanner) Reset(source []byte) {
	s.source = source
	s.cursor = 0
	s.line = 1
	s.putback = empty
	s.token = Token{Kind: KindEOF, Line: 1}
}

// Token returns the most recently scanned token.
func (s *Scanner) Token() Token {
	return s.token
}

// Scan advances to the next token. It reports false once the input is
// exhausted, in which case the current token is KindEOF.
func (s *Scanner) Scan() (bool, error) {
	c := s.skip()

	var kind Kind
	switch c {
	case eof:
		s.token = Token{Kind: KindEOF, Line: s.line}
		return false, nil
	case '+':
		kind = KindPlus
	case '-':
		kind = KindMinus
	case '*':
		kind = KindStar
	case '/':
		kind = KindSlash
	case ';':
		kind = KindSemi
	default:
		if isDigit(c) {
			line := s.line
			s.token = Token{Kind: KindIntLit, Value: s.scanint(c), Line: line}
			return true, nil
		}
		if isAlpha(c) || c == '_' {
			line := s.line
			ident, err := s.scanident(c)
			if err != nil {
				return false, err
			}
			kw, ok := keywords[ident]
			if !ok {
				return false, diag.Lexical(line, "unrecognised symbol %s", ident)
			}
			s.token = Token{Kind: kw, Line: line}
			return true, nil
		}
		return false, diag.Lexical(s.line, "unrecognised character '%c'", rune(c))
	}

	s.token = Token{Kind: kind, Line: s.line}
	return true, nil
}

// next returns one raw character, draining the pushback slot first.
func (s *Scanner) next() int {
	if s.putback != empty {
		c := s.putback
		s.putback = empty
		return c
	}

	if s.cursor >= len(s.source) {
		return eof
	}
	c := int(s.source[s.cursor])
	s.cursor++
	if c == '\n' {
		s.line++
	}
	return c
}

func (s *Scanner) unread(c int) {
	s.putback = c
}

// skip returns the first character that is not whitespace.
func (s *Scanner) skip() int {
	c := s.next()
	for c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' {
		c = s.next()
	}
	return c
}

// scanint accumulates a decimal literal starting at c. The first non-digit
// is pushed back for the next scan.
func (s *Scanner) scanint(c int) int64 {
	var val int64
	for isDigit(c) {
		val = val*10 + int64(c-'0')
		c = s.next()
	}
	s.unread(c)
	return val
}

func (s *Scanner) scanident(c int) (string, error) {
	buf := make([]byte, 0, 16)
	for isAlpha(c) || isDigit(c) || c == '_' {
		if len(buf) == MaxIdentLen {
			return "", diag.Lexical(s.line, "identifier too long")
		}
		buf = append(buf, byte(c))
		c = s.next()
	}
	s.unread(c)
	return string(buf), nil
}

func isDigit(ch int) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch int) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
