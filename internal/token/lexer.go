package token

import (
	"strings"
	"unicode"

	"github.com/snowykr/snx-simulator/internal/diag"
)

// Lexer scans SN/X source text into a token stream. It is a stateful,
// single-pass left-to-right scanner over the source runes, in the
// character-scanning style of a hand-written assembler front end:
// small skip/scan helpers advance a cursor and return substrings,
// rather than building a DFA or using a lexer-generator library.
type Lexer struct {
	src   []rune
	pos   int
	line  int
	col   int
	diags *diag.Collector
}

// NewLexer creates a Lexer over source, reporting lexical errors into
// diags.
func NewLexer(source string, diags *diag.Collector) *Lexer {
	return &Lexer{
		src:   []rune(source),
		pos:   0,
		line:  1,
		col:   1,
		diags: diags,
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) here() diag.SourceSpan {
	return diag.SourceSpan{StartLine: l.line, StartCol: l.col, EndLine: l.line, EndCol: l.col + 1}
}

func (l *Lexer) spanFrom(startLine, startCol int) diag.SourceSpan {
	return diag.SourceSpan{StartLine: startLine, StartCol: startCol, EndLine: l.line, EndCol: l.col}
}

// Tokenize scans the entire source and returns the resulting token
// stream, terminated by a single EOF token.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok, ok := l.scanToken()
		if ok {
			tokens = append(tokens, tok)
		}
		if tok.Kind == EOF {
			break
		}
	}
	return tokens
}

// scanToken scans one token, skipping whitespace and comments first.
// ok is false only when the character scanned was a recovered L001
// error (no token is produced for it).
func (l *Lexer) scanToken() (Token, bool) {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
			continue
		case ';':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}

	if l.atEnd() {
		return Token{Kind: EOF, Span: l.here()}, true
	}

	startLine, startCol := l.line, l.col
	r := l.peek()

	switch {
	case r == '\n':
		l.advance()
		return Token{Kind: EOL, Lexeme: "\n", Normalized: "\n", Span: l.spanFrom(startLine, startCol)}, true
	case r == ',':
		l.advance()
		return Token{Kind: COMMA, Lexeme: ",", Normalized: ",", Span: l.spanFrom(startLine, startCol)}, true
	case r == ':':
		l.advance()
		return Token{Kind: COLON, Lexeme: ":", Normalized: ":", Span: l.spanFrom(startLine, startCol)}, true
	case r == '(':
		l.advance()
		return Token{Kind: LPAREN, Lexeme: "(", Normalized: "(", Span: l.spanFrom(startLine, startCol)}, true
	case r == ')':
		l.advance()
		return Token{Kind: RPAREN, Lexeme: ")", Normalized: ")", Span: l.spanFrom(startLine, startCol)}, true
	case r == '$':
		return l.scanRegister(startLine, startCol), true
	case r == '+' || r == '-' || unicode.IsDigit(r):
		if r == '+' || r == '-' {
			next := l.peekAt(1)
			if !unicode.IsDigit(next) {
				return l.scanInvalidChar(startLine, startCol), false
			}
		}
		return l.scanNumber(startLine, startCol), true
	case unicode.IsLetter(r) || r == '_':
		return l.scanIdent(startLine, startCol), true
	default:
		return l.scanInvalidChar(startLine, startCol), false
	}
}

func (l *Lexer) scanInvalidChar(startLine, startCol int) Token {
	r := l.advance()
	l.diags.Add(diag.Diagnostic{
		Code:    diag.CodeInvalidChar,
		Sev:     diag.SeverityError,
		Message: "invalid character '" + string(r) + "'",
		Span:    l.spanFrom(startLine, startCol),
	})
	return Token{}
}

func (l *Lexer) scanRegister(startLine, startCol int) Token {
	l.advance() // consume '$'
	var digits strings.Builder
	for !l.atEnd() && unicode.IsDigit(l.peek()) {
		digits.WriteRune(l.advance())
	}
	span := l.spanFrom(startLine, startCol)
	if digits.Len() == 0 {
		l.diags.Add(diag.Diagnostic{
			Code:    diag.CodeBadRegisterDigit,
			Sev:     diag.SeverityError,
			Message: "register number expected after '$'",
			Span:    span,
		})
		return Token{Kind: REGISTER, Lexeme: "$", Normalized: "$", Span: span}
	}
	lexeme := "$" + digits.String()
	return Token{Kind: REGISTER, Lexeme: lexeme, Normalized: strings.ToUpper(lexeme), Span: span}
}

func (l *Lexer) scanNumber(startLine, startCol int) Token {
	var b strings.Builder
	if l.peek() == '+' || l.peek() == '-' {
		b.WriteRune(l.advance())
	}
	for !l.atEnd() && unicode.IsDigit(l.peek()) {
		b.WriteRune(l.advance())
	}
	lexeme := b.String()
	return Token{Kind: NUMBER, Lexeme: lexeme, Normalized: lexeme, Span: l.spanFrom(startLine, startCol)}
}

func (l *Lexer) scanIdent(startLine, startCol int) Token {
	var b strings.Builder
	for !l.atEnd() && (unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek()) || l.peek() == '_') {
		b.WriteRune(l.advance())
	}
	lexeme := b.String()
	return Token{Kind: IDENT, Lexeme: lexeme, Normalized: strings.ToUpper(lexeme), Span: l.spanFrom(startLine, startCol)}
}
