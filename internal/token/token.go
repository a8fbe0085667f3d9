/*
 * SN/X - Token stream types.
 *
 * Copyright 2026, SN/X project contributors.
 */

// Package token implements the SN/X tokenizer: a single-pass,
// left-to-right scanner producing a token stream with line/column
// spans, per spec.md §4.C.
package token

import "github.com/snowykr/snx-simulator/internal/diag"

// Kind identifies a token's lexical category.
type Kind int

const (
	IDENT Kind = iota
	NUMBER
	REGISTER
	COMMA
	COLON
	LPAREN
	RPAREN
	EOL
	EOF
)

func (k Kind) String() string {
	switch k {
	case IDENT:
		return "IDENT"
	case NUMBER:
		return "NUMBER"
	case REGISTER:
		return "REGISTER"
	case COMMA:
		return "COMMA"
	case COLON:
		return "COLON"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case EOL:
		return "EOL"
	case EOF:
		return "EOF"
	default:
		return "?"
	}
}

// Token is one scanned token: its kind, the literal lexeme as written,
// a normalized form (uppercased, for IDENT and REGISTER only — equal
// to Lexeme for every other kind), and its source span.
type Token struct {
	Kind       Kind
	Lexeme     string
	Normalized string
	Span       diag.SourceSpan
}
