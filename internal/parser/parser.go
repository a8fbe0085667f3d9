/*
 * SN/X - Recursive-descent parser.
 *
 * Copyright 2026, SN/X project contributors.
 */

// Package parser implements the SN/X recursive-descent parser: tokens
// to AST (lines, labels, instructions, operands), per spec.md §4.D.
package parser

import (
	"strconv"
	"strings"

	"github.com/snowykr/snx-simulator/internal/ast"
	"github.com/snowykr/snx-simulator/internal/diag"
	"github.com/snowykr/snx-simulator/internal/token"
)

// Parser consumes a token stream one line at a time, building an
// ast.Program and reporting P-series/S001 diagnostics as it goes.
type Parser struct {
	tokens      []token.Token
	pos         int
	diags       *diag.Collector
	sourceLines []string
}

// New creates a Parser over tokens, with source kept around only to
// recover each line's raw text for ast.Line.Raw.
func New(source string, tokens []token.Token, diags *diag.Collector) *Parser {
	return &Parser{
		tokens:      tokens,
		diags:       diags,
		sourceLines: strings.Split(source, "\n"),
	}
}

// Parse runs the parser to completion and returns the resulting AST.
func Parse(source string, tokens []token.Token, diags *diag.Collector) *ast.Program {
	p := New(source, tokens, diags)
	return p.ParseProgram()
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) rawLine(number int) string {
	if number-1 >= 0 && number-1 < len(p.sourceLines) {
		return p.sourceLines[number-1]
	}
	return ""
}

// ParseProgram parses every line in the token stream.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.atEOF() {
		line := p.parseLine()
		prog.Lines = append(prog.Lines, line)
	}
	return prog
}

// parseLine parses [label_def] [instruction] EOL and consumes the
// terminating EOL (or stops at EOF).
func (p *Parser) parseLine() ast.Line {
	lineNumber := p.peek().Span.StartLine
	line := ast.Line{Number: lineNumber, Raw: p.rawLine(lineNumber)}

	if p.peek().Kind == token.EOL {
		p.advance()
		return line
	}

	if p.peek().Kind == token.IDENT && p.peekKindAt(1) == token.COLON {
		labelTok := p.advance()
		colonTok := p.advance()
		line.Label = &ast.LabelDef{
			Name: labelTok.Normalized,
			Raw:  labelTok.Lexeme,
			Span: diag.SourceSpan{
				StartLine: labelTok.Span.StartLine,
				StartCol:  labelTok.Span.StartCol,
				EndLine:   colonTok.Span.EndLine,
				EndCol:    colonTok.Span.EndCol,
			},
		}
	}

	switch p.peek().Kind {
	case token.EOL:
		p.advance()
		return line
	case token.EOF:
		return line
	case token.IDENT:
		line.Instruction = p.parseInstruction()
	default:
		p.reportUnexpected(p.peek())
		p.skipToEOL()
	}

	if p.peek().Kind == token.EOL {
		p.advance()
	}
	return line
}

func (p *Parser) peekKindAt(offset int) token.Kind {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return token.EOF
	}
	return p.tokens[idx].Kind
}

// parseInstruction parses IDENT operand_list? and skips to the next
// EOL on any error, per spec.md §4.D's recovery rule.
func (p *Parser) parseInstruction() *ast.InstructionNode {
	mnemonicTok := p.advance()
	node := &ast.InstructionNode{Mnemonic: mnemonicTok.Lexeme, Span: mnemonicTok.Span}

	op, ok := ast.OpcodeFromString(mnemonicTok.Normalized)
	if !ok {
		p.diags.AddLineError(diag.Diagnostic{
			Code:    diag.CodeUnknownOpcode,
			Sev:     diag.SeverityError,
			Message: "unknown opcode mnemonic '" + mnemonicTok.Lexeme + "'",
			Span:    mnemonicTok.Span,
		})
		node.Opcode = ast.OpInvalid
	} else {
		node.Opcode = op
	}

	for {
		switch p.peek().Kind {
		case token.EOL, token.EOF:
			return node
		}
		operand, ok := p.parseOperand()
		if !ok {
			p.skipToEOL()
			return node
		}
		node.Operands = append(node.Operands, operand)

		if p.peek().Kind == token.COMMA {
			p.advance()
			continue
		}
		return node
	}
}

// parseOperand parses one of REGISTER | NUMBER '(' REGISTER ')' |
// IDENT, reporting P002-P006 on malformed input.
func (p *Parser) parseOperand() (ast.Operand, bool) {
	switch p.peek().Kind {
	case token.REGISTER:
		tok := p.advance()
		idx, err := parseRegisterIndex(tok.Lexeme)
		if err != nil {
			p.diags.AddLineError(diag.Diagnostic{
				Code:    diag.CodeMalformedRegister,
				Sev:     diag.SeverityError,
				Message: "malformed register '" + tok.Lexeme + "'",
				Span:    tok.Span,
			})
			return ast.Operand{}, false
		}
		return ast.RegisterOperand(idx, tok.Span), true

	case token.NUMBER:
		return p.parseAddressOperand()

	case token.IDENT:
		tok := p.advance()
		return ast.LabelRefOperand(tok.Normalized, tok.Lexeme, tok.Span), true

	default:
		p.reportUnexpected(p.peek())
		return ast.Operand{}, false
	}
}

// parseAddressOperand parses NUMBER '(' REGISTER ')'.
func (p *Parser) parseAddressOperand() (ast.Operand, bool) {
	numTok := p.advance()
	offset, err := strconv.Atoi(numTok.Lexeme)
	if err != nil || offset < -128 || offset > 127 {
		p.diags.AddLineError(diag.Diagnostic{
			Code:    diag.CodeInvalidNumber,
			Sev:     diag.SeverityError,
			Message: "invalid numeric literal '" + numTok.Lexeme + "'",
			Span:    numTok.Span,
		})
		return ast.Operand{}, false
	}

	if p.peek().Kind != token.LPAREN {
		p.diags.AddLineError(diag.Diagnostic{
			Code:    diag.CodeAddressParens,
			Sev:     diag.SeverityError,
			Message: "'(' expected in address operand",
			Span:    p.peek().Span,
		})
		return ast.Operand{}, false
	}
	p.advance()

	if p.peek().Kind != token.REGISTER {
		p.diags.AddLineError(diag.Diagnostic{
			Code:    diag.CodeAddressRegister,
			Sev:     diag.SeverityError,
			Message: "register expected in address operand",
			Span:    p.peek().Span,
		})
		return ast.Operand{}, false
	}
	baseTok := p.advance()
	base, err := parseRegisterIndex(baseTok.Lexeme)
	if err != nil {
		p.diags.AddLineError(diag.Diagnostic{
			Code:    diag.CodeMalformedRegister,
			Sev:     diag.SeverityError,
			Message: "malformed register '" + baseTok.Lexeme + "'",
			Span:    baseTok.Span,
		})
		return ast.Operand{}, false
	}

	if p.peek().Kind != token.RPAREN {
		p.diags.AddLineError(diag.Diagnostic{
			Code:    diag.CodeAddressParens,
			Sev:     diag.SeverityError,
			Message: "')' expected in address operand",
			Span:    p.peek().Span,
		})
		return ast.Operand{}, false
	}
	rparen := p.advance()

	span := diag.SourceSpan{
		StartLine: numTok.Span.StartLine,
		StartCol:  numTok.Span.StartCol,
		EndLine:   rparen.Span.EndLine,
		EndCol:    rparen.Span.EndCol,
	}
	return ast.AddressOperand(int8(offset), base, span), true
}

func parseRegisterIndex(lexeme string) (int, error) {
	digits := strings.TrimPrefix(lexeme, "$")
	if digits == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(digits)
}

func (p *Parser) reportUnexpected(tok token.Token) {
	p.diags.AddLineError(diag.Diagnostic{
		Code:    diag.CodeUnexpectedToken,
		Sev:     diag.SeverityError,
		Message: "unexpected token '" + tok.Lexeme + "'",
		Span:    tok.Span,
	})
}

// skipToEOL advances past tokens until (and including) the next EOL,
// or stops at EOF, implementing the parser's line-level error
// recovery.
func (p *Parser) skipToEOL() {
	for p.peek().Kind != token.EOL && p.peek().Kind != token.EOF {
		p.advance()
	}
	if p.peek().Kind == token.EOL {
		p.advance()
	}
}
