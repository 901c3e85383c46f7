// Copyright 2025, The DOC Authors

package cpu

import (
	"errors"
	"strconv"
	"strings"
)

// Parser parses one source text into program nodes.
// Parsing validates the shape of each line only; whether a call names
// a catalog instruction or a macro is decided during expansion.
type Parser struct {
	File    string            // Include path; empty for the root source.
	Source  string            // Source text.
	Defines map[string]string // Names visible to #( ... ) expressions.

	tokens []Token
	index  int
	macro  *MacroDef // Macro whose body is being parsed.
}

// Parse lexes and parses the source.
func (p *Parser) Parse() (nodes []Node, err error) {
	tokens, err := Lex(p.File, p.Source)
	if err != nil {
		return
	}

	return p.ParseTokens(tokens)
}

// ParseTokens parses a token sequence.
func (p *Parser) ParseTokens(tokens []Token) (nodes []Node, err error) {
	p.tokens = tokens
	p.index = 0
	p.macro = nil

	for !p.atEnd() {
		tok := p.take()

		var node Node
		switch tok.Kind {
		case TOKEN_NEWLINE:
			continue
		case TOKEN_DIRECTIVE:
			node, err = p.parseDirective(tok)
		default:
			node, err = p.parseStatement(tok)
		}
		if err != nil {
			return
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}

	return
}

func (p *Parser) atEnd() bool {
	return p.index >= len(p.tokens)
}

func (p *Parser) eof() Token {
	return Token{
		Kind:   TOKEN_EOF,
		File:   p.File,
		Offset: len(p.Source),
		LineNo: LineOf(p.Source, len(p.Source)),
	}
}

func (p *Parser) peek() Token {
	if p.atEnd() {
		return p.eof()
	}
	return p.tokens[p.index]
}

func (p *Parser) take() Token {
	tok := p.peek()
	if !p.atEnd() {
		p.index++
	}
	return tok
}

// lineEnds reports whether the next token ends the line.
func (p *Parser) lineEnds() bool {
	kind := p.peek().Kind
	return kind == TOKEN_NEWLINE || kind == TOKEN_EOF
}

// fail builds a located parse error.
func (p *Parser) fail(tok Token, errs ...error) error {
	return &ErrSyntax{
		File:   tok.File,
		Offset: tok.Offset,
		LineNo: tok.LineNo,
		Line:   lineAt(p.Source, tok.Offset),
		Err:    errors.Join(append([]error{ErrParse}, errs...)...),
	}
}

// parseStatement parses an instruction, macro call, or label declaration.
func (p *Parser) parseStatement(tok Token) (node Node, err error) {
	switch tok.Kind {
	case TOKEN_INSTRUCTION:
		var args []Arg
		args, err = p.parseArgs()
		if err != nil {
			return
		}
		node = &InstructionNode{Mnemonic: tok.Text, Args: args, Token: tok}
	case TOKEN_WORD:
		var args []Arg
		args, err = p.parseArgs()
		if err != nil {
			return
		}
		node = &MacroCall{Name: tok.Text, Args: args, Token: tok}
	case TOKEN_LABEL:
		colon := p.peek()
		if colon.Kind != TOKEN_COLON {
			err = p.fail(colon, ErrColonMissing)
			return
		}
		p.take()
		node = &Label{Name: tok.Text[1:], Token: tok}
	default:
		err = p.fail(tok, ErrStatement)
	}

	return
}

// parseArgs parses a comma separated argument list, up to the end of the line.
func (p *Parser) parseArgs() (args []Arg, err error) {
	if p.lineEnds() {
		return
	}

	for {
		var arg Arg
		arg, err = p.parseArg(p.take())
		if err != nil {
			return
		}
		args = append(args, arg)

		next := p.peek()
		if next.Kind == TOKEN_COMMA {
			p.take()
			continue
		}
		if !p.lineEnds() {
			err = p.fail(next, ErrLineEnd)
		}
		return
	}
}

func (p *Parser) parseArg(tok Token) (arg Arg, err error) {
	switch tok.Kind {
	case TOKEN_REGISTER:
		index, _ := RegisterIndex(tok.Text)
		arg = RegisterArg{Name: tok.Text, Index: index, Token: tok}
	case TOKEN_LITERAL:
		var value uint32
		value, err = p.literal(tok)
		if err != nil {
			return
		}
		arg = LiteralArg{Value: value, Token: tok}
	case TOKEN_LABEL:
		arg = LabelArg{Name: tok.Text[1:], Token: tok}
	case TOKEN_REGISTER_PARAM, TOKEN_LITERAL_PARAM:
		arg, err = p.param(tok)
	default:
		err = p.fail(tok, ErrArgumentExpected)
	}

	return
}

// param checks a parameter reference against the enclosing macro.
func (p *Parser) param(tok Token) (arg Arg, err error) {
	if p.macro == nil {
		err = p.fail(tok, ErrParamOutside)
		return
	}

	index, perr := strconv.Atoi(tok.Text[2:])
	if perr != nil {
		err = p.fail(tok, ErrParseNumber(tok.Text))
		return
	}

	if tok.Kind == TOKEN_REGISTER_PARAM {
		if index >= p.macro.Params.Register {
			err = p.fail(tok, ErrParamRange{Kind: KIND_REGISTER, Index: index})
			return
		}
		arg = RegisterParam{Index: index, Token: tok}
	} else {
		if index >= p.macro.Params.Literal {
			err = p.fail(tok, ErrParamRange{Kind: KIND_LITERAL, Index: index})
			return
		}
		arg = LiteralParam{Index: index, Token: tok}
	}

	return
}

// literal decodes an integer literal: #digits, with an optional h or b base suffix,
// or a #( ... ) expression.
func (p *Parser) literal(tok Token) (value uint32, err error) {
	text := tok.Text[1:]

	if strings.HasPrefix(text, "(") {
		value, err = evaluate(text[1:len(text)-1], p.Defines)
		if err != nil {
			err = p.fail(tok, err)
		}
		return
	}

	base := 10
	switch {
	case strings.HasSuffix(text, "h"):
		base = 16
		text = text[:len(text)-1]
	case strings.HasSuffix(text, "b"):
		base = 2
		text = text[:len(text)-1]
	}

	v64, perr := strconv.ParseUint(text, base, 64)
	if perr != nil {
		err = p.fail(tok, ErrRange, ErrParseNumber(tok.Text))
		return
	}
	if v64 > 0xffffffff {
		err = p.fail(tok, ErrRange, ErrLiteralRange{Value: v64, Max: 0xffffffff})
		return
	}

	value = uint32(v64)
	return
}

func (p *Parser) parseDirective(tok Token) (node Node, err error) {
	switch tok.Text {
	case "@macro":
		node, err = p.parseMacro(tok)
	case "@endmacro":
		err = p.fail(tok, ErrMacroLonelyEndm)
	case "@include":
		path := p.peek()
		if path.Kind != TOKEN_STRING {
			err = p.fail(path, ErrIncludePath)
			return
		}
		p.take()
		if !p.lineEnds() {
			err = p.fail(p.peek(), ErrLineEnd)
			return
		}
		node = &Include{Path: path.Text, Token: tok}
	default:
		err = p.fail(tok, ErrDirectiveUnknown)
	}

	return
}

// parseMacro parses '@macro NAME params' through the matching '@endmacro'.
func (p *Parser) parseMacro(tok Token) (node Node, err error) {
	name := p.peek()
	if name.Kind != TOKEN_WORD && name.Kind != TOKEN_INSTRUCTION {
		err = p.fail(name, ErrMacroName)
		return
	}
	p.take()

	def := &MacroDef{Name: name.Text, Token: name}

	if !p.lineEnds() {
		for {
			param := p.take()
			switch param.Kind {
			case TOKEN_REGISTER_PARAM:
				def.Params.Kinds = append(def.Params.Kinds, KIND_REGISTER)
				def.Params.Register++
			case TOKEN_LITERAL_PARAM:
				def.Params.Kinds = append(def.Params.Kinds, KIND_LITERAL)
				def.Params.Literal++
			default:
				err = p.fail(param, ErrMacroParam)
				return
			}
			if p.peek().Kind == TOKEN_COMMA {
				p.take()
				continue
			}
			if !p.lineEnds() {
				err = p.fail(p.peek(), ErrLineEnd)
				return
			}
			break
		}
	}

	p.macro = def
	defer func() { p.macro = nil }()

	for {
		if p.atEnd() {
			err = p.fail(tok, ErrMacroLonely)
			return
		}

		line := p.take()
		switch {
		case line.Kind == TOKEN_NEWLINE:
			continue
		case line.Kind == TOKEN_DIRECTIVE && line.Text == "@endmacro":
			node = def
			return
		case line.Kind == TOKEN_DIRECTIVE && line.Text == "@macro":
			err = p.fail(line, ErrMacroNesting)
			return
		case line.Kind == TOKEN_DIRECTIVE:
			err = p.fail(line, ErrMacroDirective)
			return
		}

		var stmt Node
		stmt, err = p.parseStatement(line)
		if err != nil {
			return
		}
		def.Body = append(def.Body, stmt)
	}
}
