// Copyright 2025, The DOC Authors

package cpu

import (
	"errors"
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// TokenKind is the lexical class of a token.
type TokenKind int

//go:generate go tool stringer -linecomment -type=TokenKind
const (
	TOKEN_EOF            = TokenKind(0)  // end of input
	TOKEN_REGISTER       = TokenKind(1)  // register
	TOKEN_INSTRUCTION    = TokenKind(2)  // instruction
	TOKEN_WORD           = TokenKind(3)  // word
	TOKEN_DIRECTIVE      = TokenKind(4)  // directive
	TOKEN_LABEL          = TokenKind(5)  // label
	TOKEN_REGISTER_PARAM = TokenKind(6)  // register parameter
	TOKEN_LITERAL_PARAM  = TokenKind(7)  // literal parameter
	TOKEN_STRING         = TokenKind(8)  // string
	TOKEN_COMMA          = TokenKind(9)  // comma
	TOKEN_COLON          = TokenKind(10) // colon
	TOKEN_NEWLINE        = TokenKind(11) // newline
	TOKEN_LITERAL        = TokenKind(12) // literal
)

// tokenSkip marks whitespace and comments, which are matched but not kept.
const tokenSkip = TokenKind(-1)

// Token is a lexical token, located in its source.
type Token struct {
	Kind   TokenKind
	Text   string // Source text; strings are unquoted.
	File   string // Include path; empty for the root source.
	Offset int    // Byte offset into the source.
	LineNo int    // 1-based line number.
}

type tokenMatcher struct {
	kind  TokenKind
	match func(input string) int // Length of the match at the start of input, or -1.
}

func matchRegexp(pattern string) func(string) int {
	re := regexp.MustCompile(`^(?:` + pattern + `)`)
	return func(input string) int {
		loc := re.FindStringIndex(input)
		if loc == nil {
			return -1
		}
		return loc[1]
	}
}

// matchExpression matches a #( ... ) compile-time expression with balanced parentheses.
func matchExpression(input string) int {
	if !strings.HasPrefix(input, "#(") {
		return -1
	}
	depth := 0
	for n := 1; n < len(input); n++ {
		switch input[n] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return n + 1
			}
		case '\n', '\r':
			return -1
		}
	}
	return -1
}

func alternatives(names []string) string {
	quoted := make([]string, len(names))
	for n, name := range names {
		quoted[n] = regexp.QuoteMeta(name)
	}
	return strings.Join(quoted, "|")
}

func registerNames() []string {
	return slices.Sorted(maps.Keys(registerMap))
}

// tokenMatchers are tried in order, and the first match wins.
var tokenMatchers = []tokenMatcher{
	{TOKEN_REGISTER, matchRegexp(`(?:` + alternatives(registerNames()) + `)\b`)},
	{TOKEN_INSTRUCTION, matchRegexp(`(?:` + alternatives(Mnemonics) + `)\b`)},
	{TOKEN_WORD, matchRegexp(`[a-zA-Z_][a-zA-Z0-9_]*`)},
	{TOKEN_DIRECTIVE, matchRegexp(`@[a-zA-Z_][a-zA-Z0-9_]*`)},
	{TOKEN_LABEL, matchRegexp(`\$[a-zA-Z_][a-zA-Z0-9_]*`)},
	{TOKEN_REGISTER_PARAM, matchRegexp(`%r[0-9]+`)},
	{TOKEN_LITERAL_PARAM, matchRegexp(`%l[0-9]+`)},
	{TOKEN_STRING, matchRegexp(`"[^"\r\n]*"`)},
	{TOKEN_COMMA, matchRegexp(`,`)},
	{TOKEN_COLON, matchRegexp(`:`)},
	{TOKEN_NEWLINE, matchRegexp(`[\r\n]+`)},
	{TOKEN_LITERAL, matchRegexp(`#(?:[0-9a-fA-F]+h|[01]+b|[0-9]+)\b`)},
	{TOKEN_LITERAL, matchExpression},
	{tokenSkip, matchRegexp(`;[^\r\n]*`)},
	{tokenSkip, matchRegexp(`[ \t\f\v]+`)},
}

// Lex splits source text into tokens.
// The file names the source in the tokens' locations.
func Lex(file string, source string) (tokens []Token, err error) {
	offset := 0
	lineno := 1

	for offset < len(source) {
		input := source[offset:]

		kind := tokenSkip
		length := -1
		for _, matcher := range tokenMatchers {
			length = matcher.match(input)
			if length > 0 {
				kind = matcher.kind
				break
			}
		}

		if length <= 0 {
			char, _ := utf8.DecodeRuneInString(input)
			err = &ErrSyntax{
				File:   file,
				Offset: offset,
				LineNo: lineno,
				Line:   lineAt(source, offset),
				Err:    errors.Join(ErrLex, ErrCharacter(char)),
			}
			return
		}

		text := input[:length]
		if kind != tokenSkip {
			if kind == TOKEN_STRING {
				text = text[1 : len(text)-1]
			}
			tokens = append(tokens, Token{
				Kind:   kind,
				Text:   text,
				File:   file,
				Offset: offset,
				LineNo: lineno,
			})
		}

		lineno += strings.Count(input[:length], "\n")
		offset += length
	}

	return
}

// lineAt returns the text of the line holding offset.
func lineAt(source string, offset int) string {
	if offset > len(source) {
		offset = len(source)
	}
	start := strings.LastIndexByte(source[:offset], '\n') + 1
	end := strings.IndexAny(source[start:], "\r\n")
	if end < 0 {
		return strings.TrimSpace(source[start:])
	}
	return strings.TrimSpace(source[start : start+end])
}

// LineOf returns the 1-based line number of a byte offset into source.
func LineOf(source string, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return strings.Count(source[:offset], "\n") + 1
}
