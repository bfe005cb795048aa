package asm

import (
	"regexp"
	"strconv"
	"strings"
)

// TokenKind classifies one lexical token.
type TokenKind int

const (
	EndOfLine TokenKind = iota
	Mnemonic
	Number
	String
	Identifier
	Directive
)

func (k TokenKind) String() string {
	switch k {
	case EndOfLine:
		return "end of line"
	case Mnemonic:
		return "mnemonic"
	case Number:
		return "number"
	case String:
		return "string"
	case Identifier:
		return "identifier"
	case Directive:
		return "directive"
	default:
		return "unknown"
	}
}

// Token is one lexical unit out of a source line.
type Token struct {
	Kind   TokenKind
	Text   string // the raw source slice, as written
	Line   int
	Column int

	Num int32  // valid when Kind == Number
	Str string // valid when Kind == String (NUL and quotes stripped)
}

// mnemonicSet is the set of recognized instruction words, matched
// case-insensitively; it mirrors vm's opcode mnemonics plus the
// assembler-only "print" pseudo-instruction.
var mnemonicSet = map[string]bool{
	"out": true, "in": true, "push": true, "pair": true, "swap": true,
	"pop": true, "halt": true, "die": true, "gc": true,
	"assert_allocated": true, "print": true,
}

// TokenLine is the tokenized form of one source line, always terminated
// by a sentinel EndOfLine token so arity checks can test "is there
// another token" without indexing past the slice.
type TokenLine struct {
	Tokens []Token
	Line   int
	owned  bool // true for the line as freshly lexed; false for a view
}

// Advance returns the view of tl starting n tokens in — used by the
// parser to read a directive's operands and by the expander to read a
// mnemonic's arguments once the leading token has been consumed.
func (tl TokenLine) Advance(n int) TokenLine {
	return TokenLine{Tokens: tl.Tokens[n:], Line: tl.Line, owned: false}
}

// First returns tl's leading token; every TokenLine has a terminating
// EndOfLine token, so this never panics on an empty line (those are
// filtered out by Lex before they become a TokenLine).
func (tl TokenLine) First() Token { return tl.Tokens[0] }

// Len reports the number of tokens before the terminating EndOfLine.
func (tl TokenLine) Len() int { return len(tl.Tokens) - 1 }

// stripComment removes a trailing `;` comment, honoring strings: a `;`
// inside a quoted string does not start a comment.
func stripComment(line string) string {
	inString := false
	for i, r := range line {
		switch r {
		case '"':
			inString = !inString
		case ';':
			if !inString {
				return line[:i]
			}
		}
	}
	return line
}

// Lex tokenizes source into one TokenLine per non-blank input line.
// Comments and surrounding whitespace are stripped first; a 1-indexed
// line number is attached to every token for diagnostics.
//
// Every line is tokenized even after an earlier one fails, so a single
// run can surface more than one lexical error; the accumulated errs is
// returned as an ErrList once it reaches maxErrors or the input ends.
func Lex(source string) ([]TokenLine, error) {
	var lines []TokenLine
	var errs ErrList
	for i, raw := range strings.Split(source, "\n") {
		if len(errs) >= maxErrors {
			break
		}
		lineNo := i + 1
		text := strings.TrimSpace(stripComment(raw))
		if text == "" {
			continue
		}
		toks, err := lexLine(text, lineNo)
		if err != nil {
			errs = append(errs, err.(*Error))
			continue
		}
		toks = append(toks, Token{Kind: EndOfLine, Line: lineNo})
		lines = append(lines, TokenLine{Tokens: toks, Line: lineNo, owned: true})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return lines, nil
}

func lexLine(text string, lineNo int) ([]Token, error) {
	var toks []Token
	i := 0
	for i < len(text) {
		for i < len(text) && isSpace(text[i]) {
			i++
		}
		if i >= len(text) {
			break
		}
		col := i + 1
		if text[i] == '"' {
			j := i + 1
			for j < len(text) && text[j] != '"' {
				j++
			}
			if j >= len(text) {
				return nil, &Error{Line: lineNo, Column: col, Msg: "unterminated string literal"}
			}
			toks = append(toks, Token{
				Kind: String, Text: text[i : j+1], Line: lineNo, Column: col,
				Str: text[i+1 : j],
			})
			i = j + 1
			continue
		}
		j := i
		for j < len(text) && !isSpace(text[j]) {
			j++
		}
		word := text[i:j]
		tok, err := classify(word, lineNo, col)
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		i = j
	}
	return toks, nil
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }

// identifierPattern is the only shape of token that may fall through to
// Identifier once directive/number/mnemonic have been ruled out; anything
// else (a malformed number like "3abc" or "010", stray punctuation like
// "$$$") is a lex error rather than a silently accepted identifier.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func classify(word string, line, col int) (Token, error) {
	if strings.HasPrefix(word, "%") {
		rest := strings.ToLower(word[1:])
		if rest != "repeat" && rest != "end" {
			return Token{}, &Error{Line: line, Column: col, Msg: "unknown directive %" + word[1:]}
		}
		return Token{Kind: Directive, Text: word, Line: line, Column: col}, nil
	}
	if n, ok := parseNumber(word); ok {
		return Token{Kind: Number, Text: word, Line: line, Column: col, Num: n}, nil
	}
	if mnemonicSet[strings.ToLower(word)] {
		return Token{Kind: Mnemonic, Text: strings.ToLower(word), Line: line, Column: col}, nil
	}
	if identifierPattern.MatchString(word) {
		return Token{Kind: Identifier, Text: word, Line: line, Column: col}, nil
	}
	return Token{}, &Error{Line: line, Column: col, Msg: "malformed token " + word}
}

// parseNumber accepts decimal or 0x-prefixed hex, rejecting values whose
// magnitude would not fit in a signed 32-bit word — the "top bit set"
// overflow case the original assembler treats as a lex-time error rather
// than silently wrapping. A multi-digit token with a leading zero that
// isn't a 0x/0X hex prefix is rejected outright rather than parsed as
// octal: this grammar's numbers are "0" or [1-9][0-9]*, optionally
// hex-prefixed, with no C-style octal form.
func parseNumber(word string) (int32, bool) {
	if word == "" {
		return 0, false
	}
	neg := false
	rest := word
	if rest[0] == '-' || rest[0] == '+' {
		neg = rest[0] == '-'
		rest = rest[1:]
	}
	if rest == "" {
		return 0, false
	}
	if !isDigit(rest[0]) {
		return 0, false
	}
	if len(rest) > 1 && rest[0] == '0' && rest[1] != 'x' && rest[1] != 'X' {
		return 0, false
	}
	if strings.ContainsRune(rest, '_') {
		return 0, false
	}
	n, err := strconv.ParseUint(rest, 0, 32)
	if err != nil {
		return 0, false
	}
	if n > 1<<31 || (!neg && n == 1<<31) {
		return 0, false
	}
	v := int32(n)
	if neg {
		v = -v
	}
	return v, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
