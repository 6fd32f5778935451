package css

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

type token struct {
	category tokenCategory
	string   string
	index    int
}

type tokenCategory int

const (
	tokenEOF tokenCategory = iota
	tokenSpace
	tokenUniversal
	tokenClass
	tokenIdent
	tokenID
	tokenPseudoClass
	tokenPseudoFunction
	tokenFunctionArguments
	tokenCombinator
)

const eof = -1

type stateFn func(*lexer) stateFn

type lexer struct {
	input  string
	index  int
	start  int
	width  int
	tokens []token
	error  error
}

func lex(input string) ([]token, error) {
	l := &lexer{input: strings.TrimSpace(input)}
	for state := lexSpace; state != nil; state = state(l) {
	}
	return l.tokens, l.error
}

func (l *lexer) next() rune {
	if l.index >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.index:])
	l.width = w
	l.index += l.width
	return r
}

func (l *lexer) peek() rune {
	if l.index >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.index:])
	return r
}

func (l *lexer) backup() {
	l.index -= l.width
}

func (l *lexer) emit(c tokenCategory) {
	l.tokens = append(l.tokens, token{c, l.input[l.start:l.index], l.start})
	l.start = l.index
}

func (l *lexer) ignore() {
	l.start = l.index
}

func (l *lexer) acceptRun(f func(rune) bool) {
	for f(l.next()) {
	}
	l.backup()
}

func (l *lexer) errorf(format string, args ...any) stateFn {
	l.error = fmt.Errorf(format, args...)
	return nil
}

func lexSpace(l *lexer) stateFn {
	if isWhitespace(l.peek()) {
		l.acceptRun(isWhitespace)
		l.emit(tokenSpace)
	}
	switch r := l.next(); {
	case isCombinatorChar(r):
		l.emit(tokenCombinator)
		return lexSpace
	case r == '*':
		l.emit(tokenUniversal)
		return lexSpace
	case r == '.':
		l.ignore()
		return lexClass
	case r == '#':
		l.ignore()
		return lexID
	case r == ':':
		l.ignore()
		return lexPseudo
	case r == '(':
		l.backup()
		return lexFunctionArguments
	case r == eof:
		l.emit(tokenEOF)
		return nil
	default:
		l.backup()
		return lexIdent
	}
}

func lexClass(l *lexer) stateFn {
	if err := acceptIdentifier(l); err != nil {
		return l.errorf("%s", err)
	}
	l.emit(tokenClass)
	return lexSpace
}

func lexID(l *lexer) stateFn {
	if !isNameChar(l.peek()) {
		return l.errorf("invalid starting char for ID")
	}
	l.acceptRun(isNameChar)
	l.emit(tokenID)
	return lexSpace
}

func lexPseudo(l *lexer) stateFn {
	if l.peek() == ':' {
		return l.errorf("pseudo elements are not supported")
	}
	if err := acceptIdentifier(l); err != nil {
		return l.errorf("%s", err)
	}
	if l.peek() == '(' {
		l.emit(tokenPseudoFunction)
	} else {
		l.emit(tokenPseudoClass)
	}
	return lexSpace
}

func lexIdent(l *lexer) stateFn {
	if err := acceptIdentifier(l); err != nil {
		return l.errorf("%s", err)
	}
	if l.start == l.index {
		return l.errorf("invalid identifier")
	}
	l.emit(tokenIdent)
	return lexSpace
}

func lexFunctionArguments(l *lexer) stateFn {
	if l.next() != '(' {
		return l.errorf("invalid start of function arguments")
	}
	for lvl := 1; lvl != 0; {
		switch r := l.next(); r {
		case eof:
			return l.errorf("unterminated function arguments")
		case '(':
			lvl++
		case ')':
			lvl--
		case '"', '\'':
			l.backup()
			if err := acceptString(l); err != nil {
				return l.errorf("%s", err)
			}
		}
	}
	l.emit(tokenFunctionArguments)
	return lexSpace
}

func acceptIdentifier(l *lexer) error {
	if l.peek() == '-' {
		l.next()
	}
	if !isNameStart(l.peek()) {
		return errors.New("invalid starting char for identifier")
	}
	l.acceptRun(isNameChar)
	return nil
}

func acceptString(l *lexer) error {
	quote := l.next()
	for r := l.next(); r != quote; r = l.next() {
		switch r {
		case eof:
			return errors.New("unterminated quoted string")
		case '\\':
			l.next()
		}
	}
	return nil
}

func isNameStart(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_' || r > 127
}

func isNameChar(r rune) bool {
	return isNameStart(r) || '0' <= r && r <= '9' || r == '-'
}

func isWhitespace(r rune) bool     { return strings.ContainsRune(" \t\f\r\n", r) }
func isCombinatorChar(r rune) bool { return r != ' ' && Combinators[string(r)] != nil }
