package gq

import (
	"strings"
	"unicode/utf8"
)

type token struct {
	kind   tokenKind
	val    string
	offset int
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenColon
	tokenComma
	tokenLParen
	tokenRParen
	tokenLBrace
	tokenRBrace
)

const eof = -1

type stateFn func(*lexer) stateFn

type lexer struct {
	input  string
	index  int
	start  int
	width  int
	tokens []token
	err    *SyntaxError
}

func lexQuery(input string) ([]token, *SyntaxError) {
	l := &lexer{input: input}
	for state := lexText; state != nil; state = state(l) {
	}
	return l.tokens, l.err
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

func (l *lexer) emit(k tokenKind, val string) {
	l.tokens = append(l.tokens, token{k, val, l.start})
	l.start = l.index
}

func (l *lexer) ignore() {
	l.start = l.index
}

func (l *lexer) errorf(offset int, format string, args ...any) stateFn {
	l.err = syntaxError(l.input, offset, format, args...)
	return nil
}

func lexText(l *lexer) stateFn {
	for isWhitespace(l.peek()) {
		l.next()
	}
	l.ignore()
	switch r := l.next(); {
	case r == eof:
		l.emit(tokenEOF, "")
		return nil
	case r == '(':
		l.emit(tokenLParen, "(")
		return lexText
	case r == ')':
		l.emit(tokenRParen, ")")
		return lexText
	case r == '{':
		l.emit(tokenLBrace, "{")
		return lexText
	case r == '}':
		l.emit(tokenRBrace, "}")
		return lexText
	case r == ':':
		l.emit(tokenColon, ":")
		return lexText
	case r == ',':
		l.emit(tokenComma, ",")
		return lexText
	case r == '"':
		l.backup()
		return lexString
	case isIdentStart(r):
		l.backup()
		return lexIdent
	default:
		return l.errorf(l.start, "unexpected character %q", string(r))
	}
}

func lexIdent(l *lexer) stateFn {
	for isIdentChar(l.next()) {
	}
	l.backup()
	l.emit(tokenIdent, l.input[l.start:l.index])
	return lexText
}

func lexString(l *lexer) stateFn {
	l.next() // opening quote
	val := strings.Builder{}
	for {
		switch r := l.next(); r {
		case '"':
			l.emit(tokenString, val.String())
			return lexText
		case eof:
			return l.errorf(l.start, "unterminated string literal")
		case '\n', '\r':
			return l.errorf(l.start, "unescaped newline in string literal")
		case '\\':
			switch e := l.next(); e {
			case 'n':
				val.WriteByte('\n')
			case 't':
				val.WriteByte('\t')
			case 'r':
				val.WriteByte('\r')
			case eof:
				return l.errorf(l.start, "unterminated string literal")
			default:
				val.WriteRune(e)
			}
		default:
			val.WriteRune(r)
		}
	}
}

// Identifiers are ascii letter led alphanumeric/underscore tokens.
func isIdentStart(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || '0' <= r && r <= '9' || r == '_'
}

func isWhitespace(r rune) bool { return strings.ContainsRune(" \t\r\n\f", r) }
