package gq

import (
	"fmt"
	"strings"
)

// SyntaxError reports malformed query text. Offset is the byte offset into
// the query; Line and Col are 1-based.
type SyntaxError struct {
	Offset int
	Line   int
	Col    int
	Msg    string
}

type UnknownFunctionError struct {
	Name string
}

// TypeMismatchError reports a call evaluated in an incompatible position,
// naming the expected and actual shape.
type TypeMismatchError struct {
	Call     string
	Expected string
	Actual   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d (offset %d): %s", e.Line, e.Col, e.Offset, e.Msg)
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in %s: expected %s, got %s", e.Call, e.Expected, e.Actual)
}

func syntaxError(input string, offset int, format string, args ...any) *SyntaxError {
	if offset > len(input) {
		offset = len(input)
	}
	line, col := 1, 1
	for _, r := range input[:offset] {
		if r == '\n' {
			line, col = line+1, 1
		} else {
			col++
		}
	}
	return &SyntaxError{Offset: offset, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func kindsString(ks []bindingKind) string {
	if len(ks) == 1 && ks[0] == kindNone {
		return "no binding (root call only)"
	}
	ss := make([]string, len(ks))
	for i, k := range ks {
		ss[i] = k.String()
	}
	return strings.Join(ss, " or ") + " binding"
}

func actualString(k bindingKind) string {
	if k == kindNone {
		return "no binding (root call)"
	}
	return k.String() + " binding"
}
