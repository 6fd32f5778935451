package gq

import (
	"fmt"
	"slices"
	"strings"

	"github.com/niklasfasching/webq/css"
)

// Validate checks a parsed query against the builtin table before any
// fetch happens: function names, binding compatibility, argument shape,
// selector syntax and leaf/block positions.
func Validate(c *Call) error {
	return validateCall(c, kindNone)
}

func validateCall(c *Call, k bindingKind) error {
	bi := builtins[c.Name]
	if bi == nil {
		return &UnknownFunctionError{Name: c.Name}
	}
	if !slices.Contains(bi.binds, k) {
		return &TypeMismatchError{Call: c.Name, Expected: kindsString(bi.binds), Actual: actualString(k)}
	}
	for _, name := range bi.args {
		if _, ok := c.Arg(name); !ok {
			return &TypeMismatchError{Call: c.Name, Expected: fmt.Sprintf("argument %q", name), Actual: "no such argument"}
		}
	}
	for _, a := range c.Args {
		if !slices.Contains(bi.args, a.Name) {
			return &TypeMismatchError{Call: c.Name, Expected: argsString(bi.args), Actual: fmt.Sprintf("argument %q", a.Name)}
		}
		if a.Name == "select" {
			if _, err := css.Compile(a.Value); err != nil {
				return &TypeMismatchError{Call: c.Name, Expected: "valid css selector", Actual: fmt.Sprintf("%q (%s)", a.Value, err)}
			}
		}
	}
	if bi.scalar && len(c.Fields) > 0 {
		return &TypeMismatchError{Call: c.Name, Expected: "leaf position (scalar result)", Actual: "field block"}
	}
	if !bi.scalar && len(c.Fields) == 0 {
		return &TypeMismatchError{Call: c.Name, Expected: "field block", Actual: "leaf position"}
	}
	for _, f := range c.Fields {
		if err := validateCall(f.Call, bi.child); err != nil {
			return err
		}
	}
	return nil
}

func argsString(args []string) string {
	if len(args) == 0 {
		return "no arguments"
	}
	return "arguments (" + strings.Join(args, ", ") + ")"
}
