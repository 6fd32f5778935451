package css

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

type Selector interface {
	Match(*html.Node) bool
	String() string
}

type ElementSelector struct {
	Element string
}

type UniversalSelector struct{}

type AttributeSelector struct {
	Key   string
	Value string
	Type  string
	match func(string, string) bool
}

type ClassSelector struct{ *AttributeSelector }

type IDSelector struct{ *AttributeSelector }

type PseudoSelector struct {
	Name  string
	match func(*html.Node) bool
}

type PseudoFunctionSelector struct {
	Name  string
	Args  string
	match func(*html.Node) bool
}

type SelectorSequence struct {
	Selectors []Selector
}

type DescendantSelector struct {
	Ancestor Selector
	Selector Selector
}

type ChildSelector struct {
	Parent   Selector
	Selector Selector
}

type UnionSelector struct {
	SelectorA Selector
	SelectorB Selector
}

var PseudoClasses = map[string]func(*html.Node) bool{
	"root":  func(n *html.Node) bool { return n.Parent != nil && n.Parent.Type == html.DocumentNode },
	"empty": isEmpty,
}

var PseudoFunctions = map[string]func(string) (func(*html.Node) bool, error){
	"not":      nil, // set in init to avoid initialization cycle with Compile
	"contains": containsText,
}

var Matchers = map[string]func(string, string) bool{
	"~=": includeMatch,
	"=":  func(av, sv string) bool { return av == sv },
	"":   func(string, string) bool { return true },
}

var Combinators = map[string]func(Selector, Selector) Selector{
	" ": func(s1, s2 Selector) Selector { return &DescendantSelector{s1, s2} },
	">": func(s1, s2 Selector) Selector { return &ChildSelector{s1, s2} },
	",": func(s1, s2 Selector) Selector { return &UnionSelector{s1, s2} },
}

func init() {
	PseudoFunctions["not"] = func(args string) (func(*html.Node) bool, error) {
		s, err := Compile(args)
		return func(n *html.Node) bool { return isElementNode(n) && !s.Match(n) }, err
	}
}

func (s *ElementSelector) Match(n *html.Node) bool        { return n.Data == s.Element }
func (s *UniversalSelector) Match(n *html.Node) bool      { return true }
func (s *PseudoSelector) Match(n *html.Node) bool         { return s.match(n) }
func (s *PseudoFunctionSelector) Match(n *html.Node) bool { return s.match(n) }

func (s *AttributeSelector) Match(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key == s.Key {
			return s.match(a.Val, s.Value)
		}
	}
	return false
}

func (s *SelectorSequence) Match(n *html.Node) bool {
	for _, s := range s.Selectors {
		if !s.Match(n) {
			return false
		}
	}
	return true
}

func (s *DescendantSelector) Match(n *html.Node) bool {
	if !s.Selector.Match(n) {
		return false
	}
	for n := n.Parent; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && s.Ancestor.Match(n) {
			return true
		}
	}
	return false
}

func (s *ChildSelector) Match(n *html.Node) bool {
	return s.Selector.Match(n) && isElementNode(n.Parent) && s.Parent.Match(n.Parent)
}

func (s *UnionSelector) Match(n *html.Node) bool {
	return s.SelectorA.Match(n) || s.SelectorB.Match(n)
}

func (s *ElementSelector) String() string   { return s.Element }
func (s *UniversalSelector) String() string { return "*" }
func (s *ClassSelector) String() string     { return "." + s.Value }
func (s *IDSelector) String() string        { return "#" + s.Value }
func (s *PseudoSelector) String() string    { return ":" + s.Name }
func (s *PseudoFunctionSelector) String() string {
	return fmt.Sprintf(":%s(%s)", s.Name, s.Args)
}
func (s *DescendantSelector) String() string { return fmt.Sprintf("%s %s", s.Ancestor, s.Selector) }
func (s *ChildSelector) String() string      { return fmt.Sprintf("%s > %s", s.Parent, s.Selector) }
func (s *UnionSelector) String() string      { return fmt.Sprintf("%s, %s", s.SelectorA, s.SelectorB) }

func (s *AttributeSelector) String() string {
	if s.Type == "" {
		return fmt.Sprintf("[%s]", s.Key)
	}
	return fmt.Sprintf("[%s%s%q]", s.Key, s.Type, s.Value)
}

func (s *SelectorSequence) String() string {
	out := &strings.Builder{}
	for _, s := range s.Selectors {
		out.WriteString(s.String())
	}
	return out.String()
}
