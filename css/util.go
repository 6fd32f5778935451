package css

import (
	"strings"

	"golang.org/x/net/html"
)

func attributeSelector(key, value, kind string) *AttributeSelector {
	if Matchers[kind] == nil {
		panic("invalid match type for attribute selector: " + kind)
	}
	return &AttributeSelector{key, value, kind, Matchers[kind]}
}

// includeMatch checks whether sValue is one of the whitespace separated
// words of value, i.e. the ~= attribute matcher.
func includeMatch(value, sValue string) bool {
	for {
		if i := strings.IndexAny(value, " \t\r\n\f"); i == -1 {
			return value == sValue
		} else if value[:i] == sValue {
			return true
		} else {
			value = value[i+1:]
		}
	}
}

func containsText(substring string) (func(*html.Node) bool, error) {
	if len(substring) >= 2 && substring[0] == '"' && substring[len(substring)-1] == '"' {
		substring = substring[1 : len(substring)-1]
	}
	return func(n *html.Node) bool {
		var out strings.Builder
		appendText(&out, n)
		return strings.Contains(out.String(), substring)
	}, nil
}

func appendText(out *strings.Builder, n *html.Node) {
	switch {
	case n == nil || n.Type == html.CommentNode:
	case n.Type == html.TextNode:
		out.WriteString(n.Data)
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			appendText(out, c)
		}
	}
}

func isEmpty(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode || c.Type == html.TextNode {
			return false
		}
	}
	return true
}

func isElementNode(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}
