// soup wraps the net/html node tree with the accessors the query engine
// needs: css selection, text extraction and attribute lookup.
package soup

import (
	"fmt"
	"io"
	"strings"

	"github.com/niklasfasching/webq/css"
	"golang.org/x/net/html"
)

// Parse builds a document from r. Parsing is lenient: malformed markup is
// repaired on a best effort basis and only reader errors surface.
func Parse(r io.Reader) (*Node, error) {
	htmlNode, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return AsNode(htmlNode), nil
}

func MustParse(r io.Reader) *Node {
	n, err := Parse(r)
	if err != nil {
		panic(err)
	}
	return n
}

func (n *Node) First(s string) *Node { return n.FirstSel(css.MustCompile(s)) }
func (n *Node) FirstSel(s css.Selector) *Node {
	if n == nil {
		return nil
	}
	return AsNode(css.First(s, AsHTMLNode(n)))
}

func (n *Node) All(s string) Nodes { return n.AllSel(css.MustCompile(s)) }
func (n *Node) AllSel(s css.Selector) Nodes {
	if n == nil {
		return nil
	}
	htmlNodes := css.All(s, AsHTMLNode(n))
	return AsNodes(&htmlNodes)
}

// Text concatenates the text of all descendant text nodes in document
// order, without any added whitespace.
func (n *Node) Text() string {
	var out strings.Builder
	appendText(&out, AsHTMLNode(n))
	return out.String()
}

// OwnText returns the node's own text and true if n is a text node.
func (n *Node) OwnText() (string, bool) {
	if n == nil || n.Type != html.TextNode {
		return "", false
	}
	return n.Data, true
}

// Name returns the tag name for element nodes and "" otherwise.
func (n *Node) Name() string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return n.Data
}

func (n *Node) OuterHTML() string {
	if n == nil {
		return ""
	}
	var out strings.Builder
	if err := html.Render(&out, AsHTMLNode(n)); err != nil {
		panic(fmt.Sprintf("could not render html: %s", err))
	}
	return out.String()
}

// Attribute returns the value of the named attribute and whether it is set.
func (n *Node) Attribute(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// ClassList returns the whitespace separated words of the class attribute.
func (n *Node) ClassList() []string {
	v, ok := n.Attribute("class")
	if !ok {
		return []string{}
	}
	return strings.Fields(v)
}

func (ns Nodes) Len() int { return len(ns) }

func (ns Nodes) Text(sep string) string {
	ss := make([]string, len(ns))
	for i, n := range ns {
		ss[i] = n.Text()
	}
	return strings.Join(ss, sep)
}
