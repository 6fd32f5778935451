// gq implements a nested query language for web scraping: a query fetches
// a document, narrows it by css selection and extracts fields; the JSON
// result mirrors the shape of the query.
package gq

import (
	"context"
	"slices"

	"github.com/niklasfasching/webq/css"
	"github.com/niklasfasching/webq/soup"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Evaluator walks a parsed query and produces its result tree. Documents
// are immutable once parsed, so sibling fields of a block evaluate
// concurrently and only join on the declared field order.
type Evaluator struct {
	Fetcher *soup.Fetcher
	Log     *zap.Logger
}

type bindingKind int

const (
	kindNone bindingKind = iota
	kindDocument
	kindNode
	kindNodeList
	kindScalar
)

// binding is the value a call evaluates against: a document, a single
// node, an ordered node list, or a scalar.
type binding struct {
	kind   bindingKind
	node   *soup.Node
	nodes  soup.Nodes
	scalar Value
}

// builtin describes one query function: which binding kinds it accepts,
// its arguments, whether it produces a scalar (leaf position only) and
// the binding kind its field block evaluates against. Adding a function
// is one more table entry.
type builtin struct {
	binds  []bindingKind
	args   []string
	scalar bool
	child  bindingKind
	eval   func(context.Context, *Evaluator, *Call, binding) (binding, error)
}

var builtins = map[string]*builtin{
	"get": {
		binds: []bindingKind{kindNone},
		args:  []string{"url"},
		child: kindDocument,
		eval: func(ctx context.Context, ev *Evaluator, c *Call, _ binding) (binding, error) {
			url, _ := c.Arg("url")
			ev.log("get", zap.String("url", url))
			doc, err := ev.Fetcher.Fetch(ctx, url)
			if err != nil {
				return binding{}, err
			}
			return binding{kind: kindDocument, node: doc}, nil
		},
	},
	"select": {
		binds: []bindingKind{kindDocument, kindNode},
		args:  []string{"select"},
		child: kindNode,
		eval: func(_ context.Context, ev *Evaluator, c *Call, b binding) (binding, error) {
			s, _ := c.Arg("select")
			ns := b.node.AllSel(css.MustCompile(s))
			ev.log("select", zap.String("select", s), zap.Int("matches", len(ns)))
			return binding{kind: kindNodeList, nodes: ns}, nil
		},
	},
	"querySelector": {
		binds: []bindingKind{kindDocument, kindNode},
		args:  []string{"select"},
		child: kindNode,
		eval: func(_ context.Context, ev *Evaluator, c *Call, b binding) (binding, error) {
			s, _ := c.Arg("select")
			n := b.node.FirstSel(css.MustCompile(s))
			ev.log("querySelector", zap.String("select", s), zap.Bool("match", n != nil))
			if n == nil {
				return binding{kind: kindScalar}, nil
			}
			return binding{kind: kindNode, node: n}, nil
		},
	},
	"attr": {
		binds:  []bindingKind{kindNode},
		args:   []string{"attr"},
		scalar: true,
		eval: func(_ context.Context, _ *Evaluator, c *Call, b binding) (binding, error) {
			key, _ := c.Arg("attr")
			return scalarBinding(b.node.Attribute(key)), nil
		},
	},
	"href": {
		binds:  []bindingKind{kindNode},
		scalar: true,
		eval: func(_ context.Context, _ *Evaluator, _ *Call, b binding) (binding, error) {
			return scalarBinding(b.node.Attribute("href")), nil
		},
	},
	"text": {
		binds:  []bindingKind{kindNode},
		scalar: true,
		eval: func(_ context.Context, _ *Evaluator, _ *Call, b binding) (binding, error) {
			return binding{kind: kindScalar, scalar: b.node.Text()}, nil
		},
	},
	"thisText": {
		binds:  []bindingKind{kindNode},
		scalar: true,
		eval: func(_ context.Context, _ *Evaluator, _ *Call, b binding) (binding, error) {
			return scalarBinding(b.node.OwnText()), nil
		},
	},
	"html": {
		binds:  []bindingKind{kindNode},
		scalar: true,
		eval: func(_ context.Context, _ *Evaluator, _ *Call, b binding) (binding, error) {
			return binding{kind: kindScalar, scalar: b.node.OuterHTML()}, nil
		},
	},
	"name": {
		binds:  []bindingKind{kindNode},
		scalar: true,
		eval: func(_ context.Context, _ *Evaluator, _ *Call, b binding) (binding, error) {
			return binding{kind: kindScalar, scalar: b.node.Name()}, nil
		},
	},
	"class": {
		binds:  []bindingKind{kindNode},
		scalar: true,
		eval: func(_ context.Context, _ *Evaluator, _ *Call, b binding) (binding, error) {
			return binding{kind: kindScalar, scalar: b.node.ClassList()}, nil
		},
	},
}

// Eval validates and evaluates the root call. Any error aborts the whole
// evaluation; there is no partial result.
func (ev *Evaluator) Eval(ctx context.Context, c *Call) (Value, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	return ev.evalCall(ctx, c, binding{kind: kindNone})
}

func (ev *Evaluator) evalCall(ctx context.Context, c *Call, b binding) (Value, error) {
	bi := builtins[c.Name]
	if bi == nil {
		return nil, &UnknownFunctionError{Name: c.Name}
	}
	if !slices.Contains(bi.binds, b.kind) {
		return nil, &TypeMismatchError{Call: c.Name, Expected: kindsString(bi.binds), Actual: actualString(b.kind)}
	}
	out, err := bi.eval(ctx, ev, c, b)
	if err != nil {
		return nil, err
	}
	if len(c.Fields) == 0 {
		return out.scalar, nil
	}
	switch out.kind {
	case kindNodeList:
		vs := make([]Value, len(out.nodes))
		for i, n := range out.nodes {
			v, err := ev.evalFields(ctx, c.Fields, binding{kind: kindNode, node: n})
			if err != nil {
				return nil, err
			}
			vs[i] = v
		}
		return vs, nil
	case kindDocument, kindNode:
		return ev.evalFields(ctx, c.Fields, out)
	default:
		// querySelector without a match binds null; its block renders null
		return nil, nil
	}
}

// evalFields fans sibling fields out over a worker group and joins their
// results by declared index, so output order is declaration order no
// matter when each field finishes.
func (ev *Evaluator) evalFields(ctx context.Context, fields []Field, b binding) (Value, error) {
	g, ctx := errgroup.WithContext(ctx)
	vs := make([]Value, len(fields))
	for i, f := range fields {
		i, f := i, f
		g.Go(func() error {
			v, err := ev.evalCall(ctx, f.Call, b)
			vs[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	o := NewObject()
	for i, f := range fields {
		o.Set(f.Key(), vs[i])
	}
	return o, nil
}

func (ev *Evaluator) log(msg string, fields ...zap.Field) {
	if ev.Log != nil {
		ev.Log.Debug(msg, fields...)
	}
}

func scalarBinding(s string, ok bool) binding {
	if !ok {
		return binding{kind: kindScalar}
	}
	return binding{kind: kindScalar, scalar: s}
}

func (k bindingKind) String() string {
	switch k {
	case kindNone:
		return "none"
	case kindDocument:
		return "document"
	case kindNode:
		return "node"
	case kindNodeList:
		return "node list"
	case kindScalar:
		return "scalar"
	default:
		return "unknown"
	}
}
